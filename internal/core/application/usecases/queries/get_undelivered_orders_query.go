package queries

import (
	"errors"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/pkg/guard"
)

var (
	ErrGetUndeliveredOrdersQueryIsNotConstructed = errors.New(
		"GetUndeliveredOrdersQuery must be created via NewGetUndeliveredOrdersQuery constructor",
	)
)

// GetUndeliveredOrdersQuery retrieves every order still in flight.
// Returns orders outside the terminal statuses for monitoring dashboards.
//
// Example:
//
//	query := NewGetUndeliveredOrdersQuery()
//	handler := NewGetUndeliveredOrdersQueryHandler(db)
//
//	orders, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to get undelivered orders: %w", err)
//	}
//	fmt.Printf("%d orders are still in flight\n", len(orders))
type GetUndeliveredOrdersQuery struct {
	guard guard.ConstructorGuard
}

// NewGetUndeliveredOrdersQuery creates a query to retrieve in-flight orders.
// This is a parameterless query that fetches all non-terminal orders.
func NewGetUndeliveredOrdersQuery() GetUndeliveredOrdersQuery {
	return GetUndeliveredOrdersQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetUndeliveredOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetUndeliveredOrdersQueryIsNotConstructed)
}

// GetUndeliveredOrdersQueryResponse represents one in-flight order.
// AgentID is nil until an agent accepts the order.
type GetUndeliveredOrdersQueryResponse struct {
	ID              kernel.UUID
	CustomerName    string
	DeliveryAddress string
	Location        kernel.GeoPoint
	Status          order.Status
	AgentID         *kernel.UUID
	StatusChangedAt time.Time
}
