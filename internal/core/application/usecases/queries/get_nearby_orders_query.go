// Package queries contains read operations for retrieving system state.
// Implements the Query pattern for read operations in the CQRS architecture.
// Queries return optimized read models for specific use cases.
package queries

import (
	"errors"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/errs"
	"fooddelivery/internal/pkg/guard"
)

// DefaultNearbyRadiusKm is the search radius used when the caller does not
// specify one.
const DefaultNearbyRadiusKm = 10.0

var (
	ErrGetNearbyOrdersQueryIsNotConstructed = errors.New(
		"GetNearbyOrdersQuery must be created via NewGetNearbyOrdersQuery constructor",
	)
)

// GetNearbyOrdersQuery retrieves confirmed orders within a radius of an
// agent's last reported position, nearest first. Only orders strictly
// inside the radius are returned; an order exactly at the boundary is
// excluded.
//
// Example:
//
//	query, err := NewGetNearbyOrdersQuery(agentID, DefaultNearbyRadiusKm)
//	if err != nil {
//	    return fmt.Errorf("invalid nearby query: %w", err)
//	}
//
//	handler := NewGetNearbyOrdersQueryHandler(db)
//	orders, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to find nearby orders: %w", err)
//	}
//	fmt.Printf("Found %d orders within %.0f km\n", len(orders), query.RadiusKm())
type GetNearbyOrdersQuery struct { //nolint:recvcheck //using for validation
	agentID  kernel.UUID
	radiusKm float64

	guard guard.ConstructorGuard
}

// NewGetNearbyOrdersQuery creates a query for confirmed orders near an
// agent. A non-positive radius is rejected; pass DefaultNearbyRadiusKm for
// the standard search distance.
func NewGetNearbyOrdersQuery(agentID kernel.UUID, radiusKm float64) (GetNearbyOrdersQuery, error) {
	nearbyQuery := GetNearbyOrdersQuery{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		nearbyQuery.setAgentID(agentID),
		nearbyQuery.setRadiusKm(radiusKm),
	); err != nil {
		return GetNearbyOrdersQuery{}, err
	}

	return nearbyQuery, nil
}

// Validate ensures the query was created through the constructor.
func (q GetNearbyOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetNearbyOrdersQueryIsNotConstructed)
}

// AgentID returns the agent the search is anchored on.
func (q GetNearbyOrdersQuery) AgentID() kernel.UUID {
	return q.agentID
}

// RadiusKm returns the search radius in kilometers.
func (q GetNearbyOrdersQuery) RadiusKm() float64 {
	return q.radiusKm
}

func (q *GetNearbyOrdersQuery) setAgentID(agentID kernel.UUID) error {
	if err := agentID.Validate(); err != nil {
		return err
	}

	q.agentID = agentID
	return nil
}

func (q *GetNearbyOrdersQuery) setRadiusKm(radiusKm float64) error {
	if radiusKm <= 0 {
		return errs.NewValueIsInvalidError("radiusKm")
	}

	q.radiusKm = radiusKm
	return nil
}

// GetNearbyOrdersQueryResponse represents a confirmed order available for
// pickup near the queried agent.
type GetNearbyOrdersQueryResponse struct {
	ID              kernel.UUID
	CustomerName    string
	DeliveryAddress string
	Location        kernel.GeoPoint
	TotalAmount     float64
	DistanceKm      float64
}
