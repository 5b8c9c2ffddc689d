package queries

import (
	"context"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetUndeliveredOrdersQueryHandler retrieves in-flight orders from the database.
// Filters out terminal orders to provide active workload visibility.
type GetUndeliveredOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetUndeliveredOrdersQueryHandler creates a handler for in-flight order
// queries. Requires a GORM database connection for query execution.
func NewGetUndeliveredOrdersQueryHandler(db *gorm.DB) GetUndeliveredOrdersQueryHandler {
	return GetUndeliveredOrdersQueryHandler{db: db}
}

// Handle executes the query to retrieve all undelivered orders.
// Returns every order outside the terminal "delivered" and "cancelled"
// statuses, sorted by when their status last changed.
func (h GetUndeliveredOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetUndeliveredOrdersQuery,
) ([]GetUndeliveredOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orders := make([]GetUndeliveredOrdersQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			customer_name,
			delivery_address,
			delivery_lat,
			delivery_lng,
			status,
			agent_id,
			status_changed_at
		FROM orders
		WHERE status NOT IN (?, ?)
		ORDER BY status_changed_at
	`, order.Delivered, order.Cancelled).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var orderResp GetUndeliveredOrdersQueryResponse
		var lat, lng float64
		var id uuid.UUID
		var agentID *uuid.UUID
		var status int

		err = rows.Scan(
			&id,
			&orderResp.CustomerName,
			&orderResp.DeliveryAddress,
			&lat,
			&lng,
			&status,
			&agentID,
			&orderResp.StatusChangedAt,
		)
		if err != nil {
			return nil, err
		}

		orderID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		orderResp.ID = orderID

		if agentID != nil {
			assignee, agentErr := kernel.UUIDFromBytes(agentID[:])
			if agentErr != nil {
				return nil, agentErr
			}
			orderResp.AgentID = &assignee
		}

		location, locErr := kernel.NewGeoPoint(lat, lng)
		if locErr != nil {
			return nil, locErr
		}
		orderResp.Location = location
		orderResp.Status = order.Status(status)

		orders = append(orders, orderResp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}
