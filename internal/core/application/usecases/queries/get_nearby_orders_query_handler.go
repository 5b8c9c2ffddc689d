package queries

import (
	"context"
	"database/sql"
	"errors"
	"sort"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetNearbyOrdersQueryHandler finds confirmed orders close to an agent.
// The agent's last reported position is resolved from the read model, then
// confirmed orders are fetched with direct SQL and the great-circle distance
// filter is applied in memory, since the distance math lives in the kernel.
//
// Example:
//
//	handler := NewGetNearbyOrdersQueryHandler(db)
//	query, _ := NewGetNearbyOrdersQuery(agentID, DefaultNearbyRadiusKm)
//
//	nearby, err := handler.Handle(ctx, query)
//	if err != nil {
//	    log.Printf("Failed to find nearby orders: %v", err)
//	    return err
//	}
//
//	for _, o := range nearby {
//	    fmt.Printf("Order %s is %.2f km away\n", o.ID, o.DistanceKm)
//	}
type GetNearbyOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetNearbyOrdersQueryHandler creates a handler for nearby-order queries.
// Requires a GORM database connection for query execution.
func NewGetNearbyOrdersQueryHandler(db *gorm.DB) GetNearbyOrdersQueryHandler {
	return GetNearbyOrdersQueryHandler{db: db}
}

// Handle executes the nearby-order search.
// Returns confirmed orders whose delivery location lies strictly within the
// query radius of the agent's position, sorted nearest first. Returns
// ObjectNotFoundError when the agent is not registered.
func (h GetNearbyOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetNearbyOrdersQuery,
) ([]GetNearbyOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	center, err := h.agentPosition(ctx, query.AgentID())
	if err != nil {
		return nil, err
	}

	orders := make([]GetNearbyOrdersQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			customer_name,
			delivery_address,
			delivery_lat,
			delivery_lng,
			total_amount
		FROM orders
		WHERE status = ?
		ORDER BY id
	`, order.Confirmed).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var orderResp GetNearbyOrdersQueryResponse
		var lat, lng float64
		var id uuid.UUID

		err = rows.Scan(
			&id,
			&orderResp.CustomerName,
			&orderResp.DeliveryAddress,
			&lat,
			&lng,
			&orderResp.TotalAmount,
		)
		if err != nil {
			return nil, err
		}

		orderID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		orderResp.ID = orderID

		location, locErr := kernel.NewGeoPoint(lat, lng)
		if locErr != nil {
			return nil, locErr
		}
		orderResp.Location = location

		distanceKm, distErr := center.DistanceKm(location)
		if distErr != nil {
			return nil, distErr
		}
		if distanceKm >= query.RadiusKm() {
			continue
		}
		orderResp.DistanceKm = distanceKm

		orders = append(orders, orderResp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	sort.Slice(orders, func(i, j int) bool {
		return orders[i].DistanceKm < orders[j].DistanceKm
	})

	return orders, nil
}

func (h GetNearbyOrdersQueryHandler) agentPosition(
	ctx context.Context,
	agentID kernel.UUID,
) (kernel.GeoPoint, error) {
	var lat, lng float64

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			lat,
			lng
		FROM agents
		WHERE id = ?
	`, agentID.Bytes()).Row()

	if err := row.Scan(&lat, &lng); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return kernel.GeoPoint{}, errs.NewObjectNotFoundError("agentID", agentID)
		}
		return kernel.GeoPoint{}, err
	}

	return kernel.NewGeoPoint(lat, lng)
}
