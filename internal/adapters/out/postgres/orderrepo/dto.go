// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// This package implements the repository pattern for the order domain aggregate, handling
// the conversion between domain entities and database representations.
package orderrepo

import (
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Line items are stored as a JSON column; the delivery coordinates are
// embedded with a delivery_ prefix so read queries can address them directly.
type OrderDTO struct {
	ID              uuid.UUID     `gorm:"type:uuid;primaryKey"`
	CustomerName    string        `gorm:"column:customer_name"`
	CustomerPhone   string        `gorm:"column:customer_phone"`
	DeliveryAddress string        `gorm:"column:delivery_address"`
	Location        LocationDTO   `gorm:"embedded;embeddedPrefix:delivery_"`
	Items           []LineItemDTO `gorm:"serializer:json;type:jsonb"`
	TotalAmount     float64       `gorm:"column:total_amount"`
	Status          int           `gorm:"index"`
	AgentID         *uuid.UUID    `gorm:"type:uuid;index"`
	CreatedAt       time.Time
	StatusChangedAt time.Time
}

// TableName specifies the database table name for order entities.
// Overrides GORM's default naming convention to use "orders".
func (OrderDTO) TableName() string {
	return "orders"
}

// LocationDTO represents the embedded delivery coordinates within the order table.
type LocationDTO struct {
	Lat float64 `gorm:"type:double precision"`
	Lng float64 `gorm:"type:double precision"`
}

// LineItemDTO is the JSON shape of a single ordered item.
type LineItemDTO struct {
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
}

// fromDomain converts an order domain aggregate to its database representation.
// Maps all order attributes including the optional agent assignment.
func fromDomain(aggregate *order.Order) OrderDTO {
	var agentID *uuid.UUID
	if id := aggregate.Agent(); id != nil {
		raw := id.Bytes()
		agentID = &raw
	}

	items := make([]LineItemDTO, 0, len(aggregate.Items()))
	for _, item := range aggregate.Items() {
		items = append(items, LineItemDTO{
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}

	return OrderDTO{
		ID:              aggregate.ID().Bytes(),
		CustomerName:    aggregate.CustomerName(),
		CustomerPhone:   aggregate.CustomerPhone(),
		DeliveryAddress: aggregate.DeliveryAddress(),
		Location: LocationDTO{
			Lat: aggregate.DeliveryLocation().Lat(),
			Lng: aggregate.DeliveryLocation().Lng(),
		},
		Items:           items,
		TotalAmount:     aggregate.TotalAmount(),
		Status:          int(aggregate.Status()),
		AgentID:         agentID,
		CreatedAt:       aggregate.CreatedAt(),
		StatusChangedAt: aggregate.StatusChangedAt(),
	}
}

// toDomain converts a database DTO to an order domain aggregate.
// Reconstructs the complete aggregate including status and agent assignment
// using RestoreOrder.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var agentID *kernel.UUID
	if dto.AgentID != nil {
		aID, agentErr := kernel.UUIDFromBytes((*dto.AgentID)[:])
		if agentErr != nil {
			return nil, agentErr
		}

		agentID = &aID
	}

	location, err := kernel.NewGeoPoint(dto.Location.Lat, dto.Location.Lng)
	if err != nil {
		return nil, err
	}

	items := make([]order.LineItem, 0, len(dto.Items))
	for _, item := range dto.Items {
		items = append(items, order.LineItem{
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}

	return order.RestoreOrder(
		id,
		dto.CustomerName,
		dto.CustomerPhone,
		dto.DeliveryAddress,
		location,
		items,
		dto.TotalAmount,
		order.Status(dto.Status),
		agentID,
		dto.CreatedAt,
		dto.StatusChangedAt,
	)
}
