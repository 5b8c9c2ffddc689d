// Package events defines the named domain events published on the
// in-process event bus, together with their payload shapes. Consumers
// subscribe by topic and type-assert the payload.
package events

import (
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
)

// Event topics.
const (
	// TopicOrderStatusChanged fires after every successful status transition.
	TopicOrderStatusChanged = "orderStatusChanged"
	// TopicAgentLocationUpdate fires when an agent reports a fresh position.
	TopicAgentLocationUpdate = "agentLocationUpdate"
	// TopicOrderAccepted fires when an agent takes an order out for delivery.
	TopicOrderAccepted = "orderAccepted"
	// TopicLiveLocationUpdate fires on every movement tick for an active delivery.
	TopicLiveLocationUpdate = "liveLocationUpdate"
	// TopicOrderDelivered fires when a delivery completes.
	TopicOrderDelivered = "orderDelivered"
	// TopicTrackingStarted fires when enhanced tracking begins for an order.
	TopicTrackingStarted = "trackingStarted"
	// TopicTrackingUpdate fires on every simulator tick per tracked order.
	TopicTrackingUpdate = "trackingUpdate"
	// TopicTrackingStopped fires when enhanced tracking ends for an order.
	TopicTrackingStopped = "trackingStopped"
)

// OrderStatusChanged is the payload for TopicOrderStatusChanged.
type OrderStatusChanged struct {
	OrderID kernel.UUID
	From    order.Status
	To      order.Status
	Actor   string
	At      time.Time
}

// AgentLocationUpdate is the payload for TopicAgentLocationUpdate.
type AgentLocationUpdate struct {
	AgentID  kernel.UUID
	Position kernel.GeoPoint
	At       time.Time
}

// OrderAccepted is the payload for TopicOrderAccepted.
type OrderAccepted struct {
	OrderID kernel.UUID
	AgentID kernel.UUID
	At      time.Time
}

// LiveLocationUpdate is the payload for TopicLiveLocationUpdate.
type LiveLocationUpdate struct {
	OrderID     kernel.UUID
	AgentID     kernel.UUID
	Position    kernel.GeoPoint
	RemainingKm float64
	At          time.Time
}

// OrderDelivered is the payload for TopicOrderDelivered.
type OrderDelivered struct {
	OrderID kernel.UUID
	AgentID *kernel.UUID
	At      time.Time
}

// TrackingStarted is the payload for TopicTrackingStarted.
type TrackingStarted struct {
	OrderID kernel.UUID
	AgentID kernel.UUID
	At      time.Time
}

// TrackingStopped is the payload for TopicTrackingStopped.
type TrackingStopped struct {
	OrderID kernel.UUID
	At      time.Time
}
