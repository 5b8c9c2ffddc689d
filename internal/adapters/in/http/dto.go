package http

import (
	"time"

	"fooddelivery/internal/core/application/usecases/queries"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/tracking"
)

// Error is the JSON body returned on every failed request.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Location is a lat/lng pair on the wire.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// LineItem is one ordered dish on the wire.
type LineItem struct {
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
}

// NewOrder is the request body for creating an order.
type NewOrder struct {
	CustomerName     string     `json:"customerName"`
	CustomerPhone    string     `json:"customerPhone"`
	DeliveryAddress  string     `json:"deliveryAddress"`
	DeliveryLocation Location   `json:"deliveryLocation"`
	Items            []LineItem `json:"items"`
}

// NewAgent is the request body for registering a delivery agent.
type NewAgent struct {
	Name     string   `json:"name"`
	Phone    string   `json:"phone"`
	Position Location `json:"position"`
}

// StatusChange is the request body for an order status transition.
type StatusChange struct {
	Status string `json:"status"`
	Actor  string `json:"actor"`
}

// AcceptOrder is the request body for an agent taking an order.
type AcceptOrder struct {
	AgentID string `json:"agentId"`
}

// Created is the response body for successful creation requests.
type Created struct {
	ID string `json:"id"`
}

// Order is one undelivered order on the wire.
type Order struct {
	ID              string    `json:"id"`
	CustomerName    string    `json:"customerName"`
	DeliveryAddress string    `json:"deliveryAddress"`
	Location        Location  `json:"location"`
	Status          string    `json:"status"`
	AgentID         *string   `json:"agentId,omitempty"`
	StatusChangedAt time.Time `json:"statusChangedAt"`
}

// NearbyOrder is one confirmed order within an agent's search radius.
type NearbyOrder struct {
	ID              string   `json:"id"`
	CustomerName    string   `json:"customerName"`
	DeliveryAddress string   `json:"deliveryAddress"`
	Location        Location `json:"location"`
	TotalAmount     float64  `json:"totalAmount"`
	DistanceKm      float64  `json:"distanceKm"`
}

// Agent is one active delivery agent on the wire.
type Agent struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Phone      string    `json:"phone"`
	Position   Location  `json:"position"`
	LastSeenAt time.Time `json:"lastSeenAt"`
}

// TrackingAlert is one geofence alert on the wire.
type TrackingAlert struct {
	Severity string    `json:"severity"`
	Message  string    `json:"message"`
	Zone     string    `json:"zone"`
	At       time.Time `json:"at"`
}

// TrackingMetrics carries the derived tracking analytics on the wire.
type TrackingMetrics struct {
	DistanceTravelledKm float64 `json:"distanceTravelledKm"`
	AverageSpeedKmh     float64 `json:"averageSpeedKmh"`
	EfficiencyPercent   float64 `json:"efficiencyPercent"`
	Ticks               int     `json:"ticks"`
}

// TrackingConditions carries the simulated traffic and weather on the wire.
type TrackingConditions struct {
	TrafficLevel     string  `json:"trafficLevel"`
	WeatherCondition string  `json:"weatherCondition"`
	TemperatureC     float64 `json:"temperatureC"`
}

// TrackingRoutes carries the three planned route variants on the wire.
type TrackingRoutes struct {
	Direct    []Location `json:"direct"`
	Optimized []Location `json:"optimized"`
	Alternate []Location `json:"alternate"`
}

// TrackingSnapshot is the full tracking state of one order on the wire.
type TrackingSnapshot struct {
	OrderID          string             `json:"orderId"`
	AgentID          string             `json:"agentId"`
	AgentLocation    Location           `json:"agentLocation"`
	CustomerLocation Location           `json:"customerLocation"`
	Routes           TrackingRoutes     `json:"routes"`
	DistanceKm       float64            `json:"distanceKm"`
	EtaMinutes       float64            `json:"etaMinutes"`
	Status           string             `json:"status"`
	Conditions       TrackingConditions `json:"conditions"`
	RouteHistory     []Location         `json:"routeHistory"`
	Alerts           []TrackingAlert    `json:"alerts"`
	Metrics          TrackingMetrics    `json:"metrics"`
	UpdatedAt        time.Time          `json:"updatedAt"`
}

func toLocation(point kernel.GeoPoint) Location {
	return Location{Lat: point.Lat(), Lng: point.Lng()}
}

func toLocations(points []kernel.GeoPoint) []Location {
	out := make([]Location, len(points))
	for i, point := range points {
		out[i] = toLocation(point)
	}
	return out
}

func toOrder(row queries.GetUndeliveredOrdersQueryResponse) Order {
	dto := Order{
		ID:              row.ID.String(),
		CustomerName:    row.CustomerName,
		DeliveryAddress: row.DeliveryAddress,
		Location:        toLocation(row.Location),
		Status:          row.Status.String(),
		StatusChangedAt: row.StatusChangedAt,
	}
	if row.AgentID != nil {
		agentID := row.AgentID.String()
		dto.AgentID = &agentID
	}
	return dto
}

func toNearbyOrder(row queries.GetNearbyOrdersQueryResponse) NearbyOrder {
	return NearbyOrder{
		ID:              row.ID.String(),
		CustomerName:    row.CustomerName,
		DeliveryAddress: row.DeliveryAddress,
		Location:        toLocation(row.Location),
		TotalAmount:     row.TotalAmount,
		DistanceKm:      row.DistanceKm,
	}
}

func toAgent(row queries.GetActiveAgentsQueryResponse) Agent {
	return Agent{
		ID:         row.ID.String(),
		Name:       row.Name,
		Phone:      row.Phone,
		Position:   toLocation(row.Position),
		LastSeenAt: row.LastSeenAt,
	}
}

func toTrackingSnapshot(snap tracking.Snapshot) TrackingSnapshot {
	alerts := make([]TrackingAlert, len(snap.Alerts))
	for i, alert := range snap.Alerts {
		alerts[i] = TrackingAlert{
			Severity: alert.Severity,
			Message:  alert.Message,
			Zone:     alert.Zone,
			At:       alert.At,
		}
	}

	return TrackingSnapshot{
		OrderID:          snap.OrderID.String(),
		AgentID:          snap.AgentID.String(),
		AgentLocation:    toLocation(snap.AgentLocation),
		CustomerLocation: toLocation(snap.CustomerLocation),
		Routes: TrackingRoutes{
			Direct:    toLocations(snap.Routes.Direct),
			Optimized: toLocations(snap.Routes.Optimized),
			Alternate: toLocations(snap.Routes.Alternate),
		},
		DistanceKm: snap.DistanceKm,
		EtaMinutes: snap.ETA.Minutes(),
		Status:     snap.Status,
		Conditions: TrackingConditions{
			TrafficLevel:     snap.Traffic.Level,
			WeatherCondition: snap.Weather.Condition,
			TemperatureC:     snap.Weather.TemperatureC,
		},
		RouteHistory: toLocations(snap.RouteHistory),
		Alerts:       alerts,
		Metrics: TrackingMetrics{
			DistanceTravelledKm: snap.Metrics.DistanceTravelledKm,
			AverageSpeedKmh:     snap.Metrics.AverageSpeedKmh,
			EfficiencyPercent:   snap.Metrics.EfficiencyPercent,
			Ticks:               snap.Metrics.Ticks,
		},
		UpdatedAt: snap.UpdatedAt,
	}
}
