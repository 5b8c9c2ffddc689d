package tracking

import (
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/services"
)

// Display statuses shown by the richer tracking views. These are
// presentation hints derived from distance thresholds; they are never
// written back to an order's authoritative status.
const (
	StatusAssigned = "assigned"
	StatusPickedUp = "picked_up"
	StatusOnTheWay = "on_the_way"
	StatusNearby   = "nearby"
)

// Alert severities.
const (
	SeverityLow  = "low"
	SeverityHigh = "high"
)

// maxRouteHistory bounds the per-order trail of recent agent positions.
const maxRouteHistory = 10

// maxRetainedAlerts is how many prior alerts survive when new ones arrive.
const maxRetainedAlerts = 5

// Alert records a geofence event raised during a tracking session.
type Alert struct {
	Severity string
	Message  string
	Zone     string
	At       time.Time
}

// Metrics carries the derived analytics accumulated over a tracking session.
type Metrics struct {
	DistanceTravelledKm float64
	AverageSpeedKmh     float64
	EfficiencyPercent   float64
	Ticks               int
}

// Snapshot is the full per-order tracking state handed to readers.
// It is recomputed on every tick and superseded, never patched in place.
type Snapshot struct {
	OrderID          kernel.UUID
	AgentID          kernel.UUID
	AgentLocation    kernel.GeoPoint
	CustomerLocation kernel.GeoPoint
	Routes           services.RoutePlan
	DistanceKm       float64
	ETA              time.Duration
	Status           string
	Traffic          TrafficConditions
	Weather          WeatherConditions
	RouteHistory     []kernel.GeoPoint
	Alerts           []Alert
	Metrics          Metrics
	UpdatedAt        time.Time
}

// clone returns a deep copy so readers cannot mutate simulator-owned state.
func (s Snapshot) clone() Snapshot {
	out := s

	out.Routes.Direct = append([]kernel.GeoPoint(nil), s.Routes.Direct...)
	out.Routes.Optimized = append([]kernel.GeoPoint(nil), s.Routes.Optimized...)
	out.Routes.Alternate = append([]kernel.GeoPoint(nil), s.Routes.Alternate...)
	out.RouteHistory = append([]kernel.GeoPoint(nil), s.RouteHistory...)
	out.Alerts = append([]Alert(nil), s.Alerts...)

	return out
}
