// Package tracking implements the enhanced delivery tracking simulation:
// per-order snapshots with simulated agent movement, mock traffic and
// weather, geofence alerts and derived analytics. State lives in memory
// and is owned exclusively by the Simulator; readers get deep copies.
package tracking

import (
	"errors"
	"log/slog"
	"math/rand/v2"
	"sort"
	"sync"
	"time"

	"fooddelivery/internal/core/application/events"
	"fooddelivery/internal/core/domain/model/geofence"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/services"
	"fooddelivery/internal/core/ports"
	"fooddelivery/internal/pkg/errs"
)

const (
	// baseSpeedKmh is the unobstructed simulated agent speed. Traffic and
	// weather scale it down per tick.
	baseSpeedKmh = 30.0

	// etaMinutesPerKm converts remaining distance to an ETA estimate.
	etaMinutesPerKm = 2.0
	// etaJitterMinutes is the maximum random noise added to the ETA.
	etaJitterMinutes = 3.0
	// etaFloor is the minimum ETA ever reported.
	etaFloor = time.Minute

	// Display status distance thresholds in kilometers.
	nearbyThresholdKm   = 0.05
	onTheWayThresholdKm = 0.5

	// Mock agent starting positions are placed this far from the customer.
	startDistanceMinKm = 1.0
	startDistanceMaxKm = 3.0
)

// Clock supplies the current time. Injected so tests can pin it down.
type Clock func() time.Time

// trackedOrder is the simulator-private state behind each snapshot.
type trackedOrder struct {
	snap        Snapshot
	insideZones map[string]bool
	lastTick    time.Time
	startedAt   time.Time
	initialKm   float64
}

// Simulator advances all tracked orders on a shared tick. It is safe for
// concurrent use; a single mutex guards the tracked set since ticks are
// cheap and infrequent.
type Simulator struct {
	mu      sync.Mutex
	tracked map[string]*trackedOrder

	planner   services.RoutePlanner
	publisher ports.EventPublisher
	zones     []geofence.Zone
	rng       *rand.Rand
	now       Clock
	log       *slog.Logger
}

// NewSimulator creates the tracking simulator.
// The zone list is static reference data checked on every tick.
func NewSimulator(
	planner services.RoutePlanner,
	publisher ports.EventPublisher,
	zones []geofence.Zone,
	rng *rand.Rand,
	now Clock,
	log *slog.Logger,
) (*Simulator, error) {
	if publisher == nil {
		return nil, errs.NewValueIsRequiredError("publisher")
	}
	if rng == nil {
		return nil, errs.NewValueIsRequiredError("rng")
	}
	if now == nil {
		return nil, errs.NewValueIsRequiredError("now")
	}
	if log == nil {
		return nil, errs.NewValueIsRequiredError("log")
	}

	return &Simulator{
		tracked:   make(map[string]*trackedOrder),
		planner:   planner,
		publisher: publisher,
		zones:     zones,
		rng:       rng,
		now:       now,
		log:       log.With("component", "tracking-simulator"),
	}, nil
}

// StartTracking seeds a tracking session for the order. The agent's
// starting position is generated at a random bearing and distance from the
// customer, route variants are planned and initial conditions rolled.
// Starting an already tracked order resets its session.
func (s *Simulator) StartTracking(
	orderID kernel.UUID,
	agentID kernel.UUID,
	customerLocation kernel.GeoPoint,
) error {
	if err := errors.Join(
		orderID.Validate(),
		agentID.Validate(),
		customerLocation.Validate(),
	); err != nil {
		return err
	}

	startedAt, initialKm, err := s.seed(orderID, agentID, customerLocation)
	if err != nil {
		return err
	}

	s.log.Info("tracking started",
		"orderId", orderID.String(),
		"agentId", agentID.String(),
		"distanceKm", initialKm)

	s.publisher.Publish(events.TopicTrackingStarted, events.TrackingStarted{
		OrderID: orderID,
		AgentID: agentID,
		At:      startedAt,
	})

	return nil
}

// seed builds the initial session state under the lock. The shared random
// source is only ever touched while the lock is held.
func (s *Simulator) seed(
	orderID kernel.UUID,
	agentID kernel.UUID,
	customerLocation kernel.GeoPoint,
) (time.Time, float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bearing := s.rng.Float64() * 360
	distanceKm := startDistanceMinKm + s.rng.Float64()*(startDistanceMaxKm-startDistanceMinKm)

	agentLocation, err := customerLocation.Destination(bearing, distanceKm)
	if err != nil {
		return time.Time{}, 0, err
	}

	routes, err := s.planner.PlanRoutes(agentLocation, customerLocation)
	if err != nil {
		return time.Time{}, 0, err
	}

	initialKm, err := agentLocation.DistanceKm(customerLocation)
	if err != nil {
		return time.Time{}, 0, err
	}

	startedAt := s.now()

	s.tracked[orderID.String()] = &trackedOrder{
		snap: Snapshot{
			OrderID:          orderID,
			AgentID:          agentID,
			AgentLocation:    agentLocation,
			CustomerLocation: customerLocation,
			Routes:           routes,
			DistanceKm:       initialKm,
			ETA:              s.estimateArrival(initialKm),
			Status:           StatusAssigned,
			Traffic:          newTrafficConditions(s.rng),
			Weather:          newWeatherConditions(s.rng),
			RouteHistory:     []kernel.GeoPoint{agentLocation},
			Metrics:          Metrics{EfficiencyPercent: 100},
			UpdatedAt:        startedAt,
		},
		insideZones: make(map[string]bool),
		lastTick:    startedAt,
		startedAt:   startedAt,
		initialKm:   initialKm,
	}

	return startedAt, initialKm, nil
}

// StopTracking removes the order from the tracked set. Unknown orders are
// a no-op so stale stop requests after delivery do no harm.
func (s *Simulator) StopTracking(orderID kernel.UUID) {
	s.mu.Lock()
	_, ok := s.tracked[orderID.String()]
	if ok {
		delete(s.tracked, orderID.String())
	}
	s.mu.Unlock()

	if !ok {
		return
	}

	s.log.Info("tracking stopped", "orderId", orderID.String())

	s.publisher.Publish(events.TopicTrackingStopped, events.TrackingStopped{
		OrderID: orderID,
		At:      s.now(),
	})
}

// StopAll clears every tracking session. Intended for teardown.
func (s *Simulator) StopAll() {
	s.mu.Lock()
	ids := make([]kernel.UUID, 0, len(s.tracked))
	for _, t := range s.tracked {
		ids = append(ids, t.snap.OrderID)
	}
	s.tracked = make(map[string]*trackedOrder)
	s.mu.Unlock()

	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })

	at := s.now()
	for _, id := range ids {
		s.publisher.Publish(events.TopicTrackingStopped, events.TrackingStopped{
			OrderID: id,
			At:      at,
		})
	}
}

// Snapshot returns a deep copy of the order's current tracking state.
func (s *Simulator) Snapshot(orderID kernel.UUID) (Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tracked[orderID.String()]
	if !ok {
		return Snapshot{}, false
	}
	return t.snap.clone(), true
}

// All returns deep copies of every tracked order's state, ordered by order id.
func (s *Simulator) All() []Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Snapshot, 0, len(s.tracked))
	for _, t := range s.tracked {
		out = append(out, t.snap.clone())
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].OrderID.String() < out[j].OrderID.String()
	})
	return out
}

// Tick advances every tracked order once. Orders are visited in a stable
// id order so the injected random source is consumed deterministically.
func (s *Simulator) Tick() {
	s.mu.Lock()

	ids := make([]string, 0, len(s.tracked))
	for id := range s.tracked {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	now := s.now()
	updates := make([]Snapshot, 0, len(ids))
	for _, id := range ids {
		t := s.tracked[id]
		if err := s.advance(t, now); err != nil {
			s.log.Error("tick failed",
				"orderId", t.snap.OrderID.String(), "error", err)
			continue
		}
		updates = append(updates, t.snap.clone())
	}

	s.mu.Unlock()

	for _, snap := range updates {
		s.publisher.Publish(events.TopicTrackingUpdate, snap)
	}
}

// advance recomputes one order's snapshot for the current tick.
func (s *Simulator) advance(t *trackedOrder, now time.Time) error {
	elapsed := now.Sub(t.lastTick)
	if elapsed <= 0 {
		elapsed = time.Second
	}

	t.snap.Traffic = t.snap.Traffic.drift(s.rng)
	t.snap.Weather = t.snap.Weather.drift(s.rng)

	speedKmh := baseSpeedKmh * t.snap.Traffic.SpeedFactor * t.snap.Weather.Impact

	previous := t.snap.AgentLocation
	position, err := s.planner.Step(
		previous, t.snap.CustomerLocation, speedKmh, elapsed)
	if err != nil {
		return err
	}

	stepKm, err := previous.DistanceKm(position)
	if err != nil {
		return err
	}

	remainingKm, err := position.DistanceKm(t.snap.CustomerLocation)
	if err != nil {
		return err
	}

	t.snap.AgentLocation = position
	t.snap.DistanceKm = remainingKm
	t.snap.ETA = s.estimateArrival(remainingKm)
	t.snap.Status = nextDisplayStatus(t.snap.Status, remainingKm)

	t.snap.RouteHistory = append(t.snap.RouteHistory, position)
	if len(t.snap.RouteHistory) > maxRouteHistory {
		t.snap.RouteHistory = t.snap.RouteHistory[len(t.snap.RouteHistory)-maxRouteHistory:]
	}

	alerts, err := s.checkGeofences(t, position, now)
	if err != nil {
		return err
	}
	if len(alerts) > 0 {
		if len(t.snap.Alerts) > maxRetainedAlerts {
			t.snap.Alerts = t.snap.Alerts[len(t.snap.Alerts)-maxRetainedAlerts:]
		}
		t.snap.Alerts = append(t.snap.Alerts, alerts...)
	}

	t.snap.Metrics = s.recomputeMetrics(t, stepKm, now)
	t.snap.UpdatedAt = now
	t.lastTick = now

	return nil
}

// checkGeofences evaluates zone containment and returns alerts for zones
// the agent entered on this tick. Leaving a zone raises nothing but resets
// the containment flag so re-entry alerts again.
func (s *Simulator) checkGeofences(
	t *trackedOrder,
	position kernel.GeoPoint,
	now time.Time,
) ([]Alert, error) {
	var alerts []Alert

	for _, zone := range s.zones {
		if !zone.IsActive() {
			continue
		}

		inside, err := zone.Contains(position)
		if err != nil {
			return nil, err
		}

		entered := inside && !t.insideZones[zone.ID().String()]
		t.insideZones[zone.ID().String()] = inside
		if !entered {
			continue
		}

		switch zone.Type() {
		case geofence.Restricted:
			alerts = append(alerts, Alert{
				Severity: SeverityHigh,
				Message:  "entered restricted zone " + zone.Name(),
				Zone:     zone.Name(),
				At:       now,
			})
		case geofence.Delivery:
			alerts = append(alerts, Alert{
				Severity: SeverityLow,
				Message:  "arrived at delivery zone " + zone.Name(),
				Zone:     zone.Name(),
				At:       now,
			})
		}
	}

	return alerts, nil
}

// recomputeMetrics folds this tick's movement into the running analytics.
func (s *Simulator) recomputeMetrics(
	t *trackedOrder,
	stepKm float64,
	now time.Time,
) Metrics {
	m := t.snap.Metrics
	m.Ticks++
	m.DistanceTravelledKm += stepKm

	if hours := now.Sub(t.startedAt).Hours(); hours > 0 {
		m.AverageSpeedKmh = m.DistanceTravelledKm / hours
	}

	m.EfficiencyPercent = 100
	if m.DistanceTravelledKm > t.initialKm && m.DistanceTravelledKm > 0 {
		m.EfficiencyPercent = t.initialKm / m.DistanceTravelledKm * 100
	}

	return m
}

// estimateArrival derives an ETA from the remaining distance plus jitter,
// never reporting less than the floor.
func (s *Simulator) estimateArrival(remainingKm float64) time.Duration {
	minutes := remainingKm*etaMinutesPerKm + s.rng.Float64()*etaJitterMinutes
	eta := time.Duration(minutes * float64(time.Minute))
	if eta < etaFloor {
		return etaFloor
	}
	return eta
}

// nextDisplayStatus applies the distance thresholds on top of the current
// display status. The first tick after assignment always advances to
// picked up; after that only proximity moves the status forward.
func nextDisplayStatus(current string, remainingKm float64) string {
	if current == StatusAssigned {
		current = StatusPickedUp
	}
	if remainingKm < nearbyThresholdKm {
		return StatusNearby
	}
	if remainingKm < onTheWayThresholdKm {
		return StatusOnTheWay
	}
	return current
}
