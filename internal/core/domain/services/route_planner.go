package services

import (
	"errors"
	"math/rand/v2"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
)

const (
	// routeWaypointCount is the number of points generated per route variant.
	routeWaypointCount = 8
	// routeJitterDegrees is the maximum coordinate jitter applied to the
	// optimized and alternate variants.
	routeJitterDegrees = 0.0015
)

// ErrRouteEndpointsRequired is returned when planning a route without both endpoints.
var ErrRouteEndpointsRequired = errors.New("route requires valid start and destination points")

// RoutePlan holds the three route variants generated for a delivery:
// the direct interpolation between agent and customer plus two jittered
// alternatives the richer tracking views can display.
type RoutePlan struct {
	Direct    []kernel.GeoPoint
	Optimized []kernel.GeoPoint
	Alternate []kernel.GeoPoint
}

// RoutePlanner is a domain service that produces simulated route variants
// and advances positions along them. It is simulation support, not real
// navigation: routes are straight-line interpolations dressed up with
// jitter, and movement follows the great-circle bearing to the target.
//
// The random source is injected so tests can pin the jitter down.
type RoutePlanner struct {
	rng *rand.Rand
}

// NewRoutePlanner creates a route planner using the given random source.
func NewRoutePlanner(rng *rand.Rand) RoutePlanner {
	return RoutePlanner{rng: rng}
}

// PlanRoutes generates the three route variants between two points.
// The direct variant interpolates evenly; optimized and alternate apply a
// small random jitter to the interior waypoints while keeping both
// endpoints exact.
func (p RoutePlanner) PlanRoutes(from kernel.GeoPoint, to kernel.GeoPoint) (RoutePlan, error) {
	if err := errors.Join(from.Validate(), to.Validate()); err != nil {
		return RoutePlan{}, errors.Join(ErrRouteEndpointsRequired, err)
	}

	direct, err := p.interpolate(from, to, 0)
	if err != nil {
		return RoutePlan{}, err
	}
	optimized, err := p.interpolate(from, to, routeJitterDegrees)
	if err != nil {
		return RoutePlan{}, err
	}
	alternate, err := p.interpolate(from, to, routeJitterDegrees*2)
	if err != nil {
		return RoutePlan{}, err
	}

	return RoutePlan{Direct: direct, Optimized: optimized, Alternate: alternate}, nil
}

// Step advances a position toward the target along the great-circle
// bearing by speedKmh over the elapsed duration. When the step would
// overshoot, the target itself is returned.
func (p RoutePlanner) Step(
	from kernel.GeoPoint,
	to kernel.GeoPoint,
	speedKmh float64,
	elapsed time.Duration,
) (kernel.GeoPoint, error) {
	if err := errors.Join(from.Validate(), to.Validate()); err != nil {
		return kernel.GeoPoint{}, err
	}

	remaining, err := from.DistanceKm(to)
	if err != nil {
		return kernel.GeoPoint{}, err
	}

	stepKm := speedKmh * elapsed.Hours()
	if stepKm >= remaining {
		return to, nil
	}

	bearing, err := from.BearingTo(to)
	if err != nil {
		return kernel.GeoPoint{}, err
	}

	return from.Destination(bearing, stepKm)
}

// interpolate builds a waypoint sequence from start to end. Interior
// points get up to jitterDegrees of random displacement on each axis;
// endpoints are always exact.
func (p RoutePlanner) interpolate(
	from kernel.GeoPoint,
	to kernel.GeoPoint,
	jitterDegrees float64,
) ([]kernel.GeoPoint, error) {
	points := make([]kernel.GeoPoint, 0, routeWaypointCount)

	for i := 0; i < routeWaypointCount; i++ {
		fraction := float64(i) / float64(routeWaypointCount-1)

		lat := from.Lat() + (to.Lat()-from.Lat())*fraction
		lng := from.Lng() + (to.Lng()-from.Lng())*fraction

		if i > 0 && i < routeWaypointCount-1 && jitterDegrees > 0 {
			lat += (p.rng.Float64()*2 - 1) * jitterDegrees
			lng += (p.rng.Float64()*2 - 1) * jitterDegrees
		}

		point, err := kernel.NewGeoPoint(clampLat(lat), clampLng(lng))
		if err != nil {
			return nil, err
		}
		points = append(points, point)
	}

	return points, nil
}

func clampLat(lat float64) float64 {
	if lat < kernel.LatitudeMin {
		return kernel.LatitudeMin
	}
	if lat > kernel.LatitudeMax {
		return kernel.LatitudeMax
	}
	return lat
}

func clampLng(lng float64) float64 {
	if lng < kernel.LongitudeMin {
		return kernel.LongitudeMin
	}
	if lng > kernel.LongitudeMax {
		return kernel.LongitudeMax
	}
	return lng
}
