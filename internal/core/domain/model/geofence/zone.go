// Package geofence defines circular zones checked against agent positions
// during tracking. Zones are static reference data: seeded at startup and
// read-only for the duration of a tracking session.
package geofence

import (
	"errors"
	"fmt"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/errs"
	"fooddelivery/internal/pkg/guard"
)

// ZoneType classifies what a zone means to the delivery workflow.
type ZoneType int

const (
	// UnknownZoneType represents an invalid zone type.
	UnknownZoneType ZoneType = iota
	// Pickup marks a restaurant pickup area.
	Pickup
	// Delivery marks a customer drop-off area; entering one means arrival.
	Delivery
	// Restricted marks an area agents must not enter.
	Restricted
	// Safe marks a designated waiting or staging area.
	Safe
)

func getZoneTypeStrings() map[ZoneType]string {
	return map[ZoneType]string{
		UnknownZoneType: "unknown",
		Pickup:          "pickup",
		Delivery:        "delivery",
		Restricted:      "restricted",
		Safe:            "safe",
	}
}

// String returns the wire name of the zone type.
func (zt ZoneType) String() string {
	if s, ok := getZoneTypeStrings()[zt]; ok {
		return s
	}
	return "unknown"
}

// Validate rejects UnknownZoneType and out-of-range values.
func (zt ZoneType) Validate() error {
	if zt <= UnknownZoneType || zt > Safe {
		return errs.NewValueIsInvalidErrorWithCause(
			"zoneType", fmt.Errorf("%d is not a valid zone type", zt))
	}
	return nil
}

// ErrZoneIsNotConstructed is returned when using an improperly initialized Zone.
var ErrZoneIsNotConstructed = errors.New("Zone must be created via NewZone constructor")

// Zone is a circular geofence: a center, a radius in meters, and a type
// that tells the tracking layer how to react to containment.
// Zone is an immutable value object.
type Zone struct {
	id           kernel.UUID
	name         string
	center       kernel.GeoPoint
	radiusMeters float64
	zoneType     ZoneType
	active       bool
	guard        guard.ConstructorGuard
}

// NewZone creates a geofence zone with validation.
// The radius must be positive.
func NewZone(
	id kernel.UUID,
	name string,
	center kernel.GeoPoint,
	radiusMeters float64,
	zoneType ZoneType,
	active bool,
) (Zone, error) {
	if err := errors.Join(
		id.Validate(),
		center.Validate(),
		zoneType.Validate(),
	); err != nil {
		return Zone{}, err
	}

	if name == "" {
		return Zone{}, errs.NewValueIsRequiredError("name")
	}

	if radiusMeters <= 0 {
		return Zone{}, errs.NewValueIsInvalidErrorWithCause(
			"radiusMeters", fmt.Errorf("%f is not greater than 0", radiusMeters))
	}

	return Zone{
		id:           id,
		name:         name,
		center:       center,
		radiusMeters: radiusMeters,
		zoneType:     zoneType,
		active:       active,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

// Validate checks the Zone was created through its constructor.
func (z Zone) Validate() error {
	return z.guard.Validate(ErrZoneIsNotConstructed)
}

// ID returns the zone's unique identifier.
func (z Zone) ID() kernel.UUID {
	return z.id
}

// Name returns the zone's display name.
func (z Zone) Name() string {
	return z.name
}

// Center returns the zone's center position.
func (z Zone) Center() kernel.GeoPoint {
	return z.center
}

// RadiusMeters returns the zone's radius in meters.
func (z Zone) RadiusMeters() float64 {
	return z.radiusMeters
}

// Type returns the zone's classification.
func (z Zone) Type() ZoneType {
	return z.zoneType
}

// IsActive reports whether the zone participates in containment checks.
func (z Zone) IsActive() bool {
	return z.active
}

// Contains reports whether the position lies inside the zone: the haversine
// distance from the position to the center must not exceed the radius
// converted to kilometers.
func (z Zone) Contains(position kernel.GeoPoint) (bool, error) {
	if err := errors.Join(z.Validate(), position.Validate()); err != nil {
		return false, err
	}

	distanceKm, err := position.DistanceKm(z.center)
	if err != nil {
		return false, err
	}

	return distanceKm <= z.radiusMeters/1000, nil
}
