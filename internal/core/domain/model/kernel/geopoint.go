package kernel

import (
	"errors"
	"fmt"
	"math"

	"fooddelivery/internal/pkg/errs"
	"fooddelivery/internal/pkg/guard"
)

const (
	// LatitudeMin is the minimum valid latitude in degrees.
	LatitudeMin = -90.0
	// LatitudeMax is the maximum valid latitude in degrees.
	LatitudeMax = 90.0
	// LongitudeMin is the minimum valid longitude in degrees.
	LongitudeMin = -180.0
	// LongitudeMax is the maximum valid longitude in degrees.
	LongitudeMax = 180.0

	// EarthRadiusKm is Earth's mean radius used by all spherical formulas.
	EarthRadiusKm = 6371.0
)

// ErrGeoPointIsNotConstructed is returned when attempting to use an improperly
// initialized GeoPoint. Points must be created via the NewGeoPoint constructor.
var ErrGeoPointIsNotConstructed = errs.NewValueIsRequiredError(
	"geo point must be created via NewGeoPoint constructor")

// GeoPoint represents a geographic position with validated coordinates.
// GeoPoint is an immutable value object; the zero value is invalid and
// fails validation, so instances must come from NewGeoPoint.
//
// Alongside plain coordinate access it carries the spherical geometry the
// delivery workflow needs: great-circle distance (haversine), initial
// bearing, destination point given bearing and distance, and linear
// interpolation toward a target used by the movement simulation.
//
// Example:
//
//	agent, err := kernel.NewGeoPoint(12.9716, 77.5946)
//	if err != nil {
//	    // Handle validation error
//	}
//	customer, _ := kernel.NewGeoPoint(12.9352, 77.6245)
//	km, _ := agent.DistanceKm(customer)
type GeoPoint struct { //nolint:recvcheck //using for validation
	lat   float64
	lng   float64
	guard guard.ConstructorGuard
}

// NewGeoPoint creates a GeoPoint with the given latitude and longitude
// in decimal degrees. Latitude must be within [-90, 90] and longitude
// within [-180, 180].
//
// Returns:
//   - GeoPoint: A valid geographic point
//   - error: Validation error if either coordinate is out of bounds
func NewGeoPoint(lat float64, lng float64) (GeoPoint, error) {
	point := GeoPoint{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(point.setLat(lat), point.setLng(lng)); err != nil {
		return GeoPoint{}, err
	}

	return point, nil
}

// Validate checks that the GeoPoint was created through its constructor.
// The zero value fails with ErrGeoPointIsNotConstructed.
func (p GeoPoint) Validate() error {
	return p.guard.Validate(ErrGeoPointIsNotConstructed)
}

// Lat returns the latitude in decimal degrees.
func (p GeoPoint) Lat() float64 {
	return p.lat
}

// Lng returns the longitude in decimal degrees.
func (p GeoPoint) Lng() float64 {
	return p.lng
}

// String returns a human-readable representation in the form
// "GeoPoint(lat,lng)" with six decimal places.
func (p GeoPoint) String() string {
	return fmt.Sprintf("GeoPoint(%.6f,%.6f)", p.lat, p.lng)
}

// IsEqual compares two points for coordinate equality.
// Both points must be properly constructed for the comparison to succeed.
func (p GeoPoint) IsEqual(other GeoPoint) (bool, error) {
	if err := errors.Join(p.Validate(), other.Validate()); err != nil {
		return false, err
	}

	return p.lat == other.lat && p.lng == other.lng, nil
}

// DistanceKm calculates the great-circle distance to another point in
// kilometers using the haversine formula over a sphere of Earth's mean
// radius. The result is symmetric: a.DistanceKm(b) == b.DistanceKm(a).
//
// Both points must be properly constructed for the calculation to succeed.
func (p GeoPoint) DistanceKm(other GeoPoint) (float64, error) {
	if err := errors.Join(p.Validate(), other.Validate()); err != nil {
		return 0, err
	}

	lat1 := toRadians(p.lat)
	lat2 := toRadians(other.lat)
	dLat := toRadians(other.lat - p.lat)
	dLng := toRadians(other.lng - p.lng)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c, nil
}

// BearingTo calculates the initial compass bearing from this point to the
// target, in degrees within [0, 360). Used to aim simulated agent movement
// at the customer location.
func (p GeoPoint) BearingTo(other GeoPoint) (float64, error) {
	if err := errors.Join(p.Validate(), other.Validate()); err != nil {
		return 0, err
	}

	lat1 := toRadians(p.lat)
	lat2 := toRadians(other.lat)
	dLng := toRadians(other.lng - p.lng)

	y := math.Sin(dLng) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLng)

	bearing := toDegrees(math.Atan2(y, x))
	return math.Mod(bearing+360, 360), nil
}

// Destination computes the point reached by travelling distanceKm from
// this point along the given initial bearing (degrees), using the standard
// destination-point formula on a sphere of Earth's mean radius.
func (p GeoPoint) Destination(bearingDeg float64, distanceKm float64) (GeoPoint, error) {
	if err := p.Validate(); err != nil {
		return GeoPoint{}, err
	}

	if distanceKm < 0 {
		return GeoPoint{}, errs.NewValueIsInvalidErrorWithCause(
			"distanceKm",
			fmt.Errorf("%f is not a valid travel distance", distanceKm),
		)
	}

	angular := distanceKm / EarthRadiusKm
	bearing := toRadians(bearingDeg)
	lat1 := toRadians(p.lat)
	lng1 := toRadians(p.lng)

	lat2 := math.Asin(math.Sin(lat1)*math.Cos(angular) +
		math.Cos(lat1)*math.Sin(angular)*math.Cos(bearing))
	lng2 := lng1 + math.Atan2(
		math.Sin(bearing)*math.Sin(angular)*math.Cos(lat1),
		math.Cos(angular)-math.Sin(lat1)*math.Sin(lat2),
	)

	// Normalize longitude to [-180, 180).
	lngDeg := math.Mod(toDegrees(lng2)+540, 360) - 180

	return NewGeoPoint(toDegrees(lat2), lngDeg)
}

// MoveToward returns a point linearly interpolated toward the target by the
// given fraction of the remaining coordinate delta. A fraction of 0 stays
// put, 1 arrives at the target; values outside [0, 1] are clamped.
//
// The coordinator's movement tick uses this to advance an agent 10% of the
// remaining distance toward the customer on every pass.
func (p GeoPoint) MoveToward(target GeoPoint, fraction float64) (GeoPoint, error) {
	if err := errors.Join(p.Validate(), target.Validate()); err != nil {
		return GeoPoint{}, err
	}

	fraction = math.Max(0, math.Min(1, fraction))

	return NewGeoPoint(
		p.lat+(target.lat-p.lat)*fraction,
		p.lng+(target.lng-p.lng)*fraction,
	)
}

// setLat sets the latitude with range validation.
// Note: We intentionally use a pointer receiver here while other methods use
// value receivers, enabling self-encapsulated validation during construction.
func (p *GeoPoint) setLat(lat float64) error {
	if lat < LatitudeMin || lat > LatitudeMax {
		return errs.NewValueIsOutOfRangeError("lat", lat, LatitudeMin, LatitudeMax)
	}

	p.lat = lat
	return nil
}

// setLng sets the longitude with range validation.
func (p *GeoPoint) setLng(lng float64) error {
	if lng < LongitudeMin || lng > LongitudeMax {
		return errs.NewValueIsOutOfRangeError("lng", lng, LongitudeMin, LongitudeMax)
	}

	p.lng = lng
	return nil
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

func toDegrees(rad float64) float64 {
	return rad * 180 / math.Pi
}
