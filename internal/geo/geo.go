// Package geo provides coordinates, position lookup, and map projection.
package geo

import (
	"context"
	"errors"
	"fmt"
	"math"
)

const earthRadiusKm = 6371.0

// ErrUnavailable is returned when no current position can be determined.
var ErrUnavailable = errors.New("position unavailable")

// Location is a latitude/longitude pair in degrees.
type Location struct {
	Lat float64
	Lng float64
}

// Valid reports whether both coordinates are finite and within range.
func (l Location) Valid() bool {
	if math.IsNaN(l.Lat) || math.IsInf(l.Lat, 0) || math.IsNaN(l.Lng) || math.IsInf(l.Lng, 0) {
		return false
	}
	return l.Lat >= -90 && l.Lat <= 90 && l.Lng >= -180 && l.Lng <= 180
}

func (l Location) String() string {
	return fmt.Sprintf("%.4f, %.4f", l.Lat, l.Lng)
}

// Locator resolves the user's current position.
type Locator interface {
	CurrentPosition(ctx context.Context) (Location, error)
}

// Fixed is a Locator that always answers with a configured home position.
type Fixed struct {
	loc Location
	ok  bool
}

// NewFixed returns a Fixed locator. A nil coordinate leaves it unset.
func NewFixed(lat, lng *float64) Fixed {
	if lat == nil || lng == nil {
		return Fixed{}
	}
	return Fixed{loc: Location{Lat: *lat, Lng: *lng}, ok: true}
}

// CurrentPosition implements Locator.
func (f Fixed) CurrentPosition(ctx context.Context) (Location, error) {
	if err := ctx.Err(); err != nil {
		return Location{}, err
	}
	if !f.ok {
		return Location{}, ErrUnavailable
	}
	if !f.loc.Valid() {
		return Location{}, fmt.Errorf("%w: invalid home coordinate %s", ErrUnavailable, f.loc)
	}
	return f.loc, nil
}

// HaversineKm returns the great-circle distance between two points in kilometers.
func HaversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// DistanceKm returns the great-circle distance between two locations.
func DistanceKm(a, b Location) float64 {
	return HaversineKm(a.Lat, a.Lng, b.Lat, b.Lng)
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
