package workout

import (
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/tuitrail/internal/geo"
)

// Factory validates raw input and builds workouts.
type Factory struct {
	Now   func() time.Time
	NewID func() string
}

// NewFactory returns a Factory using the wall clock and random UUIDs.
func NewFactory() *Factory {
	return &Factory{Now: time.Now, NewID: uuid.NewString}
}

// Create validates the input and returns a new workout. Cadence must be
// positive for running, while cycling elevation gain only needs to be finite.
func (f *Factory) Create(kind Kind, loc geo.Location, distanceKm, durationMin, kindValue float64) (*Workout, error) {
	if err := Validate(kind, loc, distanceKm, durationMin, kindValue); err != nil {
		return nil, err
	}
	now := time.Now
	if f.Now != nil {
		now = f.Now
	}
	newID := uuid.NewString
	if f.NewID != nil {
		newID = f.NewID
	}
	createdAt := now()
	return &Workout{
		id:          newID(),
		createdAt:   createdAt,
		kind:        kind,
		location:    loc,
		distanceKm:  distanceKm,
		durationMin: durationMin,
		kindValue:   kindValue,
		metric:      deriveMetric(kind, distanceKm, durationMin),
		description: describe(kind, createdAt),
	}, nil
}

// Validate checks workout input without building anything.
func Validate(kind Kind, loc geo.Location, distanceKm, durationMin, kindValue float64) error {
	if !kind.Valid() {
		return &ValidationError{Field: "kind", Reason: "must be running or cycling"}
	}
	if !loc.Valid() {
		return &ValidationError{Field: "location", Reason: "coordinates must be finite and in range"}
	}
	valueField := "cadence"
	if kind == Cycling {
		valueField = "elevation"
	}
	checks := []struct {
		field    string
		value    float64
		positive bool
	}{
		{"distance", distanceKm, true},
		{"duration", durationMin, true},
		{valueField, kindValue, kind == Running},
	}
	for _, c := range checks {
		if !isFinite(c.value) {
			return &ValidationError{Field: c.field, Reason: "must be a finite number"}
		}
		if c.positive && c.value <= 0 {
			return &ValidationError{Field: c.field, Reason: "must be greater than 0"}
		}
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
