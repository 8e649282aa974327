// Package workout defines workout records, their validation, and the in-memory store.
package workout

import (
	"fmt"
	"strings"
	"time"

	"github.com/verte-zerg/tuitrail/internal/geo"
)

// Kind is the closed set of activity types.
type Kind int

// Workout kinds.
const (
	Running Kind = iota + 1
	Cycling
)

// ParseKind parses a kind discriminator such as "running".
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "running", "run":
		return Running, nil
	case "cycling", "cycle", "ride":
		return Cycling, nil
	default:
		return 0, fmt.Errorf("unknown workout kind %q", s)
	}
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return k == Running || k == Cycling
}

func (k Kind) String() string {
	switch k {
	case Running:
		return "running"
	case Cycling:
		return "cycling"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Title returns the capitalized kind name.
func (k Kind) Title() string {
	s := k.String()
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Icon returns the glyph used for popups and list entries.
func (k Kind) Icon() string {
	if k == Running {
		return "🏃"
	}
	return "🚴"
}

// MetricUnit returns the unit of the derived metric.
func (k Kind) MetricUnit() string {
	if k == Running {
		return "min/km"
	}
	return "km/h"
}

// ValueUnit returns the unit of the kind-specific value.
func (k Kind) ValueUnit() string {
	if k == Running {
		return "spm"
	}
	return "m"
}

// Workout is one recorded activity. Only the click counter changes after construction.
type Workout struct {
	id          string
	createdAt   time.Time
	kind        Kind
	location    geo.Location
	distanceKm  float64
	durationMin float64
	// Cadence for running, elevation gain for cycling.
	kindValue   float64
	metric      float64
	description string
	clicks      int
}

// ID returns the workout identifier.
func (w *Workout) ID() string { return w.id }

// CreatedAt returns the creation timestamp.
func (w *Workout) CreatedAt() time.Time { return w.createdAt }

// Kind returns the workout kind.
func (w *Workout) Kind() Kind { return w.kind }

// Location returns where the workout was recorded.
func (w *Workout) Location() geo.Location { return w.location }

// DistanceKm returns the distance in kilometers.
func (w *Workout) DistanceKm() float64 { return w.distanceKm }

// DurationMin returns the duration in minutes.
func (w *Workout) DurationMin() float64 { return w.durationMin }

// KindValue returns cadence (running) or elevation gain (cycling).
func (w *Workout) KindValue() float64 { return w.kindValue }

// CadenceSpm returns the running cadence.
func (w *Workout) CadenceSpm() (float64, bool) {
	if w.kind != Running {
		return 0, false
	}
	return w.kindValue, true
}

// ElevationGainM returns the cycling elevation gain.
func (w *Workout) ElevationGainM() (float64, bool) {
	if w.kind != Cycling {
		return 0, false
	}
	return w.kindValue, true
}

// Metric returns the stored derived metric: pace for running, speed for cycling.
func (w *Workout) Metric() float64 { return w.metric }

// PaceMinPerKm returns the running pace.
func (w *Workout) PaceMinPerKm() (float64, bool) {
	if w.kind != Running {
		return 0, false
	}
	return w.metric, true
}

// SpeedKmPerH returns the cycling speed.
func (w *Workout) SpeedKmPerH() (float64, bool) {
	if w.kind != Cycling {
		return 0, false
	}
	return w.metric, true
}

// Description returns the label computed at construction.
func (w *Workout) Description() string { return w.description }

// Clicks returns how many times the workout was selected.
func (w *Workout) Clicks() int { return w.clicks }

// Select records an interaction and returns the new click count.
func (w *Workout) Select() int {
	w.clicks++
	return w.clicks
}

func deriveMetric(kind Kind, distanceKm, durationMin float64) float64 {
	if kind == Running {
		return durationMin / distanceKm
	}
	return distanceKm / (durationMin / 60)
}

func describe(kind Kind, at time.Time) string {
	return fmt.Sprintf("%s on %s %d", kind.Title(), at.Month(), at.Day())
}
