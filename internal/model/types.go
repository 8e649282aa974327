// Package model defines shared data structures.
package model

import (
	"time"

	"github.com/verte-zerg/tuitrail/internal/geo"
	"github.com/verte-zerg/tuitrail/internal/workout"
)

// Config defines map and persistence settings.
type Config struct {
	Home    geo.Location
	HasHome bool
	Zoom    int
	DBPath  string
}

// StatsConfig defines filters and options for list and stats output.
type StatsConfig struct {
	// Kind limits output to one kind. Zero means all kinds.
	Kind   workout.Kind
	Since  *time.Time
	Last   int
	Window int
}
