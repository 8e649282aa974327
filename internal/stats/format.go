package stats

import (
	"fmt"
	"strconv"

	"github.com/verte-zerg/tuitrail/internal/workout"
)

// Entry holds the display fields of a workout list entry.
type Entry struct {
	ID          string
	Icon        string
	Description string
	Distance    string
	Duration    string
	Metric      string
	Value       string
}

// EntryFor formats a workout for list display. The metric is shown with two
// decimals; raw inputs are shown as entered.
func EntryFor(w *workout.Workout) Entry {
	k := w.Kind()
	return Entry{
		ID:          w.ID(),
		Icon:        k.Icon(),
		Description: w.Description(),
		Distance:    formatNumber(w.DistanceKm()) + " km",
		Duration:    formatNumber(w.DurationMin()) + " min",
		Metric:      fmt.Sprintf("%.2f %s", w.Metric(), k.MetricUnit()),
		Value:       formatNumber(w.KindValue()) + " " + k.ValueUnit(),
	}
}

// Popup returns the marker label for a workout.
func Popup(kind workout.Kind, description string) string {
	return kind.Icon() + " " + description
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
