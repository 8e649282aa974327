// Package stats contains workout summaries and reporting.
package stats

import (
	"math"
	"strings"

	"github.com/verte-zerg/tuitrail/internal/model"
	"github.com/verte-zerg/tuitrail/internal/workout"
)

const sparkChars = " .:-=+*#%@"

// KindSummary aggregates workouts of one kind.
type KindSummary struct {
	Kind        workout.Kind
	Count       int
	DistanceKm  float64
	DurationMin float64
	// Metric is the overall pace or speed across all workouts of the kind.
	Metric float64
	// Value is the mean cadence for running and the total elevation gain for cycling.
	Value      float64
	LongestKm  float64
	BestMetric float64
}

// Filter applies kind, since and last-N filters, keeping creation order.
func Filter(ws []*workout.Workout, cfg model.StatsConfig) []*workout.Workout {
	out := make([]*workout.Workout, 0, len(ws))
	for _, w := range ws {
		if cfg.Kind != 0 && w.Kind() != cfg.Kind {
			continue
		}
		if cfg.Since != nil && w.CreatedAt().Before(*cfg.Since) {
			continue
		}
		out = append(out, w)
	}
	if cfg.Last > 0 && len(out) > cfg.Last {
		out = out[len(out)-cfg.Last:]
	}
	return out
}

// Summarize returns one summary per kind present, running first.
func Summarize(ws []*workout.Workout) []KindSummary {
	var out []KindSummary
	for _, kind := range []workout.Kind{workout.Running, workout.Cycling} {
		s := KindSummary{Kind: kind}
		for _, w := range ws {
			if w.Kind() != kind {
				continue
			}
			s.Count++
			s.DistanceKm += w.DistanceKm()
			s.DurationMin += w.DurationMin()
			s.Value += w.KindValue()
			if w.DistanceKm() > s.LongestKm {
				s.LongestKm = w.DistanceKm()
			}
			if s.Count == 1 || betterMetric(kind, w.Metric(), s.BestMetric) {
				s.BestMetric = w.Metric()
			}
		}
		if s.Count == 0 {
			continue
		}
		if kind == workout.Running {
			s.Metric = s.DurationMin / s.DistanceKm
			s.Value /= float64(s.Count)
		} else {
			s.Metric = s.DistanceKm / (s.DurationMin / 60)
		}
		out = append(out, s)
	}
	return out
}

// Lower pace is better; higher speed is better.
func betterMetric(kind workout.Kind, candidate, best float64) bool {
	if kind == workout.Running {
		return candidate < best
	}
	return candidate > best
}

// Distances returns the distance of each workout in order.
func Distances(ws []*workout.Workout) []float64 {
	out := make([]float64, len(ws))
	for i, w := range ws {
		out[i] = w.DistanceKm()
	}
	return out
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 {
		copy(out, values)
		return out
	}
	var sum float64
	for i, v := range values {
		sum += v
		n := i + 1
		if i >= window {
			sum -= values[i-window]
			n = window
		}
		out[i] = sum / float64(n)
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	last := len(sparkChars) - 1
	for _, v := range values {
		idx := int(math.Round((v - minVal) / (maxVal - minVal) * float64(last)))
		idx = max(0, min(idx, last))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}
