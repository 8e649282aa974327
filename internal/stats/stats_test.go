package stats

import (
	"fmt"
	"testing"
	"time"

	"github.com/verte-zerg/tuitrail/internal/geo"
	"github.com/verte-zerg/tuitrail/internal/model"
	"github.com/verte-zerg/tuitrail/internal/workout"
)

var baseTime = time.Date(2026, time.March, 1, 8, 0, 0, 0, time.UTC)

func sampleWorkouts(t *testing.T) []*workout.Workout {
	t.Helper()
	n := 0
	f := &workout.Factory{
		Now: func() time.Time { return baseTime.Add(time.Duration(n) * 24 * time.Hour) },
		NewID: func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		},
	}
	inputs := []struct {
		kind  workout.Kind
		dist  float64
		dur   float64
		value float64
	}{
		{workout.Running, 5, 30, 170},
		{workout.Cycling, 20, 60, 100},
		{workout.Running, 10, 50, 180},
		{workout.Cycling, 30, 60, -50},
	}
	var ws []*workout.Workout
	for _, in := range inputs {
		w, err := f.Create(in.kind, geo.Location{Lat: 1, Lng: 2}, in.dist, in.dur, in.value)
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		ws = append(ws, w)
	}
	return ws
}

func TestSummarize(t *testing.T) {
	sums := Summarize(sampleWorkouts(t))
	if len(sums) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(sums))
	}
	run, ride := sums[0], sums[1]
	if run.Kind != workout.Running || run.Count != 2 || run.DistanceKm != 15 || run.DurationMin != 80 {
		t.Fatalf("unexpected running summary: %+v", run)
	}
	if run.Metric != 80.0/15.0 || run.Value != 175 || run.BestMetric != 5 || run.LongestKm != 10 {
		t.Fatalf("unexpected running metrics: %+v", run)
	}
	if ride.Kind != workout.Cycling || ride.Metric != 25 || ride.Value != 50 || ride.BestMetric != 30 {
		t.Fatalf("unexpected cycling summary: %+v", ride)
	}
	if got := Summarize(nil); len(got) != 0 {
		t.Fatalf("expected no summaries for no workouts")
	}
}

func TestFilter(t *testing.T) {
	ws := sampleWorkouts(t)
	if got := Filter(ws, model.StatsConfig{Kind: workout.Cycling}); len(got) != 2 || got[0].Kind() != workout.Cycling {
		t.Fatalf("kind filter failed: %d", len(got))
	}
	since := baseTime.Add(36 * time.Hour)
	if got := Filter(ws, model.StatsConfig{Since: &since}); len(got) != 2 || got[0].ID() != "id-3" {
		t.Fatalf("since filter failed: %d", len(got))
	}
	if got := Filter(ws, model.StatsConfig{Last: 3}); len(got) != 3 || got[0].ID() != "id-2" {
		t.Fatalf("last filter failed: %d", len(got))
	}
}

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{1, 2, 3, 4}, 2)
	want := []float64{1, 1.5, 2.5, 3.5}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: got %v want %v", i, got[i], want[i])
		}
	}
	if got := MovingAverage([]float64{3, 1}, 0); got[0] != 3 || got[1] != 1 {
		t.Fatalf("window <= 1 should copy values: %v", got)
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline([]float64{0, 9}); got != " @" {
		t.Fatalf("unexpected sparkline %q", got)
	}
	if got := Sparkline([]float64{2, 2, 2}); got != "+++" {
		t.Fatalf("unexpected flat sparkline %q", got)
	}
	if got := Sparkline(nil); got != "" {
		t.Fatalf("expected empty sparkline")
	}
}

func TestEntryFor(t *testing.T) {
	ws := sampleWorkouts(t)
	e := EntryFor(ws[0])
	if e.Distance != "5 km" || e.Duration != "30 min" || e.Metric != "6.00 min/km" || e.Value != "170 spm" {
		t.Fatalf("unexpected entry: %+v", e)
	}
	if e.Description != "Running on March 1" {
		t.Fatalf("unexpected description %q", e.Description)
	}
	if got := Popup(workout.Cycling, "Cycling on March 2"); got != "🚴 Cycling on March 2" {
		t.Fatalf("unexpected popup %q", got)
	}
}
