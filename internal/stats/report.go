package stats

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/verte-zerg/tuitrail/internal/model"
	"github.com/verte-zerg/tuitrail/internal/workout"
)

const (
	terminalWidthBackup = 80
	trendLabel          = "Distance trend "
	colorCyan           = "\x1b[36m"
	colorReset          = "\x1b[0m"
)

// WriteReport prints per-kind totals and a distance trend for the filtered workouts.
func WriteReport(w io.Writer, ws []*workout.Workout, cfg model.StatsConfig, totalWidth int, useColor bool) error {
	ws = Filter(ws, cfg)
	if len(ws) == 0 {
		_, err := fmt.Fprintln(w, "No workouts found.")
		return err
	}
	if _, err := fmt.Fprintf(w, "Summary (%d workouts)\n", len(ws)); err != nil {
		return err
	}

	headers := []string{"", "Kind", "Count", "Distance", "Duration", "Overall", "Best", "Longest", "Cadence/Elev"}
	var rows [][]string
	for _, s := range Summarize(ws) {
		value := fmt.Sprintf("%.0f spm avg", s.Value)
		if s.Kind == workout.Cycling {
			value = fmt.Sprintf("%.0f m total", s.Value)
		}
		rows = append(rows, []string{
			s.Kind.Icon(),
			s.Kind.Title(),
			fmt.Sprintf("%d", s.Count),
			fmt.Sprintf("%.2f km", s.DistanceKm),
			formatDuration(s.DurationMin),
			fmt.Sprintf("%.2f %s", s.Metric, s.Kind.MetricUnit()),
			fmt.Sprintf("%.2f %s", s.BestMetric, s.Kind.MetricUnit()),
			fmt.Sprintf("%.2f km", s.LongestKm),
			value,
		})
	}
	for _, line := range formatTable(headers, rows, map[int]bool{2: true, 3: true, 4: true, 5: true, 6: true, 7: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	trend := MovingAverage(Distances(ws), cfg.Window)
	if totalWidth <= 0 {
		totalWidth = terminalWidthBackup
	}
	if avail := totalWidth - len(trendLabel); avail > 0 && len(trend) > avail {
		trend = trend[len(trend)-avail:]
	}
	line := Sparkline(trend)
	if useColor {
		line = colorCyan + line + colorReset
	}
	_, err := fmt.Fprintf(w, "\n%s%s\n", trendLabel, line)
	return err
}

// WriteList prints the workout table, newest first.
func WriteList(w io.Writer, ws []*workout.Workout, cfg model.StatsConfig) error {
	ws = Filter(ws, cfg)
	if len(ws) == 0 {
		_, err := fmt.Fprintln(w, "No workouts found.")
		return err
	}
	for _, line := range WorkoutTable(ws) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// TerminalWidth returns the stdout width, or a fallback when not a terminal.
func TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

// ShouldUseColor reports whether ANSI colors should be written to w.
func ShouldUseColor(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

func formatDuration(minutes float64) string {
	total := int(minutes + 0.5)
	if total < 60 {
		return fmt.Sprintf("%dm", total)
	}
	return fmt.Sprintf("%dh%02dm", total/60, total%60)
}
