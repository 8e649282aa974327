package stats

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/tuitrail/internal/workout"
)

// WorkoutTable formats workouts as aligned text lines, newest first.
func WorkoutTable(ws []*workout.Workout) []string {
	headers := []string{"", "Workout", "Distance", "Duration", "Pace/Speed", "Cadence/Elev", "ID"}
	rows := make([][]string, 0, len(ws))
	for i := len(ws) - 1; i >= 0; i-- {
		e := EntryFor(ws[i])
		rows = append(rows, []string{e.Icon, e.Description, e.Distance, e.Duration, e.Metric, e.Value, shortID(e.ID)})
	}
	return formatTable(headers, rows, map[int]bool{2: true, 3: true, 4: true, 5: true})
}

func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

func formatTable(headers []string, rows [][]string, rightAlignCols map[int]bool) []string {
	colCount := len(headers)
	for _, row := range rows {
		colCount = max(colCount, len(row))
	}
	if colCount == 0 {
		return nil
	}

	widths := make([]int, colCount)
	for i, header := range headers {
		widths[i] = displayWidth(header)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], displayWidth(cell))
		}
	}

	lines := make([]string, 0, len(rows)+1)
	if len(headers) > 0 {
		lines = append(lines, formatRow(headers, widths, rightAlignCols))
	}
	for _, row := range rows {
		lines = append(lines, formatRow(row, widths, rightAlignCols))
	}
	return lines
}

func formatRow(row []string, widths []int, rightAlignCols map[int]bool) string {
	var b strings.Builder
	for i, width := range widths {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(padCell(cell, width, rightAlignCols[i]))
	}
	return strings.TrimRight(b.String(), " ")
}

func padCell(value string, width int, rightAlign bool) string {
	padding := width - displayWidth(value)
	if padding <= 0 {
		return value
	}
	if rightAlign {
		return strings.Repeat(" ", padding) + value
	}
	return value + strings.Repeat(" ", padding)
}

// Emoji glyphs occupy two terminal cells.
func displayWidth(value string) int {
	return runewidth.StringWidth(value)
}
