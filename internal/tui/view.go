package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/tuitrail/internal/geo"
	"github.com/verte-zerg/tuitrail/internal/workout"
)

var (
	runningStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00C46A")).Bold(true)
	cyclingStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFB545")).Bold(true)
	pendingStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	gridStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#3A3A3A"))
	cursorStyle     = lipgloss.NewStyle().Reverse(true)
	labelStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	titleStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	footerStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	paneStyle       = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#4A4A4A"))
	activePaneStyle = paneStyle.BorderForeground(lipgloss.Color("#C89A3A"))
)

const (
	runningGlyph = '▲'
	cyclingGlyph = '●'
	pendingGlyph = '◆'
	cursorGlyph  = '+'
	gridGlyph    = '·'
)

// Grid dots are drawn every gridCols columns and gridRows rows.
const (
	gridCols = 6
	gridRows = 3
)

type cell struct {
	glyph rune
	style lipgloss.Style
}

func newWorkoutTable() table.Model {
	return table.New(
		table.WithColumns(workoutColumns(0)),
		table.WithHeight(5),
		table.WithFocused(false),
	)
}

// workoutColumns fits the list columns to width. The description column
// absorbs the slack.
func workoutColumns(width int) []table.Column {
	cols := []table.Column{
		{Title: "", Width: 2},
		{Title: "Workout", Width: 0},
		{Title: "Dist", Width: 8},
		{Title: "Time", Width: 8},
		{Title: "Pace/Speed", Width: 11},
		{Title: "Extra", Width: 7},
	}
	used := 0
	for _, c := range cols {
		// Each cell is padded by one space on both sides.
		used += c.Width + 2
	}
	cols[1].Width = min(max(width-used, 10), 22)
	return cols
}

func markerCell(kind workout.Kind) cell {
	if kind == workout.Cycling {
		return cell{glyph: cyclingGlyph, style: cyclingStyle}
	}
	return cell{glyph: runningGlyph, style: runningStyle}
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	mapStyle, sideStyle := paneStyle, activePaneStyle
	if m.focus == focusMap {
		mapStyle, sideStyle = activePaneStyle, paneStyle
	}
	sideWidth := max(m.width-m.view.Width-4, 1)
	mapPane := mapStyle.Render(m.renderMap())
	sidePane := sideStyle.Width(sideWidth).Height(m.view.Height).Render(m.renderSidebar())
	body := lipgloss.JoinHorizontal(lipgloss.Top, mapPane, sidePane)
	return lipgloss.JoinVertical(lipgloss.Left,
		body,
		m.renderInfo(),
		m.renderStatus(),
		m.help.View(focusedKeys{keys: m.keys, focus: m.focus}),
	)
}

// overlay returns the glyphs drawn over the grid, keyed by cell. Later markers
// win when several share a cell. The pending location is drawn last.
func (m *Model) overlay() map[[2]int]cell {
	cells := map[[2]int]cell{}
	for _, mk := range m.markers {
		if col, row, ok := m.view.Project(mk.loc); ok {
			cells[[2]int{col, row}] = markerCell(mk.kind)
		}
	}
	if m.ctrl != nil {
		if loc, ok := m.ctrl.Pending(); ok {
			if col, row, ok := m.view.Project(loc); ok {
				cells[[2]int{col, row}] = cell{glyph: pendingGlyph, style: pendingStyle}
			}
		}
	}
	return cells
}

func (m *Model) renderMap() string {
	cells := m.overlay()
	var b strings.Builder
	for row := 0; row < m.view.Height; row++ {
		if row > 0 {
			b.WriteByte('\n')
		}
		for col := 0; col < m.view.Width; col++ {
			c, marked := cells[[2]int{col, row}]
			if col == m.cursorCol && row == m.cursorRow {
				glyph := cursorGlyph
				if marked {
					glyph = c.glyph
				}
				b.WriteString(cursorStyle.Render(string(glyph)))
				continue
			}
			switch {
			case marked:
				b.WriteString(c.style.Render(string(c.glyph)))
			case col%gridCols == 0 && row%gridRows == 0:
				b.WriteString(gridStyle.Render(string(gridGlyph)))
			default:
				b.WriteByte(' ')
			}
		}
	}
	return b.String()
}

func (m *Model) renderSidebar() string {
	var parts []string
	if m.form.open {
		parts = append(parts, m.renderForm())
	}
	title := titleStyle.Render(fmt.Sprintf("Workouts (%d)", len(m.rowIDs)))
	if len(m.rowIDs) == 0 {
		return strings.Join(append(parts, title, labelStyle.Render("Pick a spot on the map and press enter.")), "\n")
	}
	return strings.Join(append(parts, title, m.list.View()), "\n")
}

func (m *Model) renderForm() string {
	loc := geo.Location{}
	if m.ctrl != nil {
		loc, _ = m.ctrl.Pending()
	}
	kind := markerCell(m.form.kind)
	lines := []string{
		titleStyle.Render("New workout at " + loc.String()),
		formLine("Type", kind.style.Render(m.form.kind.Icon()+" "+m.form.kind.Title())),
		formLine("Distance", m.form.inputs[fieldDistance].View()),
		formLine("Duration", m.form.inputs[fieldDuration].View()),
		formLine(m.form.valueLabel(), m.form.inputs[fieldValue].View()),
		"",
	}
	return strings.Join(lines, "\n")
}

func formLine(label, value string) string {
	return labelStyle.Render(fmt.Sprintf("%-10s", label)) + value
}

// renderInfo describes the cell under the cursor: its coordinates, the
// distance from home, and any workouts recorded there.
func (m *Model) renderInfo() string {
	at := m.cursorLocation()
	segments := []string{at.String(), fmt.Sprintf("zoom %d", m.view.Zoom)}
	if m.cfg.HasHome {
		segments = append(segments, fmt.Sprintf("%.2f km from home", geo.DistanceKm(m.cfg.Home, at)))
	}
	for _, mk := range m.markers {
		if col, row, ok := m.view.Project(mk.loc); ok && col == m.cursorCol && row == m.cursorRow {
			segments = append(segments, mk.label)
		}
	}
	line := strings.Join(segments, "  ")
	if m.width > 0 {
		line = runewidth.Truncate(line, m.width, "…")
	}
	return footerStyle.Render(line)
}

func (m *Model) renderStatus() string {
	if m.status == "" {
		return ""
	}
	line := m.status
	if m.width > 0 {
		line = runewidth.Truncate(line, m.width, "…")
	}
	if m.statusIsErr {
		return errorStyle.Render(line)
	}
	return footerStyle.Render(line)
}
