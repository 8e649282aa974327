// Package tui provides the Bubble Tea map, workout form, and workout list.
package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/tuitrail/internal/geo"
	"github.com/verte-zerg/tuitrail/internal/model"
	"github.com/verte-zerg/tuitrail/internal/session"
	"github.com/verte-zerg/tuitrail/internal/stats"
	"github.com/verte-zerg/tuitrail/internal/workout"
)

const locateTimeout = 5 * time.Second

// footerLines is the number of rows below the panes: cursor info, status, help.
const footerLines = 3

type focusArea int

const (
	focusMap focusArea = iota
	focusList
	focusForm
)

type marker struct {
	loc   geo.Location
	kind  workout.Kind
	label string
}

type (
	startupMsg  struct{}
	restartMsg  struct{}
	positionMsg struct {
		loc geo.Location
		err error
	}
)

// Model implements the Bubble Tea workout UI and presents for a
// session.Controller.
type Model struct {
	ctrl *session.Controller
	cfg  model.Config
	keys keyMap
	help help.Model

	width  int
	height int

	view      geo.Viewport
	cursorCol int
	cursorRow int
	focus     focusArea
	markers   []marker

	list   table.Model
	rowIDs []string

	form formState

	status       string
	statusIsErr  bool
	confirmReset bool

	restartRequested bool
	pendingCmd       tea.Cmd
}

// NewModel constructs the UI. Bind must be called before the program starts.
func NewModel(cfg model.Config) *Model {
	zoom := cfg.Zoom
	if zoom == 0 {
		zoom = geo.DefaultZoom
	}
	return &Model{
		cfg:  cfg,
		keys: newKeyMap(),
		help: help.New(),
		view: geo.Viewport{Center: cfg.Home, Zoom: zoom, Width: 1, Height: 1},
		list: newWorkoutTable(),
		form: newForm(),
	}
}

// Bind attaches the controller that drives this model.
func (m *Model) Bind(ctrl *session.Controller) {
	m.ctrl = ctrl
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(func() tea.Msg { return startupMsg{} }, m.locateCmd())
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		first := m.width == 0 && m.height == 0
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		if first {
			m.centerCursor()
		}
	case startupMsg:
		if err := m.ctrl.OnStartup(context.Background()); err != nil {
			m.setError("Stored workouts could not be loaded, starting empty.")
		}
	case positionMsg:
		if err := m.ctrl.OnPositionResolved(msg.loc, msg.err); err != nil {
			m.setError("Could not get your position.")
		}
	case restartMsg:
		m.clearPresentation()
		m.setStatus("All workouts erased.")
		cmd = m.Init()
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		var quit bool
		cmd, quit = m.handleKey(msg)
		if quit {
			return m, tea.Quit
		}
	}

	if m.pendingCmd != nil {
		cmd = tea.Batch(cmd, m.pendingCmd)
		m.pendingCmd = nil
	}
	if m.restartRequested {
		m.restartRequested = false
		cmd = tea.Batch(cmd, func() tea.Msg { return restartMsg{} })
	}
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	if m.confirmReset {
		m.confirmReset = false
		if msg.String() != "y" {
			m.setStatus("Reset cancelled.")
			return nil, false
		}
		if err := m.ctrl.OnReset(context.Background()); err != nil {
			m.setError(fmt.Sprintf("Could not erase stored workouts: %v", err))
		}
		return nil, false
	}

	switch m.focus {
	case focusForm:
		return m.handleFormKey(msg), false
	case focusList:
		return m.handleListKey(msg)
	default:
		return m.handleMapKey(msg)
	}
}

func (m *Model) handleMapKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return nil, true
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(0, -1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(0, 1)
	case key.Matches(msg, m.keys.Left):
		m.moveCursor(-1, 0)
	case key.Matches(msg, m.keys.Right):
		m.moveCursor(1, 0)
	case key.Matches(msg, m.keys.ZoomIn):
		m.zoom(1)
	case key.Matches(msg, m.keys.ZoomOut):
		m.zoom(-1)
	case key.Matches(msg, m.keys.Pick):
		m.ctrl.OnLocationPicked(m.cursorLocation())
	case key.Matches(msg, m.keys.Locate):
		m.setStatus("Locating...")
		return m.locateCmd(), false
	case key.Matches(msg, m.keys.Focus):
		m.focus = focusList
		m.list.Focus()
	case key.Matches(msg, m.keys.Reset):
		m.confirmReset = true
		m.setStatus("Erase all workouts? (y/N)")
	}
	return nil, false
}

func (m *Model) handleListKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return nil, true
	case key.Matches(msg, m.keys.Focus):
		m.focus = focusMap
		m.list.Blur()
		return nil, false
	case key.Matches(msg, m.keys.Select):
		id, ok := m.selectedID()
		if !ok {
			return nil, false
		}
		if err := m.ctrl.OnSelectExisting(id); err != nil {
			m.setError("That workout no longer exists.")
		}
		return nil, false
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return cmd, false
}

func (m *Model) handleFormKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.ctrl.OnCancel()
		return nil
	case key.Matches(msg, m.keys.Toggle):
		m.form.toggleKind()
		return nil
	case key.Matches(msg, m.keys.Next):
		return m.form.move(1)
	case key.Matches(msg, m.keys.Prev):
		return m.form.move(-1)
	case key.Matches(msg, m.keys.Submit):
		_, err := m.ctrl.OnFormSubmitted(context.Background(), m.form.input())
		if errors.Is(err, workout.ErrDuplicateID) {
			m.setError("A workout with that id already exists.")
		}
		return nil
	}
	return m.form.update(msg)
}

// ShowForm implements session.Presenter.
func (m *Model) ShowForm() {
	if m.focus == focusList {
		m.list.Blur()
	}
	m.focus = focusForm
	m.clearStatus()
	m.pendingCmd = m.form.show()
	m.layout()
}

// HideForm implements session.Presenter.
func (m *Model) HideForm() {
	m.form.hide()
	m.focus = focusMap
	m.layout()
}

// RenderMarker implements session.Presenter.
func (m *Model) RenderMarker(loc geo.Location, kind workout.Kind, description string) {
	m.markers = append(m.markers, marker{loc: loc, kind: kind, label: stats.Popup(kind, description)})
}

// RenderListEntry implements session.Presenter. Newest entries come first.
func (m *Model) RenderListEntry(w *workout.Workout) {
	e := stats.EntryFor(w)
	row := table.Row{e.Icon, e.Description, e.Distance, e.Duration, e.Metric, e.Value}
	rows := append([]table.Row{row}, m.list.Rows()...)
	m.rowIDs = append([]string{e.ID}, m.rowIDs...)
	m.list.SetRows(rows)
}

// CenterMapOn implements session.Presenter.
func (m *Model) CenterMapOn(loc geo.Location) {
	m.view.Center = loc
	m.centerCursor()
}

// NotifyValidationFailure implements session.Presenter.
func (m *Model) NotifyValidationFailure(reason string) {
	m.setError("Inputs have to be positive numbers: " + reason)
}

// NotifyPersistenceFailure implements session.Presenter.
func (m *Model) NotifyPersistenceFailure(err error) {
	m.setError(fmt.Sprintf("Workout kept for this session but could not be saved: %v", err))
}

// Restart implements session.Presenter.
func (m *Model) Restart() {
	m.restartRequested = true
}

func (m *Model) locateCmd() tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), locateTimeout)
		defer cancel()
		loc, err := ctrl.RequestPosition(ctx)
		return positionMsg{loc: loc, err: err}
	}
}

func (m *Model) clearPresentation() {
	m.markers = nil
	m.rowIDs = nil
	m.list.SetRows(nil)
	m.list.SetCursor(0)
	m.list.Blur()
	m.form.hide()
	m.focus = focusMap
	m.confirmReset = false
	m.view.Center = m.cfg.Home
	m.layout()
	m.centerCursor()
}

// layout sizes the map and list panes to the terminal.
func (m *Model) layout() {
	if m.width == 0 || m.height == 0 {
		return
	}
	mapOuter := m.width / 2
	m.view.Width = max(mapOuter-2, 1)
	m.view.Height = max(m.height-footerLines-2, 1)

	sidebar := max(m.width-mapOuter-2, 10)
	listHeight := m.view.Height - 1
	if m.form.open {
		listHeight -= formHeight
	}
	m.list.SetColumns(workoutColumns(sidebar))
	m.list.SetWidth(sidebar)
	m.list.SetHeight(max(listHeight, 3))
	m.help.Width = m.width

	if m.cursorCol >= m.view.Width || m.cursorRow >= m.view.Height {
		m.centerCursor()
	}
}

func (m *Model) centerCursor() {
	m.cursorCol = m.view.Width / 2
	m.cursorRow = m.view.Height / 2
}

// moveCursor moves the cursor within the map and pans once it reaches an edge.
func (m *Model) moveCursor(dCol, dRow int) {
	col := m.cursorCol + dCol
	row := m.cursorRow + dRow
	if col < 0 || col >= m.view.Width {
		m.view = m.view.Pan(dCol, 0)
		col = m.cursorCol
	}
	if row < 0 || row >= m.view.Height {
		m.view = m.view.Pan(0, dRow)
		row = m.cursorRow
	}
	m.cursorCol = col
	m.cursorRow = row
}

// zoom keeps the location under the cursor fixed on screen.
func (m *Model) zoom(delta int) {
	at := m.cursorLocation()
	m.view = m.view.ZoomBy(delta)
	m.view.Center = at
	m.centerCursor()
}

func (m *Model) cursorLocation() geo.Location {
	return m.view.At(m.cursorCol, m.cursorRow)
}

func (m *Model) selectedID() (string, bool) {
	idx := m.list.Cursor()
	if idx < 0 || idx >= len(m.rowIDs) {
		return "", false
	}
	return m.rowIDs[idx], true
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusIsErr = false
}

func (m *Model) setError(s string) {
	m.status = s
	m.statusIsErr = true
}

func (m *Model) clearStatus() {
	m.status = ""
	m.statusIsErr = false
}
