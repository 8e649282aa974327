package tui

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/tuitrail/internal/geo"
	"github.com/verte-zerg/tuitrail/internal/model"
	"github.com/verte-zerg/tuitrail/internal/session"
	"github.com/verte-zerg/tuitrail/internal/store"
	"github.com/verte-zerg/tuitrail/internal/workout"
)

var home = geo.Location{Lat: 10, Lng: 20}

func newTestModel(t *testing.T, medium session.Medium) (*Model, *session.Controller) {
	t.Helper()
	m := NewModel(model.Config{Home: home, HasHome: true, Zoom: geo.DefaultZoom})
	ctrl := session.New(m, medium)
	m.Bind(ctrl)
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
	m.Update(startupMsg{})
	return m, ctrl
}

func press(m *Model, keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "ctrl+t":
			msg = tea.KeyMsg{Type: tea.KeyCtrlT}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		_, cmd = m.Update(msg)
	}
	return cmd
}

func TestRecordRunningWorkoutAtHome(t *testing.T) {
	medium := store.NewMemory()
	m, ctrl := newTestModel(t, medium)

	press(m, "enter")
	if m.focus != focusForm || !m.form.open {
		t.Fatalf("expected form to open, focus=%v open=%v", m.focus, m.form.open)
	}
	if loc, ok := ctrl.Pending(); !ok || loc != home {
		t.Fatalf("expected pending %v, got %v %v", home, loc, ok)
	}

	press(m, "5", "tab", "2", "5", "tab", "1", "7", "0", "enter")

	ws := ctrl.Workouts()
	if len(ws) != 1 {
		t.Fatalf("expected 1 workout, got %d", len(ws))
	}
	if ws[0].Kind() != workout.Running || ws[0].Metric() != 5 {
		t.Fatalf("unexpected workout %v pace %v", ws[0].Kind(), ws[0].Metric())
	}
	if len(m.markers) != 1 || len(m.rowIDs) != 1 || m.rowIDs[0] != ws[0].ID() {
		t.Fatalf("expected one marker and list entry, got %d %v", len(m.markers), m.rowIDs)
	}
	if m.form.open || m.focus != focusMap {
		t.Fatalf("expected form to close")
	}
	for i, in := range m.form.inputs {
		if in.Value() != "" {
			t.Fatalf("field %d not cleared: %q", i, in.Value())
		}
	}
	if medium.Writes != 1 {
		t.Fatalf("expected one write, got %d", medium.Writes)
	}
	if !strings.ContainsRune(m.renderMap(), runningGlyph) {
		t.Fatalf("expected running marker on map")
	}
}

func TestInvalidSubmitKeepsForm(t *testing.T) {
	m, ctrl := newTestModel(t, store.NewMemory())
	press(m, "enter", "enter")

	if !m.form.open || ctrl.State() != session.AwaitingFormInput {
		t.Fatalf("expected form to stay open")
	}
	if !m.statusIsErr || !strings.Contains(m.status, "distance") {
		t.Fatalf("expected validation status, got %q", m.status)
	}

	press(m, "x", "tab", "1", "0", "tab", "9", "0", "enter")
	if len(ctrl.Workouts()) != 0 {
		t.Fatalf("unparsable distance must not be stored")
	}
}

func TestCyclingWithBlankElevation(t *testing.T) {
	m, ctrl := newTestModel(t, store.NewMemory())
	press(m, "enter", "ctrl+t", "2", "0", "tab", "6", "0", "enter")

	ws := ctrl.Workouts()
	if len(ws) != 1 {
		t.Fatalf("expected 1 workout, got %d (status %q)", len(ws), m.status)
	}
	if ws[0].Kind() != workout.Cycling || ws[0].KindValue() != 0 {
		t.Fatalf("unexpected workout %v %v", ws[0].Kind(), ws[0].KindValue())
	}
	if m.form.kind != workout.Cycling {
		t.Fatalf("kind toggle should survive the submit")
	}
}

func TestCancelClosesForm(t *testing.T) {
	m, ctrl := newTestModel(t, store.NewMemory())
	press(m, "enter", "4", "esc")

	if m.form.open || ctrl.State() != session.Idle {
		t.Fatalf("expected idle after cancel")
	}
	if m.form.inputs[fieldDistance].Value() != "" {
		t.Fatalf("expected cleared distance")
	}
}

func TestSelectFromListCentersMap(t *testing.T) {
	m, ctrl := newTestModel(t, store.NewMemory())
	press(m, "l", "l", "l", "enter", "5", "tab", "2", "5", "tab", "1", "7", "0", "enter")
	ws := ctrl.Workouts()
	if len(ws) != 1 {
		t.Fatalf("expected 1 workout, got %d", len(ws))
	}

	m.CenterMapOn(home)
	press(m, "tab", "enter")

	if ws[0].Clicks() != 1 {
		t.Fatalf("expected one click, got %d", ws[0].Clicks())
	}
	if m.view.Center != ws[0].Location() {
		t.Fatalf("expected map centered on %v, got %v", ws[0].Location(), m.view.Center)
	}
}

func TestResetRestartsEmpty(t *testing.T) {
	medium := store.NewMemory()
	m, ctrl := newTestModel(t, medium)
	press(m, "enter", "5", "tab", "2", "5", "tab", "1", "7", "0", "enter")

	if cmd := press(m, "R", "y"); cmd == nil {
		t.Fatalf("expected restart command")
	}
	m.Update(restartMsg{})
	m.Update(startupMsg{})

	if len(ctrl.Workouts()) != 0 || len(m.markers) != 0 || len(m.rowIDs) != 0 {
		t.Fatalf("expected empty state after reset")
	}
	if data, _ := medium.Read(context.Background()); data != nil {
		t.Fatalf("expected erased medium")
	}
}

func TestResetNeedsConfirmation(t *testing.T) {
	m, ctrl := newTestModel(t, store.NewMemory())
	press(m, "enter", "5", "tab", "2", "5", "tab", "1", "7", "0", "enter")
	press(m, "R", "n")

	if len(ctrl.Workouts()) != 1 {
		t.Fatalf("reset without confirmation must keep workouts")
	}
}

func TestPositionFailureReported(t *testing.T) {
	m, _ := newTestModel(t, store.NewMemory())
	m.Update(positionMsg{err: geo.ErrUnavailable})
	if !m.statusIsErr || !strings.Contains(m.status, "position") {
		t.Fatalf("expected position error, got %q", m.status)
	}

	target := geo.Location{Lat: 48.85, Lng: 2.35}
	m.Update(positionMsg{loc: target})
	if m.view.Center != target {
		t.Fatalf("expected map centered on %v, got %v", target, m.view.Center)
	}
}

func TestPersistenceFailureShown(t *testing.T) {
	medium := store.NewMemory()
	medium.WriteErr = errors.New("disk full")
	m, ctrl := newTestModel(t, medium)
	press(m, "enter", "5", "tab", "2", "5", "tab", "1", "7", "0", "enter")

	if len(ctrl.Workouts()) != 1 {
		t.Fatalf("workout should be kept in memory")
	}
	if !m.statusIsErr || !strings.Contains(m.status, "disk full") {
		t.Fatalf("expected persistence error, got %q", m.status)
	}
}

func TestZoomKeepsCursorLocation(t *testing.T) {
	m, _ := newTestModel(t, store.NewMemory())
	press(m, "l", "l", "k")
	before := m.cursorLocation()
	press(m, "+")

	if m.view.Zoom != geo.DefaultZoom+1 {
		t.Fatalf("expected zoom %d, got %d", geo.DefaultZoom+1, m.view.Zoom)
	}
	if m.cursorLocation() != before {
		t.Fatalf("cursor moved from %v to %v", before, m.cursorLocation())
	}
}

func TestParseField(t *testing.T) {
	if v := parseField(""); v != 0 {
		t.Fatalf("blank should be zero, got %v", v)
	}
	if v := parseField(" 5.5 "); v != 5.5 {
		t.Fatalf("expected 5.5, got %v", v)
	}
	if v := parseField("abc"); !math.IsNaN(v) {
		t.Fatalf("expected NaN, got %v", v)
	}
}

func TestViewShowsPanes(t *testing.T) {
	m, _ := newTestModel(t, store.NewMemory())
	out := m.View()
	for _, want := range []string{"Workouts (0)", "10.0000, 20.0000", "zoom 13"} {
		if !strings.Contains(out, want) {
			t.Fatalf("view missing %q", want)
		}
	}
	press(m, "enter")
	if !strings.Contains(m.View(), "New workout at") {
		t.Fatalf("expected form in view")
	}
}
