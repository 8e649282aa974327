package tui

import (
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/tuitrail/internal/session"
	"github.com/verte-zerg/tuitrail/internal/workout"
)

const (
	fieldDistance = iota
	fieldDuration
	fieldValue
	fieldCount
)

// formHeight is the number of sidebar lines the open form occupies.
const formHeight = 6

type formState struct {
	open   bool
	kind   workout.Kind
	inputs []textinput.Model
	index  int
}

func newForm() formState {
	inputs := make([]textinput.Model, fieldCount)
	for i := range inputs {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 12
		ti.Width = 12
		inputs[i] = ti
	}
	inputs[fieldDistance].Placeholder = "km"
	inputs[fieldDuration].Placeholder = "min"
	f := formState{kind: workout.Running, inputs: inputs}
	f.applyKind()
	return f
}

func (f *formState) applyKind() {
	if f.kind == workout.Cycling {
		f.inputs[fieldValue].Placeholder = "meters"
		return
	}
	f.inputs[fieldValue].Placeholder = "step/min"
}

func (f *formState) show() tea.Cmd {
	f.open = true
	f.index = fieldDistance
	return f.focusCurrent()
}

// hide closes the form and clears every field.
func (f *formState) hide() {
	f.open = false
	f.index = fieldDistance
	for i := range f.inputs {
		f.inputs[i].SetValue("")
		f.inputs[i].Blur()
	}
}

func (f *formState) focusCurrent() tea.Cmd {
	var cmd tea.Cmd
	for i := range f.inputs {
		if i == f.index {
			cmd = f.inputs[i].Focus()
			continue
		}
		f.inputs[i].Blur()
	}
	return cmd
}

func (f *formState) move(delta int) tea.Cmd {
	f.index = (f.index + delta + fieldCount) % fieldCount
	return f.focusCurrent()
}

// toggleKind swaps between cadence and elevation input. The typed value is kept.
func (f *formState) toggleKind() {
	if f.kind == workout.Running {
		f.kind = workout.Cycling
	} else {
		f.kind = workout.Running
	}
	f.applyKind()
}

func (f *formState) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.index], cmd = f.inputs[f.index].Update(msg)
	return cmd
}

func (f *formState) input() session.FormInput {
	return session.FormInput{
		Kind:        f.kind,
		DistanceKm:  parseField(f.inputs[fieldDistance].Value()),
		DurationMin: parseField(f.inputs[fieldDuration].Value()),
		KindValue:   parseField(f.inputs[fieldValue].Value()),
	}
}

func (f *formState) valueLabel() string {
	if f.kind == workout.Cycling {
		return "Elev Gain"
	}
	return "Cadence"
}

// parseField treats a blank field as zero and unparsable text as NaN, leaving
// the decision to workout validation.
func parseField(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
