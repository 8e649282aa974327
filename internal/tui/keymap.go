package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Left    key.Binding
	Right   key.Binding
	ZoomIn  key.Binding
	ZoomOut key.Binding
	Pick    key.Binding
	Locate  key.Binding
	Focus   key.Binding
	Select  key.Binding
	Submit  key.Binding
	Cancel  key.Binding
	Toggle  key.Binding
	Next    key.Binding
	Prev    key.Binding
	Reset   key.Binding
	Quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
		Right:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
		ZoomIn:  key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "zoom in")),
		ZoomOut: key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "zoom out")),
		Pick:    key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "record here")),
		Locate:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "my position")),
		Focus:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch pane")),
		Select:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "show on map")),
		Submit:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save")),
		Cancel:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Toggle:  key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "running/cycling")),
		Next:    key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
		Prev:    key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "prev field")),
		Reset:   key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "reset")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// focusedKeys adapts the key map to the help bubble for the focused pane.
type focusedKeys struct {
	keys  keyMap
	focus focusArea
}

func (f focusedKeys) ShortHelp() []key.Binding {
	k := f.keys
	switch f.focus {
	case focusForm:
		return []key.Binding{k.Submit, k.Next, k.Toggle, k.Cancel}
	case focusList:
		return []key.Binding{k.Up, k.Down, k.Select, k.Focus, k.Quit}
	default:
		return []key.Binding{k.Pick, k.ZoomIn, k.ZoomOut, k.Locate, k.Focus, k.Reset, k.Quit}
	}
}

func (f focusedKeys) FullHelp() [][]key.Binding {
	k := f.keys
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Pick, k.ZoomIn, k.ZoomOut, k.Locate},
		{k.Submit, k.Next, k.Prev, k.Toggle, k.Cancel},
		{k.Focus, k.Select, k.Reset, k.Quit},
	}
}
