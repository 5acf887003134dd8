package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit          key.Binding
	Help          key.Binding
	ZoomIn        key.Binding
	ZoomOut       key.Binding
	Left          key.Binding
	Right         key.Binding
	Up            key.Binding
	Down          key.Binding
	Reset         key.Binding
	Jump          key.Binding
	Search        key.Binding
	Dismiss       key.Binding
	TogglePeople  key.Binding
	TogglePoints  key.Binding
	TogglePeriods key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:          key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Help:          key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		ZoomIn:        key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "zoom in")),
		ZoomOut:       key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "zoom out")),
		Left:          key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "earlier")),
		Right:         key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "later")),
		Up:            key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "scroll up")),
		Down:          key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "scroll down")),
		Reset:         key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset view")),
		Jump:          key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "go to year")),
		Search:        key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "find")),
		Dismiss:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close details")),
		TogglePeople:  key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "people")),
		TogglePoints:  key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "events")),
		TogglePeriods: key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "periods")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.ZoomIn, k.ZoomOut, k.Left, k.Right, k.Jump, k.Search, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.ZoomIn, k.ZoomOut, k.Reset},
		{k.Left, k.Right, k.Up, k.Down},
		{k.TogglePeople, k.TogglePoints, k.TogglePeriods},
		{k.Jump, k.Search, k.Dismiss, k.Quit},
	}
}
