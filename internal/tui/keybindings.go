package tui

import "github.com/charmbracelet/bubbles/key"

// SharedKeyMap defines keybindings available on all screens.
type SharedKeyMap struct {
	ForceQuit key.Binding
	Quit      key.Binding
}

// SharedKeys are available on all screens.
var SharedKeys = SharedKeyMap{
	ForceQuit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "force quit"),
	),
	Quit: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "quit"),
	),
}

// FormKeyMap defines keybindings for the form screen.
type FormKeyMap struct {
	Up        key.Binding
	Down      key.Binding
	TabNext   key.Binding
	TabPrev   key.Binding
	Left      key.Binding
	Right     key.Binding
	Activate  key.Binding
	Add       key.Binding
	Delete    key.Binding
	Submit    key.Binding
	CycleView key.Binding
	History   key.Binding
}

// FormKeys are the keybindings for the form screen.
var FormKeys = FormKeyMap{
	Up: key.NewBinding(
		key.WithKeys("up"),
		key.WithHelp("↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down"),
		key.WithHelp("↓", "down"),
	),
	TabNext: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next"),
	),
	TabPrev: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("shift+tab", "prev"),
	),
	Left: key.NewBinding(
		key.WithKeys("left"),
		key.WithHelp("←/→", "category"),
	),
	Right: key.NewBinding(
		key.WithKeys("right"),
		key.WithHelp("←/→", "category"),
	),
	Activate: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "press"),
	),
	Add: key.NewBinding(
		key.WithKeys("ctrl+n"),
		key.WithHelp("ctrl+n", "add field"),
	),
	Delete: key.NewBinding(
		key.WithKeys("ctrl+d"),
		key.WithHelp("ctrl+d", "delete field"),
	),
	Submit: key.NewBinding(
		key.WithKeys("ctrl+s"),
		key.WithHelp("ctrl+s", "submit"),
	),
	CycleView: key.NewBinding(
		key.WithKeys("ctrl+v"),
		key.WithHelp("ctrl+v", "switch view"),
	),
	History: key.NewBinding(
		key.WithKeys("ctrl+r"),
		key.WithHelp("ctrl+r", "history"),
	),
}

// HistoryKeyMap defines keybindings for the submission history screen.
type HistoryKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Reload key.Binding
	Close  key.Binding
}

// HistoryKeys are the keybindings for the history screen.
var HistoryKeys = HistoryKeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Reload: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reload"),
	),
	Close: key.NewBinding(
		key.WithKeys("esc", "q"),
		key.WithHelp("esc/q", "back"),
	),
}
