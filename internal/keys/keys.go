package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keybindings for the application
type KeyMap struct {
	// Navigation
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	FastUp   key.Binding
	FastDown key.Binding
	HalfPgUp key.Binding
	HalfPgDn key.Binding
	GotoTop  key.Binding
	GotoBot  key.Binding
	Tab      key.Binding
	ShiftTab key.Binding
	Enter    key.Binding
	Escape   key.Binding

	// Actions
	Quit            key.Binding
	Refresh         key.Binding
	Yank            key.Binding
	OpenEditor      key.Binding
	Help            key.Binding
	WorkingCopy     key.Binding
	ToggleDiffStyle key.Binding
}

// DefaultKeyMap returns the default keybindings
var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("j/k", "navigate"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/k", "navigate"),
	),
	Left: key.NewBinding(
		key.WithKeys("h"),
		key.WithHelp("h/l", "switch window"),
	),
	Right: key.NewBinding(
		key.WithKeys("l"),
		key.WithHelp("h/l", "switch window"),
	),
	FastUp: key.NewBinding(
		key.WithKeys("K"),
		key.WithHelp("J/K", "move by 5"),
	),
	FastDown: key.NewBinding(
		key.WithKeys("J"),
		key.WithHelp("J/K", "move by 5"),
	),
	HalfPgUp: key.NewBinding(
		key.WithKeys("ctrl+u"),
		key.WithHelp("C-u/C-d", "half page"),
	),
	HalfPgDn: key.NewBinding(
		key.WithKeys("ctrl+d"),
		key.WithHelp("C-u/C-d", "half page"),
	),
	GotoTop: key.NewBinding(
		key.WithKeys("g"),
		key.WithHelp("g/G", "top/bottom"),
	),
	GotoBot: key.NewBinding(
		key.WithKeys("G"),
		key.WithHelp("g/G", "top/bottom"),
	),
	Tab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next window"),
	),
	ShiftTab: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("S-tab", "prev window"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "select"),
	),
	Escape: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "close/unfocus"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
	Yank: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "copy path"),
	),
	OpenEditor: key.NewBinding(
		key.WithKeys("o"),
		key.WithHelp("o", "open in $EDITOR"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "toggle help"),
	),
	WorkingCopy: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "working copy"),
	),
	ToggleDiffStyle: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "split/unified"),
	),
}

// Group is a titled set of bindings shown together in the help modal
type Group struct {
	Title    string
	Bindings []key.Binding
}

// HelpGroups returns the bindings listed in the help modal. Pairs such as j/k
// share one entry.
func HelpGroups() []Group {
	km := DefaultKeyMap
	return []Group{
		{Title: "Navigation", Bindings: []key.Binding{km.Up, km.FastUp, km.HalfPgUp, km.GotoTop, km.Left, km.Tab}},
		{Title: "Diff", Bindings: []key.Binding{km.WorkingCopy, km.ToggleDiffStyle}},
		{Title: "Actions", Bindings: []key.Binding{km.Yank, km.OpenEditor, km.Refresh, km.Help, km.Quit}},
	}
}
