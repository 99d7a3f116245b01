package ui

import "charm.land/bubbles/v2/key"

// KeyMap defines all global keybindings.
type KeyMap struct {
	Quit  key.Binding
	View1 key.Binding
	View2 key.Binding
	View3 key.Binding
	Help  key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		View1: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "chart"),
		),
		View2: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "watchlist"),
		),
		View3: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "requests"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
	}
}

// ShortHelp returns keybindings to show in the mini help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.View1, k.View2, k.View3, k.Help, k.Quit}
}

// FullHelp returns keybindings for the expanded help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.View1, k.View2, k.View3},
		{k.Help, k.Quit},
	}
}
