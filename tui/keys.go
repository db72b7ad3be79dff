package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings of the mission TUI
type KeyMap struct {
	NewMission key.Binding
	Submit     key.Binding
	Plan       key.Binding
	Clear      key.Binding
	Quit       key.Binding
}

// DefaultKeyMap returns the default bindings. Plain letters only act while
// the instruction prompt is not focused.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		NewMission: key.NewBinding(
			key.WithKeys("n", "ctrl+n"),
			key.WithHelp("n/ctrl+n", "new mission"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "run instructions"),
		),
		Plan: key.NewBinding(
			key.WithKeys("ctrl+p"),
			key.WithHelp("ctrl+p", "suggest route"),
		),
		Clear: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "clear"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q/ctrl+c", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NewMission, k.Submit, k.Plan, k.Quit}
}

// FullHelp implements help.KeyMap
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NewMission, k.Submit, k.Plan},
		{k.Clear, k.Quit},
	}
}
