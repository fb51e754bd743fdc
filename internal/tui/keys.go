package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines the key bindings for the page.
type KeyMap struct {
	// Form
	NextField      key.Binding
	PrevField      key.Binding
	SwitchTab      key.Binding
	TogglePassword key.Binding
	CycleOption    key.Binding
	Submit         key.Binding

	// Toasts
	DismissNewest key.Binding
	DismissAll    key.Binding

	// Global
	Quit key.Binding
	Help key.Binding
}

// ShortHelp returns a short help message.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.SwitchTab, k.DismissNewest, k.Help, k.Quit}
}

// FullHelp returns a full help message.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextField, k.PrevField, k.SwitchTab},
		{k.TogglePassword, k.CycleOption, k.Submit},
		{k.DismissNewest, k.DismissAll},
		{k.Help, k.Quit},
	}
}

// DefaultKeyMap returns the default key bindings. Printable keys are left
// to the form fields, so every binding uses a modifier or a special key.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		NextField: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab/↓", "next field"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab/↑", "prev field"),
		),
		SwitchTab: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "sign in/register"),
		),
		TogglePassword: key.NewBinding(
			key.WithKeys("ctrl+p"),
			key.WithHelp("ctrl+p", "show/hide password"),
		),
		CycleOption: key.NewBinding(
			key.WithKeys("left", "right"),
			key.WithHelp("←/→", "change role"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "submit"),
		),
		DismissNewest: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "dismiss toast"),
		),
		DismissAll: key.NewBinding(
			key.WithKeys("ctrl+x"),
			key.WithHelp("ctrl+x", "dismiss all"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("f1"),
			key.WithHelp("f1", "help"),
		),
	}
}
