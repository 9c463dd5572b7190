// Package keys contains keybinding definitions.
package keys

import "github.com/charmbracelet/bubbles/key"

// VersionKeyMap defines the keybindings of the version page.
type VersionKeyMap struct {
	// Dependency tree
	Next key.Binding
	Prev key.Binding
	Open key.Binding
	Back key.Binding

	// Actions
	Reload key.Binding
	Yank   key.Binding

	// Scrolling
	ScrollUp   key.Binding
	ScrollDown key.Binding

	// General
	Help key.Binding
	Quit key.Binding
}

// Version is the keymap used by the version page.
var Version = DefaultVersionKeyMap()

// DefaultVersionKeyMap returns the default version page keybindings.
func DefaultVersionKeyMap() VersionKeyMap {
	return VersionKeyMap{
		Next: key.NewBinding(
			key.WithKeys("tab", "n"),
			key.WithHelp("tab/n", "next dependency"),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab", "p"),
			key.WithHelp("shift+tab/p", "previous dependency"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open dependency"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "backspace"),
			key.WithHelp("esc", "go back"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload"),
		),
		Yank: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy cell id"),
		),
		ScrollUp: key.NewBinding(
			key.WithKeys("k", "up", "pgup"),
			key.WithHelp("k/↑", "scroll up"),
		),
		ScrollDown: key.NewBinding(
			key.WithKeys("j", "down", "pgdown"),
			key.WithHelp("j/↓", "scroll down"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns keybindings for the short help view.
func (k VersionKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Open, k.Back, k.Help, k.Quit}
}

// FullHelp returns keybindings for the full help view.
func (k VersionKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev, k.Open, k.Back}, // Tree
		{k.Reload, k.Yank},               // Actions
		{k.ScrollUp, k.ScrollDown},       // Scrolling
		{k.Help, k.Quit},                 // General
	}
}
