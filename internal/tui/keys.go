package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit     key.Binding
	Up       key.Binding
	Down     key.Binding
	Lock     key.Binding
	Withdraw key.Binding
	Refresh  key.Binding
	Help     key.Binding

	// Dialog keys.
	Next   key.Binding
	Prev   key.Binding
	Left   key.Binding
	Right  key.Binding
	Submit key.Binding
	Cancel key.Binding
}

var keys = keyMap{
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("k/up", "up")),
	Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("j/down", "down")),
	Lock:     key.NewBinding(key.WithKeys("l", "n"), key.WithHelp("l", "lock coin")),
	Withdraw: key.NewBinding(key.WithKeys("w", "enter"), key.WithHelp("w", "withdraw")),
	Refresh:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),

	Next:   key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
	Prev:   key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "previous field")),
	Left:   key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "shorter")),
	Right:  key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "longer")),
	Submit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "lock")),
	Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
}

// ShortHelp implements help.KeyMap for the table.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Lock, k.Withdraw, k.Refresh, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap for the table.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Lock, k.Withdraw},
		{k.Refresh, k.Help, k.Quit},
	}
}

// dialogKeys is the help shown while the lock dialog is open.
type dialogKeys struct{ keyMap }

func (k dialogKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Left, k.Right, k.Submit, k.Cancel}
}

func (k dialogKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
