package tui

import "github.com/charmbracelet/bubbles/key"

// pagerKeys holds key bindings for the pager.
type pagerKeys struct {
	Next key.Binding
	Prev key.Binding
	Quit key.Binding
}

// ShortHelp returns the bindings for the help bar.
func (k pagerKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Prev, k.Next, k.Quit}
}

// FullHelp returns the bindings grouped for expanded help.
func (k pagerKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Prev, k.Next},
		{k.Quit},
	}
}

// PagerKeyMap returns the key bindings for the pager.
func PagerKeyMap() pagerKeys {
	return pagerKeys{
		Next: key.NewBinding(
			key.WithKeys("right", "l", "n", "enter", " ", "space"),
			key.WithHelp("→/enter", "дальше"),
		),
		Prev: key.NewBinding(
			key.WithKeys("left", "h", "p"),
			key.WithHelp("←", "назад"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "выход"),
		),
	}
}
