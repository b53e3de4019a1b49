package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the prompts.
type keyMap struct {
	enter key.Binding
	yes   key.Binding
	no    key.Binding
	quit  key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		enter: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
		yes:   key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "yes")),
		no:    key.NewBinding(key.WithKeys("n", "N"), key.WithHelp("n", "no")),
		quit:  key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "cancel")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.enter, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.yes, k.no},
		{k.enter, k.quit},
	}
}
