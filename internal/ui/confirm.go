package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// ConfirmModel asks a yes/no question. Anything but an explicit yes declines.
type ConfirmModel struct {
	prompt    string
	keys      keyMap
	help      help.Model
	done      bool
	confirmed bool
}

func NewConfirm(prompt string) ConfirmModel {
	return ConfirmModel{prompt: prompt, keys: newKeyMap(), help: help.New()}
}

func (m ConfirmModel) Init() tea.Cmd {
	return nil
}

func (m ConfirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.yes):
		m.done, m.confirmed = true, true
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.no), key.Matches(keyMsg, m.keys.enter), key.Matches(keyMsg, m.keys.quit):
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m ConfirmModel) View() string {
	if m.done {
		answer := styles.err.Render("no")
		if m.confirmed {
			answer = styles.ok.Render("yes")
		}
		return fmt.Sprintf("%s %s\n", styles.accent.Render(m.prompt), answer)
	}

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.yes, m.keys.no, m.keys.quit})
	return fmt.Sprintf("%s [y/N] \n\n%s\n", styles.accent.Render(m.prompt), helpView)
}

// Confirmed reports whether the user answered yes.
func (m ConfirmModel) Confirmed() bool {
	return m.confirmed
}
