package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// PromptModel reads a line of text. An empty answer takes the default;
// without a default the prompt repeats until something is entered.
type PromptModel struct {
	prompt    string
	fallback  string
	input     textinput.Model
	keys      keyMap
	help      help.Model
	hint      string
	value     string
	done      bool
	cancelled bool
}

func NewPrompt(prompt, fallback string) PromptModel {
	input := textinput.New()
	input.Prompt = "> "
	input.Placeholder = fallback
	input.Focus()

	return PromptModel{
		prompt:   prompt,
		fallback: fallback,
		input:    input,
		keys:     newKeyMap(),
		help:     help.New(),
	}
}

func (m PromptModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m PromptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.quit):
			m.done, m.cancelled = true, true
			return m, tea.Quit
		case key.Matches(msg, m.keys.enter):
			value := strings.TrimSpace(m.input.Value())
			if value == "" {
				value = m.fallback
			}
			if value == "" {
				m.hint = "A value is required"
				return m, nil
			}
			m.value, m.done = value, true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m PromptModel) View() string {
	label := styles.accent.Render(m.prompt)
	if m.done {
		if m.cancelled {
			return fmt.Sprintf("%s %s\n", label, styles.warn.Render("cancelled"))
		}
		return fmt.Sprintf("%s %s\n", label, m.value)
	}

	if m.fallback != "" {
		label += styles.help.Render(fmt.Sprintf(" [default: %s]", m.fallback))
	}

	var hint string
	if m.hint != "" {
		hint = styles.warn.Render(m.hint) + "\n"
	}
	return fmt.Sprintf("%s\n%s\n%s\n%s", label, m.input.View(), hint, m.help.View(m.keys))
}

// Value returns the submitted answer.
func (m PromptModel) Value() string {
	return m.value
}

// Cancelled reports whether the prompt was dismissed.
func (m PromptModel) Cancelled() bool {
	return m.cancelled
}
