package ui

import (
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/mixup/internal/shared"
)

// Prompter asks the user questions.
type Prompter interface {
	Confirm(prompt string) (bool, error)
	Prompt(prompt, fallback string) (string, error)
}

// Terminal runs the prompt models as bubbletea programs.
type Terminal struct {
	in  io.Reader
	out io.Writer
}

var _ Prompter = (*Terminal)(nil)

// NewTerminal creates a [Terminal]. A nil in or out keeps bubbletea's default (the process's TTY).
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{in: in, out: out}
}

func (t *Terminal) run(m tea.Model) (tea.Model, error) {
	var opts []tea.ProgramOption
	if t.in != nil {
		opts = append(opts, tea.WithInput(t.in))
	}
	if t.out != nil {
		opts = append(opts, tea.WithOutput(t.out))
	}

	final, err := tea.NewProgram(m, opts...).Run()
	if err != nil {
		return nil, fmt.Errorf("prompt failed: %w", err)
	}
	return final, nil
}

// Confirm asks a yes/no question. Declining is not an error.
func (t *Terminal) Confirm(prompt string) (bool, error) {
	final, err := t.run(NewConfirm(prompt))
	if err != nil {
		return false, err
	}
	m, ok := final.(ConfirmModel)
	if !ok {
		return false, fmt.Errorf("unexpected model %T", final)
	}
	return m.Confirmed(), nil
}

// Prompt reads a line of text. Cancelling returns [shared.ErrAborted].
func (t *Terminal) Prompt(prompt, fallback string) (string, error) {
	final, err := t.run(NewPrompt(prompt, fallback))
	if err != nil {
		return "", err
	}
	m, ok := final.(PromptModel)
	if !ok {
		return "", fmt.Errorf("unexpected model %T", final)
	}
	if m.Cancelled() {
		return "", shared.ErrAborted
	}
	return m.Value(), nil
}
