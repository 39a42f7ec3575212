package prompt

import (
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"
)

// ErrNotInteractive is returned when stdin or stdout is not a terminal.
var ErrNotInteractive = errors.New("not an interactive terminal")

// Terminal runs selection and confirmation prompts.
type Terminal struct {
	In          io.Reader
	Out         io.Writer
	Interactive bool
}

// NewTerminal binds to the process stdin/stdout.
func NewTerminal() *Terminal {
	return &Terminal{
		In:          os.Stdin,
		Out:         os.Stdout,
		Interactive: term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd())),
	}
}

// Select shows options and returns the chosen index, or -1 if the user
// backed out.
func (t *Terminal) Select(title string, options []string) (int, error) {
	if !t.Interactive {
		return -1, ErrNotInteractive
	}
	if len(options) == 0 {
		return -1, fmt.Errorf("no options to select from")
	}

	final, err := tea.NewProgram(newSelectModel(title, options), tea.WithInput(t.In), tea.WithOutput(t.Out)).Run()
	if err != nil {
		return -1, fmt.Errorf("selection prompt failed: %w", err)
	}
	return final.(selectModel).result(), nil
}

// Confirm asks a yes/no question. Anything but an explicit yes is false.
func (t *Terminal) Confirm(question string) (bool, error) {
	if !t.Interactive {
		return false, ErrNotInteractive
	}

	final, err := tea.NewProgram(confirmModel{question: question}, tea.WithInput(t.In), tea.WithOutput(t.Out)).Run()
	if err != nil {
		return false, fmt.Errorf("confirmation prompt failed: %w", err)
	}
	return final.(confirmModel).answer, nil
}
