package prompt

import (
	tea "github.com/charmbracelet/bubbletea"
)

// confirmModel is a yes/no question that defaults to no.
type confirmModel struct {
	question string
	answer   bool
	done     bool
}

func (m confirmModel) Init() tea.Cmd {
	return nil
}

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "y", "Y":
		m.answer, m.done = true, true
		return m, tea.Quit
	case "n", "N", "enter", "esc", "q", "ctrl+c":
		m.answer, m.done = false, true
		return m, tea.Quit
	}
	return m, nil
}

func (m confirmModel) View() string {
	if m.done {
		answer := "no"
		if m.answer {
			answer = "yes"
		}
		return titleStyle.Render("? "+m.question) + " " + mutedStyle.Render(answer) + "\n"
	}
	return titleStyle.Render("? "+m.question) + " " + mutedStyle.Render("[y/N]") + " "
}
