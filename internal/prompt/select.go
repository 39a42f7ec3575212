package prompt

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// selectModel is a single-choice list. chosen stays -1 until enter is
// pressed; aborted is set by esc, q or ctrl+c.
type selectModel struct {
	title   string
	options []string
	cursor  int
	chosen  int
	aborted bool
}

func newSelectModel(title string, options []string) selectModel {
	return selectModel{title: title, options: options, chosen: -1}
}

func (m selectModel) Init() tea.Cmd {
	return nil
}

func (m selectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.options)-1 {
			m.cursor++
		}
	case "home", "g":
		m.cursor = 0
	case "end", "G":
		m.cursor = len(m.options) - 1
	case "enter":
		m.chosen = m.cursor
		return m, tea.Quit
	case "esc", "q", "ctrl+c":
		m.aborted = true
		return m, tea.Quit
	}
	return m, nil
}

func (m selectModel) View() string {
	if m.chosen >= 0 || m.aborted {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("? " + m.title))
	b.WriteString("\n\n")

	for i, opt := range m.options {
		if i == m.cursor {
			b.WriteString("> " + selectedStyle.Render(opt))
		} else {
			b.WriteString("  " + normalStyle.Render(opt))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("[j/k] Navigate  [Enter] Select  [Esc] Cancel"))
	b.WriteString("\n")
	return b.String()
}

// result is the chosen index, or -1 when the list was aborted.
func (m selectModel) result() int {
	if m.aborted {
		return -1
	}
	return m.chosen
}
