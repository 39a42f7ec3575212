package prompt

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func press(m tea.Model, keys ...tea.KeyMsg) tea.Model {
	for _, k := range keys {
		m, _ = m.Update(k)
	}
	return m
}

var (
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyUp    = tea.KeyMsg{Type: tea.KeyUp}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestSelectModel(t *testing.T) {
	options := []string{"Dune", "Dune Messiah", "Cancel - don't add any book"}

	tests := []struct {
		name     string
		keys     []tea.KeyMsg
		expected int
	}{
		{name: "enter picks first", keys: []tea.KeyMsg{keyEnter}, expected: 0},
		{name: "down then enter", keys: []tea.KeyMsg{keyDown, keyEnter}, expected: 1},
		{name: "cursor stops at end", keys: []tea.KeyMsg{keyDown, keyDown, keyDown, keyDown, keyEnter}, expected: 2},
		{name: "cursor stops at start", keys: []tea.KeyMsg{keyUp, keyEnter}, expected: 0},
		{name: "vim keys", keys: []tea.KeyMsg{runes("j"), runes("j"), runes("k"), keyEnter}, expected: 1},
		{name: "escape aborts", keys: []tea.KeyMsg{keyDown, keyEsc}, expected: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := press(newSelectModel("Select a book to add", options), tt.keys...)
			assert.Equal(t, tt.expected, m.(selectModel).result())
		})
	}
}

func TestSelectModelView(t *testing.T) {
	m := newSelectModel("Select a book to add", []string{"Dune", "Cancel"})
	view := m.View()
	assert.Contains(t, view, "Select a book to add")
	assert.Contains(t, view, "> ")
	assert.Contains(t, view, "Cancel")

	done := press(m, keyEnter)
	assert.Empty(t, done.View())
}

func TestConfirmModel(t *testing.T) {
	tests := []struct {
		name     string
		key      tea.KeyMsg
		expected bool
	}{
		{name: "y", key: runes("y"), expected: true},
		{name: "Y", key: runes("Y"), expected: true},
		{name: "n", key: runes("n"), expected: false},
		{name: "enter defaults to no", key: keyEnter, expected: false},
		{name: "esc", key: keyEsc, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := press(confirmModel{question: "Add this book?"}, tt.key)
			cm := m.(confirmModel)
			assert.True(t, cm.done)
			assert.Equal(t, tt.expected, cm.answer)
		})
	}

	m := press(confirmModel{question: "Add this book?"}, runes("x"))
	assert.False(t, m.(confirmModel).done)
}

func TestTerminalNotInteractive(t *testing.T) {
	term := &Terminal{In: strings.NewReader(""), Out: &strings.Builder{}}

	idx, err := term.Select("pick", []string{"a"})
	assert.Equal(t, -1, idx)
	assert.True(t, errors.Is(err, ErrNotInteractive))

	ok, err := term.Confirm("sure?")
	assert.False(t, ok)
	assert.True(t, errors.Is(err, ErrNotInteractive))
}

func TestPanel(t *testing.T) {
	out := Panel("Book Information", []Row{
		{Label: "Title", Value: "Dune"},
		{Label: "Publisher", Value: ""},
		{Label: "ISBN", Value: "9780441172719"},
	})
	assert.Contains(t, out, "Book Information")
	assert.Contains(t, out, "Dune")
	assert.Contains(t, out, "9780441172719")
	assert.NotContains(t, out, "Publisher")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abc...", Truncate("abcdef", 3))
	assert.Equal(t, "ก...", Truncate("กขค", 1))
}
