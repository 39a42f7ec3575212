package prompt

import (
	"strings"
)

// Row is one labelled line of a panel. Rows with an empty value are skipped.
type Row struct {
	Label string
	Value string
}

// Panel renders a titled, bordered block of rows.
func Panel(title string, rows []Row) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(title))

	for _, r := range rows {
		if r.Value == "" {
			continue
		}
		b.WriteString("\n")
		b.WriteString(labelStyle.Render(r.Label+":") + " " + r.Value)
	}
	return panelStyle.Render(b.String())
}

// Truncate shortens s to at most n runes, adding "..." when cut.
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
