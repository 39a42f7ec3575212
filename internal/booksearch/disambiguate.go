package booksearch

import "log/slog"

// CancelLabel is the final entry of every selection list.
const CancelLabel = "Cancel - don't add any book"

// Selector shows a list and returns the chosen index. An index outside the
// list means the user backed out.
type Selector interface {
	Select(title string, options []string) (int, error)
}

// Disambiguator picks one candidate out of a search outcome.
type Disambiguator struct {
	Selector   Selector
	MaxResults int
}

// Choose returns the selected candidate, or false when the user cancelled
// or the outcome is empty. A single candidate is returned without asking.
// If the selector fails the first candidate is used.
func (d Disambiguator) Choose(out SearchOutcome) (Candidate, bool) {
	switch len(out.Candidates) {
	case 0:
		return Candidate{}, false
	case 1:
		return out.Candidates[0], true
	}

	shown := d.Options(out)
	idx, err := d.Selector.Select("Select a book to add", shown)
	if err != nil {
		slog.Warn("selection failed, using first result", "err", err)
		return out.Candidates[0], true
	}

	if idx < 0 || idx >= len(shown)-1 {
		return Candidate{}, false
	}
	return out.Candidates[idx], true
}

// Options renders the selection list: at most MaxResults labels followed by
// CancelLabel.
func (d Disambiguator) Options(out SearchOutcome) []string {
	n := len(out.Candidates)
	if d.MaxResults > 0 && n > d.MaxResults {
		n = d.MaxResults
	}

	options := make([]string, 0, n+1)
	for _, c := range out.Candidates[:n] {
		options = append(options, c.Label())
	}
	return append(options, CancelLabel)
}
