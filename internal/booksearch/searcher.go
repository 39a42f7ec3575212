package booksearch

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/wattanit/wcm/internal/models"
)

// Searcher queries Primary and falls back to Secondary when Primary errors
// or returns nothing. Secondary is consulted at most once per query and its
// errors are returned as-is.
type Searcher struct {
	Primary   Source
	Secondary Source
}

func NewSearcher(primary, secondary Source) *Searcher {
	return &Searcher{Primary: primary, Secondary: secondary}
}

func (s *Searcher) ByISBN(ctx context.Context, isbn string) (SearchOutcome, error) {
	return s.search(ctx, "ISBN: "+isbn, func(src Source) (SearchOutcome, error) {
		return src.SearchByISBN(ctx, isbn)
	})
}

func (s *Searcher) ByTitleAuthor(ctx context.Context, title, author string) (SearchOutcome, error) {
	query := fmt.Sprintf("title: '%s', author: '%s'", title, author)
	return s.search(ctx, query, func(src Source) (SearchOutcome, error) {
		return src.SearchByTitleAuthor(ctx, title, author)
	})
}

func (s *Searcher) search(ctx context.Context, query string, call func(Source) (SearchOutcome, error)) (SearchOutcome, error) {
	out, err := call(s.Primary)
	switch {
	case err == nil && len(out.Candidates) > 0:
		return out, nil
	case err != nil:
		slog.Debug("primary source failed, trying fallback", "query", query, "err", err)
	default:
		slog.Debug("no results from primary source, trying fallback", "query", query)
	}

	if ctx.Err() != nil {
		return SearchOutcome{}, ctx.Err()
	}

	out, err = call(s.Secondary)
	if err != nil {
		return SearchOutcome{}, fmt.Errorf("fallback search failed for %s: %w", query, err)
	}
	if len(out.Candidates) == 0 {
		return SearchOutcome{}, fmt.Errorf("%w for %s in either source", models.ErrNoCandidates, query)
	}
	return out, nil
}
