package booksearch

import (
	"context"

	"github.com/wattanit/wcm/internal/googlebooks"
	"github.com/wattanit/wcm/internal/openlibrary"
)

// Source is a metadata service that can be searched by ISBN or title+author.
type Source interface {
	SearchByISBN(ctx context.Context, isbn string) (SearchOutcome, error)
	SearchByTitleAuthor(ctx context.Context, title, author string) (SearchOutcome, error)
}

// GoogleSource adapts googlebooks.Client to Source.
type GoogleSource struct {
	Client *googlebooks.Client
}

var _ Source = (*GoogleSource)(nil)

func (s *GoogleSource) SearchByISBN(ctx context.Context, isbn string) (SearchOutcome, error) {
	items, err := s.Client.SearchByISBN(ctx, isbn)
	return googleOutcome(items), err
}

func (s *GoogleSource) SearchByTitleAuthor(ctx context.Context, title, author string) (SearchOutcome, error) {
	items, err := s.Client.SearchByTitleAuthor(ctx, title, author)
	return googleOutcome(items), err
}

func googleOutcome(items []googlebooks.Volume) SearchOutcome {
	out := SearchOutcome{Origin: OriginGoogleBooks, Candidates: make([]Candidate, 0, len(items))}
	for _, item := range items {
		out.Candidates = append(out.Candidates, FromGoogle(item))
	}
	return out
}

// OpenLibrarySource adapts openlibrary.Client to Source.
type OpenLibrarySource struct {
	Client *openlibrary.Client
}

var _ Source = (*OpenLibrarySource)(nil)

func (s *OpenLibrarySource) SearchByISBN(ctx context.Context, isbn string) (SearchOutcome, error) {
	docs, err := s.Client.SearchByISBN(ctx, isbn)
	return openLibraryOutcome(docs), err
}

func (s *OpenLibrarySource) SearchByTitleAuthor(ctx context.Context, title, author string) (SearchOutcome, error) {
	docs, err := s.Client.SearchByTitleAuthor(ctx, title, author)
	return openLibraryOutcome(docs), err
}

func openLibraryOutcome(docs []openlibrary.Doc) SearchOutcome {
	out := SearchOutcome{Origin: OriginOpenLibrary, Candidates: make([]Candidate, 0, len(docs))}
	for _, doc := range docs {
		out.Candidates = append(out.Candidates, FromOpenLibrary(doc))
	}
	return out
}
