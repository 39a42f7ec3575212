package cataloging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/wattanit/wcm/internal/booksearch"
	"github.com/wattanit/wcm/internal/images"
	"github.com/wattanit/wcm/internal/llm"
	"github.com/wattanit/wcm/internal/models"
	"github.com/wattanit/wcm/internal/prompt"
)

// NoDescription is used as the synopsis when a book has no description and
// none could be generated.
const NoDescription = "No description available."

type Searcher interface {
	ByISBN(ctx context.Context, isbn string) (booksearch.SearchOutcome, error)
	ByTitleAuthor(ctx context.Context, title, author string) (booksearch.SearchOutcome, error)
}

type Datastore interface {
	FetchCategories(ctx context.Context) ([]models.Category, error)
	CreateMediaEntry(ctx context.Context, entry models.CatalogEntry) (uint64, error)
}

type CoverAcquirer interface {
	Acquire(ctx context.Context, primaryURL, isbn string) images.Result
}

type WebSearcher interface {
	Enhance(ctx context.Context, title, author, description string) string
}

type Enricher interface {
	SelectCategories(ctx context.Context, bookInfo string, vocabulary []string) ([]string, error)
	GenerateSynopsis(ctx context.Context, bookInfo string, targetWords int) (string, error)
}

type Confirmer interface {
	Confirm(question string) (bool, error)
}

// DetailFetcher looks up the description of an Open Library work.
type DetailFetcher interface {
	WorkDescription(ctx context.Context, key string) (string, error)
}

type Options struct {
	MaxSearchResults    int
	MinSynopsisWords    int
	TargetSynopsisWords int
	PhysicalMediaType   uint64
	EbookMediaType      uint64
	Status              uint64
	// AssumeYes skips the confirmation prompt.
	AssumeYes bool
}

type Request struct {
	ISBN   string
	Title  string
	Author string
	Ebook  bool
}

// Validate requires either an ISBN or both title and author.
func (r Request) Validate() error {
	hasISBN := strings.TrimSpace(r.ISBN) != ""
	hasTitle := strings.TrimSpace(r.Title) != "" && strings.TrimSpace(r.Author) != ""
	switch {
	case hasISBN && hasTitle:
		return fmt.Errorf("use either an ISBN or a title and author, not both")
	case !hasISBN && !hasTitle:
		return fmt.Errorf("an ISBN or both a title and an author are required")
	}
	return nil
}

func (r Request) String() string {
	if r.ISBN != "" {
		return "ISBN " + r.ISBN
	}
	return fmt.Sprintf("%q by %s", r.Title, r.Author)
}

type Status string

const (
	StatusCreated   Status = "created"
	StatusCancelled Status = "cancelled"
	StatusDeclined  Status = "declined"
	StatusNoResults Status = "no_results"
)

type Result struct {
	Status    Status
	Candidate *booksearch.Candidate
	EntryID   uint64
	// CoverPending lists cover URLs that have to be attached by hand.
	CoverPending []string
}

type Service struct {
	Searcher  Searcher
	Selector  booksearch.Selector
	Confirmer Confirmer
	Store     Datastore
	Covers    CoverAcquirer
	Web       WebSearcher
	LLM       Enricher
	Details   DetailFetcher
	Out       io.Writer
	Options   Options

	mu         sync.Mutex
	categories []models.Category
}

// Add runs one book through search, selection, enrichment, confirmation and
// submission. Cancellation, a declined confirmation and an empty search are
// reported through Result.Status with a nil error.
func (s *Service) Add(ctx context.Context, req Request) (Result, error) {
	if err := req.Validate(); err != nil {
		return Result{}, err
	}

	slog.Debug("searching", "query", req.String())
	var (
		out booksearch.SearchOutcome
		err error
	)
	if req.ISBN != "" {
		out, err = s.Searcher.ByISBN(ctx, strings.TrimSpace(req.ISBN))
	} else {
		out, err = s.Searcher.ByTitleAuthor(ctx, strings.TrimSpace(req.Title), strings.TrimSpace(req.Author))
	}
	if errors.Is(err, models.ErrNoCandidates) {
		fmt.Fprintf(s.Out, "No books found for %s in either Google Books or Open Library\n", req)
		return Result{Status: StatusNoResults}, nil
	}
	if err != nil {
		return Result{}, fmt.Errorf("failed to search for %s: %w", req, err)
	}

	if len(out.Candidates) > 1 {
		shown := len(out.Candidates)
		if s.Options.MaxSearchResults > 0 && shown > s.Options.MaxSearchResults {
			shown = s.Options.MaxSearchResults
		}
		fmt.Fprintf(s.Out, "Found %d books from %s (showing top %d)\n", len(out.Candidates), out.Origin, shown)
	}

	picker := booksearch.Disambiguator{Selector: s.Selector, MaxResults: s.Options.MaxSearchResults}
	cand, ok := picker.Choose(out)
	if !ok {
		fmt.Fprintln(s.Out, "No book selected.")
		return Result{Status: StatusCancelled}, nil
	}
	result := Result{Candidate: &cand}

	description := s.description(ctx, cand)

	done := make(chan struct{})
	go func() {
		defer close(done)
		fmt.Fprintln(s.Out, BookPanel(cand, description))
	}()
	<-done

	categories, err := s.Categories(ctx)
	if err != nil {
		return result, err
	}

	title, author := cand.FullTitle(), cand.Authors()

	bookInfo := s.Web.Enhance(ctx, title, author, description)
	selected, err := s.LLM.SelectCategories(ctx, bookInfo, models.CategoryNames(categories))
	if err != nil {
		if errors.Is(err, models.ErrNoValidCategories) {
			fmt.Fprintln(s.Out, CategoryList(categories))
		}
		return result, fmt.Errorf("failed to select categories: %w", err)
	}
	slog.Debug("categories selected", "categories", selected)

	synopsis := s.synopsis(ctx, title, author, description)

	ids, unmatched := models.ResolveCategoryIDs(selected, categories)
	for _, name := range unmatched {
		slog.Warn("category not found in catalog, skipping", "category", name)
	}
	if len(ids) == 0 {
		fmt.Fprintln(s.Out, CategoryList(categories))
		return result, fmt.Errorf("%w: none of %v resolved to a catalog id", models.ErrNoValidCategories, selected)
	}

	fmt.Fprintln(s.Out, SummaryPanel(cand, req.Ebook, selected, synopsis))

	if !s.Options.AssumeYes {
		confirmed, err := s.Confirmer.Confirm("Add this book to the library?")
		if err != nil {
			slog.Warn("confirmation failed, not adding book", "err", err)
		}
		if err != nil || !confirmed {
			fmt.Fprintln(s.Out, "Book not added.")
			result.Status = StatusDeclined
			return result, nil
		}
	}

	cover := s.Covers.Acquire(ctx, cand.CoverURL(), cand.ISBN())
	result.CoverPending = cover.Pending
	if len(cover.Refs) == 0 {
		if len(cover.Pending) > 0 {
			fmt.Fprintln(s.Out, "Could not upload a cover image. Attach one manually from:")
			for _, u := range cover.Pending {
				fmt.Fprintln(s.Out, "  "+u)
			}
		} else {
			fmt.Fprintln(s.Out, "No cover image available. Attach one manually if needed.")
		}
	}

	entry := models.CatalogEntry{
		Title:     title,
		Author:    author,
		ISBN:      cand.ISBN(),
		Synopsis:  synopsis,
		Category:  ids,
		MediaType: s.mediaType(req.Ebook),
		Location:  []uint64{},
		Cover:     cover.Refs,
		Status:    s.Options.Status,
	}

	id, err := s.Store.CreateMediaEntry(ctx, entry)
	if err != nil {
		return result, fmt.Errorf("failed to create catalog entry: %w", err)
	}

	slog.Info("catalog entry created", "id", id, "title", title)
	fmt.Fprintf(s.Out, "Added %q to the library (entry %d)\n", title, id)

	result.Status = StatusCreated
	result.EntryID = id
	return result, nil
}

// Categories returns the controlled vocabulary, fetching it on first use.
func (s *Service) Categories(ctx context.Context) ([]models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.categories != nil {
		return s.categories, nil
	}

	categories, err := s.Store.FetchCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}
	if len(categories) == 0 {
		return nil, fmt.Errorf("%w: category table is empty", models.ErrNoValidCategories)
	}

	slog.Debug("categories loaded", "count", len(categories))
	s.categories = categories
	return categories, nil
}

func (s *Service) description(ctx context.Context, cand booksearch.Candidate) string {
	description := strings.TrimSpace(cand.Description())
	if description != "" || s.Details == nil {
		return description
	}

	doc, ok := cand.OpenLibrary()
	if !ok || doc.Key == "" {
		return description
	}

	fetched, err := s.Details.WorkDescription(ctx, doc.Key)
	if err != nil {
		slog.Debug("could not fetch work description", "key", doc.Key, "err", err)
		return description
	}
	return fetched
}

// synopsis reuses the description when it is long enough, otherwise asks the
// LLM for one. Generation failures fall back to the description.
func (s *Service) synopsis(ctx context.Context, title, author, description string) string {
	fallback := description
	if fallback == "" {
		fallback = NoDescription
	}

	words := llm.WordCount(description)
	if words >= s.Options.MinSynopsisWords {
		slog.Debug("using existing description as synopsis", "words", words)
		return fallback
	}

	slog.Debug("description too short, generating synopsis", "words", words, "min", s.Options.MinSynopsisWords)
	bookInfo := s.Web.Enhance(ctx, title, author, description)
	generated, err := s.LLM.GenerateSynopsis(ctx, bookInfo, s.Options.TargetSynopsisWords)
	if err != nil {
		slog.Warn("synopsis generation failed, using existing description", "err", err)
		return fallback
	}
	if strings.TrimSpace(generated) == "" {
		return fallback
	}
	return generated
}

func (s *Service) mediaType(ebook bool) uint64 {
	if ebook {
		return s.Options.EbookMediaType
	}
	return s.Options.PhysicalMediaType
}

// BookPanel renders the details of a selected candidate.
func BookPanel(c booksearch.Candidate, description string) string {
	rows := []prompt.Row{
		{Label: "Title", Value: c.FullTitle()},
		{Label: "Authors", Value: c.Authors()},
		{Label: "Publisher", Value: c.Publisher()},
		{Label: "Published", Value: c.PublishedDate()},
	}
	if pages := c.PageCount(); pages > 0 {
		rows = append(rows, prompt.Row{Label: "Pages", Value: strconv.Itoa(pages)})
	}
	if v, ok := c.Google(); ok {
		rows = append(rows,
			prompt.Row{Label: "ISBN-13", Value: v.ISBN13()},
			prompt.Row{Label: "ISBN-10", Value: v.ISBN10()},
		)
	} else {
		rows = append(rows, prompt.Row{Label: "ISBN", Value: c.ISBN()})
	}
	rows = append(rows,
		prompt.Row{Label: "Description", Value: prompt.Truncate(description, 200)},
		prompt.Row{Label: "Cover", Value: c.CoverURL()},
	)
	subjects := c.Subjects()
	if len(subjects) > 5 {
		subjects = subjects[:5]
	}
	rows = append(rows, prompt.Row{Label: "Subjects", Value: strings.Join(subjects, ", ")})

	return prompt.Panel(fmt.Sprintf("Book Information (%s)", c.Origin()), rows)
}

// SummaryPanel renders the entry about to be created.
func SummaryPanel(c booksearch.Candidate, ebook bool, categories []string, synopsis string) string {
	media := "Physical"
	if ebook {
		media = "Ebook"
	}
	return prompt.Panel("Ready to add", []prompt.Row{
		{Label: "Title", Value: c.FullTitle()},
		{Label: "Author", Value: c.Authors()},
		{Label: "ISBN", Value: c.ISBN()},
		{Label: "Media", Value: media},
		{Label: "Categories", Value: strings.Join(categories, ", ")},
		{Label: "Synopsis", Value: prompt.Truncate(synopsis, 300)},
	})
}

// CategoryList renders the controlled vocabulary with descriptions.
func CategoryList(categories []models.Category) string {
	rows := make([]prompt.Row, 0, len(categories))
	for _, c := range categories {
		value := c.DisplayName()
		if d, ok := c.Description(); ok {
			value += " - " + d
		}
		rows = append(rows, prompt.Row{Label: strconv.FormatUint(c.ID, 10), Value: value})
	}
	return prompt.Panel(fmt.Sprintf("Available categories (%d)", len(categories)), rows)
}
