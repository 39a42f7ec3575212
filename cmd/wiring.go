package cmd

import (
	"io"
	"time"

	"github.com/wattanit/wcm/internal/booksearch"
	"github.com/wattanit/wcm/internal/catalog"
	"github.com/wattanit/wcm/internal/cataloging"
	"github.com/wattanit/wcm/internal/googlebooks"
	"github.com/wattanit/wcm/internal/httpx"
	"github.com/wattanit/wcm/internal/images"
	"github.com/wattanit/wcm/internal/llm"
	"github.com/wattanit/wcm/internal/openlibrary"
	"github.com/wattanit/wcm/internal/prompt"
	"github.com/wattanit/wcm/internal/websearch"
)

// Open Library asks clients to stay around one request per second.
const openLibraryInterval = time.Second

var _ images.URLUploader = (*catalog.Client)(nil)

func (a *app) datastore(doer httpx.Doer) (*catalog.Client, error) {
	b := a.cfg.Baserow
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return catalog.NewClient(b.BaseURL, b.APIToken, b.MediaTableID, b.CategoriesTableID, doer), nil
}

// service builds the cataloging workflow from the loaded config.
func (a *app) service(out io.Writer, assumeYes bool) (*cataloging.Service, error) {
	if err := a.cfg.Validate(); err != nil {
		return nil, err
	}

	httpClient := httpx.NewClient()
	polite := httpx.NewLimited(httpClient, openLibraryInterval, 3)

	store, err := a.datastore(httpClient)
	if err != nil {
		return nil, err
	}

	provider, err := llm.NewProvider(a.cfg.LLM, httpClient)
	if err != nil {
		return nil, err
	}

	gb := googlebooks.NewClient(a.cfg.GoogleBooks.BaseURL, a.cfg.GoogleBooks.Key(), httpClient)
	ol := openlibrary.NewClient(a.cfg.OpenLibrary.BaseURL, polite)
	term := prompt.NewTerminal()

	return &cataloging.Service{
		Searcher:  booksearch.NewSearcher(&booksearch.GoogleSource{Client: gb}, &booksearch.OpenLibrarySource{Client: ol}),
		Selector:  term,
		Confirmer: term,
		Store:     store,
		Covers:    images.NewFetcher(polite, store),
		Web:       websearch.NewClient(websearch.DefaultBaseURL, httpClient),
		LLM:       llm.NewClient(provider, a.cfg.LLM.Temperature),
		Details:   ol,
		Out:       out,
		Options: cataloging.Options{
			MaxSearchResults:    a.cfg.App.MaxSearchResults,
			MinSynopsisWords:    a.cfg.App.MinSynopsisWords,
			TargetSynopsisWords: a.cfg.App.TargetSynopsisWords,
			PhysicalMediaType:   a.cfg.Baserow.PhysicalMediaType,
			EbookMediaType:      a.cfg.Baserow.EbookMediaType,
			Status:              a.cfg.Baserow.DefaultStatus,
			AssumeYes:           assumeYes,
		},
	}, nil
}
