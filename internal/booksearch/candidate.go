package booksearch

import (
	"github.com/wattanit/wcm/internal/googlebooks"
	"github.com/wattanit/wcm/internal/openlibrary"
)

// Origin identifies the metadata source a candidate came from.
type Origin int

const (
	OriginGoogleBooks Origin = iota + 1
	OriginOpenLibrary
)

func (o Origin) String() string {
	switch o {
	case OriginGoogleBooks:
		return "Google Books"
	case OriginOpenLibrary:
		return "Open Library"
	default:
		return "unknown source"
	}
}

// Candidate is one search hit. It holds exactly one source record and is
// never modified after creation.
type Candidate struct {
	google      *googlebooks.Volume
	openLibrary *openlibrary.Doc
}

func FromGoogle(v googlebooks.Volume) Candidate {
	return Candidate{google: &v}
}

func FromOpenLibrary(d openlibrary.Doc) Candidate {
	return Candidate{openLibrary: &d}
}

func (c Candidate) Origin() Origin {
	if c.google != nil {
		return OriginGoogleBooks
	}
	return OriginOpenLibrary
}

// Google returns the Google Books record, if this is one.
func (c Candidate) Google() (googlebooks.Volume, bool) {
	if c.google == nil {
		return googlebooks.Volume{}, false
	}
	return *c.google, true
}

// OpenLibrary returns the Open Library record, if this is one.
func (c Candidate) OpenLibrary() (openlibrary.Doc, bool) {
	if c.openLibrary == nil {
		return openlibrary.Doc{}, false
	}
	return *c.openLibrary, true
}

func (c Candidate) FullTitle() string {
	if c.google != nil {
		return c.google.FullTitle()
	}
	if c.openLibrary != nil {
		return c.openLibrary.FullTitle()
	}
	return ""
}

func (c Candidate) Authors() string {
	if c.google != nil {
		return c.google.AllAuthors()
	}
	if c.openLibrary != nil {
		return c.openLibrary.AllAuthors()
	}
	return "Unknown Author"
}

// PublishedDate is the source's date string, or "" when unknown.
func (c Candidate) PublishedDate() string {
	if c.google != nil {
		return c.google.VolumeInfo.PublishedDate
	}
	if c.openLibrary != nil {
		return c.openLibrary.PublishedDate()
	}
	return ""
}

func (c Candidate) ISBN() string {
	if c.google != nil {
		return c.google.ISBN()
	}
	if c.openLibrary != nil {
		return c.openLibrary.BestISBN()
	}
	return ""
}

func (c Candidate) Description() string {
	if c.google != nil {
		return c.google.VolumeInfo.Description
	}
	if c.openLibrary != nil {
		return c.openLibrary.Description()
	}
	return ""
}

// CoverURL is the largest cover the source advertises, unnormalized.
func (c Candidate) CoverURL() string {
	if c.google != nil {
		return c.google.BestCoverImage()
	}
	if c.openLibrary != nil {
		return c.openLibrary.CoverURL()
	}
	return ""
}

func (c Candidate) Publisher() string {
	if c.google != nil {
		return c.google.VolumeInfo.Publisher
	}
	if c.openLibrary != nil {
		return c.openLibrary.PrimaryPublisher()
	}
	return ""
}

func (c Candidate) PageCount() int {
	if c.google != nil {
		return c.google.VolumeInfo.PageCount
	}
	if c.openLibrary != nil {
		return c.openLibrary.NumberOfPagesMedian
	}
	return 0
}

// Subjects are Google categories or Open Library subjects.
func (c Candidate) Subjects() []string {
	if c.google != nil {
		return c.google.VolumeInfo.Categories
	}
	if c.openLibrary != nil {
		return c.openLibrary.Subject
	}
	return nil
}

// Label is the one-line form shown in the selection list.
func (c Candidate) Label() string {
	date := c.PublishedDate()
	if date == "" {
		date = "Unknown year"
	}
	return c.FullTitle() + " by " + c.Authors() + " (" + date + ")"
}

// SearchOutcome is the ordered result of one source query.
type SearchOutcome struct {
	Candidates []Candidate
	Origin     Origin
}
