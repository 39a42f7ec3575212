package openlibrary

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// SearchResponse matches search.json.
type SearchResponse struct {
	NumFound int   `json:"numFound"`
	Start    int   `json:"start"`
	Docs     []Doc `json:"docs"`
}

// Doc is one search.json hit.
type Doc struct {
	Key                 string   `json:"key"`
	Title               string   `json:"title"`
	Subtitle            string   `json:"subtitle,omitempty"`
	AuthorName          []string `json:"author_name,omitempty"`
	AuthorKey           []string `json:"author_key,omitempty"`
	FirstPublishYear    int      `json:"first_publish_year,omitempty"`
	PublishYear         []int    `json:"publish_year,omitempty"`
	PublishDate         []string `json:"publish_date,omitempty"`
	Publisher           []string `json:"publisher,omitempty"`
	NumberOfPagesMedian int      `json:"number_of_pages_median,omitempty"`
	ISBN                []string `json:"isbn,omitempty"`
	CoverI              int      `json:"cover_i,omitempty"`
	CoverEditionKey     string   `json:"cover_edition_key,omitempty"`
	Subject             []string `json:"subject,omitempty"`
	Language            []string `json:"language,omitempty"`
	EditionCount        int      `json:"edition_count,omitempty"`
	FirstSentence       []string `json:"first_sentence,omitempty"`
}

// Work matches /works/<id>.json. Only the fields wcm reads are decoded.
type Work struct {
	Key         string `json:"key"`
	Title       string `json:"title"`
	Subtitle    string `json:"subtitle,omitempty"`
	Description Text   `json:"description"`
	Covers      []int  `json:"covers,omitempty"`
}

// Text is a field that Open Library serves either as a plain string or as
// {"type": "/type/text", "value": "..."}.
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*t = ""
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = Text(s)
		return nil
	}

	var obj struct {
		Value string `json:"value"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("text field is neither string nor object: %w", err)
	}
	*t = Text(obj.Value)
	return nil
}

const coverByIDURL = "https://covers.openlibrary.org/b/id/%d-L.jpg"

// FullTitle is "title: subtitle" when a subtitle exists.
func (d Doc) FullTitle() string {
	if d.Subtitle != "" {
		return d.Title + ": " + d.Subtitle
	}
	return d.Title
}

// AllAuthors joins author names with ", ", or "Unknown Author".
func (d Doc) AllAuthors() string {
	if len(d.AuthorName) == 0 {
		return "Unknown Author"
	}
	return strings.Join(d.AuthorName, ", ")
}

// BestISBN prefers the first 13-digit ISBN, then the first ISBN listed.
func (d Doc) BestISBN() string {
	for _, isbn := range d.ISBN {
		if len(isbn) == 13 {
			return isbn
		}
	}
	if len(d.ISBN) > 0 {
		return d.ISBN[0]
	}
	return ""
}

// CoverURL is the large cover for cover_i, or "".
func (d Doc) CoverURL() string {
	if d.CoverI <= 0 {
		return ""
	}
	return fmt.Sprintf(coverByIDURL, d.CoverI)
}

func (d Doc) PrimaryPublisher() string {
	if len(d.Publisher) == 0 {
		return ""
	}
	return d.Publisher[0]
}

// LatestPublishYear is the maximum publish_year, else first_publish_year.
func (d Doc) LatestPublishYear() int {
	if len(d.PublishYear) > 0 {
		return slices.Max(d.PublishYear)
	}
	return d.FirstPublishYear
}

// PublishedDate renders LatestPublishYear, falling back to the first
// publish_date string.
func (d Doc) PublishedDate() string {
	if year := d.LatestPublishYear(); year > 0 {
		return strconv.Itoa(year)
	}
	if len(d.PublishDate) > 0 {
		return d.PublishDate[0]
	}
	return ""
}

// Description is the joined first_sentence values.
func (d Doc) Description() string {
	return strings.TrimSpace(strings.Join(d.FirstSentence, " "))
}
