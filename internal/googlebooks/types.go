package googlebooks

import "strings"

// Response matches GET /volumes.
type Response struct {
	Kind       string   `json:"kind"`
	TotalItems int      `json:"totalItems"`
	Items      []Volume `json:"items"`
}

type Volume struct {
	Kind       string     `json:"kind"`
	ID         string     `json:"id"`
	ETag       string     `json:"etag"`
	SelfLink   string     `json:"selfLink"`
	VolumeInfo VolumeInfo `json:"volumeInfo"`
	SaleInfo   *SaleInfo  `json:"saleInfo,omitempty"`
}

type VolumeInfo struct {
	Title               string               `json:"title"`
	Subtitle            string               `json:"subtitle,omitempty"`
	Authors             []string             `json:"authors,omitempty"`
	Publisher           string               `json:"publisher,omitempty"`
	PublishedDate       string               `json:"publishedDate,omitempty"`
	Description         string               `json:"description,omitempty"`
	IndustryIdentifiers []IndustryIdentifier `json:"industryIdentifiers,omitempty"`
	PageCount           int                  `json:"pageCount,omitempty"`
	PrintType           string               `json:"printType,omitempty"`
	Categories          []string             `json:"categories,omitempty"`
	ImageLinks          *ImageLinks          `json:"imageLinks,omitempty"`
	Language            string               `json:"language,omitempty"`
	PreviewLink         string               `json:"previewLink,omitempty"`
	InfoLink            string               `json:"infoLink,omitempty"`
}

type IndustryIdentifier struct {
	Type       string `json:"type"`
	Identifier string `json:"identifier"`
}

type ImageLinks struct {
	SmallThumbnail string `json:"smallThumbnail,omitempty"`
	Thumbnail      string `json:"thumbnail,omitempty"`
	Small          string `json:"small,omitempty"`
	Medium         string `json:"medium,omitempty"`
	Large          string `json:"large,omitempty"`
	ExtraLarge     string `json:"extraLarge,omitempty"`
}

type SaleInfo struct {
	Country     string `json:"country,omitempty"`
	Saleability string `json:"saleability,omitempty"`
	IsEbook     bool   `json:"isEbook,omitempty"`
}

func (v Volume) identifier(kind string) string {
	for _, id := range v.VolumeInfo.IndustryIdentifiers {
		if id.Type == kind {
			return id.Identifier
		}
	}
	return ""
}

func (v Volume) ISBN13() string { return v.identifier("ISBN_13") }

func (v Volume) ISBN10() string { return v.identifier("ISBN_10") }

// ISBN prefers ISBN-13 over ISBN-10.
func (v Volume) ISBN() string {
	if isbn := v.ISBN13(); isbn != "" {
		return isbn
	}
	return v.ISBN10()
}

// BestCoverImage returns the largest image link available.
func (v Volume) BestCoverImage() string {
	links := v.VolumeInfo.ImageLinks
	if links == nil {
		return ""
	}
	for _, u := range []string{
		links.ExtraLarge, links.Large, links.Medium,
		links.Small, links.Thumbnail, links.SmallThumbnail,
	} {
		if u != "" {
			return u
		}
	}
	return ""
}

// AllAuthors joins the authors with ", ", or "Unknown Author".
func (v Volume) AllAuthors() string {
	if len(v.VolumeInfo.Authors) == 0 {
		return "Unknown Author"
	}
	return strings.Join(v.VolumeInfo.Authors, ", ")
}

// FullTitle is "title: subtitle" when a subtitle exists.
func (v Volume) FullTitle() string {
	if v.VolumeInfo.Subtitle != "" {
		return v.VolumeInfo.Title + ": " + v.VolumeInfo.Subtitle
	}
	return v.VolumeInfo.Title
}
