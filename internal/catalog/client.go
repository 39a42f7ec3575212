package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/wattanit/wcm/internal/httpx"
	"github.com/wattanit/wcm/internal/models"
)

const service = "Baserow"

// pageSize is the number of rows requested per page when listing a table.
const pageSize = 200

// Client represents a Baserow API client
type Client struct {
	BaseURL           string
	APIToken          string
	MediaTableID      uint64
	CategoriesTableID uint64
	httpClient        httpx.Doer
}

// rowsPage matches a paginated list-rows response.
type rowsPage[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// CreatedRow is the part of a create-row response wcm reads.
type CreatedRow struct {
	ID    uint64 `json:"id"`
	Order string `json:"order"`
}

// UploadedFile matches the user-files upload responses.
type UploadedFile struct {
	URL          string `json:"url"`
	Name         string `json:"name"`
	OriginalName string `json:"original_name"`
	Size         int64  `json:"size"`
	MimeType     string `json:"mime_type"`
	IsImage      bool   `json:"is_image"`
	ImageWidth   int    `json:"image_width"`
	ImageHeight  int    `json:"image_height"`
	UploadedAt   string `json:"uploaded_at"`
}

// NewClient creates a new Baserow client
func NewClient(baseURL, apiToken string, mediaTableID, categoriesTableID uint64, httpClient httpx.Doer) *Client {
	return &Client{
		BaseURL:           strings.TrimRight(baseURL, "/"),
		APIToken:          apiToken,
		MediaTableID:      mediaTableID,
		CategoriesTableID: categoriesTableID,
		httpClient:        httpClient,
	}
}

func (c *Client) rowsURL(tableID uint64) string {
	return fmt.Sprintf("%s/api/database/rows/table/%d/?user_field_names=true", c.BaseURL, tableID)
}

func (c *Client) authHeaders() map[string]string {
	return map[string]string{"Authorization": "Token " + c.APIToken}
}

// FetchCategories lists every row of the categories table, following
// pagination.
func (c *Client) FetchCategories(ctx context.Context) ([]models.Category, error) {
	next := fmt.Sprintf("%s&size=%d", c.rowsURL(c.CategoriesTableID), pageSize)

	var categories []models.Category
	for next != "" {
		var page rowsPage[models.Category]
		if err := httpx.GetJSON(ctx, c.httpClient, service, next, c.authHeaders(), &page); err != nil {
			return nil, fmt.Errorf("failed to fetch categories: %w", err)
		}
		categories = append(categories, page.Results...)

		next = ""
		if page.Next != nil {
			next = *page.Next
		}
	}

	slog.Debug("fetched categories", "count", len(categories))
	return categories, nil
}

// CreateRow inserts record into tableID and returns the new row id.
func (c *Client) CreateRow(ctx context.Context, tableID uint64, record any) (uint64, error) {
	body, err := json.Marshal(record)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal row: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.rowsURL(tableID), bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("failed to create row request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Token "+c.APIToken)
	httpx.SetUA(req)

	var created CreatedRow
	if err := httpx.DoJSON(c.httpClient, req, service, &created); err != nil {
		return 0, fmt.Errorf("failed to create row in table %d: %w", tableID, err)
	}
	return created.ID, nil
}

// CreateMediaEntry validates entry and inserts it into the media table.
func (c *Client) CreateMediaEntry(ctx context.Context, entry models.CatalogEntry) (uint64, error) {
	if err := entry.Validate(); err != nil {
		return 0, err
	}
	id, err := c.CreateRow(ctx, c.MediaTableID, entry)
	if err != nil {
		return 0, err
	}
	slog.Info("created media entry", "id", id, "title", entry.Title)
	return id, nil
}

// UploadFile sends data as a multipart "file" part and returns a reference
// usable in a file field.
func (c *Client) UploadFile(ctx context.Context, data []byte, filename string) (models.CoverImageRef, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	h.Set("Content-Type", MimeType(filename))
	part, err := mw.CreatePart(h)
	if err != nil {
		return models.CoverImageRef{}, fmt.Errorf("failed to create multipart part: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return models.CoverImageRef{}, fmt.Errorf("failed to write multipart body: %w", err)
	}
	if err := mw.Close(); err != nil {
		return models.CoverImageRef{}, fmt.Errorf("failed to close multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/user-files/upload-file/", &buf)
	if err != nil {
		return models.CoverImageRef{}, fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Token "+c.APIToken)
	httpx.SetUA(req)

	var uploaded UploadedFile
	if err := httpx.DoJSON(c.httpClient, req, service, &uploaded); err != nil {
		return models.CoverImageRef{}, fmt.Errorf("failed to upload %s: %w", filename, err)
	}
	return models.CoverImageRef{Name: uploaded.Name}, nil
}

// UploadViaURL asks Baserow to fetch the file itself.
func (c *Client) UploadViaURL(ctx context.Context, fileURL string) (models.CoverImageRef, error) {
	if _, err := url.ParseRequestURI(fileURL); err != nil {
		return models.CoverImageRef{}, fmt.Errorf("invalid file URL %q: %w", fileURL, err)
	}

	body, err := json.Marshal(map[string]string{"url": fileURL})
	if err != nil {
		return models.CoverImageRef{}, fmt.Errorf("failed to marshal upload request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/user-files/upload-via-url/", bytes.NewReader(body))
	if err != nil {
		return models.CoverImageRef{}, fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Token "+c.APIToken)
	httpx.SetUA(req)

	var uploaded UploadedFile
	if err := httpx.DoJSON(c.httpClient, req, service, &uploaded); err != nil {
		return models.CoverImageRef{}, fmt.Errorf("failed to upload %s via URL: %w", fileURL, err)
	}
	return models.CoverImageRef{Name: uploaded.Name}, nil
}

// TestConnection reads one row of the categories table.
func (c *Client) TestConnection(ctx context.Context) error {
	var page rowsPage[json.RawMessage]
	if err := httpx.GetJSON(ctx, c.httpClient, service, c.rowsURL(c.CategoriesTableID)+"&size=1", c.authHeaders(), &page); err != nil {
		return fmt.Errorf("baserow connection test failed: %w", err)
	}
	return nil
}

// MimeType guesses the upload content type from the file extension.
func MimeType(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	default:
		return "application/octet-stream"
	}
}
