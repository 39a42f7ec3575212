package images

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/wattanit/wcm/internal/httpx"
	"github.com/wattanit/wcm/internal/models"
)

// FallbackCoverTemplate is the Open Library cover-by-ISBN endpoint.
const FallbackCoverTemplate = "https://covers.openlibrary.org/b/isbn/%s-L.jpg"

// minImageBytes rejects the tiny placeholders cover services return for
// unknown books.
const minImageBytes = 1000

// maxImageBytes bounds a single download.
const maxImageBytes = 20 << 20

// Uploader stores image bytes and returns a reference to the stored file.
type Uploader interface {
	UploadFile(ctx context.Context, data []byte, filename string) (models.CoverImageRef, error)
}

// URLUploader is implemented by stores that can fetch a file from a URL
// themselves.
type URLUploader interface {
	UploadViaURL(ctx context.Context, fileURL string) (models.CoverImageRef, error)
}

// Fetcher downloads book covers and hands them to an Uploader
type Fetcher struct {
	HTTPClient httpx.Doer
	Uploader   Uploader
}

// NewFetcher creates a new cover fetcher
func NewFetcher(httpClient httpx.Doer, uploader Uploader) *Fetcher {
	return &Fetcher{HTTPClient: httpClient, Uploader: uploader}
}

// Result is the outcome of cover acquisition. Pending lists URLs that were
// tried and failed, for the user to attach by hand.
type Result struct {
	Refs    []models.CoverImageRef
	Pending []string
}

// Acquire tries primaryURL, then the Open Library ISBN cover once. A book
// without an ISBN gets no second attempt. Failures never abort the caller.
func (f *Fetcher) Acquire(ctx context.Context, primaryURL, isbn string) Result {
	var res Result
	isbn = CleanISBN(isbn)
	filename := CoverFilename(isbn, primaryURL)

	primary := NormalizeCoverURL(primaryURL)
	if primary != "" {
		ref, err := f.fetchAndUpload(ctx, primary, filename)
		if err == nil {
			res.Refs = append(res.Refs, ref)
			return res
		}
		slog.Warn("cover upload failed", "url", primary, "err", err)
		res.Pending = append(res.Pending, primary)
	}

	if isbn == "" {
		return res
	}

	fallback := FallbackCoverURL(isbn)
	if fallback == primary {
		return res
	}
	ref, err := f.fetchAndUpload(ctx, fallback, filename)
	if err != nil {
		slog.Warn("fallback cover upload failed", "url", fallback, "err", err)
		res.Pending = append(res.Pending, fallback)
		return res
	}
	res.Refs = append(res.Refs, ref)
	return res
}

func (f *Fetcher) fetchAndUpload(ctx context.Context, imageURL, filename string) (models.CoverImageRef, error) {
	data, err := f.Download(ctx, imageURL)
	if err != nil {
		if errors.Is(err, errPlaceholder) {
			return models.CoverImageRef{}, fmt.Errorf("%w: %w", models.ErrUploadFailed, err)
		}
		return f.uploadViaURL(ctx, imageURL, err)
	}
	ref, err := f.Uploader.UploadFile(ctx, data, filename)
	if err != nil {
		return models.CoverImageRef{}, fmt.Errorf("%w: %w", models.ErrUploadFailed, err)
	}
	slog.Info("uploaded cover image", "name", ref.Name, "source", imageURL)
	return ref, nil
}

// uploadViaURL lets the store fetch imageURL when the local download failed.
func (f *Fetcher) uploadViaURL(ctx context.Context, imageURL string, downloadErr error) (models.CoverImageRef, error) {
	u, ok := f.Uploader.(URLUploader)
	if !ok {
		return models.CoverImageRef{}, fmt.Errorf("%w: %w", models.ErrUploadFailed, downloadErr)
	}
	slog.Debug("cover download failed, uploading via URL", "url", imageURL, "err", downloadErr)
	ref, err := u.UploadViaURL(ctx, imageURL)
	if err != nil {
		return models.CoverImageRef{}, fmt.Errorf("%w: %w", models.ErrUploadFailed, errors.Join(downloadErr, err))
	}
	slog.Info("uploaded cover image via URL", "name", ref.Name, "source", imageURL)
	return ref, nil
}

var errPlaceholder = errors.New("cover image too small (likely placeholder)")

// Download fetches an image and rejects placeholder-sized bodies.
func (f *Fetcher) Download(ctx context.Context, imageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cover request: %w", err)
	}
	httpx.SetUA(req)

	resp, err := f.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch cover: %v: %w", err, models.ErrTransport)
	}
	defer resp.Body.Close()

	if err := httpx.CheckStatus(resp, "cover host"); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read cover data: %w", err)
	}
	if len(data) < minImageBytes {
		return nil, errPlaceholder
	}
	return data, nil
}

// NormalizeCoverURL upgrades http to https and drops the "edge" styling
// parameter Google Books adds. Identifying parameters such as id and zoom
// are kept.
func NormalizeCoverURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	if u.Scheme == "http" {
		u.Scheme = "https"
	}
	q := u.Query()
	if q.Has("edge") {
		q.Del("edge")
		u.RawQuery = q.Encode()
	}
	return u.String()
}

// FallbackCoverURL is the Open Library large cover for isbn, or "".
func FallbackCoverURL(isbn string) string {
	isbn = CleanISBN(isbn)
	if isbn == "" {
		return ""
	}
	return fmt.Sprintf(FallbackCoverTemplate, isbn)
}

// CoverFilename names the uploaded file after the ISBN, or a random UUID
// when there is none. The extension follows the source URL.
func CoverFilename(isbn, sourceURL string) string {
	ext := ".jpg"
	if u, err := url.Parse(sourceURL); err == nil {
		switch strings.ToLower(path.Ext(u.Path)) {
		case ".png":
			ext = ".png"
		case ".jpeg":
			ext = ".jpeg"
		}
	}

	stem := CleanISBN(isbn)
	if stem == "" {
		stem = uuid.NewString()
	}
	return "cover_" + stem + ext
}

// CleanISBN removes hyphens and spaces
func CleanISBN(isbn string) string {
	return strings.ReplaceAll(strings.ReplaceAll(strings.TrimSpace(isbn), "-", ""), " ", "")
}
