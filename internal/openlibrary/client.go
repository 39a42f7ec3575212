package openlibrary

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/wattanit/wcm/internal/httpx"
)

const service = "Open Library"

type Client struct {
	baseURL    string
	httpClient httpx.Doer
}

// NewClient returns a client for baseURL. Callers are expected to pass a
// rate-limited Doer (see httpx.NewLimited).
func NewClient(baseURL string, httpClient httpx.Doer) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

func (c *Client) SearchByISBN(ctx context.Context, isbn string) ([]Doc, error) {
	params := url.Values{}
	params.Set("isbn", isbn)
	return c.search(ctx, params)
}

func (c *Client) SearchByTitleAuthor(ctx context.Context, title, author string) ([]Doc, error) {
	params := url.Values{}
	params.Set("title", title)
	params.Set("author", author)
	return c.search(ctx, params)
}

func (c *Client) search(ctx context.Context, params url.Values) ([]Doc, error) {
	searchURL := c.baseURL + "/search.json?" + params.Encode()
	slog.Debug("querying Open Library", "url", searchURL)

	var resp SearchResponse
	if err := httpx.GetJSON(ctx, c.httpClient, service, searchURL, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Docs, nil
}

// Work fetches the work record for a key such as "/works/OL45804W".
func (c *Client) Work(ctx context.Context, key string) (*Work, error) {
	if !strings.HasPrefix(key, "/works/") {
		return nil, fmt.Errorf("not a work key: %q", key)
	}

	var work Work
	if err := httpx.GetJSON(ctx, c.httpClient, service, c.baseURL+key+".json", nil, &work); err != nil {
		return nil, err
	}
	return &work, nil
}

// WorkDescription returns the description of a work, or "" when it has none.
func (c *Client) WorkDescription(ctx context.Context, key string) (string, error) {
	work, err := c.Work(ctx, key)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(work.Description)), nil
}
