package googlebooks

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/wattanit/wcm/internal/httpx"
)

const service = "Google Books"

// Client queries the Google Books volumes API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient httpx.Doer
}

// NewClient returns a client for baseURL. An empty apiKey sends
// unauthenticated requests.
func NewClient(baseURL, apiKey string, httpClient httpx.Doer) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

// SearchByISBN runs q=isbn:<isbn>.
func (c *Client) SearchByISBN(ctx context.Context, isbn string) ([]Volume, error) {
	return c.search(ctx, "isbn:"+isbn)
}

// SearchByTitleAuthor runs q=intitle:"<title>" inauthor:"<author>".
func (c *Client) SearchByTitleAuthor(ctx context.Context, title, author string) ([]Volume, error) {
	return c.search(ctx, fmt.Sprintf(`intitle:"%s" inauthor:"%s"`, title, author))
}

func (c *Client) search(ctx context.Context, query string) ([]Volume, error) {
	params := url.Values{}
	params.Set("q", query)
	if c.apiKey != "" {
		params.Set("key", c.apiKey)
	}

	slog.Debug("querying Google Books", "q", query, "authenticated", c.apiKey != "")

	var resp Response
	if err := httpx.GetJSON(ctx, c.httpClient, service, c.baseURL+"/volumes?"+params.Encode(), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}
