package websearch

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/wattanit/wcm/internal/httpx"
)

// DefaultBaseURL is the DuckDuckGo instant-answer endpoint.
const DefaultBaseURL = "https://api.duckduckgo.com/"

const maxRelatedTopics = 3

type Result struct {
	Title   string
	URL     string
	Snippet string
}

type ddgResponse struct {
	AbstractText   string     `json:"AbstractText"`
	AbstractSource string     `json:"AbstractSource"`
	AbstractURL    string     `json:"AbstractURL"`
	RelatedTopics  []ddgTopic `json:"RelatedTopics"`
}

type ddgTopic struct {
	Text     string `json:"Text"`
	FirstURL string `json:"FirstURL"`
}

// Client looks books up on DuckDuckGo to give the LLM more context.
type Client struct {
	baseURL    string
	httpClient httpx.Doer
}

func NewClient(baseURL string, httpClient httpx.Doer) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{baseURL: baseURL, httpClient: httpClient}
}

// Search returns instant-answer results, or a single placeholder result
// when DuckDuckGo has nothing. It only fails when ctx is done.
func (c *Client) Search(ctx context.Context, title, author string) ([]Result, error) {
	results, err := c.searchDuckDuckGo(ctx, title, author)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		slog.Debug("DuckDuckGo search failed", "err", err)
	}
	if len(results) > 0 {
		return results, nil
	}

	slog.Debug("DuckDuckGo returned nothing, using placeholder result", "title", title)
	return []Result{{
		Title:   fmt.Sprintf("%s by %s", title, author),
		Snippet: fmt.Sprintf("Additional information needed for %s by %s. Consider checking Goodreads, Wikipedia, or publisher websites for detailed synopsis and genre information.", title, author),
	}}, nil
}

func (c *Client) searchDuckDuckGo(ctx context.Context, title, author string) ([]Result, error) {
	params := url.Values{}
	params.Set("q", fmt.Sprintf("%s by %s book synopsis review", title, author))
	params.Set("format", "json")
	params.Set("no_redirect", "1")
	params.Set("no_html", "1")
	params.Set("skip_disambig", "1")

	var resp ddgResponse
	if err := httpx.GetJSON(ctx, c.httpClient, "DuckDuckGo", c.baseURL+"?"+params.Encode(), nil, &resp); err != nil {
		return nil, err
	}

	var results []Result
	if resp.AbstractText != "" {
		results = append(results, Result{
			Title:   fmt.Sprintf("%s - %s", title, resp.AbstractSource),
			URL:     resp.AbstractURL,
			Snippet: resp.AbstractText,
		})
	}

	topics := resp.RelatedTopics
	if len(topics) > maxRelatedTopics {
		topics = topics[:maxRelatedTopics]
	}
	for _, topic := range topics {
		if topic.Text == "" {
			continue
		}
		results = append(results, Result{
			Title:   "Related: " + title,
			URL:     topic.FirstURL,
			Snippet: topic.Text,
		})
	}
	return results, nil
}

// Format renders results as a numbered text block for an LLM prompt.
func Format(results []Result) string {
	if len(results) == 0 {
		return "No additional information found from web search."
	}

	var sb strings.Builder
	sb.WriteString("=== Additional Information from Web Search ===\n")
	for i, r := range results {
		source := r.URL
		if source == "" {
			source = "N/A"
		}
		fmt.Fprintf(&sb, "\n%d. %s\n   %s\n   Source: %s\n", i+1, r.Title, r.Snippet, source)
	}
	sb.WriteString("\n=== End of Web Search Results ===\n")
	return sb.String()
}

// Enhance builds the book information block handed to the LLM. It never
// fails: a failed search yields a block that says so.
func (c *Client) Enhance(ctx context.Context, title, author, description string) string {
	results, err := c.Search(ctx, title, author)
	if err != nil {
		slog.Warn("web search failed", "title", title, "err", err)
		return fmt.Sprintf("=== Book Information (Web Search Failed) ===\nTitle: %s\nAuthor: %s\nDescription: %s\n\nNote: Unable to fetch additional information from web search.", title, author, description)
	}

	var sb strings.Builder
	sb.WriteString("=== Original Book Information ===\n")
	fmt.Fprintf(&sb, "Title: %s\n", title)
	fmt.Fprintf(&sb, "Author: %s\n", author)
	fmt.Fprintf(&sb, "Description: %s\n", description)
	sb.WriteString("\n")
	sb.WriteString(Format(results))
	return sb.String()
}
