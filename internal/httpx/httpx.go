package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/wattanit/wcm/internal/models"
)

// Doer is the minimal HTTP client interface used across packages.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// UserAgent identifies wcm on every outbound request.
const UserAgent = "wcm/0.1 (personal library cataloger)"

// DefaultTimeout bounds a single request made through NewClient.
const DefaultTimeout = 30 * time.Second

// maxErrorBody caps how much of an error response is kept for messages.
const maxErrorBody = 512

// NewClient returns the shared HTTP client.
func NewClient() *http.Client {
	return &http.Client{Timeout: DefaultTimeout}
}

// SetUA sets the wcm User-Agent header on the request.
func SetUA(req *http.Request) {
	if req != nil {
		req.Header.Set("User-Agent", UserAgent)
	}
}

// CheckStatus maps a non-2xx response to one of the models sentinel errors.
// The body is read (and left unclosed) only on failure.
func CheckStatus(resp *http.Response, service string) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	msg := strings.TrimSpace(string(body))

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%s returned status %d: %w", service, resp.StatusCode, models.ErrUnauthorized)
	case http.StatusNotFound:
		return fmt.Errorf("%s returned status %d: %w", service, resp.StatusCode, models.ErrNotFound)
	default:
		return fmt.Errorf("%s returned status %d: %s: %w", service, resp.StatusCode, msg, models.ErrInvalidResponse)
	}
}

// GetJSON issues a GET with the given headers and decodes the JSON body into out.
func GetJSON(ctx context.Context, doer Doer, service, rawURL string, headers map[string]string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", service, err)
	}
	SetUA(req)
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return DoJSON(doer, req, service, out)
}

// DoJSON sends req and decodes a successful JSON response into out.
func DoJSON(doer Doer, req *http.Request, service string, out any) error {
	resp, err := doer.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach %s: %v: %w", service, err, models.ErrTransport)
	}
	defer resp.Body.Close()

	if err := CheckStatus(resp, service); err != nil {
		return err
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %v: %w", service, err, models.ErrInvalidResponse)
	}
	return nil
}

// Limited wraps a Doer with a token-bucket rate limiter.
type Limited struct {
	next    Doer
	limiter *rate.Limiter
}

// NewLimited allows one request per interval with the given burst.
func NewLimited(next Doer, interval time.Duration, burst int) *Limited {
	if burst < 1 {
		burst = 1
	}
	return &Limited{
		next:    next,
		limiter: rate.NewLimiter(rate.Every(interval), burst),
	}
}

func (l *Limited) Do(req *http.Request) (*http.Response, error) {
	if err := l.limiter.Wait(req.Context()); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}
	return l.next.Do(req)
}
