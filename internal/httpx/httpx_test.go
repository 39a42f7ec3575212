package httpx

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/wattanit/wcm/internal/models"
)

type fakeDoer struct {
	calls int
	resp  *http.Response
	err   error
}

func (f *fakeDoer) Do(req *http.Request) (*http.Response, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func response(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
}

func TestSetUA(t *testing.T) {
	req, _ := http.NewRequest(http.MethodGet, "https://example.com", nil)
	SetUA(req)
	if hv := req.Header.Get("User-Agent"); hv != UserAgent {
		t.Fatalf("SetUA: want %q, got %q", UserAgent, hv)
	}
	SetUA(nil)
}

func TestCheckStatus(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{name: "ok", status: 200, want: nil},
		{name: "created", status: 201, want: nil},
		{name: "unauthorized", status: 401, want: models.ErrUnauthorized},
		{name: "forbidden", status: 403, want: models.ErrUnauthorized},
		{name: "not found", status: 404, want: models.ErrNotFound},
		{name: "server error", status: 500, want: models.ErrInvalidResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckStatus(response(tt.status, "boom"), "svc")
			if tt.want == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("want %v, got %v", tt.want, err)
			}
		})
	}
}

func TestGetJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Token abc" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if r.Header.Get("User-Agent") != UserAgent {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(`{"count": 3}`))
	}))
	defer srv.Close()

	var out struct {
		Count int `json:"count"`
	}
	err := GetJSON(context.Background(), srv.Client(), "test", srv.URL, map[string]string{"Authorization": "Token abc"}, &out)
	if err != nil {
		t.Fatalf("GetJSON: %v", err)
	}
	if out.Count != 3 {
		t.Fatalf("want count 3, got %d", out.Count)
	}

	err = GetJSON(context.Background(), srv.Client(), "test", srv.URL, nil, &out)
	if !errors.Is(err, models.ErrUnauthorized) {
		t.Fatalf("want ErrUnauthorized, got %v", err)
	}
}

func TestDoJSONErrors(t *testing.T) {
	req, _ := http.NewRequest(http.MethodGet, "https://example.com", nil)

	err := DoJSON(&fakeDoer{err: errors.New("dial tcp: refused")}, req, "svc", nil)
	if !errors.Is(err, models.ErrTransport) {
		t.Fatalf("want ErrTransport, got %v", err)
	}

	var out map[string]any
	err = DoJSON(&fakeDoer{resp: response(200, "not json")}, req, "svc", &out)
	if !errors.Is(err, models.ErrInvalidResponse) {
		t.Fatalf("want ErrInvalidResponse, got %v", err)
	}
}

func TestLimitedPassesThrough(t *testing.T) {
	next := &fakeDoer{resp: response(200, "{}")}
	l := NewLimited(next, time.Millisecond, 2)

	for i := 0; i < 3; i++ {
		req, _ := http.NewRequest(http.MethodGet, "https://example.com", nil)
		if _, err := l.Do(req); err != nil {
			t.Fatalf("Do: %v", err)
		}
	}
	if next.calls != 3 {
		t.Fatalf("want 3 calls, got %d", next.calls)
	}
}

func TestLimitedHonoursCancelledContext(t *testing.T) {
	next := &fakeDoer{resp: response(200, "{}")}
	l := NewLimited(next, time.Hour, 1)

	req, _ := http.NewRequest(http.MethodGet, "https://example.com", nil)
	if _, err := l.Do(req); err != nil {
		t.Fatalf("first Do: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req, _ = http.NewRequestWithContext(ctx, http.MethodGet, "https://example.com", nil)
	if _, err := l.Do(req); err == nil {
		t.Fatal("expected error from cancelled context")
	}
	if next.calls != 1 {
		t.Fatalf("want 1 call, got %d", next.calls)
	}
}
