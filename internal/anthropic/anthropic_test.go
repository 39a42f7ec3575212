package anthropic

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wattanit/wcm/internal/models"
	"github.com/wattanit/wcm/internal/providers"
)

func TestComplete(t *testing.T) {
	var got messagesRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "sk-ant", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"Fiction, "},{"type":"text","text":"History"}],"stop_reason":"end_turn"}`))
	}))
	defer srv.Close()

	a, err := New(srv.URL, "sk-ant", "claude-3-5-sonnet-latest", srv.Client())
	require.NoError(t, err)

	text, err := a.Complete(context.Background(), providers.Request{Prompt: "categorize", Temperature: 0.7})
	require.NoError(t, err)
	assert.Equal(t, "Fiction, History", text)
	assert.Equal(t, DefaultMaxTokens, got.MaxTokens)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "user", got.Messages[0].Role)
	assert.Equal(t, "categorize", got.Messages[0].Content)
}

func TestCompleteNoText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"content":[],"stop_reason":"max_tokens"}`))
	}))
	defer srv.Close()

	a, err := New(srv.URL, "sk-ant", "m", srv.Client())
	require.NoError(t, err)
	_, err = a.Complete(context.Background(), providers.Request{Prompt: "x"})
	assert.True(t, errors.Is(err, models.ErrInvalidResponse))
}

func TestNewRequiresKey(t *testing.T) {
	_, err := New("https://api.anthropic.com", "", "m", http.DefaultClient)
	assert.True(t, errors.Is(err, models.ErrNotConfigured))
}
