package openlibrary

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
)

func TestSearch(t *testing.T) {
	var gotISBN, gotTitle, gotAuthor string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search.json", r.URL.Path)
		q := r.URL.Query()
		gotISBN, gotTitle, gotAuthor = q.Get("isbn"), q.Get("title"), q.Get("author")
		_, _ = w.Write([]byte(`{"numFound":1,"start":0,"docs":[{
			"key": "/works/OL45804W",
			"title": "Fantastic Mr Fox",
			"author_name": ["Roald Dahl"],
			"first_publish_year": 1970,
			"publish_year": [1970, 1988, 2007],
			"publisher": ["Puffin"],
			"isbn": ["0140328726", "9780140328721"],
			"cover_i": 6498519,
			"first_sentence": ["And these two very old people are the father and mother of Mrs. Bucket."]
		}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.Client())

	docs, err := c.SearchByISBN(context.Background(), "9780140328721")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "9780140328721", gotISBN)

	d := docs[0]
	assert.Equal(t, "Roald Dahl", d.AllAuthors())
	assert.Equal(t, "9780140328721", d.BestISBN())
	assert.Equal(t, "https://covers.openlibrary.org/b/id/6498519-L.jpg", d.CoverURL())
	assert.Equal(t, 2007, d.LatestPublishYear())
	assert.Equal(t, "2007", d.PublishedDate())
	assert.Equal(t, "Puffin", d.PrimaryPublisher())
	assert.Contains(t, d.Description(), "Mrs. Bucket")

	_, err = c.SearchByTitleAuthor(context.Background(), "Fantastic Mr Fox", "Dahl")
	require.NoError(t, err)
	assert.Equal(t, "Fantastic Mr Fox", gotTitle)
	assert.Equal(t, "Dahl", gotAuthor)
}

func TestSearchServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, srv.Client()).SearchByISBN(context.Background(), "1")
	assert.True(t, errors.Is(err, models.ErrInvalidResponse))
}

func TestDocAccessorsEmpty(t *testing.T) {
	d := Doc{Title: "Untitled", FirstPublishYear: 1999}
	assert.Equal(t, "Unknown Author", d.AllAuthors())
	assert.Equal(t, "", d.BestISBN())
	assert.Equal(t, "", d.CoverURL())
	assert.Equal(t, "1999", d.PublishedDate())

	d = Doc{Title: "T", Subtitle: "S", PublishDate: []string{"May 2001"}, ISBN: []string{"0140328726"}}
	assert.Equal(t, "T: S", d.FullTitle())
	assert.Equal(t, "May 2001", d.PublishedDate())
	assert.Equal(t, "0140328726", d.BestISBN())
}

func TestTextUnmarshal(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "plain string", input: `{"description":"A fox."}`, expected: "A fox."},
		{name: "typed object", input: `{"description":{"type":"/type/text","value":"A fox."}}`, expected: "A fox."},
		{name: "null", input: `{"description":null}`, expected: ""},
		{name: "missing", input: `{}`, expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var w Work
			require.NoError(t, json.Unmarshal([]byte(tt.input), &w))
			assert.Equal(t, tt.expected, string(w.Description))
		})
	}
}

func TestWorkDescription(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/works/OL45804W.json", r.URL.Path)
		_, _ = w.Write([]byte(`{"key":"/works/OL45804W","title":"Fantastic Mr Fox","description":{"type":"/type/text","value":"  Three farmers.  "}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.Client())
	desc, err := c.WorkDescription(context.Background(), "/works/OL45804W")
	require.NoError(t, err)
	assert.Equal(t, "Three farmers.", desc)

	_, err = c.WorkDescription(context.Background(), "/books/OL1M")
	assert.Error(t, err)
}
