package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wattanit/wcm/internal/batch"
	"github.com/wattanit/wcm/internal/cataloging"
)

func TestRowRequestFromJSONL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "books.jsonl")
	data := `{"isbn":"9780441172719","title":"Dune","author":"Frank Herbert"}
{"title":" Dune Messiah ","author":"Frank Herbert","ebook":true}
{"isbn":"  ","title":"Children of Dune","author":"Frank Herbert"}
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	rows, err := loadRows(path, 0)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	tests := []struct {
		name  string
		row   batch.Row
		ebook bool
		want  cataloging.Request
	}{
		{
			name: "isbn wins over title and author",
			row:  rows[0],
			want: cataloging.Request{ISBN: "9780441172719"},
		},
		{
			name: "title and author trimmed",
			row:  rows[1],
			want: cataloging.Request{Title: "Dune Messiah", Author: "Frank Herbert", Ebook: true},
		},
		{
			name:  "blank isbn falls through",
			row:   rows[2],
			ebook: true,
			want:  cataloging.Request{Title: "Children of Dune", Author: "Frank Herbert", Ebook: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.True(t, tt.row.Valid())
			req := rowRequest(tt.row, tt.ebook)
			assert.Equal(t, tt.want, req)
			assert.NoError(t, req.Validate())
		})
	}
}

func TestLoadRowsSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "books.jsonl")
	data := `{"isbn":"1"}
{"isbn":"2"}
{"isbn":"3"}
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	all, err := loadRows(path, -1)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	some, err := loadRows(path, 2)
	require.NoError(t, err)
	assert.Len(t, some, 2)
}
