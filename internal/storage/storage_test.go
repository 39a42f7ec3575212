package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestJournalRecord(t *testing.T) {
	j := New()

	id := j.Record(Outcome{Input: "9780441172719", Status: "created", EntryID: 12})
	require.NotEmpty(t, id)

	all := j.All()
	require.Len(t, all, 1)
	got := all[0]
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "9780441172719", got.Input)
	assert.Equal(t, uint64(12), got.EntryID)
	assert.False(t, got.Recorded.IsZero())

	other := j.Record(Outcome{Input: "row 2", Status: "skipped"})
	assert.NotEqual(t, id, other)
}

func TestJournalOrderAndSummary(t *testing.T) {
	j := New()
	j.Record(Outcome{Input: "a", Status: "created"})
	j.Record(Outcome{Input: "b", Status: "failed", Error: "boom"})
	j.Record(Outcome{Input: "c", Status: "created"})
	j.Record(Outcome{Input: "d", Status: "no_results"})

	all := j.All()
	require.Len(t, all, 4)
	assert.Equal(t, []string{"a", "b", "c", "d"}, []string{all[0].Input, all[1].Input, all[2].Input, all[3].Input})

	assert.Equal(t, map[string]int{"created": 2, "failed": 1, "no_results": 1}, j.Summary())
	assert.Equal(t, []string{"created", "failed", "no_results"}, j.Statuses())
}

func TestJournalConcurrentRecord(t *testing.T) {
	j := New()

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			j.Record(Outcome{Input: fmt.Sprint(i), Status: "created"})
		}()
	}
	wg.Wait()

	assert.Len(t, j.All(), 50)
	assert.Equal(t, 50, j.Summary()["created"])
}

func TestJournalSaveYAML(t *testing.T) {
	j := New()
	j.Record(Outcome{Input: "9780441172719", Status: "created", EntryID: 3})
	j.Record(Outcome{Input: "row 2", Status: "skipped"})

	path := filepath.Join(t.TempDir(), "runs", "report.yaml")
	require.NoError(t, j.SaveYAML(path, RunInfo{Source: "books.jsonl", Provider: "ollama", Model: "llama3.2"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got Report
	require.NoError(t, yaml.Unmarshal(data, &got))
	assert.Equal(t, "books.jsonl", got.Run.Source)
	assert.NotEmpty(t, got.Run.Timestamp)
	assert.Equal(t, map[string]int{"created": 1, "skipped": 1}, got.Summary)
	require.Len(t, got.Results, 2)
	assert.Equal(t, uint64(3), got.Results[0].EntryID)
	assert.Equal(t, "skipped", got.Results[1].Status)
}
