package storage

import (
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Outcome is the recorded result of cataloging one input.
type Outcome struct {
	ID       string
	Input    string
	Status   string
	EntryID  uint64
	Error    string
	Recorded time.Time
}

// Journal keeps the outcomes of a batch run in insertion order.
type Journal struct {
	outcomes map[string]*Outcome
	order    []string
	mu       sync.RWMutex
}

func New() *Journal {
	return &Journal{
		outcomes: make(map[string]*Outcome),
	}
}

// Record stores o under a fresh id and returns it.
func (j *Journal) Record(o Outcome) string {
	j.mu.Lock()
	defer j.mu.Unlock()

	o.ID = uuid.NewString()
	if o.Recorded.IsZero() {
		o.Recorded = time.Now()
	}
	j.outcomes[o.ID] = &o
	j.order = append(j.order, o.ID)
	return o.ID
}

// All returns a copy of every outcome in the order recorded.
func (j *Journal) All() []Outcome {
	j.mu.RLock()
	defer j.mu.RUnlock()

	result := make([]Outcome, 0, len(j.order))
	for _, id := range j.order {
		result = append(result, *j.outcomes[id])
	}
	return result
}

// Summary counts outcomes per status.
func (j *Journal) Summary() map[string]int {
	j.mu.RLock()
	defer j.mu.RUnlock()

	counts := make(map[string]int)
	for _, o := range j.outcomes {
		counts[o.Status]++
	}
	return counts
}

// Statuses returns the distinct statuses seen, sorted.
func (j *Journal) Statuses() []string {
	summary := j.Summary()
	statuses := make([]string, 0, len(summary))
	for s := range summary {
		statuses = append(statuses, s)
	}
	slices.Sort(statuses)
	return statuses
}
