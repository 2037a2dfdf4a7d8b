package search

import "sync"

// Tracker keeps an append-only record of all-time-high fitness
// observations. An entry is appended whenever a newly scored fitness
// exceeds the tracked maximum (or the tracker is empty); nothing is ever
// evicted, so size grows with the number of new-record events, not with
// the number of states scored. That growth is intentional: the history of
// records is itself a diagnostic.
//
// A Tracker belongs to one engine instance and outlives individual runs.
type Tracker[S comparable] struct {
	mu      sync.RWMutex
	records []Entry[S]
}

func NewTracker[S comparable]() *Tracker[S] {
	return &Tracker[S]{}
}

// Record appends (state, fitness) if it sets a new all-time high.
// Returns true when a record was appended.
func (t *Tracker[S]) Record(state S, fitness float64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.records) > 0 && fitness <= t.records[len(t.records)-1].Fitness {
		return false
	}
	t.records = append(t.records, Entry[S]{State: state, Fitness: fitness})
	return true
}

// PeekBest returns the highest-fitness entry ever recorded.
// The second return is false when nothing has been recorded yet.
func (t *Tracker[S]) PeekBest() (Entry[S], bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if len(t.records) == 0 {
		var zero Entry[S]
		return zero, false
	}
	// records is sorted ascending by construction
	return t.records[len(t.records)-1], true
}

// Len returns the number of new-record events observed.
func (t *Tracker[S]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.records)
}

// History returns a copy of all records in the order they were set.
func (t *Tracker[S]) History() []Entry[S] {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]Entry[S], len(t.records))
	copy(out, t.records)
	return out
}
