package seeds

import (
	"sort"
	"sync"
	"time"
)

// MemoryStore is an in-memory Store for tests and single-process runs.
type MemoryStore struct {
	mu    sync.RWMutex
	byDom map[string][]Seed
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byDom: make(map[string][]Seed)}
}

func (m *MemoryStore) Best(domain string) (Seed, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var best Seed
	found := false
	for _, s := range m.byDom[domain] {
		if !found || s.Fitness > best.Fitness {
			best = s
			found = true
		}
	}
	return best, found, nil
}

func (m *MemoryStore) Save(seed Seed) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if seed.CreatedAt.IsZero() {
		seed.CreatedAt = time.Now()
	}
	m.byDom[seed.Domain] = append(m.byDom[seed.Domain], seed)
	return nil
}

func (m *MemoryStore) List(domain string) ([]Seed, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Seed, len(m.byDom[domain]))
	copy(out, m.byDom[domain])
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}
