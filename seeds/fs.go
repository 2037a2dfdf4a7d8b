package seeds

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// FSStore keeps seeds in one JSON file per domain under a directory.
// Files are small (one entry per saved best), so each Save rewrites the
// whole file.
type FSStore struct {
	dir string
	mu  sync.Mutex
}

func NewFSStore(dir string) (*FSStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create seeds directory: %w", err)
	}
	return &FSStore{dir: dir}, nil
}

func (f *FSStore) Best(domain string) (Seed, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	seeds, err := f.load(domain)
	if err != nil {
		return Seed{}, false, err
	}

	var best Seed
	found := false
	for _, s := range seeds {
		if !found || s.Fitness > best.Fitness {
			best = s
			found = true
		}
	}
	return best, found, nil
}

func (f *FSStore) Save(seed Seed) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if seed.CreatedAt.IsZero() {
		seed.CreatedAt = time.Now()
	}

	seeds, err := f.load(seed.Domain)
	if err != nil {
		return err
	}
	seeds = append(seeds, seed)

	data, err := json.MarshalIndent(seeds, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal seeds: %w", err)
	}
	if err := os.WriteFile(f.path(seed.Domain), data, 0644); err != nil {
		return fmt.Errorf("failed to write seeds file: %w", err)
	}
	return nil
}

func (f *FSStore) List(domain string) ([]Seed, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	seeds, err := f.load(domain)
	if err != nil {
		return nil, err
	}
	sort.Slice(seeds, func(i, j int) bool {
		return seeds[i].CreatedAt.After(seeds[j].CreatedAt)
	})
	return seeds, nil
}

func (f *FSStore) path(domain string) string {
	return filepath.Join(f.dir, domain+".json")
}

func (f *FSStore) load(domain string) ([]Seed, error) {
	data, err := os.ReadFile(f.path(domain))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read seeds file: %w", err)
	}

	var seeds []Seed
	if err := json.Unmarshal(data, &seeds); err != nil {
		return nil, fmt.Errorf("failed to parse seeds file: %w", err)
	}
	return seeds, nil
}
