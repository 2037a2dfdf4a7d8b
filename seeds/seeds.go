// Package seeds persists the best solutions found per domain, so later
// runs can warm-start from a known-good allocation instead of a random
// one.
package seeds

import "time"

// Seed is one persisted solution.
type Seed struct {
	Domain    string    `json:"domain"`
	State     []byte    `json:"state"`   // domain byte encoding of the solution
	Fitness   float64   `json:"fitness"` // measured when the seed was saved
	Samples   int       `json:"samples"` // sample-set size behind the fitness
	CreatedAt time.Time `json:"created_at"`
}

// Store is the seed persistence contract.
type Store interface {
	// Best returns the highest-fitness seed for a domain.
	Best(domain string) (Seed, bool, error)

	// Save records a seed. Stores keep history; they never overwrite.
	Save(seed Seed) error

	// List returns all seeds for a domain, newest first.
	List(domain string) ([]Seed, error)
}
