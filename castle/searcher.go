package castle

import (
	"context"
	"fmt"
	"math/rand/v2"
)

// Domain is the registry/accounting name for this problem model.
const Domain = "castles"

// DefaultSamples is the training-set size when none is configured.
const DefaultSamples = 100_000

// Searcher implements the engine's Problem contract for Castle states.
// Fitness is the number of wins against a fixed random sample set, so it
// is always a finite non-negative integer value.
type Searcher struct {
	samples []Castle
	rng     *rand.Rand
	start   *Castle
	goal    float64
	scorer  func(ctx context.Context, state []byte) (float64, error)
}

type SearcherOption func(*Searcher)

// WithSamples sets the training-set size.
func WithSamples(n int) SearcherOption {
	return func(s *Searcher) {
		if n > 0 {
			s.samples = make([]Castle, 0, n)
		}
	}
}

// WithSeed pins the RNG for reproducible sample sets and start states.
// Seed 0 keeps random seeding.
func WithSeed(seed int64) SearcherOption {
	return func(s *Searcher) {
		if seed != 0 {
			s.rng = rand.New(rand.NewPCG(uint64(seed), uint64(seed)))
		}
	}
}

// WithStart warm-starts the search from a known allocation instead of a
// random one.
func WithStart(c Castle) SearcherOption {
	return func(s *Searcher) { s.start = &c }
}

// WithGoalFitness makes IsGoal fire at the given win count. Zero keeps
// the default always-false predicate: runs terminate by exhaustion, which
// for this domain is the intended terminal.
func WithGoalFitness(goal float64) SearcherOption {
	return func(s *Searcher) { s.goal = goal }
}

// WithExternalScorer replaces the native win-count scoring with an
// external scorer over the castle's byte encoding (e.g. a wasm policy).
func WithExternalScorer(score func(ctx context.Context, state []byte) (float64, error)) SearcherOption {
	return func(s *Searcher) { s.scorer = score }
}

func NewSearcher(opts ...SearcherOption) *Searcher {
	s := &Searcher{}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	n := DefaultSamples
	if s.samples != nil {
		n = cap(s.samples)
	}
	s.samples = make([]Castle, n)
	for i := range s.samples {
		s.samples[i] = RandomCastle(s.rng)
	}
	return s
}

// RandomCastle draws nine uniform cut points in [0,100) and sorts them.
func RandomCastle(rng *rand.Rand) Castle {
	var cuts [NumCuts]uint8
	for i := range cuts {
		cuts[i] = uint8(rng.IntN(TotalTroops))
	}
	return FromCuts(cuts)
}

func (s *Searcher) Start() (Castle, error) {
	if s.start != nil {
		return *s.start, nil
	}
	return RandomCastle(s.rng), nil
}

func (s *Searcher) Neighbors(c Castle) []Castle {
	return c.Neighbors()
}

// Score counts wins against the sample set, or defers to the external
// scorer when one is configured.
func (s *Searcher) Score(c Castle) (float64, error) {
	if s.scorer != nil {
		f, err := s.scorer(context.Background(), c.Bytes())
		if err != nil {
			return 0, fmt.Errorf("external scorer: %w", err)
		}
		return f, nil
	}
	wins := 0
	for _, other := range s.samples {
		if c.Beats(other) {
			wins++
		}
	}
	return float64(wins), nil
}

func (s *Searcher) IsGoal(_ Castle, fitness float64) bool {
	return s.goal > 0 && fitness >= s.goal
}

func (s *Searcher) Describe(c Castle) string {
	return c.String()
}

// SampleCount reports the training-set size.
func (s *Searcher) SampleCount() int {
	return len(s.samples)
}
