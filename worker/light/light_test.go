package light

import (
	"context"
	"testing"

	"github.com/snow-ghost/seeker/castle"
	"github.com/snow-ghost/seeker/core"
	"github.com/snow-ghost/seeker/pkg/accounting"
	"github.com/snow-ghost/seeker/policy/local"
	"github.com/snow-ghost/seeker/seeds"
	"github.com/snow-ghost/seeker/worker/common"
	"github.com/snow-ghost/seeker/worker/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWorker(t *testing.T, store seeds.Store) *LightWorker {
	t.Helper()
	acct, err := accounting.NewManager(accounting.Config{})
	require.NoError(t, err)
	base := common.NewBaseWorker(store, telemetry.NewTelemetry(), local.NewGuard(nil), acct, "light")
	return NewLightWorker(base, 0)
}

func TestLightWorker_BudgetStop(t *testing.T) {
	store := seeds.NewMemoryStore()
	w := newTestWorker(t, store)

	req := core.SearchRequest{
		ID:      "run-1",
		Domain:  castle.Domain,
		Samples: 50,
		Seed:    7,
		Budget:  core.Budget{MaxExpansions: 20},
	}

	result, err := w.Search(context.Background(), req)
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, core.OutcomeExhausted, result.Outcome)
	assert.Equal(t, 20, result.Stats.Expanded)
	assert.Greater(t, result.Fitness, 0.0)
	assert.NotEmpty(t, result.Best)

	// the best allocation was persisted for warm starts
	seed, ok, err := store.Best(castle.Domain)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, result.Fitness, seed.Fitness)
	assert.Equal(t, 50, seed.Samples)
}

func TestLightWorker_Goal(t *testing.T) {
	w := newTestWorker(t, seeds.NewMemoryStore())

	req := core.SearchRequest{
		ID:          "run-2",
		Domain:      castle.Domain,
		Samples:     50,
		Seed:        7,
		GoalFitness: 1,
		Budget:      core.Budget{MaxExpansions: 5000},
	}

	result, err := w.Search(context.Background(), req)
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, core.OutcomeGoal, result.Outcome)
	assert.GreaterOrEqual(t, result.Fitness, 1.0)
}

func TestLightWorker_WarmStart(t *testing.T) {
	store := seeds.NewMemoryStore()
	start := castle.FromCuts([9]uint8{10, 20, 30, 40, 50, 60, 70, 80, 90})
	require.NoError(t, store.Save(seeds.Seed{
		Domain:  castle.Domain,
		State:   start.Bytes(),
		Fitness: 30,
		Samples: 50,
	}))

	w := newTestWorker(t, store)
	searcher := w.buildSearcher(context.Background(), core.SearchRequest{Domain: castle.Domain, Samples: 50, Seed: 7})

	got, err := searcher.Start()
	require.NoError(t, err)
	assert.Equal(t, start, got)
}

func TestLightWorker_UnknownDomain(t *testing.T) {
	w := newTestWorker(t, seeds.NewMemoryStore())

	result, err := w.Search(context.Background(), core.SearchRequest{ID: "run-3", Domain: "mazes"})
	assert.Error(t, err)
	assert.Equal(t, core.OutcomeError, result.Outcome)
}

func TestLightWorker_DomainAllowlist(t *testing.T) {
	acct, err := accounting.NewManager(accounting.Config{})
	require.NoError(t, err)
	base := common.NewBaseWorker(seeds.NewMemoryStore(), telemetry.NewTelemetry(),
		local.NewGuard([]string{"other"}), acct, "light")
	w := NewLightWorker(base, 0)

	result, err := w.Search(context.Background(), core.SearchRequest{ID: "run-4", Domain: castle.Domain})
	assert.Error(t, err)
	assert.Equal(t, core.OutcomeError, result.Outcome)
}

func TestLightWorker_TwoWorkersOneProcess(t *testing.T) {
	// a process may build several workers; telemetry must not collide
	w1 := newTestWorker(t, seeds.NewMemoryStore())
	w2 := newTestWorker(t, seeds.NewMemoryStore())

	req := core.SearchRequest{
		ID:      "run-5",
		Domain:  castle.Domain,
		Samples: 20,
		Seed:    3,
		Budget:  core.Budget{MaxExpansions: 5},
	}

	for _, w := range []*LightWorker{w1, w2} {
		result, err := w.Search(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, core.OutcomeExhausted, result.Outcome)
	}
}

func TestLightWorker_Type(t *testing.T) {
	w := newTestWorker(t, seeds.NewMemoryStore())
	assert.Equal(t, "light", w.Type())
	assert.True(t, w.Caps().UseSeeds)
	assert.False(t, w.Caps().UseWASM)
}
