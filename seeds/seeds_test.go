package seeds

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storesUnderTest(t *testing.T) map[string]Store {
	t.Helper()
	fs, err := NewFSStore(t.TempDir())
	require.NoError(t, err)
	return map[string]Store{
		"memory": NewMemoryStore(),
		"fs":     fs,
	}
}

func TestStore_BestPicksHighestFitness(t *testing.T) {
	for name, store := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			_, found, err := store.Best("castles")
			require.NoError(t, err)
			assert.False(t, found)

			require.NoError(t, store.Save(Seed{Domain: "castles", State: []byte{1}, Fitness: 10}))
			require.NoError(t, store.Save(Seed{Domain: "castles", State: []byte{2}, Fitness: 30}))
			require.NoError(t, store.Save(Seed{Domain: "castles", State: []byte{3}, Fitness: 20}))

			best, found, err := store.Best("castles")
			require.NoError(t, err)
			require.True(t, found)
			assert.Equal(t, 30.0, best.Fitness)
			assert.Equal(t, []byte{2}, best.State)
		})
	}
}

func TestStore_DomainsAreIsolated(t *testing.T) {
	for name, store := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Save(Seed{Domain: "castles", Fitness: 5}))

			_, found, err := store.Best("mazes")
			require.NoError(t, err)
			assert.False(t, found)
		})
	}
}

func TestStore_ListNewestFirst(t *testing.T) {
	for name, store := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			old := time.Now().Add(-time.Hour)
			require.NoError(t, store.Save(Seed{Domain: "castles", Fitness: 1, CreatedAt: old}))
			require.NoError(t, store.Save(Seed{Domain: "castles", Fitness: 2, CreatedAt: time.Now()}))

			seeds, err := store.List("castles")
			require.NoError(t, err)
			require.Len(t, seeds, 2)
			assert.Equal(t, 2.0, seeds[0].Fitness)
		})
	}
}

func TestFSStore_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	store, err := NewFSStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Save(Seed{Domain: "castles", State: []byte{9, 8}, Fitness: 77}))

	reopened, err := NewFSStore(dir)
	require.NoError(t, err)
	best, found, err := reopened.Best("castles")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 77.0, best.Fitness)
	assert.Equal(t, []byte{9, 8}, best.State)
}
