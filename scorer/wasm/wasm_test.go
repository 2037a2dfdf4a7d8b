package wasm

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snow-ghost/seeker/core"
)

func TestScorer_ConstPolicy(t *testing.T) {
	rt := NewRuntime()
	defer rt.Close(context.Background())

	scorer, err := rt.Load(context.Background(), "const", ConstScoreModule())
	require.NoError(t, err)

	f, err := scorer.Score(context.Background(), []byte{1, 2, 3, 4, 5, 6, 7, 8, 9})
	require.NoError(t, err)
	assert.Equal(t, 42.0, f)

	// repeat calls reuse the compiled module
	f, err = scorer.Score(context.Background(), []byte{9, 8, 7})
	require.NoError(t, err)
	assert.Equal(t, 42.0, f)
}

func TestScorer_NaNPolicyFailsFitnessCheck(t *testing.T) {
	rt := NewRuntime()
	defer rt.Close(context.Background())

	scorer, err := rt.Load(context.Background(), "nan", NaNScoreModule())
	require.NoError(t, err)

	f, err := scorer.Score(context.Background(), []byte{0})
	require.NoError(t, err)
	assert.True(t, math.IsNaN(f))
	assert.ErrorIs(t, core.CheckFitness(f), core.ErrNonFiniteFitness)
}

func TestRuntime_LoadCachesById(t *testing.T) {
	rt := NewRuntime()
	defer rt.Close(context.Background())

	a, err := rt.Load(context.Background(), "p", ConstScoreModule())
	require.NoError(t, err)
	b, err := rt.Load(context.Background(), "p", nil) // cached, bytes ignored
	require.NoError(t, err)
	assert.Equal(t, a.compiled, b.compiled)
}

func TestRuntime_InvalidModule(t *testing.T) {
	rt := NewRuntime()
	defer rt.Close(context.Background())

	_, err := rt.Load(context.Background(), "bad", []byte{0xde, 0xad, 0xbe, 0xef})
	assert.Error(t, err)
}

func TestScorer_Timeout(t *testing.T) {
	rt := NewRuntime()
	defer rt.Close(context.Background())

	scorer, err := rt.Load(context.Background(), "const", ConstScoreModule())
	require.NoError(t, err)
	scorer.WithTimeout(time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = scorer.Score(ctx, []byte{1})
	assert.Error(t, err)
}

var _ core.Scorer = (*Scorer)(nil)
