package search

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snow-ghost/seeker/core"
	"github.com/snow-ghost/seeker/testkit"
)

// triangle builds the three-state graph A -> {B, C} with fixed scores.
func triangle() *testkit.GraphProblem {
	g := testkit.NewGraphProblem("A")
	g.AddState("A", 1, "B", "C")
	g.AddState("B", 5)
	g.AddState("C", 3)
	return g
}

func TestEngine_ExhaustionOrderAndCounts(t *testing.T) {
	g := triangle()
	rec := &testkit.Recorder[string]{}
	e := NewEngine[string](g, WithReporter[string](rec))

	_, err := e.Run(context.Background())
	require.ErrorIs(t, err, ErrExhausted)
	assert.Equal(t, core.OutcomeExhausted, OutcomeForError(err))

	// A pops first (only entry), then B before C
	assert.Equal(t, []string{"A", "B", "C"}, rec.States)
	assert.Equal(t, []float64{1, 5, 3}, rec.Fitnesses)
	assert.Len(t, g.ScoreCalls, 3)
}

func TestEngine_GoalShortCircuit(t *testing.T) {
	g := triangle()
	g.MarkGoal("B")
	rec := &testkit.Recorder[string]{}
	e := NewEngine[string](g, WithReporter[string](rec))

	sol, err := e.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "B", sol.State)
	assert.Equal(t, 5.0, sol.Fitness)

	// C is scored when A expands, but never reported
	assert.Equal(t, []string{"A", "B"}, rec.States)
	assert.Contains(t, g.ScoreCalls, "C")
}

func TestEngine_GoalOnStartState(t *testing.T) {
	g := triangle()
	g.MarkGoal("A")
	rec := &testkit.Recorder[string]{}
	e := NewEngine[string](g, WithReporter[string](rec))

	sol, err := e.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "A", sol.State)

	// exactly one report, no neighbor ever scored
	assert.Equal(t, []string{"A"}, rec.States)
	assert.Equal(t, []string{"A"}, g.ScoreCalls)
	assert.Equal(t, 1, sol.Stats.Expanded)
}

func TestEngine_DedupOnDiamond(t *testing.T) {
	// A -> {B, C}, both -> D: D must be scored exactly once
	g := testkit.NewGraphProblem("A")
	g.AddState("A", 1, "B", "C")
	g.AddState("B", 4, "D")
	g.AddState("C", 2, "D")
	g.AddState("D", 3)

	e := NewEngine[string](g)
	sol, err := e.Run(context.Background())
	require.ErrorIs(t, err, ErrExhausted)

	counts := map[string]int{}
	for _, s := range g.ScoreCalls {
		counts[s]++
	}
	for s, n := range counts {
		assert.Equal(t, 1, n, "state %s scored %d times", s, n)
	}
	// scored count equals reachable states; one dedup skip for D
	assert.Equal(t, len(g.ReachableStates()), sol.Stats.Scored)
	assert.Equal(t, 1, sol.Stats.Skipped)
}

func TestEngine_ReportOrderNonIncreasing(t *testing.T) {
	// wider graph: pops must be non-increasing in enqueue-time fitness
	// within each frontier generation
	g := testkit.NewGraphProblem("root")
	g.AddState("root", 0, "a", "b", "c", "d")
	g.AddState("a", 7)
	g.AddState("b", 2)
	g.AddState("c", 9)
	g.AddState("d", 4)

	rec := &testkit.Recorder[string]{}
	e := NewEngine[string](g, WithReporter[string](rec))
	_, err := e.Run(context.Background())
	require.ErrorIs(t, err, ErrExhausted)

	assert.Equal(t, []string{"root", "c", "a", "d", "b"}, rec.States)
	assert.Equal(t, []float64{0, 9, 7, 4, 2}, rec.Fitnesses)
}

func TestEngine_NonFiniteFitnessRejected(t *testing.T) {
	g := triangle()
	g.Scores["B"] = math.NaN()

	e := NewEngine[string](g)
	_, err := e.Run(context.Background())
	require.ErrorIs(t, err, core.ErrNonFiniteFitness)
	assert.Equal(t, core.OutcomeError, OutcomeForError(err))

	// neither the frontier nor the tracker saw the bad entry
	best, ok := e.Tracker().PeekBest()
	require.True(t, ok)
	assert.Equal(t, "A", best.State)
}

func TestEngine_ScoreErrorPropagates(t *testing.T) {
	g := triangle()
	scoreErr := errors.New("sampler unavailable")
	g.ScoreErrs["C"] = scoreErr

	e := NewEngine[string](g)
	_, err := e.Run(context.Background())
	require.ErrorIs(t, err, scoreErr)
}

func TestEngine_StartErrorPropagates(t *testing.T) {
	g := triangle()
	g.StartErr = errors.New("no start state")

	e := NewEngine[string](g)
	_, err := e.Run(context.Background())
	require.ErrorContains(t, err, "no start state")
}

func TestEngine_ContextCancellation(t *testing.T) {
	g := triangle()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := NewEngine[string](g)
	_, err := e.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, core.OutcomeCanceled, OutcomeForError(err))
}

func TestEngine_MaxExpansions(t *testing.T) {
	g := triangle()
	e := NewEngine[string](g, WithMaxExpansions[string](1))

	sol, err := e.Run(context.Background())
	require.ErrorIs(t, err, ErrExpansionBudget)
	assert.Equal(t, 1, sol.Stats.Expanded)
}

func TestEngine_TrackerSurvivesRuns(t *testing.T) {
	g := triangle()
	e := NewEngine[string](g)

	_, err := e.Run(context.Background())
	require.ErrorIs(t, err, ErrExhausted)
	best, ok := e.Tracker().PeekBest()
	require.True(t, ok)
	assert.Equal(t, "B", best.State)

	// a second run over the same engine keeps the record history
	records := e.Tracker().Len()
	_, err = e.Run(context.Background())
	require.ErrorIs(t, err, ErrExhausted)
	assert.Equal(t, records, e.Tracker().Len())

	best, _ = e.Tracker().PeekBest()
	assert.Equal(t, 5.0, best.Fitness)
}

func TestEngine_VisitedEqualsScored(t *testing.T) {
	// dedup invariant: every scored state was enqueued exactly once
	g := testkit.NewGraphProblem("s")
	g.AddState("s", 0, "x", "y")
	g.AddState("x", 1, "y", "z")
	g.AddState("y", 2, "x", "z")
	g.AddState("z", 3, "s")

	sol, err := NewEngine[string](g).Run(context.Background())
	require.ErrorIs(t, err, ErrExhausted)
	assert.Equal(t, len(g.ReachableStates()), sol.Stats.Scored)
	assert.Equal(t, sol.Stats.Scored, sol.Stats.Expanded)
}
