package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/snow-ghost/seeker/core"
)

var (
	// ErrExhausted means the frontier drained before any goal was met.
	ErrExhausted = errors.New("search space exhausted")

	// ErrExpansionBudget means the configured expansion cap was hit.
	ErrExpansionBudget = errors.New("expansion budget exceeded")
)

// Solution is the terminal state of a successful run.
type Solution[S comparable] struct {
	State   S
	Fitness float64
	Stats   core.RunStats
}

// Engine drives greedy best-first expansion over one Problem.
// It owns the frontier and visited set per run; the best-ever tracker is
// engine-scoped and survives across runs.
type Engine[S comparable] struct {
	problem       core.Problem[S]
	reporters     []core.Reporter[S]
	tracker       *Tracker[S]
	maxExpansions int
	logger        *slog.Logger
}

type Option[S comparable] func(*Engine[S])

// WithReporter registers a pop-order reporter. Reporters are invoked in
// registration order, once per popped state.
func WithReporter[S comparable](r core.Reporter[S]) Option[S] {
	return func(e *Engine[S]) { e.reporters = append(e.reporters, r) }
}

// WithMaxExpansions caps the number of popped states; 0 means unlimited.
func WithMaxExpansions[S comparable](n int) Option[S] {
	return func(e *Engine[S]) { e.maxExpansions = n }
}

// WithLogger overrides the default slog logger.
func WithLogger[S comparable](l *slog.Logger) Option[S] {
	return func(e *Engine[S]) { e.logger = l }
}

func NewEngine[S comparable](problem core.Problem[S], opts ...Option[S]) *Engine[S] {
	e := &Engine[S]{
		problem: problem,
		tracker: NewTracker[S](),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Tracker exposes the engine's best-ever tracker for diagnostics.
func (e *Engine[S]) Tracker() *Tracker[S] {
	return e.tracker
}

// Run executes one search: seed the frontier with the start state, then
// repeatedly pop the highest-fitness entry, report it, test the goal, and
// enqueue unseen neighbors. Fitness is fixed at enqueue time and never
// recomputed, so pops are non-increasing in enqueue-time fitness.
//
// A drained frontier returns ErrExhausted; the stats in the returned
// Solution are valid on every path.
func (e *Engine[S]) Run(ctx context.Context) (Solution[S], error) {
	began := time.Now()
	var stats core.RunStats

	fail := func(err error) (Solution[S], error) {
		stats.Duration = time.Since(began)
		return Solution[S]{Stats: stats}, err
	}

	start, err := e.problem.Start()
	if err != nil {
		return fail(fmt.Errorf("start state: %w", err))
	}

	frontier := NewFrontier[S]()
	visited := make(map[S]struct{})

	f, err := e.score(start, &stats)
	if err != nil {
		return fail(err)
	}
	visited[start] = struct{}{}
	frontier.Push(Entry[S]{State: start, Fitness: f})

	e.logger.InfoContext(ctx, "search started",
		"start", e.problem.Describe(start), "start_fitness", f)

	for {
		if err := ctx.Err(); err != nil {
			return fail(err)
		}

		entry, ok := frontier.PopMax()
		if !ok {
			e.logger.InfoContext(ctx, "frontier drained",
				"scored", stats.Scored, "expanded", stats.Expanded)
			return fail(fmt.Errorf("no goal after %d expansions: %w", stats.Expanded, ErrExhausted))
		}
		stats.Expanded++

		for _, r := range e.reporters {
			r.Report(entry.State, entry.Fitness)
		}

		if e.problem.IsGoal(entry.State, entry.Fitness) {
			stats.Duration = time.Since(began)
			e.logger.InfoContext(ctx, "goal reached",
				"state", e.problem.Describe(entry.State),
				"fitness", entry.Fitness, "expanded", stats.Expanded)
			return Solution[S]{State: entry.State, Fitness: entry.Fitness, Stats: stats}, nil
		}

		if e.maxExpansions > 0 && stats.Expanded >= e.maxExpansions {
			return fail(fmt.Errorf("after %d expansions: %w", stats.Expanded, ErrExpansionBudget))
		}

		for _, n := range e.problem.Neighbors(entry.State) {
			if _, seen := visited[n]; seen {
				stats.Skipped++
				continue
			}
			visited[n] = struct{}{}

			fn, err := e.score(n, &stats)
			if err != nil {
				return fail(err)
			}
			frontier.Push(Entry[S]{State: n, Fitness: fn})
		}
	}
}

// score rates one state and feeds the best-ever tracker. Non-finite
// fitness is rejected before it can reach the frontier or the tracker.
func (e *Engine[S]) score(s S, stats *core.RunStats) (float64, error) {
	f, err := e.problem.Score(s)
	if err != nil {
		return 0, fmt.Errorf("score %s: %w", e.problem.Describe(s), err)
	}
	if err := core.CheckFitness(f); err != nil {
		return 0, fmt.Errorf("score %s: %w", e.problem.Describe(s), err)
	}
	stats.Scored++
	if e.tracker.Record(s, f) {
		stats.Records++
		e.logger.Debug("new best", "state", e.problem.Describe(s), "fitness", f)
	}
	return f, nil
}

// OutcomeForError maps a Run error to the outcome taxonomy.
func OutcomeForError(err error) core.Outcome {
	switch {
	case err == nil:
		return core.OutcomeGoal
	case errors.Is(err, ErrExhausted):
		return core.OutcomeExhausted
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return core.OutcomeCanceled
	default:
		return core.OutcomeError
	}
}
