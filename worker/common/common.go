package common

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/snow-ghost/seeker/core"
	"github.com/snow-ghost/seeker/pkg/accounting"
	"github.com/snow-ghost/seeker/search"
	"github.com/snow-ghost/seeker/seeds"
	"github.com/snow-ghost/seeker/worker/telemetry"
)

// BaseWorker provides common functionality for all worker types
type BaseWorker struct {
	seeds      seeds.Store
	telemetry  *telemetry.Telemetry
	guard      core.PolicyGuard
	accounting *accounting.Manager
	workerType string
}

// NewBaseWorker creates a new base worker with common functionality
func NewBaseWorker(store seeds.Store, telemetry *telemetry.Telemetry, guard core.PolicyGuard, acct *accounting.Manager, workerType string) *BaseWorker {
	return &BaseWorker{
		seeds:      store,
		telemetry:  telemetry,
		guard:      guard,
		accounting: acct,
		workerType: workerType,
	}
}

// Type returns the worker type
func (b *BaseWorker) Type() string {
	return b.workerType
}

// WarmStart returns the best persisted seed for a domain, if any.
func (b *BaseWorker) WarmStart(ctx context.Context, domain string) (seeds.Seed, bool) {
	seed, ok, err := b.seeds.Best(domain)
	if err != nil {
		slog.WarnContext(ctx, "seed lookup failed", "domain", domain, "error", err)
		return seeds.Seed{}, false
	}
	if ok {
		slog.InfoContext(ctx, "warm-starting from seed",
			"domain", domain, "fitness", seed.Fitness, "saved_at", seed.CreatedAt)
	}
	return seed, ok
}

// RecordSeed persists a solution when it beats the stored best.
func (b *BaseWorker) RecordSeed(ctx context.Context, domain string, state []byte, fitness float64, samples int) {
	best, ok, err := b.seeds.Best(domain)
	if err == nil && ok && best.Fitness >= fitness {
		return
	}
	seed := seeds.Seed{
		Domain:    domain,
		State:     state,
		Fitness:   fitness,
		Samples:   samples,
		CreatedAt: time.Now(),
	}
	if err := b.seeds.Save(seed); err != nil {
		slog.WarnContext(ctx, "seed save failed", "domain", domain, "error", err)
	}
}

// LogRunStart logs the start of run processing
func (b *BaseWorker) LogRunStart(ctx context.Context, req core.SearchRequest) {
	b.telemetry.LogRunStart(ctx, req)
}

// LogRunEnd logs the end of run processing and feeds accounting
func (b *BaseWorker) LogRunEnd(ctx context.Context, req core.SearchRequest, result core.SearchResult, duration time.Duration, policyID string) {
	b.telemetry.LogRunEnd(ctx, req, result, duration)

	if b.accounting != nil {
		err := b.accounting.RecordSearchRun(req.Domain, b.workerType, policyID, req.ID,
			result.Stats.Scored, result.Stats.Expanded, result.Fitness, duration, string(result.Outcome))
		if err != nil {
			slog.WarnContext(ctx, "accounting record failed", "run_id", req.ID, "error", err)
		}
	}
}

// Guard returns the policy guard
func (b *BaseWorker) Guard() core.PolicyGuard {
	return b.guard
}

// GetTelemetry returns the telemetry instance
func (b *BaseWorker) GetTelemetry() *telemetry.Telemetry {
	return b.telemetry
}

// GetSeeds returns the seed store
func (b *BaseWorker) GetSeeds() seeds.Store {
	return b.seeds
}

// Execute runs the engine for one request under the worker's policy guard
// and renders the outcome as a SearchResult. On exhaustion and on errors
// the best state the tracker ever saw is still reported.
func Execute[S comparable](ctx context.Context, base *BaseWorker, req core.SearchRequest, problem core.Problem[S], encode func(S) json.RawMessage, onBest func(S, float64), opts ...search.Option[S]) (core.SearchResult, error) {
	began := time.Now()
	base.LogRunStart(ctx, req)

	if req.Budget.MaxExpansions > 0 {
		opts = append(opts, search.WithMaxExpansions[S](req.Budget.MaxExpansions))
	}
	eng := search.NewEngine(problem, opts...)

	var sol search.Solution[S]
	runErr := base.Guard().Wrap(ctx, req.Budget, func(ctx context.Context) error {
		var err error
		sol, err = eng.Run(ctx)
		return err
	})

	outcome := search.OutcomeForError(runErr)
	if errors.Is(runErr, search.ErrExpansionBudget) {
		// a budget stop is not a failure, report the best seen so far
		outcome = core.OutcomeExhausted
	}
	result := core.SearchResult{
		Outcome: outcome,
		Stats:   sol.Stats,
	}

	switch outcome {
	case core.OutcomeGoal:
		result.Success = true
		result.Fitness = sol.Fitness
		result.Best = encode(sol.State)
		if onBest != nil {
			onBest(sol.State, sol.Fitness)
		}
	case core.OutcomeExhausted:
		result.Logs = "no goal found, search space exhausted"
		if errors.Is(runErr, search.ErrExpansionBudget) {
			result.Logs = runErr.Error()
		}
		if best, ok := eng.Tracker().PeekBest(); ok {
			result.Fitness = best.Fitness
			result.Best = encode(best.State)
			if onBest != nil {
				onBest(best.State, best.Fitness)
			}
		}
	default:
		if runErr != nil {
			result.Logs = runErr.Error()
		}
		if best, ok := eng.Tracker().PeekBest(); ok {
			result.Fitness = best.Fitness
			result.Best = encode(best.State)
		}
	}

	result.Stats.Duration = time.Since(began)
	return result, nil
}
