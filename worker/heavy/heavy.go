package heavy

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/snow-ghost/seeker/castle"
	"github.com/snow-ghost/seeker/core"
	"github.com/snow-ghost/seeker/pkg/cache"
	"github.com/snow-ghost/seeker/pkg/limiter"
	"github.com/snow-ghost/seeker/pkg/registry"
	"github.com/snow-ghost/seeker/scorer/wasm"
	"github.com/snow-ghost/seeker/worker/capabilities"
	"github.com/snow-ghost/seeker/worker/common"
)

// HeavyWorker implements the heavy worker type with sandboxed scoring
// policies, score caching and per-policy protection. When a wasm policy
// misbehaves the worker falls back to native scoring.
type HeavyWorker struct {
	*common.BaseWorker
	samples  int
	registry *registry.Registry
	runtime  *wasm.Runtime
	cache    *cache.CacheManager
	limiter  *limiter.RateLimiter
	breakers *limiter.CircuitBreakerManager
}

// NewHeavyWorker creates a new heavy worker
func NewHeavyWorker(base *common.BaseWorker, samples int, reg *registry.Registry,
	runtime *wasm.Runtime, cacheManager *cache.CacheManager) *HeavyWorker {

	return &HeavyWorker{
		BaseWorker: base,
		samples:    samples,
		registry:   reg,
		runtime:    runtime,
		cache:      cacheManager,
		limiter:    limiter.NewRateLimiter(),
		breakers:   limiter.NewCircuitBreakerManager(),
	}
}

// Caps returns the capabilities of the heavy worker
func (h *HeavyWorker) Caps() capabilities.Capabilities {
	return capabilities.DefaultCapabilities("heavy")
}

// Search runs a request, preferring a sandboxed policy when the registry
// has one for the domain
func (h *HeavyWorker) Search(ctx context.Context, req core.SearchRequest) (core.SearchResult, error) {
	start := time.Now()

	if req.Domain != castle.Domain {
		err := fmt.Errorf("heavy worker does not handle domain %q", req.Domain)
		slog.ErrorContext(ctx, "unsupported domain", "domain", req.Domain, "run_id", req.ID)
		return core.SearchResult{Outcome: core.OutcomeError, Logs: err.Error()}, err
	}
	if !h.Guard().AllowDomain(req.Domain) {
		err := fmt.Errorf("domain %q not allowlisted", req.Domain)
		return core.SearchResult{Outcome: core.OutcomeError, Logs: err.Error()}, err
	}

	opts := h.baseOptions(ctx, req)

	policyID := "castles/native"
	if policy, scorer := h.sandboxedScorer(ctx, req.Domain); scorer != nil {
		policyID = policy.ID
		opts = append(opts, castle.WithExternalScorer(h.protectedScore(req.Domain, *policy, scorer)))
		slog.InfoContext(ctx, "using sandboxed policy", "policy_id", policy.ID, "run_id", req.ID)
	}

	searcher := castle.NewSearcher(opts...)
	result, err := common.Execute(ctx, h.BaseWorker, req, searcher,
		func(c castle.Castle) json.RawMessage { return c.JSON() },
		func(c castle.Castle, fitness float64) {
			h.RecordSeed(ctx, req.Domain, c.Bytes(), fitness, searcher.SampleCount())
		})
	if err != nil {
		return result, err
	}

	h.LogRunEnd(ctx, req, result, time.Since(start), policyID)
	return result, nil
}

// sandboxedScorer loads the first usable wasm policy for a domain.
// Returns nils when the domain has none or the module cannot be loaded;
// the caller then scores natively.
func (h *HeavyWorker) sandboxedScorer(ctx context.Context, domain string) (*registry.PolicyConfig, *wasm.Scorer) {
	for _, policy := range h.registry.PoliciesByDomain(domain) {
		if policy.Kind != "wasm" {
			continue
		}
		if h.breakers.IsOpen(policy.ID, policy) {
			slog.WarnContext(ctx, "policy circuit open, skipping", "policy_id", policy.ID)
			continue
		}

		module, err := registry.LoadModule(policy)
		if err != nil {
			slog.WarnContext(ctx, "policy module load failed", "policy_id", policy.ID, "error", err)
			continue
		}
		scorer, err := h.runtime.Load(ctx, policy.ID, module)
		if err != nil {
			slog.WarnContext(ctx, "policy instantiation failed", "policy_id", policy.ID, "error", err)
			continue
		}
		if policy.TimeoutMS > 0 {
			scorer = scorer.WithTimeout(time.Duration(policy.TimeoutMS) * time.Millisecond)
		}
		return &policy, scorer
	}
	return nil, nil
}

// protectedScore wraps a sandboxed scorer with rate limiting, caching,
// deduplication and a circuit breaker.
func (h *HeavyWorker) protectedScore(domain string, policy registry.PolicyConfig, scorer *wasm.Scorer) func(ctx context.Context, state []byte) (float64, error) {
	return func(ctx context.Context, state []byte) (float64, error) {
		if err := h.limiter.Wait(ctx, policy.ID, policy); err != nil {
			return 0, err
		}

		req := cache.ScoreRequest{
			Domain:   domain,
			PolicyID: policy.ID,
			State:    state,
			Cache:    true,
		}
		return h.cache.Score(ctx, req, func() (float64, error) {
			return h.breakers.Execute(ctx, policy.ID, policy, func() (float64, error) {
				return scorer.Score(ctx, state)
			})
		})
	}
}

// baseOptions maps request knobs onto the castle problem model.
func (h *HeavyWorker) baseOptions(ctx context.Context, req core.SearchRequest) []castle.SearcherOption {
	var opts []castle.SearcherOption

	samples := req.Samples
	if samples <= 0 {
		samples = h.samples
	}
	if samples > 0 {
		opts = append(opts, castle.WithSamples(samples))
	}
	if req.Seed != 0 {
		opts = append(opts, castle.WithSeed(req.Seed))
	}
	if req.GoalFitness > 0 {
		opts = append(opts, castle.WithGoalFitness(req.GoalFitness))
	}
	if seed, ok := h.WarmStart(ctx, req.Domain); ok {
		if c, err := castle.FromBytes(seed.State); err == nil {
			opts = append(opts, castle.WithStart(c))
		} else {
			slog.WarnContext(ctx, "stored seed is not a valid allocation", "error", err)
		}
	}

	return opts
}

// CacheStats exposes score-cache statistics for diagnostics endpoints.
func (h *HeavyWorker) CacheStats() map[string]interface{} {
	if h.cache == nil {
		return nil
	}
	return h.cache.Stats()
}
