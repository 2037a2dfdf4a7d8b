package light

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/snow-ghost/seeker/castle"
	"github.com/snow-ghost/seeker/core"
	"github.com/snow-ghost/seeker/worker/capabilities"
	"github.com/snow-ghost/seeker/worker/common"
)

// LightWorker implements the light worker type with native in-process
// scoring only: no sandbox, no cache, no external policies.
type LightWorker struct {
	*common.BaseWorker
	samples int
}

// NewLightWorker creates a new light worker
func NewLightWorker(base *common.BaseWorker, samples int) *LightWorker {
	return &LightWorker{
		BaseWorker: base,
		samples:    samples,
	}
}

// Caps returns the capabilities of the light worker
func (l *LightWorker) Caps() capabilities.Capabilities {
	return capabilities.DefaultCapabilities("light")
}

// Search runs a request with native scoring
func (l *LightWorker) Search(ctx context.Context, req core.SearchRequest) (core.SearchResult, error) {
	start := time.Now()

	if req.Domain != castle.Domain {
		err := fmt.Errorf("light worker does not handle domain %q", req.Domain)
		slog.ErrorContext(ctx, "unsupported domain", "domain", req.Domain, "run_id", req.ID)
		return core.SearchResult{Outcome: core.OutcomeError, Logs: err.Error()}, err
	}
	if !l.Guard().AllowDomain(req.Domain) {
		err := fmt.Errorf("domain %q not allowlisted", req.Domain)
		return core.SearchResult{Outcome: core.OutcomeError, Logs: err.Error()}, err
	}

	searcher := l.buildSearcher(ctx, req)
	slog.InfoContext(ctx, "light worker processing run",
		"run_id", req.ID, "domain", req.Domain, "samples", searcher.SampleCount())

	result, err := common.Execute(ctx, l.BaseWorker, req, searcher,
		func(c castle.Castle) json.RawMessage { return c.JSON() },
		func(c castle.Castle, fitness float64) {
			l.RecordSeed(ctx, req.Domain, c.Bytes(), fitness, searcher.SampleCount())
		})
	if err != nil {
		return result, err
	}

	l.LogRunEnd(ctx, req, result, time.Since(start), "castles/native")
	return result, nil
}

// buildSearcher maps request knobs onto the castle problem model.
func (l *LightWorker) buildSearcher(ctx context.Context, req core.SearchRequest) *castle.Searcher {
	var opts []castle.SearcherOption

	samples := req.Samples
	if samples <= 0 {
		samples = l.samples
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
	if seed, ok := l.WarmStart(ctx, req.Domain); ok {
		if c, err := castle.FromBytes(seed.State); err == nil {
			opts = append(opts, castle.WithStart(c))
		} else {
			slog.WarnContext(ctx, "stored seed is not a valid allocation", "error", err)
		}
	}

	return castle.NewSearcher(opts...)
}
