package telemetry

import (
	"context"
	"expvar"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/snow-ghost/seeker/core"
)

// Telemetry collects basic metrics and provides structured logging
type Telemetry struct {
	mu sync.RWMutex

	// Metrics
	RunsTotal         *expvar.Int
	RunsGoal          *expvar.Int
	RunsExhausted     *expvar.Int
	RunsFailed        *expvar.Int
	StatesScoredTotal *expvar.Int
	BestFitness       *expvar.Float
	AvgRunTime        *expvar.Float

	// Internal state for calculations
	totalRunTime time.Duration
	bestFitness  float64

	logger *slog.Logger
}

// workerVars is the exported expvar namespace. Package-level so repeated
// NewTelemetry calls never re-register a top-level name.
var workerVars = expvar.NewMap("seeker_worker")

// NewTelemetry creates a new telemetry instance
func NewTelemetry() *Telemetry {
	t := &Telemetry{
		RunsTotal:         new(expvar.Int),
		RunsGoal:          new(expvar.Int),
		RunsExhausted:     new(expvar.Int),
		RunsFailed:        new(expvar.Int),
		StatesScoredTotal: new(expvar.Int),
		BestFitness:       new(expvar.Float),
		AvgRunTime:        new(expvar.Float),
		logger:            slog.Default(),
	}

	// Map.Set replaces; the newest instance owns the exported vars.
	workerVars.Set("runs_total", t.RunsTotal)
	workerVars.Set("runs_goal", t.RunsGoal)
	workerVars.Set("runs_exhausted", t.RunsExhausted)
	workerVars.Set("runs_failed", t.RunsFailed)
	workerVars.Set("states_scored_total", t.StatesScoredTotal)
	workerVars.Set("best_fitness", t.BestFitness)
	workerVars.Set("avg_run_time_ms", t.AvgRunTime)

	return t
}

// LogRunStart logs the start of a search run
func (t *Telemetry) LogRunStart(ctx context.Context, req core.SearchRequest) {
	t.logger.InfoContext(ctx, "run_started",
		"run_id", req.ID,
		"domain", req.Domain,
		"samples", req.Samples,
		"goal_fitness", req.GoalFitness,
	)
}

// LogRunEnd logs the end of a search run with result
func (t *Telemetry) LogRunEnd(ctx context.Context, req core.SearchRequest, result core.SearchResult, duration time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.RunsTotal.Add(1)
	t.StatesScoredTotal.Add(int64(result.Stats.Scored))
	t.totalRunTime += duration

	switch result.Outcome {
	case core.OutcomeGoal:
		t.RunsGoal.Add(1)
		t.logger.InfoContext(ctx, "run_goal",
			"run_id", req.ID,
			"duration_ms", duration.Milliseconds(),
			"expanded", result.Stats.Expanded,
			"fitness", result.Fitness,
		)
	case core.OutcomeExhausted:
		t.RunsExhausted.Add(1)
		t.logger.InfoContext(ctx, "run_exhausted",
			"run_id", req.ID,
			"duration_ms", duration.Milliseconds(),
			"expanded", result.Stats.Expanded,
			"best_fitness", result.Fitness,
		)
	default:
		t.RunsFailed.Add(1)
		t.logger.WarnContext(ctx, "run_failed",
			"run_id", req.ID,
			"outcome", result.Outcome,
			"duration_ms", duration.Milliseconds(),
			"expanded", result.Stats.Expanded,
		)
	}

	if result.Fitness > t.bestFitness {
		t.bestFitness = result.Fitness
		t.BestFitness.Set(result.Fitness)
	}

	// Update averages
	if t.RunsTotal.Value() > 0 {
		t.AvgRunTime.Set(float64(t.totalRunTime.Milliseconds()) / float64(t.RunsTotal.Value()))
	}
}

// LogExpansion logs a frontier expansion
func (t *Telemetry) LogExpansion(ctx context.Context, runID string, expanded int, fitness, bestFitness float64) {
	t.logger.DebugContext(ctx, "frontier_expansion",
		"run_id", runID,
		"expanded", expanded,
		"fitness", fitness,
		"best_fitness", bestFitness,
	)
}

// HealthHandler returns a simple health check
func (t *Telemetry) HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok","service":"seeker-worker"}`))
}

// MetricsHandler returns metrics in expvar format
func (t *Telemetry) MetricsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	expvar.Handler().ServeHTTP(w, r)
}
