package worker

import (
	"context"
	"time"

	"github.com/snow-ghost/seeker/core"
	"github.com/snow-ghost/seeker/pkg/observability"
	"github.com/snow-ghost/seeker/pkg/tracing"
	"github.com/snow-ghost/seeker/worker/telemetry"
)

// ObservedWorker wraps a worker with tracing, metrics and structured logs.
type ObservedWorker struct {
	inner Worker
	obs   *observability.Manager
}

// WithObservability decorates a worker. A nil manager returns the worker
// unchanged.
func WithObservability(w Worker, obs *observability.Manager) Worker {
	if obs == nil {
		return w
	}
	return &ObservedWorker{inner: w, obs: obs}
}

// Search runs the inner worker inside a run span and records run metrics.
func (o *ObservedWorker) Search(ctx context.Context, req core.SearchRequest) (core.SearchResult, error) {
	ctx = observability.WithRunID(ctx, req.ID)
	ctx, span := o.obs.StartRunSpan(ctx, req.Domain, o.inner.Type(), req.ID)
	defer span.End()

	began := time.Now()
	result, err := o.inner.Search(ctx, req)
	duration := time.Since(began)

	tracing.RecordSpanStates(span, result.Stats.Scored, result.Stats.Expanded, result.Stats.Skipped)
	tracing.RecordSpanFitness(span, result.Fitness)
	tracing.RecordSpanDuration(span, duration)
	if err != nil {
		tracing.RecordSpanError(span, err)
	} else {
		tracing.RecordSpanSuccess(span)
	}

	o.obs.RecordRunMetrics(req.Domain, o.inner.Type(), string(result.Outcome), duration,
		result.Stats.Scored, result.Stats.Expanded, result.Fitness)
	o.obs.LogRunCompletion(ctx, req.Domain, o.inner.Type(), string(result.Outcome),
		result.Stats.Scored, result.Stats.Expanded, result.Fitness, duration, req.ID)

	return result, err
}

// Type returns the inner worker's type.
func (o *ObservedWorker) Type() string {
	return o.inner.Type()
}

// GetTelemetry exposes the inner worker's telemetry, if it has any.
func (o *ObservedWorker) GetTelemetry() *telemetry.Telemetry {
	if tw, ok := o.inner.(interface{ GetTelemetry() *telemetry.Telemetry }); ok {
		return tw.GetTelemetry()
	}
	return nil
}
