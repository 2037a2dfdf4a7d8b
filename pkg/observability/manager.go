package observability

import (
	"context"
	"time"

	"github.com/snow-ghost/seeker/pkg/logging"
	"github.com/snow-ghost/seeker/pkg/metrics"
	"github.com/snow-ghost/seeker/pkg/tracing"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Manager manages all observability components
type Manager struct {
	metrics *metrics.PrometheusMetrics
	tracer  *tracing.Tracer
	logger  *logging.Logger
}

// Config holds observability configuration
type Config struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	JaegerEndpoint string
	LogLevel       string
	LogFormat      string
}

// NewManager creates a new observability manager
func NewManager(config Config) (*Manager, error) {
	// Create metrics
	prometheusMetrics := metrics.NewPrometheusMetrics()

	// Create tracer
	tracerConfig := tracing.Config{
		ServiceName:    config.ServiceName,
		ServiceVersion: config.ServiceVersion,
		JaegerEndpoint: config.JaegerEndpoint,
		Environment:    config.Environment,
	}

	tracer, err := tracing.NewTracer(tracerConfig)
	if err != nil {
		return nil, err
	}

	// Create logger
	loggerConfig := logging.Config{
		Level:     config.LogLevel,
		Format:    config.LogFormat,
		Output:    "stdout",
		AddCaller: true,
		AddStack:  false,
	}

	logger, err := logging.NewLogger(loggerConfig)
	if err != nil {
		return nil, err
	}

	return &Manager{
		metrics: prometheusMetrics,
		tracer:  tracer,
		logger:  logger,
	}, nil
}

// GetMetrics returns the metrics instance
func (m *Manager) GetMetrics() *metrics.PrometheusMetrics {
	return m.metrics
}

// GetTracer returns the tracer instance
func (m *Manager) GetTracer() *tracing.Tracer {
	return m.tracer
}

// GetLogger returns the logger instance
func (m *Manager) GetLogger() *logging.Logger {
	return m.logger
}

// StartRunSpan starts a span for a search run with logging
func (m *Manager) StartRunSpan(ctx context.Context, domain, worker, runID string) (context.Context, trace.Span) {
	ctx, span := m.tracer.StartRunSpan(ctx, domain, worker)

	span.SetAttributes(
		attribute.String("run_id", runID),
	)

	m.logger.WithRunID(ctx, runID).WithFields(map[string]interface{}{
		"domain": domain,
		"worker": worker,
	}).Info("Search run started")

	return ctx, span
}

// RecordRunMetrics records metrics for a completed run
func (m *Manager) RecordRunMetrics(domain, worker, outcome string, duration time.Duration, scored, expanded int, bestFitness float64) {
	m.metrics.RecordRun(domain, worker, outcome, duration)
	m.metrics.RecordStates(domain, worker, scored, expanded)
	m.metrics.RecordBestFitness(domain, worker, bestFitness)
}

// RecordScoreMetrics records metrics for a scoring call
func (m *Manager) RecordScoreMetrics(domain, policyID string, duration time.Duration) {
	m.metrics.RecordScoreLatency(domain, policyID, duration)
}

// RecordCacheMetrics records cache metrics
func (m *Manager) RecordCacheMetrics(hit bool) {
	if hit {
		m.metrics.RecordCacheHit()
	} else {
		m.metrics.RecordCacheMiss()
	}
}

// RecordCircuitBreakerMetrics records circuit breaker metrics
func (m *Manager) RecordCircuitBreakerMetrics(domain, policyID, state string) {
	switch state {
	case "open":
		m.metrics.RecordCircuitOpen(domain, policyID)
	case "closed":
		m.metrics.RecordCircuitClosed(domain, policyID)
	case "half-open":
		m.metrics.RecordCircuitHalfOpen(domain, policyID)
	}
}

// LogRunCompletion logs run completion
func (m *Manager) LogRunCompletion(ctx context.Context, domain, worker, outcome string, scored, expanded int, bestFitness float64, duration time.Duration, runID string) {
	m.logger.LogRun(ctx, domain, worker, outcome, scored, expanded, bestFitness, duration, runID)
}

// LogCacheOperation logs cache operation
func (m *Manager) LogCacheOperation(ctx context.Context, operation string, hit bool, runID string) {
	m.logger.LogCacheOperation(ctx, operation, hit, runID)
}

// LogCircuitBreakerOperation logs circuit breaker operation
func (m *Manager) LogCircuitBreakerOperation(ctx context.Context, domain, policyID, state string, runID string) {
	m.logger.LogCircuitBreaker(ctx, domain, policyID, state, runID)
}

// Shutdown shuts down all observability components
func (m *Manager) Shutdown(ctx context.Context) error {
	if err := m.tracer.Shutdown(ctx); err != nil {
		return err
	}

	if err := m.logger.Sync(); err != nil {
		return err
	}

	return nil
}

type contextKey string

const runIDKey contextKey = "run_id"

// GetRunIDFromContext extracts run ID from context
func GetRunIDFromContext(ctx context.Context) string {
	if runID, ok := ctx.Value(runIDKey).(string); ok {
		return runID
	}
	return ""
}

// WithRunID adds run ID to context
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}
