package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusMetrics holds all Prometheus metrics
type PrometheusMetrics struct {
	// Run metrics
	RunsTotal          *prometheus.CounterVec
	RunDurationSeconds *prometheus.HistogramVec

	// State metrics
	StatesScoredTotal   *prometheus.CounterVec
	StatesExpandedTotal *prometheus.CounterVec

	// Fitness metrics
	BestFitness *prometheus.GaugeVec

	// Score call metrics
	ScoreLatencySeconds *prometheus.HistogramVec

	// Cache metrics
	CacheHitsTotal   prometheus.Counter
	CacheMissesTotal prometheus.Counter

	// Circuit breaker metrics
	CircuitOpenTotal     *prometheus.CounterVec
	CircuitClosedTotal   *prometheus.CounterVec
	CircuitHalfOpenTotal *prometheus.CounterVec
}

// NewPrometheusMetrics creates a new Prometheus metrics instance
func NewPrometheusMetrics() *PrometheusMetrics {
	return &PrometheusMetrics{
		// Run metrics
		RunsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "search_runs_total",
				Help: "Total number of search runs",
			},
			[]string{"domain", "worker", "outcome"},
		),

		RunDurationSeconds: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "search_run_duration_seconds",
				Help:    "Search run duration in seconds",
				Buckets: prometheus.ExponentialBuckets(0.01, 2, 14),
			},
			[]string{"domain", "worker"},
		),

		// State metrics
		StatesScoredTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "search_states_scored_total",
				Help: "Total number of candidate states scored",
			},
			[]string{"domain", "worker"},
		),

		StatesExpandedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "search_states_expanded_total",
				Help: "Total number of states expanded from the frontier",
			},
			[]string{"domain", "worker"},
		),

		// Fitness metrics
		BestFitness: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "search_best_fitness",
				Help: "Best fitness observed so far per domain",
			},
			[]string{"domain", "worker"},
		),

		// Score call metrics
		ScoreLatencySeconds: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "search_score_latency_seconds",
				Help:    "Scoring call latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"domain", "policy_id"},
		),

		// Cache metrics
		CacheHitsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "search_cache_hits_total",
				Help: "Total number of score cache hits",
			},
		),

		CacheMissesTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "search_cache_misses_total",
				Help: "Total number of score cache misses",
			},
		),

		// Circuit breaker metrics
		CircuitOpenTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "search_circuit_open_total",
				Help: "Total number of circuit breaker opens",
			},
			[]string{"domain", "policy_id"},
		),

		CircuitClosedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "search_circuit_closed_total",
				Help: "Total number of circuit breaker closes",
			},
			[]string{"domain", "policy_id"},
		),

		CircuitHalfOpenTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "search_circuit_half_open_total",
				Help: "Total number of circuit breaker half-opens",
			},
			[]string{"domain", "policy_id"},
		),
	}
}

// RecordRun records a completed run
func (m *PrometheusMetrics) RecordRun(domain, worker, outcome string, duration time.Duration) {
	m.RunsTotal.WithLabelValues(domain, worker, outcome).Inc()
	m.RunDurationSeconds.WithLabelValues(domain, worker).Observe(duration.Seconds())
}

// RecordStates records state counters for a run
func (m *PrometheusMetrics) RecordStates(domain, worker string, scored, expanded int) {
	if scored > 0 {
		m.StatesScoredTotal.WithLabelValues(domain, worker).Add(float64(scored))
	}
	if expanded > 0 {
		m.StatesExpandedTotal.WithLabelValues(domain, worker).Add(float64(expanded))
	}
}

// RecordBestFitness records the best fitness observed
func (m *PrometheusMetrics) RecordBestFitness(domain, worker string, fitness float64) {
	m.BestFitness.WithLabelValues(domain, worker).Set(fitness)
}

// RecordScoreLatency records a scoring call latency
func (m *PrometheusMetrics) RecordScoreLatency(domain, policyID string, duration time.Duration) {
	m.ScoreLatencySeconds.WithLabelValues(domain, policyID).Observe(duration.Seconds())
}

// RecordCacheHit records a cache hit
func (m *PrometheusMetrics) RecordCacheHit() {
	m.CacheHitsTotal.Inc()
}

// RecordCacheMiss records a cache miss
func (m *PrometheusMetrics) RecordCacheMiss() {
	m.CacheMissesTotal.Inc()
}

// RecordCircuitOpen records a circuit breaker open
func (m *PrometheusMetrics) RecordCircuitOpen(domain, policyID string) {
	m.CircuitOpenTotal.WithLabelValues(domain, policyID).Inc()
}

// RecordCircuitClosed records a circuit breaker close
func (m *PrometheusMetrics) RecordCircuitClosed(domain, policyID string) {
	m.CircuitClosedTotal.WithLabelValues(domain, policyID).Inc()
}

// RecordCircuitHalfOpen records a circuit breaker half-open
func (m *PrometheusMetrics) RecordCircuitHalfOpen(domain, policyID string) {
	m.CircuitHalfOpenTotal.WithLabelValues(domain, policyID).Inc()
}
