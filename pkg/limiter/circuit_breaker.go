package limiter

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/snow-ghost/seeker/pkg/registry"
	"github.com/sony/gobreaker"
)

// CircuitBreakerConfig holds circuit breaker configuration
type CircuitBreakerConfig struct {
	Name        string                             `json:"name"`
	MaxRequests uint32                             `json:"max_requests"`
	Interval    time.Duration                      `json:"interval"`
	Timeout     time.Duration                      `json:"timeout"`
	ReadyToTrip func(counts gobreaker.Counts) bool `json:"-"`
}

// DefaultCircuitBreakerConfig returns a default circuit breaker configuration
func DefaultCircuitBreakerConfig(name string) *CircuitBreakerConfig {
	return &CircuitBreakerConfig{
		Name:        name,
		MaxRequests: 3,
		Interval:    10 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			// Open circuit if failure rate is > 50% and we have at least 5 calls
			return counts.Requests >= 5 && float64(counts.TotalFailures)/float64(counts.Requests) >= 0.5
		},
	}
}

// CircuitBreakerManager manages circuit breakers for scoring policies.
// A wasm policy that keeps trapping or timing out gets cut off so the
// worker can fall back to native scoring.
type CircuitBreakerManager struct {
	breakers map[string]*gobreaker.CircuitBreaker
	configs  map[string]*CircuitBreakerConfig
	mu       sync.RWMutex
}

// NewCircuitBreakerManager creates a new circuit breaker manager
func NewCircuitBreakerManager() *CircuitBreakerManager {
	return &CircuitBreakerManager{
		breakers: make(map[string]*gobreaker.CircuitBreaker),
		configs:  make(map[string]*CircuitBreakerConfig),
	}
}

// GetBreaker returns or creates a circuit breaker for a policy
func (cbm *CircuitBreakerManager) GetBreaker(policyID string, config registry.PolicyConfig) *gobreaker.CircuitBreaker {
	cbm.mu.Lock()
	defer cbm.mu.Unlock()

	if breaker, exists := cbm.breakers[policyID]; exists {
		return breaker
	}

	cbConfig := cbm.getConfigForPolicy(policyID, config)

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        cbConfig.Name,
		MaxRequests: cbConfig.MaxRequests,
		Interval:    cbConfig.Interval,
		Timeout:     cbConfig.Timeout,
		ReadyToTrip: cbConfig.ReadyToTrip,
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			slog.Warn("circuit breaker state changed",
				"breaker", name, "from", from.String(), "to", to.String())
		},
	})

	cbm.breakers[policyID] = breaker
	cbm.configs[policyID] = cbConfig

	return breaker
}

// getConfigForPolicy returns circuit breaker configuration for a policy
func (cbm *CircuitBreakerManager) getConfigForPolicy(policyID string, config registry.PolicyConfig) *CircuitBreakerConfig {
	if cbConfig, exists := cbm.configs[policyID]; exists {
		return cbConfig
	}

	cbConfig := DefaultCircuitBreakerConfig(fmt.Sprintf("policy-%s", policyID))

	// Native policies cannot trap; sandboxed ones get stricter settings
	if config.Kind == "wasm" {
		cbConfig.MaxRequests = 2
		cbConfig.ReadyToTrip = func(counts gobreaker.Counts) bool {
			return counts.Requests >= 3 && float64(counts.TotalFailures)/float64(counts.Requests) >= 0.4
		}
	}

	return cbConfig
}

// Execute executes a scoring call through the circuit breaker
func (cbm *CircuitBreakerManager) Execute(ctx context.Context, policyID string, config registry.PolicyConfig, fn func() (float64, error)) (float64, error) {
	breaker := cbm.GetBreaker(policyID, config)

	result, err := breaker.Execute(func() (interface{}, error) {
		return fn()
	})
	if err != nil {
		return 0, fmt.Errorf("circuit breaker execution failed: %w", err)
	}

	return result.(float64), nil
}

// GetState returns the current state of a circuit breaker
func (cbm *CircuitBreakerManager) GetState(policyID string, config registry.PolicyConfig) gobreaker.State {
	breaker := cbm.GetBreaker(policyID, config)
	return breaker.State()
}

// GetStats returns circuit breaker statistics for a policy
func (cbm *CircuitBreakerManager) GetStats(policyID string, config registry.PolicyConfig) map[string]interface{} {
	breaker := cbm.GetBreaker(policyID, config)
	counts := breaker.Counts()

	return map[string]interface{}{
		"policy_id":            policyID,
		"state":                breaker.State().String(),
		"requests":             counts.Requests,
		"total_success":        counts.TotalSuccesses,
		"total_failures":       counts.TotalFailures,
		"consecutive_success":  counts.ConsecutiveSuccesses,
		"consecutive_failures": counts.ConsecutiveFailures,
	}
}

// Reset resets the circuit breaker for a policy
func (cbm *CircuitBreakerManager) Reset(policyID string) {
	cbm.mu.Lock()
	defer cbm.mu.Unlock()

	delete(cbm.breakers, policyID)
	delete(cbm.configs, policyID)
}

// ResetAll resets all circuit breakers
func (cbm *CircuitBreakerManager) ResetAll() {
	cbm.mu.Lock()
	defer cbm.mu.Unlock()

	cbm.breakers = make(map[string]*gobreaker.CircuitBreaker)
	cbm.configs = make(map[string]*CircuitBreakerConfig)
}

// IsOpen checks if the circuit breaker is open for a policy
func (cbm *CircuitBreakerManager) IsOpen(policyID string, config registry.PolicyConfig) bool {
	return cbm.GetState(policyID, config) == gobreaker.StateOpen
}

// IsClosed checks if the circuit breaker is closed for a policy
func (cbm *CircuitBreakerManager) IsClosed(policyID string, config registry.PolicyConfig) bool {
	return cbm.GetState(policyID, config) == gobreaker.StateClosed
}
