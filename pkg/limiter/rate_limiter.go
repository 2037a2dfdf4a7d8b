package limiter

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/snow-ghost/seeker/pkg/registry"
	"golang.org/x/time/rate"
)

// RateLimiter manages score-call rate limiting per policy
type RateLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.RWMutex
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
	}
}

// GetLimiter returns or creates a rate limiter for a policy
func (rl *RateLimiter) GetLimiter(policyID string, config registry.PolicyConfig) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	// Check if limiter already exists
	if limiter, exists := rl.limiters[policyID]; exists {
		return limiter
	}

	// MaxRPS <= 0 means the policy is unthrottled
	limit := rate.Inf
	burst := 1
	if config.MaxRPS > 0 {
		limit = rate.Limit(config.MaxRPS)
		burst = config.MaxRPS / 10
		if burst < 1 {
			burst = 1
		}
	}

	limiter := rate.NewLimiter(limit, burst)
	rl.limiters[policyID] = limiter

	return limiter
}

// Wait waits for the rate limiter to allow a score call
func (rl *RateLimiter) Wait(ctx context.Context, policyID string, config registry.PolicyConfig) error {
	limiter := rl.GetLimiter(policyID, config)

	if err := limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait failed: %w", err)
	}

	return nil
}

// Allow checks if a score call is allowed without waiting
func (rl *RateLimiter) Allow(policyID string, config registry.PolicyConfig) bool {
	limiter := rl.GetLimiter(policyID, config)
	return limiter.Allow()
}

// AllowN checks if N score calls are allowed without waiting
func (rl *RateLimiter) AllowN(policyID string, config registry.PolicyConfig, n int) bool {
	limiter := rl.GetLimiter(policyID, config)
	return limiter.AllowN(time.Now(), n)
}

// GetStats returns rate limiter statistics for a policy
func (rl *RateLimiter) GetStats(policyID string, config registry.PolicyConfig) map[string]interface{} {
	limiter := rl.GetLimiter(policyID, config)

	return map[string]interface{}{
		"policy_id": policyID,
		"limit":     limiter.Limit(),
		"burst":     limiter.Burst(),
		"tokens":    limiter.Tokens(),
		"max_rps":   config.MaxRPS,
	}
}

// Reset resets the rate limiter for a policy
func (rl *RateLimiter) Reset(policyID string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	delete(rl.limiters, policyID)
}

// ResetAll resets all rate limiters
func (rl *RateLimiter) ResetAll() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.limiters = make(map[string]*rate.Limiter)
}
