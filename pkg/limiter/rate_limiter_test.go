package limiter

import (
	"context"
	"testing"
	"time"

	"github.com/snow-ghost/seeker/pkg/registry"
)

func TestRateLimiter_Unthrottled(t *testing.T) {
	rl := NewRateLimiter()
	policy := registry.PolicyConfig{ID: "castles/native", MaxRPS: 0}

	for i := 0; i < 100; i++ {
		if !rl.Allow("castles/native", policy) {
			t.Fatal("Expected unthrottled policy to always allow")
		}
	}
}

func TestRateLimiter_Throttled(t *testing.T) {
	rl := NewRateLimiter()
	policy := registry.PolicyConfig{ID: "castles/wasm-v1", MaxRPS: 10}

	allowed := 0
	for i := 0; i < 50; i++ {
		if rl.Allow("castles/wasm-v1", policy) {
			allowed++
		}
	}

	if allowed >= 50 {
		t.Errorf("Expected throttling to reject some calls, allowed %d", allowed)
	}
	if allowed == 0 {
		t.Error("Expected burst to allow at least one call")
	}
}

func TestRateLimiter_Wait(t *testing.T) {
	rl := NewRateLimiter()
	policy := registry.PolicyConfig{ID: "p", MaxRPS: 1000}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := rl.Wait(ctx, "p", policy); err != nil {
		t.Errorf("Wait failed: %v", err)
	}
}

func TestRateLimiter_WaitCanceled(t *testing.T) {
	rl := NewRateLimiter()
	policy := registry.PolicyConfig{ID: "slow", MaxRPS: 1}

	// Drain the burst first
	_ = rl.Allow("slow", policy)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := rl.Wait(ctx, "slow", policy); err == nil {
		t.Error("Expected error from canceled context")
	}
}

func TestRateLimiter_Stats(t *testing.T) {
	rl := NewRateLimiter()
	policy := registry.PolicyConfig{ID: "p", MaxRPS: 100}

	stats := rl.GetStats("p", policy)
	if stats["max_rps"] != 100 {
		t.Errorf("Expected max_rps 100, got %v", stats["max_rps"])
	}
	if stats["burst"] != 10 {
		t.Errorf("Expected burst 10, got %v", stats["burst"])
	}
}

func TestRateLimiter_Reset(t *testing.T) {
	rl := NewRateLimiter()
	policy := registry.PolicyConfig{ID: "p", MaxRPS: 1}

	first := rl.GetLimiter("p", policy)
	rl.Reset("p")
	second := rl.GetLimiter("p", policy)

	if first == second {
		t.Error("Expected a fresh limiter after reset")
	}
}
