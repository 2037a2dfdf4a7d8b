package limiter

import (
	"context"
	"errors"
	"testing"

	"github.com/snow-ghost/seeker/pkg/registry"
	"github.com/sony/gobreaker"
)

func TestCircuitBreaker_Success(t *testing.T) {
	cbm := NewCircuitBreakerManager()
	policy := registry.PolicyConfig{ID: "castles/native", Kind: "native"}

	fitness, err := cbm.Execute(context.Background(), policy.ID, policy, func() (float64, error) {
		return 42.0, nil
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if fitness != 42.0 {
		t.Errorf("Expected 42.0, got %f", fitness)
	}

	if !cbm.IsClosed(policy.ID, policy) {
		t.Error("Expected breaker to stay closed after success")
	}
}

func TestCircuitBreaker_OpensOnFailures(t *testing.T) {
	cbm := NewCircuitBreakerManager()
	policy := registry.PolicyConfig{ID: "castles/wasm-v1", Kind: "wasm"}

	scoreErr := errors.New("wasm trap")
	for i := 0; i < 10; i++ {
		_, _ = cbm.Execute(context.Background(), policy.ID, policy, func() (float64, error) {
			return 0, scoreErr
		})
	}

	if !cbm.IsOpen(policy.ID, policy) {
		t.Errorf("Expected breaker to open, state is %s", cbm.GetState(policy.ID, policy))
	}

	// Open breaker rejects without invoking the scorer
	called := false
	_, err := cbm.Execute(context.Background(), policy.ID, policy, func() (float64, error) {
		called = true
		return 1.0, nil
	})
	if err == nil {
		t.Error("Expected error from open breaker")
	}
	if called {
		t.Error("Expected scorer not to be called while open")
	}
}

func TestCircuitBreaker_Stats(t *testing.T) {
	cbm := NewCircuitBreakerManager()
	policy := registry.PolicyConfig{ID: "p", Kind: "native"}

	_, _ = cbm.Execute(context.Background(), policy.ID, policy, func() (float64, error) {
		return 1.0, nil
	})

	stats := cbm.GetStats(policy.ID, policy)
	if stats["policy_id"] != "p" {
		t.Errorf("Expected policy_id p, got %v", stats["policy_id"])
	}
	if stats["total_success"] != uint32(1) {
		t.Errorf("Expected 1 success, got %v", stats["total_success"])
	}
}

func TestCircuitBreaker_Reset(t *testing.T) {
	cbm := NewCircuitBreakerManager()
	policy := registry.PolicyConfig{ID: "p", Kind: "wasm"}

	for i := 0; i < 10; i++ {
		_, _ = cbm.Execute(context.Background(), policy.ID, policy, func() (float64, error) {
			return 0, errors.New("fail")
		})
	}
	if !cbm.IsOpen(policy.ID, policy) {
		t.Fatal("Expected breaker to open")
	}

	cbm.Reset(policy.ID)
	if cbm.GetState(policy.ID, policy) != gobreaker.StateClosed {
		t.Error("Expected fresh breaker to be closed after reset")
	}
}
