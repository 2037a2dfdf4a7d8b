package local

import (
	"context"
	"testing"
	"time"

	"github.com/snow-ghost/seeker/core"
	"github.com/stretchr/testify/assert"
)

func TestGuard_AllowDomain(t *testing.T) {
	g := NewGuard([]string{"castles"})
	assert.True(t, g.AllowDomain("castles"))
	assert.True(t, g.AllowDomain(" Castles "))
	assert.False(t, g.AllowDomain("mazes"))
	assert.False(t, g.AllowDomain(""))
}

func TestGuard_AllowDomainEmptyAllowlist(t *testing.T) {
	g := NewGuard(nil)
	assert.True(t, g.AllowDomain("castles"))
	assert.False(t, g.AllowDomain(""))
}

func TestGuard_WrapTimeout(t *testing.T) {
	g := NewGuard(nil)
	ctx := context.Background()
	budget := core.Budget{Timeout: 10 * time.Millisecond}

	start := time.Now()
	err := g.Wrap(ctx, budget, func(ctx context.Context) error {
		// Simulate long work
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(200 * time.Millisecond):
			return nil
		}
	})
	elapsed := time.Since(start)
	assert.Error(t, err)
	assert.GreaterOrEqual(t, elapsed.Milliseconds(), int64(10))
}

func TestGuard_WrapCPUMillis(t *testing.T) {
	g := NewGuard(nil)
	budget := core.Budget{CPUMillis: 50}

	err := g.Wrap(context.Background(), budget, func(ctx context.Context) error {
		return nil
	})
	assert.NoError(t, err)
}
