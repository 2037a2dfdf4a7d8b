package local

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/snow-ghost/seeker/core"
)

// Guard is a simple implementation of core.PolicyGuard
// - Wrap: enforces timeout from Budget (Timeout or CPUMillis), and approximates CPU ticks by wall time
// - AllowDomain: problem-domain allowlist
// Note: Memory limits are advisory in this layer; actual enforcement occurs in WASM runtime config.
type Guard struct {
	allow map[string]bool
}

func NewGuard(allowlist []string) *Guard {
	m := make(map[string]bool, len(allowlist))
	for _, n := range allowlist {
		m[strings.ToLower(n)] = true
	}
	return &Guard{allow: m}
}

// Wrap applies a timeout based on Budget and runs the function.
// Order of precedence: Budget.Timeout > CPUMillis > default 30s.
func (g *Guard) Wrap(ctx context.Context, b core.Budget, run func(ctx context.Context) error) error {
	var timeout time.Duration
	switch {
	case b.Timeout > 0:
		timeout = b.Timeout
	case b.CPUMillis > 0:
		timeout = time.Duration(b.CPUMillis) * time.Millisecond
	default:
		timeout = 30 * time.Second
	}

	execCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- run(execCtx)
	}()

	select {
	case <-execCtx.Done():
		// return context error to signal timeout/cancel
		if errors.Is(execCtx.Err(), context.DeadlineExceeded) {
			return context.DeadlineExceeded
		}
		return execCtx.Err()
	case err := <-done:
		return err
	}
}

// AllowDomain returns true if the problem domain is allowlisted.
// An empty allowlist permits every domain.
func (g *Guard) AllowDomain(name string) bool {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return false
	}
	if len(g.allow) == 0 {
		return true
	}
	return g.allow[name]
}
