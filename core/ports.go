package core

import "context"

// Problem is the capability contract a search domain implements.
// The engine treats states as opaque values; everything domain-specific
// lives behind this interface.
type Problem[S comparable] interface {
	// Start produces the initial candidate. May be randomized.
	Start() (S, error)

	// Neighbors enumerates the finite set of states reachable from s in one
	// step. Must not depend on mutable engine state.
	Neighbors(s S) []S

	// Score rates a candidate; higher is better. The value must be finite.
	// Score may have side effects and may be called any number of times for
	// the same state.
	Score(s S) (float64, error)

	// IsGoal reports whether (s, fitness) terminates the search.
	IsGoal(s S, fitness float64) bool

	// Describe renders s for humans.
	Describe(s S) string
}

// Reporter receives every popped (state, fitness) pair, in pop order.
// The engine ignores anything a reporter does.
type Reporter[S comparable] interface {
	Report(s S, fitness float64)
}

// ReporterFunc adapts a function to the Reporter interface.
type ReporterFunc[S comparable] func(s S, fitness float64)

func (f ReporterFunc[S]) Report(s S, fitness float64) { f(s, fitness) }

// Scorer rates encoded states. Implementations may be native Go or a
// sandboxed policy module; heavy workers pick one per request.
type Scorer interface {
	Score(ctx context.Context, state []byte) (float64, error)
	Close(ctx context.Context) error
}

// PolicyGuard enforces run budgets and domain allowlists.
type PolicyGuard interface {
	Wrap(ctx context.Context, b Budget, run func(ctx context.Context) error) error
	AllowDomain(name string) bool
}
