// Package wasm runs sandboxed scoring policies. A policy is a wasm module
// exporting linear memory and a `score(ptr, len) -> f64` function over the
// encoded state bytes.
package wasm

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
)

const scoreExport = "score"

// Runtime hosts compiled scoring policies behind one wazero runtime.
type Runtime struct {
	runtime wazero.Runtime
	cache   map[string]wazero.CompiledModule
	mu      sync.Mutex
}

// NewRuntime creates a runtime with memory and timeout limits.
func NewRuntime() *Runtime {
	config := wazero.NewRuntimeConfig().
		WithMemoryLimitPages(64). // 64 pages = 4MB
		WithCloseOnContextDone(true)

	runtime := wazero.NewRuntimeWithConfig(context.Background(), config)
	wasi_snapshot_preview1.MustInstantiate(context.Background(), runtime)

	return &Runtime{
		runtime: runtime,
		cache:   make(map[string]wazero.CompiledModule),
	}
}

// Load compiles a policy module (cached by id) and returns a Scorer on it.
func (r *Runtime) Load(ctx context.Context, id string, module []byte) (*Scorer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	compiled, ok := r.cache[id]
	if !ok {
		var err error
		compiled, err = r.runtime.CompileModule(ctx, module)
		if err != nil {
			return nil, fmt.Errorf("compile policy %s: %w", id, err)
		}
		r.cache[id] = compiled
	}

	return &Scorer{rt: r, compiled: compiled, id: id, timeout: 30 * time.Second}, nil
}

// Close releases the runtime and every compiled policy.
func (r *Runtime) Close(ctx context.Context) error {
	return r.runtime.Close(ctx)
}

// Scorer scores encoded states through one compiled policy.
// It implements core.Scorer.
type Scorer struct {
	rt       *Runtime
	compiled wazero.CompiledModule
	id       string
	timeout  time.Duration
	seq      atomic.Uint64
}

// WithTimeout sets the per-call deadline.
func (s *Scorer) WithTimeout(d time.Duration) *Scorer {
	s.timeout = d
	return s
}

// Score instantiates the policy, writes the state bytes at offset 0, and
// calls score(0, len). The f64 return value is handed back as-is; the
// engine rejects non-finite values before they reach the frontier.
func (s *Scorer) Score(ctx context.Context, state []byte) (float64, error) {
	execCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	name := fmt.Sprintf("%s-%d", s.id, s.seq.Add(1))
	instance, err := s.rt.runtime.InstantiateModule(execCtx, s.compiled,
		wazero.NewModuleConfig().WithName(name))
	if err != nil {
		return 0, fmt.Errorf("instantiate policy %s: %w", s.id, err)
	}
	defer instance.Close(execCtx)

	scoreFunc := instance.ExportedFunction(scoreExport)
	if scoreFunc == nil {
		return 0, fmt.Errorf("policy %s does not export %q", s.id, scoreExport)
	}

	mem := instance.Memory()
	if mem == nil {
		return 0, fmt.Errorf("policy %s has no memory", s.id)
	}
	if uint64(len(state)) > uint64(mem.Size()) {
		return 0, fmt.Errorf("state too large: need %d bytes, have %d", len(state), mem.Size())
	}
	if !mem.Write(0, state) {
		return 0, fmt.Errorf("failed to write state to policy memory")
	}

	results, err := scoreFunc.Call(execCtx, 0, uint64(len(state)))
	if err != nil {
		return 0, fmt.Errorf("call %s: %w", scoreExport, err)
	}
	if len(results) != 1 {
		return 0, fmt.Errorf("%s should return one f64, got %d results", scoreExport, len(results))
	}

	return api.DecodeF64(results[0]), nil
}

// Close is a no-op; compiled modules belong to the Runtime.
func (s *Scorer) Close(context.Context) error {
	return nil
}
