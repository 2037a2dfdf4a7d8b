package worker

import (
	"fmt"
	"log/slog"

	"github.com/snow-ghost/seeker/pkg/accounting"
	"github.com/snow-ghost/seeker/pkg/cache"
	"github.com/snow-ghost/seeker/pkg/registry"
	"github.com/snow-ghost/seeker/policy/local"
	"github.com/snow-ghost/seeker/scorer/wasm"
	"github.com/snow-ghost/seeker/seeds"
	"github.com/snow-ghost/seeker/worker/common"
	"github.com/snow-ghost/seeker/worker/heavy"
	"github.com/snow-ghost/seeker/worker/light"
	"github.com/snow-ghost/seeker/worker/telemetry"
)

// NewWorker creates a worker based on the configured worker type
func NewWorker(config *Config) (Worker, error) {
	// Seed store: filesystem when a directory is configured, memory otherwise
	var store seeds.Store
	if config.SeedsDir != "" {
		fsStore, err := seeds.NewFSStore(config.SeedsDir)
		if err != nil {
			return nil, fmt.Errorf("seed store: %w", err)
		}
		store = fsStore
	} else {
		store = seeds.NewMemoryStore()
	}

	guard := local.NewGuard(config.PolicyAllowDomains)
	tel := telemetry.NewTelemetry()

	// Run accounting: SQLite when a path is configured, memory otherwise
	acct, err := accounting.NewManager(accounting.Config{
		UseSQLite: config.AccountingDB != "",
		DBPath:    config.AccountingDB,
	})
	if err != nil {
		return nil, fmt.Errorf("accounting: %w", err)
	}

	switch WorkerType(config.WorkerType) {
	case WorkerTypeLight:
		base := common.NewBaseWorker(store, tel, guard, acct, "light")
		return light.NewLightWorker(base, config.Samples), nil

	case WorkerTypeHeavy:
		base := common.NewBaseWorker(store, tel, guard, acct, "heavy")

		reg, err := registry.NewLoader("").LoadRegistry()
		if err != nil {
			return nil, fmt.Errorf("policy registry: %w", err)
		}
		if reg.TotalPolicies() == 0 {
			slog.Info("no policy config found, using built-in registry")
			reg = registry.GetDefaultRegistry()
		}

		cacheManager, err := cache.NewCacheManager(cache.DefaultCacheConfig())
		if err != nil {
			return nil, fmt.Errorf("score cache: %w", err)
		}

		runtime := wasm.NewRuntime()
		return heavy.NewHeavyWorker(base, config.Samples, reg, runtime, cacheManager), nil

	default:
		return nil, fmt.Errorf("unknown worker type %q", config.WorkerType)
	}
}
