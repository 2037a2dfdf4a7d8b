package worker

import (
	"context"

	"github.com/snow-ghost/seeker/core"
)

// Worker interface defines the contract for all worker types
type Worker interface {
	// Search runs one request and returns a result
	Search(ctx context.Context, req core.SearchRequest) (core.SearchResult, error)

	// Type returns the worker type (e.g., "heavy", "light")
	Type() string
}

// WorkerType represents the type of worker
type WorkerType string

const (
	WorkerTypeHeavy WorkerType = "heavy"
	WorkerTypeLight WorkerType = "light"
)
