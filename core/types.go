package core

import (
	"encoding/json"
	"time"
)

type Budget struct {
	MaxExpansions int           // cap on popped states, 0 = unlimited
	CPUMillis     int           // CPU limits
	MemMB         int           // memory limits
	Timeout       time.Duration // run timeout
}

type SearchRequest struct {
	ID          string
	Domain      string
	Samples     int     // training-set size, 0 = domain default
	Seed        int64   // RNG seed, 0 = random
	GoalFitness float64 // stop when reached, 0 = run to exhaustion
	Budget      Budget
	CreatedAt   time.Time
}

// Outcome classifies how a run ended.
type Outcome string

const (
	OutcomeGoal      Outcome = "goal"
	OutcomeExhausted Outcome = "exhausted"
	OutcomeCanceled  Outcome = "canceled"
	OutcomeError     Outcome = "error"
)

type SearchResult struct {
	Success bool
	Outcome Outcome
	Fitness float64
	Best    json.RawMessage // domain rendering of the best state
	Logs    string
	Stats   RunStats
}

// RunStats counts what one engine run did.
type RunStats struct {
	Scored   int           // states scored (== states ever enqueued)
	Expanded int           // states popped and reported
	Skipped  int           // neighbors rejected by the visited set
	Records  int           // new all-time-best observations
	Duration time.Duration
}
