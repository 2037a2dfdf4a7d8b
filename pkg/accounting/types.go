package accounting

import (
	"time"
)

// RunRecord represents a single completed search run
type RunRecord struct {
	ID             int64     `json:"id" db:"id"`
	Timestamp      time.Time `json:"timestamp" db:"timestamp"`
	Domain         string    `json:"domain" db:"domain"`
	Worker         string    `json:"worker" db:"worker"`
	PolicyID       string    `json:"policy_id" db:"policy_id"`
	StatesScored   int       `json:"states_scored" db:"states_scored"`
	StatesExpanded int       `json:"states_expanded" db:"states_expanded"`
	BestFitness    float64   `json:"best_fitness" db:"best_fitness"`
	DurationMS     int64     `json:"duration_ms" db:"duration_ms"`
	Outcome        string    `json:"outcome" db:"outcome"`
	RunID          string    `json:"run_id" db:"run_id"`
}

// RunSummary represents aggregated run data
type RunSummary struct {
	TotalRecords        int64   `json:"total_records"`
	TotalStatesScored   int64   `json:"total_states_scored"`
	TotalStatesExpanded int64   `json:"total_states_expanded"`
	TotalDurationMS     int64   `json:"total_duration_ms"`
	BestFitness         float64 `json:"best_fitness"`
}

// RunGroup represents run data grouped by a field
type RunGroup struct {
	GroupBy    string      `json:"group_by"`
	GroupValue string      `json:"group_value"`
	Summary    RunSummary  `json:"summary"`
	Records    []RunRecord `json:"records,omitempty"`
}

// RunReport represents a run report with optional grouping
type RunReport struct {
	From    time.Time   `json:"from"`
	To      time.Time   `json:"to"`
	GroupBy string      `json:"group_by,omitempty"` // domain, worker, policy_id, outcome
	Summary RunSummary  `json:"summary"`
	Groups  []RunGroup  `json:"groups,omitempty"`
	Records []RunRecord `json:"records,omitempty"`
}

// RunFilter represents filters for run queries
type RunFilter struct {
	From     *time.Time `json:"from,omitempty"`
	To       *time.Time `json:"to,omitempty"`
	Domain   string     `json:"domain,omitempty"`
	Worker   string     `json:"worker,omitempty"`
	PolicyID string     `json:"policy_id,omitempty"`
	Outcome  string     `json:"outcome,omitempty"`
	GroupBy  string     `json:"group_by,omitempty"`
	Limit    int        `json:"limit,omitempty"`
	Offset   int        `json:"offset,omitempty"`
}

// ExportFormat represents supported export formats
type ExportFormat string

const (
	ExportFormatJSON ExportFormat = "json"
	ExportFormatCSV  ExportFormat = "csv"
)

// RunAggregator interface for run aggregation
type RunAggregator interface {
	// RecordRun records a completed run
	RecordRun(record RunRecord) error

	// GetRuns retrieves runs with filters
	GetRuns(filter RunFilter) ([]RunRecord, error)

	// GetRunSummary gets run summary with filters
	GetRunSummary(filter RunFilter) (RunSummary, error)

	// GetRunReport generates a run report
	GetRunReport(filter RunFilter) (RunReport, error)

	// ExportRuns exports runs in specified format
	ExportRuns(filter RunFilter, format ExportFormat) ([]byte, error)

	// Close closes the aggregator
	Close() error
}
