package accounting

import (
	"fmt"
	"time"
)

// Manager manages run accounting
type Manager struct {
	aggregator RunAggregator
}

// Config holds accounting configuration
type Config struct {
	UseSQLite bool
	DBPath    string
}

// NewManager creates a new accounting manager
func NewManager(config Config) (*Manager, error) {
	var aggregator RunAggregator
	var err error

	if config.UseSQLite {
		aggregator, err = NewSQLiteAggregator(config.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create SQLite aggregator: %w", err)
		}
	} else {
		aggregator = NewMemoryAggregator()
	}

	return &Manager{
		aggregator: aggregator,
	}, nil
}

// RecordRun records a completed run
func (m *Manager) RecordRun(record RunRecord) error {
	return m.aggregator.RecordRun(record)
}

// GetRuns retrieves runs with filters
func (m *Manager) GetRuns(filter RunFilter) ([]RunRecord, error) {
	return m.aggregator.GetRuns(filter)
}

// GetRunSummary gets run summary with filters
func (m *Manager) GetRunSummary(filter RunFilter) (RunSummary, error) {
	return m.aggregator.GetRunSummary(filter)
}

// GetRunReport generates a run report
func (m *Manager) GetRunReport(filter RunFilter) (RunReport, error) {
	return m.aggregator.GetRunReport(filter)
}

// ExportRuns exports runs in specified format
func (m *Manager) ExportRuns(filter RunFilter, format ExportFormat) ([]byte, error) {
	return m.aggregator.ExportRuns(filter, format)
}

// Close closes the manager
func (m *Manager) Close() error {
	return m.aggregator.Close()
}

// RecordSearchRun records a completed search run
func (m *Manager) RecordSearchRun(domain, worker, policyID, runID string, scored, expanded int, bestFitness float64, duration time.Duration, outcome string) error {
	record := RunRecord{
		Timestamp:      time.Now(),
		Domain:         domain,
		Worker:         worker,
		PolicyID:       policyID,
		StatesScored:   scored,
		StatesExpanded: expanded,
		BestFitness:    bestFitness,
		DurationMS:     duration.Milliseconds(),
		Outcome:        outcome,
		RunID:          runID,
	}

	return m.RecordRun(record)
}

// GetRunsByTimeRange gets runs within a time range
func (m *Manager) GetRunsByTimeRange(from, to time.Time, domain string) ([]RunRecord, error) {
	filter := RunFilter{
		From:   &from,
		To:     &to,
		Domain: domain,
	}

	return m.GetRuns(filter)
}

// GetRunsByPolicy gets runs by scoring policy
func (m *Manager) GetRunsByPolicy(policyID string, from, to *time.Time) ([]RunRecord, error) {
	filter := RunFilter{
		PolicyID: policyID,
		From:     from,
		To:       to,
	}

	return m.GetRuns(filter)
}

// GetTopDomains gets top domains by run count
func (m *Manager) GetTopDomains(limit int, from, to *time.Time) ([]RunGroup, error) {
	filter := RunFilter{
		GroupBy: "domain",
		From:    from,
		To:      to,
		Limit:   limit,
	}

	report, err := m.GetRunReport(filter)
	if err != nil {
		return nil, err
	}

	return report.Groups, nil
}

// GetTopPolicies gets top scoring policies by run count
func (m *Manager) GetTopPolicies(limit int, from, to *time.Time) ([]RunGroup, error) {
	filter := RunFilter{
		GroupBy: "policy_id",
		From:    from,
		To:      to,
		Limit:   limit,
	}

	report, err := m.GetRunReport(filter)
	if err != nil {
		return nil, err
	}

	return report.Groups, nil
}

// GetOutcomeBreakdown groups runs by outcome
func (m *Manager) GetOutcomeBreakdown(from, to *time.Time) ([]RunGroup, error) {
	filter := RunFilter{
		GroupBy: "outcome",
		From:    from,
		To:      to,
	}

	report, err := m.GetRunReport(filter)
	if err != nil {
		return nil, err
	}

	return report.Groups, nil
}
