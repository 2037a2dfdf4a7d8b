package accounting

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteAggregator implements SQLite-based run aggregation
type SQLiteAggregator struct {
	db *sql.DB
}

// NewSQLiteAggregator creates a new SQLite aggregator
func NewSQLiteAggregator(dbPath string) (*SQLiteAggregator, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	aggregator := &SQLiteAggregator{db: db}

	if err := aggregator.createTable(); err != nil {
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	return aggregator, nil
}

// createTable creates the runs table
func (s *SQLiteAggregator) createTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp DATETIME NOT NULL,
		domain TEXT NOT NULL,
		worker TEXT NOT NULL,
		policy_id TEXT NOT NULL,
		states_scored INTEGER NOT NULL,
		states_expanded INTEGER NOT NULL,
		best_fitness REAL NOT NULL,
		duration_ms INTEGER NOT NULL,
		outcome TEXT NOT NULL,
		run_id TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_runs_timestamp ON runs(timestamp);
	CREATE INDEX IF NOT EXISTS idx_runs_domain ON runs(domain);
	CREATE INDEX IF NOT EXISTS idx_runs_worker ON runs(worker);
	CREATE INDEX IF NOT EXISTS idx_runs_policy_id ON runs(policy_id);
	CREATE INDEX IF NOT EXISTS idx_runs_outcome ON runs(outcome);
	`

	_, err := s.db.Exec(query)
	return err
}

// RecordRun records a completed run
func (s *SQLiteAggregator) RecordRun(record RunRecord) error {
	query := `
	INSERT INTO runs (
		timestamp, domain, worker, policy_id, states_scored, states_expanded,
		best_fitness, duration_ms, outcome, run_id
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now()
	}

	_, err := s.db.Exec(query,
		record.Timestamp,
		record.Domain,
		record.Worker,
		record.PolicyID,
		record.StatesScored,
		record.StatesExpanded,
		record.BestFitness,
		record.DurationMS,
		record.Outcome,
		record.RunID,
	)

	return err
}

// GetRuns retrieves runs with filters
func (s *SQLiteAggregator) GetRuns(filter RunFilter) ([]RunRecord, error) {
	query, args := s.buildQuery(filter)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var record RunRecord
		err := rows.Scan(
			&record.ID,
			&record.Timestamp,
			&record.Domain,
			&record.Worker,
			&record.PolicyID,
			&record.StatesScored,
			&record.StatesExpanded,
			&record.BestFitness,
			&record.DurationMS,
			&record.Outcome,
			&record.RunID,
		)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, nil
}

// GetRunSummary gets run summary with filters
func (s *SQLiteAggregator) GetRunSummary(filter RunFilter) (RunSummary, error) {
	whereClause, args := s.buildWhereClause(filter)

	query := fmt.Sprintf(`
		SELECT
			COUNT(*) as total_records,
			COALESCE(SUM(states_scored), 0) as total_states_scored,
			COALESCE(SUM(states_expanded), 0) as total_states_expanded,
			COALESCE(SUM(duration_ms), 0) as total_duration_ms,
			COALESCE(MAX(best_fitness), 0) as best_fitness
		FROM runs
		%s
	`, whereClause)

	var summary RunSummary
	err := s.db.QueryRow(query, args...).Scan(
		&summary.TotalRecords,
		&summary.TotalStatesScored,
		&summary.TotalStatesExpanded,
		&summary.TotalDurationMS,
		&summary.BestFitness,
	)

	return summary, err
}

// GetRunReport generates a run report
func (s *SQLiteAggregator) GetRunReport(filter RunFilter) (RunReport, error) {
	records, err := s.GetRuns(filter)
	if err != nil {
		return RunReport{}, err
	}

	summary, err := s.GetRunSummary(filter)
	if err != nil {
		return RunReport{}, err
	}

	report := RunReport{
		From:    time.Now().AddDate(0, 0, -30), // Default to last 30 days
		To:      time.Now(),
		GroupBy: filter.GroupBy,
		Summary: summary,
		Records: records,
	}

	if filter.From != nil {
		report.From = *filter.From
	}
	if filter.To != nil {
		report.To = *filter.To
	}

	if filter.GroupBy != "" {
		groups, err := s.getGroupedRuns(filter)
		if err != nil {
			return RunReport{}, err
		}
		report.Groups = groups
		report.Records = nil // Don't include individual records when grouped
	}

	return report, nil
}

// ExportRuns exports runs in specified format
func (s *SQLiteAggregator) ExportRuns(filter RunFilter, format ExportFormat) ([]byte, error) {
	records, err := s.GetRuns(filter)
	if err != nil {
		return nil, err
	}

	switch format {
	case ExportFormatJSON:
		return json.MarshalIndent(records, "", "  ")
	case ExportFormatCSV:
		return exportCSV(records)
	default:
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}
}

// buildQuery builds a SQL query with filters
func (s *SQLiteAggregator) buildQuery(filter RunFilter) (string, []interface{}) {
	whereClause, args := s.buildWhereClause(filter)

	query := fmt.Sprintf(`
		SELECT
			id, timestamp, domain, worker, policy_id, states_scored, states_expanded,
			best_fitness, duration_ms, outcome, run_id
		FROM runs
		%s
		ORDER BY timestamp DESC
	`, whereClause)

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
		if filter.Offset > 0 {
			query += fmt.Sprintf(" OFFSET %d", filter.Offset)
		}
	}

	return query, args
}

// buildWhereClause builds WHERE clause with filters
func (s *SQLiteAggregator) buildWhereClause(filter RunFilter) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	if filter.From != nil {
		conditions = append(conditions, "timestamp >= ?")
		args = append(args, *filter.From)
	}
	if filter.To != nil {
		conditions = append(conditions, "timestamp <= ?")
		args = append(args, *filter.To)
	}
	if filter.Domain != "" {
		conditions = append(conditions, "domain = ?")
		args = append(args, filter.Domain)
	}
	if filter.Worker != "" {
		conditions = append(conditions, "worker = ?")
		args = append(args, filter.Worker)
	}
	if filter.PolicyID != "" {
		conditions = append(conditions, "policy_id = ?")
		args = append(args, filter.PolicyID)
	}
	if filter.Outcome != "" {
		conditions = append(conditions, "outcome = ?")
		args = append(args, filter.Outcome)
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	return whereClause, args
}

// getGroupedRuns gets grouped run data
func (s *SQLiteAggregator) getGroupedRuns(filter RunFilter) ([]RunGroup, error) {
	switch filter.GroupBy {
	case "domain", "worker", "policy_id", "outcome":
	default:
		return nil, fmt.Errorf("unsupported group_by field: %s", filter.GroupBy)
	}

	whereClause, args := s.buildWhereClause(filter)

	query := fmt.Sprintf(`
		SELECT
			%s as group_value,
			COUNT(*) as total_records,
			COALESCE(SUM(states_scored), 0) as total_states_scored,
			COALESCE(SUM(states_expanded), 0) as total_states_expanded,
			COALESCE(SUM(duration_ms), 0) as total_duration_ms,
			COALESCE(MAX(best_fitness), 0) as best_fitness
		FROM runs
		%s
		GROUP BY %s
		ORDER BY total_records DESC
	`, filter.GroupBy, whereClause, filter.GroupBy)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []RunGroup
	for rows.Next() {
		var group RunGroup
		var summary RunSummary

		err := rows.Scan(
			&group.GroupValue,
			&summary.TotalRecords,
			&summary.TotalStatesScored,
			&summary.TotalStatesExpanded,
			&summary.TotalDurationMS,
			&summary.BestFitness,
		)
		if err != nil {
			return nil, err
		}

		group.GroupBy = filter.GroupBy
		group.Summary = summary
		groups = append(groups, group)
	}

	return groups, nil
}

// Close closes the aggregator
func (s *SQLiteAggregator) Close() error {
	return s.db.Close()
}
