package accounting

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryAggregator implements in-memory run aggregation
type MemoryAggregator struct {
	records []RunRecord
	mu      sync.RWMutex
}

// NewMemoryAggregator creates a new in-memory aggregator
func NewMemoryAggregator() *MemoryAggregator {
	return &MemoryAggregator{
		records: make([]RunRecord, 0),
	}
}

// RecordRun records a completed run
func (m *MemoryAggregator) RecordRun(record RunRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now()
	}
	if record.ID == 0 {
		record.ID = int64(len(m.records) + 1)
	}

	m.records = append(m.records, record)
	return nil
}

// GetRuns retrieves runs with filters
func (m *MemoryAggregator) GetRuns(filter RunFilter) ([]RunRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var filtered []RunRecord

	for _, record := range m.records {
		if m.matchesFilter(record, filter) {
			filtered = append(filtered, record)
		}
	}

	// Sort by timestamp descending
	sort.Slice(filtered, func(i, j int) bool {
		return filtered[i].Timestamp.After(filtered[j].Timestamp)
	})

	// Apply pagination
	if filter.Limit > 0 {
		start := filter.Offset
		end := start + filter.Limit
		if end > len(filtered) {
			end = len(filtered)
		}
		if start < len(filtered) {
			filtered = filtered[start:end]
		} else {
			filtered = []RunRecord{}
		}
	}

	return filtered, nil
}

// GetRunSummary gets run summary with filters
func (m *MemoryAggregator) GetRunSummary(filter RunFilter) (RunSummary, error) {
	records, err := m.GetRuns(filter)
	if err != nil {
		return RunSummary{}, err
	}

	summary := RunSummary{
		TotalRecords: int64(len(records)),
	}

	for _, record := range records {
		summary.TotalStatesScored += int64(record.StatesScored)
		summary.TotalStatesExpanded += int64(record.StatesExpanded)
		summary.TotalDurationMS += record.DurationMS

		if record.BestFitness > summary.BestFitness {
			summary.BestFitness = record.BestFitness
		}
	}

	return summary, nil
}

// GetRunReport generates a run report
func (m *MemoryAggregator) GetRunReport(filter RunFilter) (RunReport, error) {
	records, err := m.GetRuns(filter)
	if err != nil {
		return RunReport{}, err
	}

	summary, err := m.GetRunSummary(filter)
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

	// Group records if GroupBy is specified
	if filter.GroupBy != "" {
		groups := m.groupRecords(records, filter.GroupBy)
		report.Groups = groups
		report.Records = nil // Don't include individual records when grouped
	}

	return report, nil
}

// ExportRuns exports runs in specified format
func (m *MemoryAggregator) ExportRuns(filter RunFilter, format ExportFormat) ([]byte, error) {
	records, err := m.GetRuns(filter)
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

// matchesFilter checks if a record matches the filter
func (m *MemoryAggregator) matchesFilter(record RunRecord, filter RunFilter) bool {
	if filter.From != nil && record.Timestamp.Before(*filter.From) {
		return false
	}
	if filter.To != nil && record.Timestamp.After(*filter.To) {
		return false
	}

	if filter.Domain != "" && record.Domain != filter.Domain {
		return false
	}
	if filter.Worker != "" && record.Worker != filter.Worker {
		return false
	}
	if filter.PolicyID != "" && record.PolicyID != filter.PolicyID {
		return false
	}
	if filter.Outcome != "" && record.Outcome != filter.Outcome {
		return false
	}

	return true
}

// groupRecords groups records by the specified field
func (m *MemoryAggregator) groupRecords(records []RunRecord, groupBy string) []RunGroup {
	groups := make(map[string][]RunRecord)

	for _, record := range records {
		var key string
		switch groupBy {
		case "domain":
			key = record.Domain
		case "worker":
			key = record.Worker
		case "policy_id":
			key = record.PolicyID
		case "outcome":
			key = record.Outcome
		default:
			key = "unknown"
		}

		groups[key] = append(groups[key], record)
	}

	var result []RunGroup
	for key, groupRecords := range groups {
		var summary RunSummary
		summary.TotalRecords = int64(len(groupRecords))
		for _, record := range groupRecords {
			summary.TotalStatesScored += int64(record.StatesScored)
			summary.TotalStatesExpanded += int64(record.StatesExpanded)
			summary.TotalDurationMS += record.DurationMS
			if record.BestFitness > summary.BestFitness {
				summary.BestFitness = record.BestFitness
			}
		}

		result = append(result, RunGroup{
			GroupBy:    groupBy,
			GroupValue: key,
			Summary:    summary,
			Records:    groupRecords,
		})
	}

	// Sort groups by record count descending
	sort.Slice(result, func(i, j int) bool {
		return result[i].Summary.TotalRecords > result[j].Summary.TotalRecords
	})

	return result
}

// exportCSV exports records as CSV
func exportCSV(records []RunRecord) ([]byte, error) {
	var buf strings.Builder
	writer := csv.NewWriter(&buf)

	header := []string{
		"ID", "Timestamp", "Domain", "Worker", "Policy ID",
		"States Scored", "States Expanded", "Best Fitness",
		"Duration MS", "Outcome", "Run ID",
	}
	if err := writer.Write(header); err != nil {
		return nil, err
	}

	for _, record := range records {
		row := []string{
			fmt.Sprintf("%d", record.ID),
			record.Timestamp.Format(time.RFC3339),
			record.Domain,
			record.Worker,
			record.PolicyID,
			fmt.Sprintf("%d", record.StatesScored),
			fmt.Sprintf("%d", record.StatesExpanded),
			fmt.Sprintf("%.6f", record.BestFitness),
			fmt.Sprintf("%d", record.DurationMS),
			record.Outcome,
			record.RunID,
		}
		if err := writer.Write(row); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	return []byte(buf.String()), nil
}

// Close closes the aggregator
func (m *MemoryAggregator) Close() error {
	// Nothing to close for in-memory aggregator
	return nil
}
