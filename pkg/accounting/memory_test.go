package accounting

import (
	"strings"
	"testing"
	"time"
)

func seedAggregator(t *testing.T) *MemoryAggregator {
	t.Helper()
	agg := NewMemoryAggregator()

	runs := []RunRecord{
		{Domain: "castles", Worker: "light", PolicyID: "castles/native", StatesScored: 1200, StatesExpanded: 66, BestFitness: 61.2, DurationMS: 840, Outcome: "exhausted", RunID: "r1"},
		{Domain: "castles", Worker: "heavy", PolicyID: "castles/wasm-v1", StatesScored: 900, StatesExpanded: 50, BestFitness: 58.7, DurationMS: 1200, Outcome: "exhausted", RunID: "r2"},
		{Domain: "castles", Worker: "light", PolicyID: "castles/native", StatesScored: 400, StatesExpanded: 22, BestFitness: 70.1, DurationMS: 300, Outcome: "goal", RunID: "r3"},
	}
	for _, r := range runs {
		if err := agg.RecordRun(r); err != nil {
			t.Fatalf("RecordRun failed: %v", err)
		}
	}
	return agg
}

func TestMemoryAggregator_Summary(t *testing.T) {
	agg := seedAggregator(t)

	summary, err := agg.GetRunSummary(RunFilter{Domain: "castles"})
	if err != nil {
		t.Fatalf("GetRunSummary failed: %v", err)
	}

	if summary.TotalRecords != 3 {
		t.Errorf("Expected 3 records, got %d", summary.TotalRecords)
	}
	if summary.TotalStatesScored != 2500 {
		t.Errorf("Expected 2500 states scored, got %d", summary.TotalStatesScored)
	}
	if summary.BestFitness != 70.1 {
		t.Errorf("Expected best fitness 70.1, got %f", summary.BestFitness)
	}
}

func TestMemoryAggregator_Filter(t *testing.T) {
	agg := seedAggregator(t)

	runs, err := agg.GetRuns(RunFilter{Worker: "light", Outcome: "goal"})
	if err != nil {
		t.Fatalf("GetRuns failed: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("Expected 1 run, got %d", len(runs))
	}
	if runs[0].RunID != "r3" {
		t.Errorf("Expected run r3, got %s", runs[0].RunID)
	}
}

func TestMemoryAggregator_GroupedReport(t *testing.T) {
	agg := seedAggregator(t)

	report, err := agg.GetRunReport(RunFilter{GroupBy: "worker"})
	if err != nil {
		t.Fatalf("GetRunReport failed: %v", err)
	}
	if len(report.Groups) != 2 {
		t.Fatalf("Expected 2 groups, got %d", len(report.Groups))
	}
	if report.Records != nil {
		t.Error("Expected no flat records in a grouped report")
	}
	// light has more runs, it comes first
	if report.Groups[0].GroupValue != "light" {
		t.Errorf("Expected light group first, got %s", report.Groups[0].GroupValue)
	}
}

func TestMemoryAggregator_ExportCSV(t *testing.T) {
	agg := seedAggregator(t)

	data, err := agg.ExportRuns(RunFilter{}, ExportFormatCSV)
	if err != nil {
		t.Fatalf("ExportRuns failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 4 {
		t.Errorf("Expected header plus 3 rows, got %d lines", len(lines))
	}
	if !strings.Contains(lines[0], "Best Fitness") {
		t.Errorf("Expected header row, got %q", lines[0])
	}
}

func TestMemoryAggregator_TimeRange(t *testing.T) {
	agg := NewMemoryAggregator()

	old := RunRecord{Domain: "castles", Worker: "light", PolicyID: "p", Outcome: "exhausted",
		Timestamp: time.Now().Add(-48 * time.Hour), RunID: "old"}
	recent := RunRecord{Domain: "castles", Worker: "light", PolicyID: "p", Outcome: "exhausted",
		Timestamp: time.Now(), RunID: "recent"}
	_ = agg.RecordRun(old)
	_ = agg.RecordRun(recent)

	from := time.Now().Add(-time.Hour)
	runs, err := agg.GetRuns(RunFilter{From: &from})
	if err != nil {
		t.Fatalf("GetRuns failed: %v", err)
	}
	if len(runs) != 1 || runs[0].RunID != "recent" {
		t.Errorf("Expected only the recent run, got %d runs", len(runs))
	}
}
