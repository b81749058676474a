package main

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func sampleDailySummary() DailySummary {
	day := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	pStart := time.Date(2025, 1, 6, 6, 0, 0, 0, time.UTC)
	aStart := time.Date(2025, 1, 6, 6, 5, 0, 0, time.UTC)
	actual := Aggregate{TotalSeconds: 3550, TotalLoad: 58, ByType: map[string]TypeTotals{"ride": {Seconds: 3550, Load: 58}}}
	planned := Aggregate{TotalSeconds: 3600, TotalLoad: 60, ByType: map[string]TypeTotals{"ride": {Seconds: 3600, Load: 60}}}
	return DailySummary{
		Day:     day,
		Actual:  actual,
		Planned: planned,
		Deltas:  DiffByType(actual, planned),
		Match: MatchResult{Pairs: []SessionPair{{
			PlannedName: "Endurance ride", PlannedType: "ride", PlannedStart: &pStart,
			PlannedSeconds: 3600, PlannedLoad: 60,
			ActualName: "Morning Ride", ActualType: "ride", ActualStart: &aStart,
			ActualSeconds: 3550, ActualLoad: 58,
			DeltaSeconds: -50, DeltaLoad: -2, DeltaStartSec: 300, Method: "external_id",
		}}},
		Advice: Advice{
			TSB: -6.5, CTL: 55, ATL: 61.5, RampRate: 0.8,
			Recommendation:  "Stick to plan.",
			TomorrowPlanned: 70, TomorrowSuggested: 70,
		},
	}
}

func TestWriteDailyReport(t *testing.T) {
	// output dir does not exist yet; the writer creates it
	dir := filepath.Join(t.TempDir(), "reports")
	paths, err := WriteDailyReport(dir, sampleDailySummary())
	if err != nil {
		t.Fatalf("WriteDailyReport failed: %v", err)
	}
	if len(paths) != 3 {
		t.Fatalf("expected 3 files, got %v", paths)
	}
	if !strings.HasSuffix(paths[0], "daily-2025-01-06.md") {
		t.Errorf("markdown path = %q", paths[0])
	}

	md, err := os.ReadFile(paths[0])
	if err != nil {
		t.Fatalf("reading markdown: %v", err)
	}
	out := string(md)
	for _, want := range []string{
		"# Daily Summary (2025-01-06)",
		"| TSS | 60.0 | 58.0 | -2.0 |",
		"## Fitness",
		"| 55.0 | 61.5 | -6.5 | 0.8 |",
		"## Sessions (Planned vs Actual)",
		"| Endurance ride | ride | 2025-01-06 06:00 |",
		"external_id",
		"## Coach's note",
		"Stick to plan.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown missing %q", want)
		}
	}

	var payload map[string]any
	data, err := os.ReadFile(paths[1])
	if err != nil {
		t.Fatalf("reading json: %v", err)
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		t.Fatalf("parsing json report: %v", err)
	}
	if payload["date"] != "2025-01-06" {
		t.Errorf("json date = %v", payload["date"])
	}

	f, err := os.Open(paths[2])
	if err != nil {
		t.Fatalf("opening csv: %v", err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("parsing csv: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected header+row, got %d rows", len(rows))
	}
	if rows[0][0] != "date" || rows[0][3] != "delta_tss" {
		t.Errorf("unexpected csv header: %v", rows[0])
	}
	if rows[1][0] != "2025-01-06" || rows[1][3] != "-2.0" {
		t.Errorf("unexpected csv row: %v", rows[1])
	}
}

func TestWriteWeeklyReport(t *testing.T) {
	dir := t.TempDir()
	actual := Aggregate{TotalSeconds: 21000, TotalLoad: 320, ByType: map[string]TypeTotals{
		"ride":         {Seconds: 14400, Load: 220},
		"virtual ride": {Seconds: 6600, Load: 100},
	}}
	planned := Aggregate{TotalSeconds: 23400, TotalLoad: 350, ByType: map[string]TypeTotals{
		"ride":         {Seconds: 16200, Load: 250},
		"virtual ride": {Seconds: 7200, Load: 100},
	}}
	s := WeeklySummary{
		WeekStart: time.Date(2024, 12, 30, 0, 0, 0, 0, time.UTC),
		WeekEnd:   time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC),
		Actual:    actual,
		Planned:   planned,
		Deltas:    DiffByType(actual, planned),
		Wellness:  Wellness{CTL: 55, ATL: 62, RampRate: 1.1},
		Trend: []SummaryRun{
			{Kind: "weekly", PeriodEnd: time.Date(2024, 12, 29, 0, 0, 0, 0, time.UTC),
				ActualSec: 19800, ActualLoad: 300, PlannedLoad: 310, TSB: -4.5},
			{Kind: "weekly", PeriodEnd: time.Date(2024, 12, 22, 0, 0, 0, 0, time.UTC),
				ActualSec: 18000, ActualLoad: 280, PlannedLoad: 280, TSB: 2},
		},
	}

	paths, err := WriteWeeklyReport(dir, s)
	if err != nil {
		t.Fatalf("WriteWeeklyReport failed: %v", err)
	}
	if len(paths) != 4 {
		t.Fatalf("expected 4 files, got %v", paths)
	}

	md, err := os.ReadFile(paths[0])
	if err != nil {
		t.Fatalf("reading markdown: %v", err)
	}
	out := string(md)
	for _, want := range []string{
		"# Weekly Summary (2024-12-30 → 2025-01-05)",
		"| **Actual TSS** | **320.0** |",
		"| Form (TSB) | -7.0 |",
		"## Recent Weeks",
		"| 2024-12-29 | 300.0 | 310.0 | 5h 30m | -4.5 |",
		"| 2024-12-22 | 280.0 | 280.0 | 5h 00m | 2.0 |",
		"## Actual — Time & Load by Activity Type",
		"## Planned — Time & Load by Activity Type",
		"## Δ by Type (Actual − Planned)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown missing %q", want)
		}
	}

	f, err := os.Open(paths[3])
	if err != nil {
		t.Fatalf("opening by-type csv: %v", err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("parsing by-type csv: %v", err)
	}
	if len(rows) != 3 { // header + two types
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[0][0] != "type" || rows[0][5] != "delta_time_sec" {
		t.Errorf("unexpected header: %v", rows[0])
	}
	// types sorted alphabetically
	if rows[1][0] != "ride" || rows[2][0] != "virtual ride" {
		t.Errorf("unexpected type order: %v / %v", rows[1][0], rows[2][0])
	}
	if rows[1][5] != "-1800" {
		t.Errorf("ride delta_time_sec = %q, want -1800", rows[1][5])
	}
}

func TestWeeklyMarkdownOmitsDeltaSectionWhenZero(t *testing.T) {
	agg := Aggregate{TotalSeconds: 3600, TotalLoad: 60, ByType: map[string]TypeTotals{"ride": {Seconds: 3600, Load: 60}}}
	s := WeeklySummary{
		WeekStart: time.Date(2024, 12, 30, 0, 0, 0, 0, time.UTC),
		WeekEnd:   time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC),
		Actual:    agg,
		Planned:   agg,
		Deltas:    DiffByType(agg, agg),
	}
	out := weeklyMarkdown(s)
	if strings.Contains(out, "Δ by Type") {
		t.Error("delta section must be omitted when all deltas are zero")
	}
	if strings.Contains(out, "Recent Weeks") {
		t.Error("trend section must be omitted when no runs are recorded")
	}
}
