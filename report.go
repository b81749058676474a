package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Report writers. Each summary produces a Markdown file, a JSON dump, and
// one or two CSVs; paths returned with the Markdown file first.

func WriteDailyReport(outputDir string, s DailySummary) ([]string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, err
	}
	base := filepath.Join(outputDir, "daily-"+s.Day.Format("2006-01-02"))

	mdPath := base + ".md"
	if err := os.WriteFile(mdPath, []byte(dailyMarkdown(s)), 0644); err != nil {
		return nil, err
	}

	jsonPath := base + ".json"
	if err := writeJSONFile(jsonPath, dailyJSON(s)); err != nil {
		return nil, err
	}

	csvPath := base + "-summary.csv"
	if err := writeCSVFile(csvPath, dailyCSV(s)); err != nil {
		return nil, err
	}

	return []string{mdPath, jsonPath, csvPath}, nil
}

func WriteWeeklyReport(outputDir string, s WeeklySummary) ([]string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, err
	}
	base := filepath.Join(outputDir, "weekly-"+s.WeekEnd.Format("2006-01-02"))

	mdPath := base + ".md"
	if err := os.WriteFile(mdPath, []byte(weeklyMarkdown(s)), 0644); err != nil {
		return nil, err
	}

	jsonPath := base + ".json"
	if err := writeJSONFile(jsonPath, weeklyJSON(s)); err != nil {
		return nil, err
	}

	summaryCSV := base + "-summary.csv"
	if err := writeCSVFile(summaryCSV, weeklySummaryCSV(s)); err != nil {
		return nil, err
	}

	byTypeCSV := base + "-bytype.csv"
	if err := writeCSVFile(byTypeCSV, byTypeCSVRows(s.Actual, s.Planned, s.Deltas)); err != nil {
		return nil, err
	}

	return []string{mdPath, jsonPath, summaryCSV, byTypeCSV}, nil
}

func dailyMarkdown(s DailySummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Daily Summary (%s)\n\n", s.Day.Format("2006-01-02"))

	b.WriteString("## Totals\n\n")
	b.WriteString("| Metric | Planned | Actual | Δ |\n")
	b.WriteString("|---|---:|---:|---:|\n")
	fmt.Fprintf(&b, "| TSS | %.1f | %.1f | %.1f |\n",
		s.Planned.TotalLoad, s.Actual.TotalLoad, s.Actual.TotalLoad-s.Planned.TotalLoad)
	fmt.Fprintf(&b, "| Time | %s | %s | %s |\n",
		FormatHMS(s.Planned.TotalSeconds), FormatHMS(s.Actual.TotalSeconds),
		FormatHMS(s.Actual.TotalSeconds-s.Planned.TotalSeconds))

	b.WriteString("\n## Fitness\n\n")
	b.WriteString("| CTL | ATL | TSB | Ramp |\n")
	b.WriteString("|---:|---:|---:|---:|\n")
	fmt.Fprintf(&b, "| %.1f | %.1f | %.1f | %.1f |\n",
		s.Advice.CTL, s.Advice.ATL, s.Advice.TSB, s.Advice.RampRate)

	writeSessionTable(&b, s.Match)

	b.WriteString("\n## Coach's note\n\n")
	b.WriteString(s.Advice.Recommendation)
	fmt.Fprintf(&b, "\n\nTomorrow planned TSS: %.1f → Suggested: %.1f (%+.0f%%)\n",
		s.Advice.TomorrowPlanned, s.Advice.TomorrowSuggested, s.Advice.AdjustPct*100)
	return b.String()
}

func weeklyMarkdown(s WeeklySummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Weekly Summary (%s → %s)\n\n",
		s.WeekStart.Format("2006-01-02"), s.WeekEnd.Format("2006-01-02"))

	form := s.Wellness.CTL - s.Wellness.ATL
	b.WriteString("## Totals\n\n")
	b.WriteString("| Metric | Value |\n")
	b.WriteString("|---|---:|\n")
	fmt.Fprintf(&b, "| **Actual TSS** | **%.1f** |\n", s.Actual.TotalLoad)
	fmt.Fprintf(&b, "| Planned TSS | %.1f |\n", s.Planned.TotalLoad)
	fmt.Fprintf(&b, "| Δ TSS (act−plan) | %.1f |\n", s.Actual.TotalLoad-s.Planned.TotalLoad)
	fmt.Fprintf(&b, "| **Actual Time** | **%s** |\n", FormatHMS(s.Actual.TotalSeconds))
	fmt.Fprintf(&b, "| Planned Time | %s |\n", FormatHMS(s.Planned.TotalSeconds))
	fmt.Fprintf(&b, "| Δ Time (act−plan) | %s |\n", FormatHMS(s.Actual.TotalSeconds-s.Planned.TotalSeconds))
	fmt.Fprintf(&b, "| Fitness (CTL) | %.1f |\n", s.Wellness.CTL)
	fmt.Fprintf(&b, "| Fatigue (ATL) | %.1f |\n", s.Wellness.ATL)
	fmt.Fprintf(&b, "| Form (TSB) | %.1f |\n", form)
	fmt.Fprintf(&b, "| Ramp Rate | %.1f |\n", s.Wellness.RampRate)

	if len(s.Trend) > 0 {
		b.WriteString("\n## Recent Weeks\n\n")
		b.WriteString("| Week ending | Actual TSS | Planned TSS | Actual Time | TSB |\n")
		b.WriteString("|---|---:|---:|---:|---:|\n")
		for _, r := range s.Trend {
			fmt.Fprintf(&b, "| %s | %.1f | %.1f | %s | %.1f |\n",
				r.PeriodEnd.Format("2006-01-02"), r.ActualLoad, r.PlannedLoad,
				FormatHMS(r.ActualSec), r.TSB)
		}
	}

	writeByTypeSection(&b, "Actual — Time & Load by Activity Type", s.Actual)
	writeByTypeSection(&b, "Planned — Time & Load by Activity Type", s.Planned)

	if anyNonzeroDelta(s.Deltas) {
		b.WriteString("\n## Δ by Type (Actual − Planned)\n\n")
		b.WriteString("| Type | Δ Time (sec) | Δ Load |\n")
		b.WriteString("|---|---:|---:|\n")
		for _, t := range sortedKeys(s.Deltas) {
			d := s.Deltas[t]
			fmt.Fprintf(&b, "| %s | %d | %.1f |\n", t, d.Seconds, d.Load)
		}
	}

	writeSessionTable(&b, s.Match)
	return b.String()
}

func writeByTypeSection(b *strings.Builder, title string, agg Aggregate) {
	fmt.Fprintf(b, "\n## %s\n\n", title)
	b.WriteString("| Type | Time | Load |\n")
	b.WriteString("|---|---:|---:|\n")
	for _, t := range agg.TypesBySeconds() {
		v := agg.ByType[t]
		fmt.Fprintf(b, "| %s | %s | %.1f |\n", t, FormatHMS(v.Seconds), v.Load)
	}
}

func writeSessionTable(b *strings.Builder, m MatchResult) {
	if len(m.Pairs) == 0 && len(m.UnmatchedPlanned) == 0 && len(m.UnmatchedActual) == 0 {
		return
	}
	b.WriteString("\n## Sessions (Planned vs Actual)\n\n")
	if len(m.Pairs) > 0 {
		b.WriteString("| Planned | Type | Start | Time | Load | Actual | Δ Time | Δ Load | Matched by |\n")
		b.WriteString("|---|---|---|---:|---:|---|---:|---:|---|\n")
		for _, p := range m.Pairs {
			fmt.Fprintf(b, "| %s | %s | %s | %s | %.1f | %s | %s | %.1f | %s |\n",
				p.PlannedName, p.PlannedType, formatStart(p.PlannedStart),
				FormatHMS(p.PlannedSeconds), p.PlannedLoad,
				p.ActualName, FormatHMS(p.DeltaSeconds), p.DeltaLoad, p.Method)
		}
	}
	if len(m.UnmatchedPlanned) > 0 {
		b.WriteString("\n**Planned but not completed:**\n\n")
		for _, r := range m.UnmatchedPlanned {
			fmt.Fprintf(b, "- %s (%s)\n", displayName(r), CanonicalRecordType(r))
		}
	}
	if len(m.UnmatchedActual) > 0 {
		b.WriteString("\n**Completed but not planned:**\n\n")
		for _, r := range m.UnmatchedActual {
			fmt.Fprintf(b, "- %s (%s)\n", displayName(r), CanonicalRecordType(r))
		}
	}
}

func displayName(r Record) string {
	if r.Name != "" {
		return r.Name
	}
	return "(unnamed)"
}

func formatStart(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("2006-01-02 15:04")
}

func dailyCSV(s DailySummary) [][]string {
	header := []string{
		"date", "planned_tss", "actual_tss", "delta_tss",
		"planned_time_sec", "actual_time_sec", "delta_time_sec",
		"ctl", "atl", "tsb", "ramp",
		"tomorrow_planned_tss", "tomorrow_suggested_tss", "adjust_pct",
	}
	row := []string{
		s.Day.Format("2006-01-02"),
		f1(s.Planned.TotalLoad), f1(s.Actual.TotalLoad), f1(s.Actual.TotalLoad - s.Planned.TotalLoad),
		strconv.Itoa(s.Planned.TotalSeconds), strconv.Itoa(s.Actual.TotalSeconds),
		strconv.Itoa(s.Actual.TotalSeconds - s.Planned.TotalSeconds),
		f1(s.Advice.CTL), f1(s.Advice.ATL), f1(s.Advice.TSB), f1(s.Advice.RampRate),
		f1(s.Advice.TomorrowPlanned), f1(s.Advice.TomorrowSuggested), f1(s.Advice.AdjustPct * 100),
	}
	return [][]string{header, row}
}

func weeklySummaryCSV(s WeeklySummary) [][]string {
	header := []string{
		"week_start", "week_end",
		"tss_actual", "tss_planned", "delta_tss",
		"time_actual_sec", "time_planned_sec", "delta_time_sec",
		"fitness_ctl", "fatigue_atl", "form_tsb", "ramp_rate",
	}
	row := []string{
		s.WeekStart.Format("2006-01-02"), s.WeekEnd.Format("2006-01-02"),
		f1(s.Actual.TotalLoad), f1(s.Planned.TotalLoad), f1(s.Actual.TotalLoad - s.Planned.TotalLoad),
		strconv.Itoa(s.Actual.TotalSeconds), strconv.Itoa(s.Planned.TotalSeconds),
		strconv.Itoa(s.Actual.TotalSeconds - s.Planned.TotalSeconds),
		f1(s.Wellness.CTL), f1(s.Wellness.ATL), f1(s.Wellness.CTL - s.Wellness.ATL), f1(s.Wellness.RampRate),
	}
	return [][]string{header, row}
}

func byTypeCSVRows(actual, planned Aggregate, deltas map[string]TypeTotals) [][]string {
	rows := [][]string{{
		"type",
		"actual_time_sec", "actual_load",
		"planned_time_sec", "planned_load",
		"delta_time_sec", "delta_load",
	}}
	types := make(map[string]bool)
	for t := range actual.ByType {
		types[t] = true
	}
	for t := range planned.ByType {
		types[t] = true
	}
	for _, t := range sortedBoolKeys(types) {
		a := actual.ByType[t]
		p := planned.ByType[t]
		d := deltas[t]
		rows = append(rows, []string{
			t,
			strconv.Itoa(a.Seconds), f1(a.Load),
			strconv.Itoa(p.Seconds), f1(p.Load),
			strconv.Itoa(d.Seconds), f1(d.Load),
		})
	}
	return rows
}

func dailyJSON(s DailySummary) map[string]any {
	return map[string]any{
		"date":    s.Day.Format("2006-01-02"),
		"summary": aggregatesJSON(s.Actual, s.Planned, s.Deltas),
		"advice": map[string]any{
			"tsb":                    s.Advice.TSB,
			"ctl":                    s.Advice.CTL,
			"atl":                    s.Advice.ATL,
			"ramp":                   s.Advice.RampRate,
			"recommendation":         s.Advice.Recommendation,
			"adjust_pct":             s.Advice.AdjustPct * 100,
			"tomorrow_planned_tss":   s.Advice.TomorrowPlanned,
			"tomorrow_suggested_tss": s.Advice.TomorrowSuggested,
		},
		"sessions": sessionsJSON(s.Match),
	}
}

func weeklyJSON(s WeeklySummary) map[string]any {
	return map[string]any{
		"week_start": s.WeekStart.Format("2006-01-02"),
		"week_end":   s.WeekEnd.Format("2006-01-02"),
		"summary":    aggregatesJSON(s.Actual, s.Planned, s.Deltas),
		"fitness": map[string]any{
			"ctl":  s.Wellness.CTL,
			"atl":  s.Wellness.ATL,
			"tsb":  s.Wellness.CTL - s.Wellness.ATL,
			"ramp": s.Wellness.RampRate,
		},
		"sessions": sessionsJSON(s.Match),
	}
}

func aggregatesJSON(actual, planned Aggregate, deltas map[string]TypeTotals) map[string]any {
	byType := func(a Aggregate) map[string]any {
		out := make(map[string]any, len(a.ByType))
		for t, v := range a.ByType {
			out[t] = map[string]any{"time_sec": v.Seconds, "time_hms": FormatHMS(v.Seconds), "load": v.Load}
		}
		return out
	}
	deltaMap := make(map[string]any, len(deltas))
	for t, d := range deltas {
		deltaMap[t] = map[string]any{"seconds": d.Seconds, "load": d.Load}
	}
	return map[string]any{
		"actual_tss":       actual.TotalLoad,
		"actual_time_sec":  actual.TotalSeconds,
		"actual_time_hms":  FormatHMS(actual.TotalSeconds),
		"planned_tss":      planned.TotalLoad,
		"planned_time_sec": planned.TotalSeconds,
		"planned_time_hms": FormatHMS(planned.TotalSeconds),
		"delta_tss":        actual.TotalLoad - planned.TotalLoad,
		"delta_time_sec":   actual.TotalSeconds - planned.TotalSeconds,
		"by_type_actual":   byType(actual),
		"by_type_planned":  byType(planned),
		"by_type_delta":    deltaMap,
	}
}

func sessionsJSON(m MatchResult) map[string]any {
	pairs := make([]map[string]any, 0, len(m.Pairs))
	for _, p := range m.Pairs {
		pairs = append(pairs, map[string]any{
			"planned_name":   p.PlannedName,
			"planned_type":   p.PlannedType,
			"planned_sec":    p.PlannedSeconds,
			"planned_load":   p.PlannedLoad,
			"actual_name":    p.ActualName,
			"actual_type":    p.ActualType,
			"actual_sec":     p.ActualSeconds,
			"actual_load":    p.ActualLoad,
			"delta_sec":      p.DeltaSeconds,
			"delta_load":     p.DeltaLoad,
			"delta_time_sec": p.DeltaStartSec,
			"method":         p.Method,
		})
	}
	names := func(records []Record) []string {
		out := make([]string, 0, len(records))
		for _, r := range records {
			out = append(out, displayName(r))
		}
		return out
	}
	return map[string]any{
		"pairs":             pairs,
		"unmatched_planned": names(m.UnmatchedPlanned),
		"unmatched_actual":  names(m.UnmatchedActual),
	}
}

func writeJSONFile(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}

func writeCSVFile(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func anyNonzeroDelta(deltas map[string]TypeTotals) bool {
	for _, d := range deltas {
		if d.Seconds != 0 || d.Load > 0.05 || d.Load < -0.05 {
			return true
		}
	}
	return false
}

func sortedKeys(m map[string]TypeTotals) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedBoolKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func f1(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
