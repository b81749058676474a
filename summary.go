package main

import (
	"database/sql"
	"fmt"
	"log"
	"time"
)

// DailySummary is everything a daily report needs: both aggregates, the
// session pairing, and the coach's note.
type DailySummary struct {
	Day     time.Time
	Actual  Aggregate
	Planned Aggregate
	Deltas  map[string]TypeTotals
	Match   MatchResult
	Advice  Advice
}

// WeeklySummary is the week-window variant; same shape plus the window, the
// raw wellness snapshot for the closing Sunday, and the recorded runs of
// previous weeks for trend context.
type WeeklySummary struct {
	WeekStart time.Time
	WeekEnd   time.Time
	Actual    Aggregate
	Planned   Aggregate
	Deltas    map[string]TypeTotals
	Match     MatchResult
	Wellness  Wellness
	Trend     []SummaryRun
}

// BuildDailySummary fetches one day's records plus tomorrow's plan and folds
// them into the daily report inputs.
func BuildDailySummary(cfg Config, day time.Time) (DailySummary, error) {
	log.Printf("daily summary day=%s", day.Format("2006-01-02"))

	activities, err := FetchActivities(cfg, day, day)
	if err != nil {
		return DailySummary{}, err
	}
	events, err := FetchEvents(cfg, day, day)
	if err != nil {
		return DailySummary{}, err
	}
	tomorrow := day.AddDate(0, 0, 1)
	tomorrowEvents, err := FetchEvents(cfg, tomorrow, tomorrow)
	if err != nil {
		return DailySummary{}, err
	}
	wellness, err := FetchWellness(cfg, day)
	if err != nil {
		return DailySummary{}, err
	}

	allowed := cfg.AllowedTypeSet()
	actual := FilterByType(activities, allowed)
	planned := FilterByType(FilterPlanned(events), allowed)

	actualAgg := AggregateRecords(actual)
	plannedAgg := AggregateRecords(planned)

	tomorrowPlanned := AggregateRecords(FilterByType(FilterPlanned(tomorrowEvents), allowed)).TotalLoad

	return DailySummary{
		Day:     day,
		Actual:  actualAgg,
		Planned: plannedAgg,
		Deltas:  DiffByType(actualAgg, plannedAgg),
		Match:   MatchSessions(actual, planned),
		Advice:  CoachAdvice(actualAgg.TotalLoad, plannedAgg.TotalLoad, wellness, tomorrowPlanned, cfg.Advice),
	}, nil
}

// BuildWeeklySummary fetches the week ending on the most recent Sunday on or
// before ref and folds it into the weekly report inputs. Wellness is sampled
// on the closing Sunday.
func BuildWeeklySummary(cfg Config, ref time.Time) (WeeklySummary, error) {
	weekStart, weekEnd := WeekRangeEndingSunday(ref)
	log.Printf("weekly summary range=%s..%s", weekStart.Format("2006-01-02"), weekEnd.Format("2006-01-02"))

	activities, err := FetchActivities(cfg, weekStart, weekEnd)
	if err != nil {
		return WeeklySummary{}, err
	}
	events, err := FetchEvents(cfg, weekStart, weekEnd)
	if err != nil {
		return WeeklySummary{}, err
	}
	wellness, err := FetchWellness(cfg, weekEnd)
	if err != nil {
		return WeeklySummary{}, err
	}

	allowed := cfg.AllowedTypeSet()
	actual := FilterByType(activities, allowed)
	planned := FilterByType(FilterPlanned(events), allowed)

	actualAgg := AggregateRecords(actual)
	plannedAgg := AggregateRecords(planned)

	return WeeklySummary{
		WeekStart: weekStart,
		WeekEnd:   weekEnd,
		Actual:    actualAgg,
		Planned:   plannedAgg,
		Deltas:    DiffByType(actualAgg, plannedAgg),
		Match:     MatchSessions(actual, planned),
		Wellness:  wellness,
	}, nil
}

// RunDaily builds the daily summary, writes the report files, records the
// run, and returns the coach-note text for delivery.
func RunDaily(cfg Config, db *sql.DB, day time.Time) (string, error) {
	s, err := BuildDailySummary(cfg, day)
	if err != nil {
		return "", err
	}
	paths, err := WriteDailyReport(cfg.ReportOutputDir, s)
	if err != nil {
		return "", fmt.Errorf("writing daily report: %w", err)
	}
	log.Printf("daily summary wrote %v", paths)

	if db != nil {
		runID, err := InsertSummaryRun(db, SummaryRun{
			Kind:        "daily",
			PeriodStart: s.Day,
			PeriodEnd:   s.Day,
			ActualSec:   s.Actual.TotalSeconds,
			ActualLoad:  s.Actual.TotalLoad,
			PlannedSec:  s.Planned.TotalSeconds,
			PlannedLoad: s.Planned.TotalLoad,
			TSB:         s.Advice.TSB,
			AdjustPct:   s.Advice.AdjustPct,
			ReportPath:  paths[0],
		})
		if err != nil {
			log.Printf("daily summary db error: %v", err)
		} else if err := InsertMatchedSessions(db, runID, s.Match.Pairs); err != nil {
			log.Printf("daily summary db error: %v", err)
		}
	}

	return FormatCoachNote(s), nil
}

// RunWeekly builds the weekly summary and writes the report files. Prior
// recorded weeks feed the report's trend table.
func RunWeekly(cfg Config, db *sql.DB, ref time.Time) error {
	s, err := BuildWeeklySummary(cfg, ref)
	if err != nil {
		return err
	}
	if db != nil {
		trend, err := RecentSummaryRuns(db, "weekly", 8)
		if err != nil {
			log.Printf("weekly summary db error: %v", err)
		} else {
			s.Trend = trend
		}
	}
	paths, err := WriteWeeklyReport(cfg.ReportOutputDir, s)
	if err != nil {
		return fmt.Errorf("writing weekly report: %w", err)
	}
	log.Printf("weekly summary wrote %v", paths)

	if db != nil {
		runID, err := InsertSummaryRun(db, SummaryRun{
			Kind:        "weekly",
			PeriodStart: s.WeekStart,
			PeriodEnd:   s.WeekEnd,
			ActualSec:   s.Actual.TotalSeconds,
			ActualLoad:  s.Actual.TotalLoad,
			PlannedSec:  s.Planned.TotalSeconds,
			PlannedLoad: s.Planned.TotalLoad,
			TSB:         s.Wellness.CTL - s.Wellness.ATL,
			ReportPath:  paths[0],
		})
		if err != nil {
			log.Printf("weekly summary db error: %v", err)
		} else if err := InsertMatchedSessions(db, runID, s.Match.Pairs); err != nil {
			log.Printf("weekly summary db error: %v", err)
		}
	}
	return nil
}

// FormatCoachNote renders the one-line recommendation plus the numeric block
// posted to Slack after a scheduled daily run.
func FormatCoachNote(s DailySummary) string {
	a := s.Advice
	return fmt.Sprintf(
		"*Coach's note (%s)*\n%s\n"+
			"CTL %.1f | ATL %.1f | TSB %.1f | Ramp %.1f\n"+
			"Today: planned %.1f TSS / actual %.1f TSS\n"+
			"Tomorrow: planned %.1f TSS -> suggested %.1f TSS (%+.0f%%)",
		s.Day.Format("2006-01-02"), a.Recommendation,
		a.CTL, a.ATL, a.TSB, a.RampRate,
		s.Planned.TotalLoad, s.Actual.TotalLoad,
		a.TomorrowPlanned, a.TomorrowSuggested, a.AdjustPct*100,
	)
}
