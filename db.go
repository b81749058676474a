package main

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SummaryRun is one generated summary recorded for history and re-run
// detection.
type SummaryRun struct {
	ID          int64
	Kind        string // "daily" or "weekly"
	PeriodStart time.Time
	PeriodEnd   time.Time
	ActualSec   int
	ActualLoad  float64
	PlannedSec  int
	PlannedLoad float64
	TSB         float64
	AdjustPct   float64
	ReportPath  string
	CreatedAt   time.Time
}

func InitDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	schema := `
	CREATE TABLE IF NOT EXISTS summary_runs (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		kind         TEXT NOT NULL,
		period_start TEXT NOT NULL,
		period_end   TEXT NOT NULL,
		actual_sec   INTEGER NOT NULL DEFAULT 0,
		actual_load  REAL NOT NULL DEFAULT 0,
		planned_sec  INTEGER NOT NULL DEFAULT 0,
		planned_load REAL NOT NULL DEFAULT 0,
		tsb          REAL NOT NULL DEFAULT 0,
		adjust_pct   REAL NOT NULL DEFAULT 0,
		report_path  TEXT DEFAULT '',
		created_at   DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_summary_runs_period ON summary_runs(kind, period_end);

	CREATE TABLE IF NOT EXISTS matched_sessions (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id        INTEGER NOT NULL,
		planned_name  TEXT NOT NULL,
		planned_type  TEXT DEFAULT '',
		planned_sec   INTEGER NOT NULL DEFAULT 0,
		planned_load  REAL NOT NULL DEFAULT 0,
		actual_name   TEXT NOT NULL,
		actual_sec    INTEGER NOT NULL DEFAULT 0,
		actual_load   REAL NOT NULL DEFAULT 0,
		delta_sec     INTEGER NOT NULL DEFAULT 0,
		delta_load    REAL NOT NULL DEFAULT 0,
		method        TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_matched_sessions_run ON matched_sessions(run_id);
	`
	if _, err := db.Exec(schema); err != nil {
		return nil, err
	}
	return db, nil
}

func InsertSummaryRun(db *sql.DB, run SummaryRun) (int64, error) {
	res, err := db.Exec(
		`INSERT INTO summary_runs (kind, period_start, period_end, actual_sec, actual_load, planned_sec, planned_load, tsb, adjust_pct, report_path)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.Kind, run.PeriodStart.Format("2006-01-02"), run.PeriodEnd.Format("2006-01-02"),
		run.ActualSec, run.ActualLoad, run.PlannedSec, run.PlannedLoad,
		run.TSB, run.AdjustPct, run.ReportPath,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func InsertMatchedSessions(db *sql.DB, runID int64, pairs []SessionPair) error {
	if len(pairs) == 0 {
		return nil
	}
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		`INSERT INTO matched_sessions (run_id, planned_name, planned_type, planned_sec, planned_load, actual_name, actual_sec, actual_load, delta_sec, delta_load, method)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, p := range pairs {
		if _, err := stmt.Exec(
			runID, p.PlannedName, p.PlannedType, p.PlannedSeconds, p.PlannedLoad,
			p.ActualName, p.ActualSeconds, p.ActualLoad,
			p.DeltaSeconds, p.DeltaLoad, p.Method,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// SummaryRunExists reports whether a summary of the given kind already
// covers the period ending on end.
func SummaryRunExists(db *sql.DB, kind string, end time.Time) (bool, error) {
	var count int
	err := db.QueryRow(
		`SELECT COUNT(*) FROM summary_runs WHERE kind = ? AND period_end = ?`,
		kind, end.Format("2006-01-02"),
	).Scan(&count)
	return count > 0, err
}

// RecentSummaryRuns returns the latest runs of a kind, newest first, for
// trend context.
func RecentSummaryRuns(db *sql.DB, kind string, limit int) ([]SummaryRun, error) {
	rows, err := db.Query(
		`SELECT id, kind, period_start, period_end, actual_sec, actual_load, planned_sec, planned_load, tsb, adjust_pct, report_path, created_at
		 FROM summary_runs WHERE kind = ? ORDER BY period_end DESC, id DESC LIMIT ?`,
		kind, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []SummaryRun
	for rows.Next() {
		var run SummaryRun
		var start, end string
		if err := rows.Scan(
			&run.ID, &run.Kind, &start, &end,
			&run.ActualSec, &run.ActualLoad, &run.PlannedSec, &run.PlannedLoad,
			&run.TSB, &run.AdjustPct, &run.ReportPath, &run.CreatedAt,
		); err != nil {
			return nil, err
		}
		run.PeriodStart, _ = time.Parse("2006-01-02", start)
		run.PeriodEnd, _ = time.Parse("2006-01-02", end)
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
