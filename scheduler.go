package main

import (
	"database/sql"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/slack-go/slack"
)

// StartSummarySchedulers starts cron loops for the configured daily and
// weekly summaries. The schedule is a standard 5-field cron expression
// (minute hour day-of-month month day-of-week). Examples: "0 21 * * *"
// (daily 9pm), "30 20 * * 0" (Sundays 8:30pm). An empty schedule disables
// that summary. Errors inside a run are logged, never fatal.
func StartSummarySchedulers(cfg Config, db *sql.DB, api *slack.Client) {
	startCronLoop(cfg, "daily", cfg.DailySchedule, func(now time.Time) {
		runScheduledDaily(cfg, db, api, now)
	})

	startCronLoop(cfg, "weekly", cfg.WeeklySchedule, func(now time.Time) {
		if err := RunWeekly(cfg, db, now); err != nil {
			log.Printf("scheduled weekly summary error: %v", err)
		}
	})
}

// runScheduledDaily generates the day's summary unless one is already
// recorded for that date (process restarts can re-fire the same slot).
// Forced regeneration stays available through the -daily flag.
func runScheduledDaily(cfg Config, db *sql.DB, api *slack.Client, now time.Time) {
	if exists, err := SummaryRunExists(db, "daily", now); err == nil && exists {
		log.Printf("daily summary already recorded for %s, skipping", now.Format("2006-01-02"))
		return
	}
	note, err := RunDaily(cfg, db, now)
	if err != nil {
		log.Printf("scheduled daily summary error: %v", err)
		return
	}
	if cfg.SlackConfigured() {
		if err := PostCoachNote(api, cfg.SlackChannelID, note); err != nil {
			log.Printf("coach note post error: %v", err)
		}
	}
}

func startCronLoop(cfg Config, name, schedule string, run func(now time.Time)) {
	if schedule == "" {
		log.Printf("%s summary scheduler disabled (no schedule configured)", name)
		return
	}
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	sched, err := parser.Parse(schedule)
	if err != nil {
		log.Printf("Invalid %s schedule '%s': %v (scheduler disabled)", name, schedule, err)
		return
	}
	log.Printf("%s summary scheduled (cron: %s)", name, schedule)

	go func() {
		for {
			now := time.Now().In(cfg.Location)
			next := sched.Next(now)
			wait := next.Sub(now)
			log.Printf("Next %s summary at %s (in %s)", name, next.Format("Mon Jan 2 15:04"), wait.Round(time.Minute))

			time.Sleep(wait)
			run(time.Now().In(cfg.Location))
		}
	}()
}
