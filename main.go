package main

import (
	"flag"
	"log"
	"time"

	"github.com/slack-go/slack"
)

func main() {
	daily := flag.Bool("daily", false, "generate a daily summary and exit")
	weekly := flag.Bool("weekly", false, "generate a weekly summary and exit")
	zwo := flag.Bool("zwo", false, "generate trainer .zwo files for planned indoor workouts and exit")
	forDate := flag.String("for-date", "", "reference date YYYY-MM-DD (default: today in the configured timezone)")
	newest := flag.String("newest", "", "window end YYYY-MM-DD for -zwo (default: same as the reference date)")
	flag.Parse()

	cfg := LoadConfig()
	ApplyHTTPTimeout(cfg)

	ref := time.Now().In(cfg.Location)
	if *forDate != "" {
		parsed, err := time.ParseInLocation("2006-01-02", *forDate, cfg.Location)
		if err != nil {
			log.Fatalf("invalid -for-date '%s': %v", *forDate, err)
		}
		ref = parsed
	}

	db, err := InitDB(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to init database: %v", err)
	}
	defer db.Close()

	switch {
	case *daily:
		note, err := RunDaily(cfg, db, ref)
		if err != nil {
			log.Fatalf("Daily summary error: %v", err)
		}
		log.Println(note)
	case *weekly:
		if err := RunWeekly(cfg, db, ref); err != nil {
			log.Fatalf("Weekly summary error: %v", err)
		}
	case *zwo:
		end := ref
		if *newest != "" {
			parsed, err := time.ParseInLocation("2006-01-02", *newest, cfg.Location)
			if err != nil {
				log.Fatalf("invalid -newest '%s': %v", *newest, err)
			}
			end = parsed
		}
		written, err := GenerateZWOs(cfg, ref, end)
		if err != nil {
			log.Fatalf("ZWO generation error: %v", err)
		}
		if len(written) == 0 {
			log.Println("No eligible indoor workouts found.")
		}
	default:
		var api *slack.Client
		if cfg.SlackConfigured() {
			api = slack.New(cfg.SlackBotToken)
		}
		log.Println("Starting coachbot schedulers...")
		StartSummarySchedulers(cfg, db, api)
		select {}
	}
}
