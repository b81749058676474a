package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"
)

// Client for the intervals.icu-style coaching API. Auth is HTTP Basic with
// the literal username "API_KEY" and the key as password.

func FetchActivities(cfg Config, oldest, newest time.Time) ([]Record, error) {
	endpoint := fmt.Sprintf("%s/api/v1/athlete/%d/activities", cfg.BaseURL, cfg.AthleteID)
	params := url.Values{}
	params.Set("oldest", oldest.Format("2006-01-02"))
	params.Set("newest", newest.Format("2006-01-02"))

	var records []Record
	if err := getJSON(cfg, endpoint, params, &records); err != nil {
		return nil, fmt.Errorf("fetching activities: %w", err)
	}
	log.Printf("intervals fetch activities range=%s..%s count=%d",
		oldest.Format("2006-01-02"), newest.Format("2006-01-02"), len(records))
	return records, nil
}

// FetchEvents returns the calendar events for a date range. Planned workouts
// are the subset with category WORKOUT; callers filter with FilterPlanned.
func FetchEvents(cfg Config, oldest, newest time.Time) ([]Record, error) {
	endpoint := fmt.Sprintf("%s/api/v1/athlete/%d/events", cfg.BaseURL, cfg.AthleteID)
	params := url.Values{}
	params.Set("oldest", oldest.Format("2006-01-02"))
	params.Set("newest", newest.Format("2006-01-02"))

	var records []Record
	if err := getJSON(cfg, endpoint, params, &records); err != nil {
		return nil, fmt.Errorf("fetching events: %w", err)
	}
	log.Printf("intervals fetch events range=%s..%s count=%d",
		oldest.Format("2006-01-02"), newest.Format("2006-01-02"), len(records))
	return records, nil
}

// FetchWellness returns the fitness scalar set for one day. A day with no
// wellness row yields zeros, not an error.
func FetchWellness(cfg Config, day time.Time) (Wellness, error) {
	endpoint := fmt.Sprintf("%s/api/v1/athlete/%d/wellness", cfg.BaseURL, cfg.AthleteID)
	params := url.Values{}
	params.Set("oldest", day.Format("2006-01-02"))
	params.Set("newest", day.Format("2006-01-02"))
	params.Set("cols", "ctl,atl,rampRate")

	var rows []struct {
		CTL      *float64 `json:"ctl"`
		ATL      *float64 `json:"atl"`
		RampRate *float64 `json:"rampRate"`
	}
	if err := getJSON(cfg, endpoint, params, &rows); err != nil {
		return Wellness{}, fmt.Errorf("fetching wellness: %w", err)
	}
	if len(rows) == 0 {
		log.Printf("intervals fetch wellness day=%s empty", day.Format("2006-01-02"))
		return Wellness{}, nil
	}
	row := rows[len(rows)-1]
	w := Wellness{}
	if row.CTL != nil {
		w.CTL = *row.CTL
	}
	if row.ATL != nil {
		w.ATL = *row.ATL
	}
	if row.RampRate != nil {
		w.RampRate = *row.RampRate
	}
	return w, nil
}

func getJSON(cfg Config, endpoint string, params url.Values, out any) error {
	req, err := http.NewRequest("GET", endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.SetBasicAuth("API_KEY", cfg.IntervalsAPIKey)
	req.Header.Set("Accept", "application/json")

	resp, err := externalHTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}

	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != 200 {
		return fmt.Errorf("intervals API returned %d: %s", resp.StatusCode, string(body))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("parsing response: %w", err)
	}
	return nil
}
