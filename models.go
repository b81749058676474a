package main

import (
	"encoding/json"
	"strconv"
	"time"
)

// Record is one activity or planned event as returned by the coaching API.
// The API schema drifts between record kinds, so only the fields the
// pipeline reads are typed; every key the decode doesn't recognize stays in
// Raw untouched.
type Record struct {
	ID         string
	ExternalID string
	Name       string
	Category   string
	Type       string

	StartDateLocal string
	StartDate      string

	// Duration aliases in the API's order of preference. Values arrive as
	// numbers or digit strings; extraction tolerates both.
	MovingTime  any
	ElapsedTime any
	Duration    any

	// Load aliases (TSS-like training stress).
	Load            any
	ICUTrainingLoad any
	TrainingLoad    any
	TSS             any

	Raw map[string]any
}

func (r *Record) UnmarshalJSON(data []byte) error {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	r.Raw = m
	r.ID = stringField(m, "id")
	r.ExternalID = stringField(m, "external_id")
	r.Name = stringField(m, "name")
	r.Category = stringField(m, "category")
	r.Type = stringField(m, "type")
	r.StartDateLocal = stringField(m, "start_date_local")
	r.StartDate = stringField(m, "start_date")
	r.MovingTime = m["moving_time"]
	r.ElapsedTime = m["elapsed_time"]
	r.Duration = m["duration"]
	r.Load = m["load"]
	r.ICUTrainingLoad = m["icu_training_load"]
	r.TrainingLoad = m["training_load"]
	r.TSS = m["tss"]
	return nil
}

func stringField(m map[string]any, key string) string {
	switch v := m[key].(type) {
	case string:
		return v
	case float64:
		// numeric IDs come back as JSON numbers
		if v == float64(int64(v)) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return ""
}

// Wellness is the derived fitness scalar set for one day.
type Wellness struct {
	CTL      float64
	ATL      float64
	RampRate float64
}

// SessionPair is one planned workout paired with the completed activity the
// matcher chose for it. Both sides are snapshotted at pairing time; the pair
// never references the input records afterwards.
type SessionPair struct {
	PlannedName    string
	PlannedType    string
	PlannedStart   *time.Time
	PlannedSeconds int
	PlannedLoad    float64

	ActualName    string
	ActualType    string
	ActualStart   *time.Time
	ActualSeconds int
	ActualLoad    float64

	DeltaSeconds  int     // actual - planned duration
	DeltaLoad     float64 // actual - planned load
	DeltaStartSec int     // actual - planned start, 0 when either side is unknown

	Method string // "external_id", "time", or "type"
}

// Advice is the next-day load recommendation derived from today's totals and
// the current fitness numbers.
type Advice struct {
	TSB               float64
	CTL               float64
	ATL               float64
	RampRate          float64
	Recommendation    string
	AdjustPct         float64 // fraction, e.g. -0.30
	TomorrowPlanned   float64
	TomorrowSuggested float64
}

// Step is one synthesized trainer-workout step. Power values are fractions
// of FTP.
type Step struct {
	Kind      string // "Warmup", "SteadyState", "IntervalsT", "Cooldown"
	Seconds   int
	Power     float64 // SteadyState
	PowerLow  float64 // Warmup/Cooldown ramp endpoints
	PowerHigh float64
	Repeat    int // IntervalsT
	OnSec     int
	OffSec    int
	OnPower   float64
	OffPower  float64
}

// WeekRangeEndingSunday returns (monday, sunday) for the week ending on the
// most recent Sunday on or before ref.
func WeekRangeEndingSunday(ref time.Time) (time.Time, time.Time) {
	daysPastSunday := (int(ref.Weekday()) - int(time.Sunday) + 7) % 7
	sunday := time.Date(ref.Year(), ref.Month(), ref.Day()-daysPastSunday, 0, 0, 0, 0, ref.Location())
	monday := sunday.AddDate(0, 0, -6)
	return monday, sunday
}

// FormatHMS renders a duration in the "1h 05m" style used across reports,
// appending seconds only when they are nonzero.
func FormatHMS(seconds int) string {
	if seconds < 0 {
		seconds = -seconds
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if s == 0 {
		return strconv.Itoa(h) + "h " + pad2(m) + "m"
	}
	return strconv.Itoa(h) + "h " + pad2(m) + "m " + pad2(s) + "s"
}

func pad2(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}
