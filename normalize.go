package main

import (
	"strconv"
	"strings"
	"time"
)

// Alias lists tried in order when extracting numeric fields. Data-driven so
// new API aliases can be appended without touching the matcher.
var (
	secondsAliases = []string{"moving_time", "elapsed_time", "duration", "duration_s"}
	loadAliases    = []string{"load", "icu_training_load", "training_load", "tss"}
	startAliases   = []string{"start_date_local", "start_date"}
)

// ExtractSeconds returns the first duration alias present with a numeric
// value. Missing or garbled values fall back to 0; extraction never fails.
func ExtractSeconds(r Record) int {
	for _, key := range secondsAliases {
		v, ok := r.Raw[key]
		if !ok {
			continue
		}
		switch n := v.(type) {
		case float64:
			return int(n)
		case int:
			return n
		case string:
			if isDigits(n) {
				parsed, _ := strconv.Atoi(n)
				return parsed
			}
		}
	}
	return 0
}

// ExtractLoad returns the first load alias with a numeric or numeric-string
// value, falling back to 0.
func ExtractLoad(r Record) float64 {
	for _, key := range loadAliases {
		v, ok := r.Raw[key]
		if !ok {
			continue
		}
		switch n := v.(type) {
		case float64:
			return n
		case int:
			return float64(n)
		case string:
			if parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil {
				return parsed
			}
		}
	}
	return 0
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

var rideSynonyms = map[string]bool{
	"ride":      true,
	"bike ride": true,
	"cycling":   true,
	"bike":      true,
}

// CanonicalType collapses the API's free-text activity types into the
// canonical buckets the matcher and aggregator key on. It is deterministic
// and idempotent: applying it to its own output is a no-op.
func CanonicalType(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	if strings.Contains(s, "gravel") {
		return "gravel ride"
	}
	if rideSynonyms[s] {
		return "ride"
	}
	compact := strings.ReplaceAll(s, " ", "")
	if compact == "virtualride" || (strings.Contains(s, "virtual") && strings.Contains(s, "ride")) {
		return "virtual ride"
	}
	for _, kw := range []string{"zwift", "trainer", "indoor", "smarttrainer"} {
		if strings.Contains(s, kw) {
			return "virtual ride"
		}
	}
	return s
}

// CanonicalRecordType canonicalizes a record's type, falling back to keyword
// hints in the name when the type field is empty or the generic "workout".
func CanonicalRecordType(r Record) string {
	ct := CanonicalType(r.Type)
	if ct != "" && ct != "workout" {
		return ct
	}
	name := strings.ToLower(strings.TrimSpace(r.Name))
	for _, kw := range []string{"zwift", "trainer", "indoor", "virtual"} {
		if strings.Contains(name, kw) {
			return "virtual ride"
		}
	}
	if strings.Contains(name, "gravel") {
		return "gravel ride"
	}
	for _, kw := range []string{"ride", "bike", "cycling", "spin"} {
		if strings.Contains(name, kw) {
			return "ride"
		}
	}
	return ct
}

// LocalStart returns the record's local start string, preferring
// start_date_local. Strings shorter than date+time length are treated as
// absent.
func LocalStart(r Record) string {
	for _, key := range startAliases {
		if v, ok := r.Raw[key].(string); ok && len(v) >= 16 {
			return v
		}
	}
	return ""
}

// LocalDate returns the YYYY-MM-DD prefix of the record's local start, or ""
// when timing is unknown.
func LocalDate(r Record) string {
	s := LocalStart(r)
	if len(s) >= 10 {
		return s[:10]
	}
	return ""
}

// ParseLocalStart parses an ISO-like local timestamp, tolerating a missing
// seconds component and a trailing zone marker. A nil result means "timing
// unknown", never an error.
func ParseLocalStart(s string) *time.Time {
	if s == "" {
		return nil
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "Z")
	for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02T15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// RecordStart parses the record's local start time, nil when unknown.
func RecordStart(r Record) *time.Time {
	return ParseLocalStart(LocalStart(r))
}
