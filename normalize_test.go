package main

import (
	"encoding/json"
	"testing"
)

func testRecord(t *testing.T, fields map[string]any) Record {
	t.Helper()
	data, err := json.Marshal(fields)
	if err != nil {
		t.Fatalf("marshaling test record: %v", err)
	}
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		t.Fatalf("unmarshaling test record: %v", err)
	}
	return r
}

func TestExtractSeconds(t *testing.T) {
	tests := []struct {
		name   string
		fields map[string]any
		want   int
	}{
		{"moving_time preferred", map[string]any{"moving_time": 3600, "elapsed_time": 4000}, 3600},
		{"elapsed_time fallback", map[string]any{"elapsed_time": 4000}, 4000},
		{"duration fallback", map[string]any{"duration": 1800}, 1800},
		{"float value", map[string]any{"moving_time": 3599.9}, 3599},
		{"digit string", map[string]any{"duration": "2700"}, 2700},
		{"non-digit string skipped", map[string]any{"moving_time": "1h", "duration": 600}, 600},
		{"missing everything", map[string]any{"name": "x"}, 0},
		{"null value", map[string]any{"moving_time": nil}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractSeconds(testRecord(t, tt.fields))
			if got != tt.want {
				t.Errorf("ExtractSeconds() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestExtractLoad(t *testing.T) {
	tests := []struct {
		name   string
		fields map[string]any
		want   float64
	}{
		{"load preferred", map[string]any{"load": 75.5, "tss": 80}, 75.5},
		{"icu_training_load fallback", map[string]any{"icu_training_load": 60}, 60},
		{"training_load fallback", map[string]any{"training_load": 45.2}, 45.2},
		{"tss fallback", map[string]any{"tss": 90}, 90},
		{"string float", map[string]any{"load": "58.5"}, 58.5},
		{"garbled string skipped", map[string]any{"load": "n/a", "tss": 30}, 30},
		{"missing everything", map[string]any{}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractLoad(testRecord(t, tt.fields))
			if got != tt.want {
				t.Errorf("ExtractLoad() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCanonicalType(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Ride", "ride"},
		{"  Bike Ride ", "ride"},
		{"cycling", "ride"},
		{"Gravel Ride", "gravel ride"},
		{"Epic gravel adventure", "gravel ride"},
		{"Virtual Ride", "virtual ride"},
		{"VirtualRide", "virtual ride"},
		{"Zwift Session", "virtual ride"},
		{"indoor trainer", "virtual ride"},
		{"Run", "run"},
		{"", ""},
		{"Swim", "swim"},
	}
	for _, tt := range tests {
		got := CanonicalType(tt.input)
		if got != tt.want {
			t.Errorf("CanonicalType(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestCanonicalTypeIdempotent(t *testing.T) {
	inputs := []string{
		"Ride", "Gravel Ride", "Virtual Ride", "Zwift Session", "cycling",
		"Run", "swim", "", "Workout", "Weights", "bike", "indoor spin",
	}
	for _, s := range inputs {
		once := CanonicalType(s)
		twice := CanonicalType(once)
		if once != twice {
			t.Errorf("CanonicalType not idempotent for %q: %q != %q", s, once, twice)
		}
	}
}

func TestCanonicalRecordTypeNameFallback(t *testing.T) {
	tests := []struct {
		name   string
		fields map[string]any
		want   string
	}{
		{"type wins over name", map[string]any{"type": "Gravel Ride", "name": "Zwift intervals"}, "gravel ride"},
		{"generic workout uses name", map[string]any{"type": "Workout", "name": "Zwift 2x20"}, "virtual ride"},
		{"empty type uses name", map[string]any{"name": "Morning gravel loop"}, "gravel ride"},
		{"spin name maps to ride", map[string]any{"type": "workout", "name": "Recovery spin"}, "ride"},
		{"no hints keeps workout", map[string]any{"type": "Workout", "name": "Stretching"}, "workout"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CanonicalRecordType(testRecord(t, tt.fields))
			if got != tt.want {
				t.Errorf("CanonicalRecordType() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLocalStart(t *testing.T) {
	r := testRecord(t, map[string]any{"start_date_local": "2025-01-06T06:00", "start_date": "2025-01-06T14:00:00Z"})
	if got := LocalStart(r); got != "2025-01-06T06:00" {
		t.Fatalf("unexpected LocalStart: %q", got)
	}

	// start_date_local too short to carry a time -> fall through to start_date
	r = testRecord(t, map[string]any{"start_date_local": "2025-01-06", "start_date": "2025-01-06T14:00:00Z"})
	if got := LocalStart(r); got != "2025-01-06T14:00:00Z" {
		t.Fatalf("unexpected LocalStart fallback: %q", got)
	}

	r = testRecord(t, map[string]any{"name": "no timing"})
	if got := LocalStart(r); got != "" {
		t.Fatalf("expected empty LocalStart, got %q", got)
	}
	if got := LocalDate(r); got != "" {
		t.Fatalf("expected empty LocalDate, got %q", got)
	}
}

func TestParseLocalStart(t *testing.T) {
	tests := []struct {
		input string
		want  string // "" means nil expected
	}{
		{"2025-01-06T06:00", "2025-01-06 06:00:00"},
		{"2025-01-06T06:05:30", "2025-01-06 06:05:30"},
		{"2025-01-06T06:00:00Z", "2025-01-06 06:00:00"},
		{"2025-01-06", ""},
		{"garbage", ""},
		{"", ""},
	}
	for _, tt := range tests {
		got := ParseLocalStart(tt.input)
		if tt.want == "" {
			if got != nil {
				t.Errorf("ParseLocalStart(%q) = %v, want nil", tt.input, got)
			}
			continue
		}
		if got == nil {
			t.Errorf("ParseLocalStart(%q) = nil, want %s", tt.input, tt.want)
			continue
		}
		if got.Format("2006-01-02 15:04:05") != tt.want {
			t.Errorf("ParseLocalStart(%q) = %v, want %s", tt.input, got, tt.want)
		}
	}
}
