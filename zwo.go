package main

import (
	"encoding/xml"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// Trainer workout-file markup. Fixed structure-to-XML mapping; power
// attributes are fractions of FTP.

type zwoFile struct {
	XMLName     xml.Name  `xml:"workout_file"`
	Name        string    `xml:"name"`
	Description string    `xml:"description"`
	SportType   string    `xml:"sportType"`
	Author      string    `xml:"author"`
	Tags        struct{}  `xml:"tags"`
	Workout     zwoEvents `xml:"workout"`
}

type zwoEvents struct {
	Steps []any
}

func (w zwoEvents) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	for _, step := range w.Steps {
		if err := e.Encode(step); err != nil {
			return err
		}
	}
	return e.EncodeToken(start.End())
}

type zwoWarmup struct {
	XMLName   xml.Name `xml:"Warmup"`
	Duration  int      `xml:"Duration,attr"`
	PowerLow  float64  `xml:"PowerLow,attr"`
	PowerHigh float64  `xml:"PowerHigh,attr"`
}

type zwoSteadyState struct {
	XMLName  xml.Name `xml:"SteadyState"`
	Duration int      `xml:"Duration,attr"`
	Power    float64  `xml:"Power,attr"`
}

type zwoIntervals struct {
	XMLName     xml.Name `xml:"IntervalsT"`
	Repeat      int      `xml:"Repeat,attr"`
	OnDuration  int      `xml:"OnDuration,attr"`
	OnPower     float64  `xml:"OnPower,attr"`
	OffDuration int      `xml:"OffDuration,attr"`
	OffPower    float64  `xml:"OffPower,attr"`
}

type zwoCooldown struct {
	XMLName   xml.Name `xml:"Cooldown"`
	Duration  int      `xml:"Duration,attr"`
	PowerLow  float64  `xml:"PowerLow,attr"`
	PowerHigh float64  `xml:"PowerHigh,attr"`
}

// WriteZWO writes one trainer workout file. Steps with unknown kinds are
// skipped rather than failing the whole file.
func WriteZWO(path, name, description string, steps []Step) error {
	file := zwoFile{
		Name:        name,
		Description: description,
		SportType:   "bike",
		Author:      "coachbot",
	}
	for _, s := range steps {
		switch s.Kind {
		case "Warmup":
			file.Workout.Steps = append(file.Workout.Steps, zwoWarmup{Duration: s.Seconds, PowerLow: round3(s.PowerLow), PowerHigh: round3(s.PowerHigh)})
		case "SteadyState":
			file.Workout.Steps = append(file.Workout.Steps, zwoSteadyState{Duration: s.Seconds, Power: round3(s.Power)})
		case "IntervalsT":
			file.Workout.Steps = append(file.Workout.Steps, zwoIntervals{Repeat: s.Repeat, OnDuration: s.OnSec, OnPower: round3(s.OnPower), OffDuration: s.OffSec, OffPower: round3(s.OffPower)})
		case "Cooldown":
			file.Workout.Steps = append(file.Workout.Steps, zwoCooldown{Duration: s.Seconds, PowerLow: round3(s.PowerLow), PowerHigh: round3(s.PowerHigh)})
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := xml.MarshalIndent(file, "", "  ")
	if err != nil {
		return err
	}
	out := append([]byte(xml.Header), data...)
	out = append(out, '\n')
	return os.WriteFile(path, out, 0644)
}

var unsafeFilenameRe = regexp.MustCompile(`[^\w\-.]+`)

func safeFilename(name string) string {
	s := unsafeFilenameRe.ReplaceAllString(strings.TrimSpace(name), "_")
	s = strings.Trim(s, "_.")
	if s == "" {
		return "workout"
	}
	return s
}

// GenerateZWOs writes trainer files for the indoor planned ride workouts in
// a date window. Records matching the skip pattern (free-ride style
// sessions) and records with no usable duration are skipped. Returns the
// written paths.
func GenerateZWOs(cfg Config, oldest, newest time.Time) ([]string, error) {
	events, err := FetchEvents(cfg, oldest, newest)
	if err != nil {
		return nil, err
	}

	allowed := cfg.AllowedTypeSet()
	var written []string
	for _, e := range FilterPlanned(events) {
		typ := CanonicalRecordType(e)
		if !allowed[typ] {
			continue
		}
		if !isIndoor(e, typ) {
			continue
		}
		name := strings.TrimSpace(e.Name)
		if name == "" {
			name = "Indoor Workout"
		}
		if cfg.SkipZWOName(strings.ToLower(name)) {
			log.Printf("zwo skip name=%q (skip pattern)", name)
			continue
		}

		durSec := ExtractSeconds(e)
		load := ExtractLoad(e)
		steps := DesignWorkoutSteps(cfg, name, load, durSec)
		if len(steps) == 0 {
			log.Printf("zwo skip name=%q: insufficient duration", name)
			continue
		}

		date := LocalDate(e)
		if date == "" {
			date = oldest.Format("2006-01-02")
		}
		path := filepath.Join(cfg.ZWOOutputDir, fmt.Sprintf("%s - %s.zwo", date, safeFilename(name)))
		desc := fmt.Sprintf("Generated from the training plan. Dur=%ds TSS~%.0f", durSec, load)
		if err := WriteZWO(path, fmt.Sprintf("%s - %s", date, name), desc, steps); err != nil {
			return written, fmt.Errorf("writing %s: %w", path, err)
		}
		log.Printf("zwo wrote %s", path)
		written = append(written, path)
	}
	return written, nil
}

// isIndoor treats virtual rides and trainer/indoor-named sessions as indoor.
func isIndoor(r Record, canonicalTyp string) bool {
	if canonicalTyp == "virtual ride" {
		return true
	}
	name := strings.ToLower(r.Name)
	for _, kw := range []string{"indoor", "zwift", "trainer"} {
		if strings.Contains(name, kw) {
			return true
		}
	}
	return false
}
