package main

import (
	"sort"
	"strings"
)

// TypeTotals is the per-canonical-type accumulation inside an Aggregate.
type TypeTotals struct {
	Seconds int
	Load    float64
}

// Aggregate is the fold of a record set: grand totals plus per-type buckets.
// Built fresh per call; zero-valued on empty input.
type Aggregate struct {
	TotalSeconds int
	TotalLoad    float64
	ByType       map[string]TypeTotals
}

// AggregateRecords sums normalized duration and load across records, bucketed
// by canonical activity type.
func AggregateRecords(records []Record) Aggregate {
	agg := Aggregate{ByType: make(map[string]TypeTotals)}
	for _, r := range records {
		secs := ExtractSeconds(r)
		load := ExtractLoad(r)
		typ := CanonicalRecordType(r)

		agg.TotalSeconds += secs
		agg.TotalLoad += load
		bucket := agg.ByType[typ]
		bucket.Seconds += secs
		bucket.Load += load
		agg.ByType[typ] = bucket
	}
	return agg
}

// TypesBySeconds returns the aggregate's type keys ordered by time descending,
// name ascending on ties, for stable report rendering.
func (a Aggregate) TypesBySeconds() []string {
	types := make([]string, 0, len(a.ByType))
	for t := range a.ByType {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool {
		a1, a2 := a.ByType[types[i]], a.ByType[types[j]]
		if a1.Seconds != a2.Seconds {
			return a1.Seconds > a2.Seconds
		}
		return types[i] < types[j]
	})
	return types
}

// DiffByType computes actual-minus-planned per type. A type present on only
// one side is treated as zero on the other.
func DiffByType(actual, planned Aggregate) map[string]TypeTotals {
	diff := make(map[string]TypeTotals)
	for t, a := range actual.ByType {
		p := planned.ByType[t]
		diff[t] = TypeTotals{Seconds: a.Seconds - p.Seconds, Load: a.Load - p.Load}
	}
	for t, p := range planned.ByType {
		if _, seen := actual.ByType[t]; !seen {
			diff[t] = TypeTotals{Seconds: -p.Seconds, Load: -p.Load}
		}
	}
	return diff
}

// FilterPlanned keeps the records that are planned-workout candidates:
// category WORKOUT, any casing.
func FilterPlanned(events []Record) []Record {
	var planned []Record
	for _, e := range events {
		if strings.EqualFold(e.Category, "WORKOUT") {
			planned = append(planned, e)
		}
	}
	return planned
}

// FilterByType keeps records whose canonical type appears in allowed. An
// empty allow set keeps everything.
func FilterByType(records []Record, allowed map[string]bool) []Record {
	if len(allowed) == 0 {
		return records
	}
	var kept []Record
	for _, r := range records {
		if allowed[CanonicalRecordType(r)] {
			kept = append(kept, r)
		}
	}
	return kept
}
