package main

import (
	"sort"
	"time"
)

// MatchResult is the outcome of one matching run: pairs plus the records on
// each side that nothing consumed. Absence of a match is a normal outcome,
// not an error.
type MatchResult struct {
	Pairs            []SessionPair
	UnmatchedPlanned []Record
	UnmatchedActual  []Record
}

// candidate is one actual record with its run-local index. The index is the
// identity the consumed set tracks, so two equal-looking records are still
// distinct candidates.
type candidate struct {
	idx     int
	rec     Record
	start   *time.Time
	seconds int
}

type dateTypeKey struct {
	date string
	typ  string
}

// MatchSessions pairs planned workout records against completed activities.
// Strategy precedence is fixed: exact external_id, then closest start time
// within the same (date, canonical type) bucket, then first unused record in
// that bucket when the planned side has no parseable start. Each actual
// record is consumed by at most one pair; when two planned records compete
// for the same activity, the one earlier in the input order wins.
//
// Callers pass planned records already filtered to category WORKOUT.
func MatchSessions(actual, planned []Record) MatchResult {
	byExternalID := make(map[string][]candidate)
	byDateType := make(map[dateTypeKey][]candidate)

	for i, a := range actual {
		c := candidate{idx: i, rec: a, start: RecordStart(a), seconds: ExtractSeconds(a)}
		if a.ExternalID != "" {
			byExternalID[a.ExternalID] = append(byExternalID[a.ExternalID], c)
		}
		if date := LocalDate(a); date != "" {
			key := dateTypeKey{date: date, typ: CanonicalRecordType(a)}
			byDateType[key] = append(byDateType[key], c)
		}
	}
	for _, bucket := range byExternalID {
		sortBucket(bucket)
	}
	for _, bucket := range byDateType {
		sortBucket(bucket)
	}

	consumed := make(map[int]bool)
	var pairs []SessionPair
	pairedPlanned := make(map[int]bool)

	for pi, p := range planned {
		pStart := RecordStart(p)
		var chosen *candidate
		method := ""

		if p.ExternalID != "" {
			if c := firstUnused(byExternalID[p.ExternalID], consumed); c != nil {
				chosen, method = c, "external_id"
			}
		}
		if chosen == nil {
			key := dateTypeKey{date: LocalDate(p), typ: CanonicalRecordType(p)}
			bucket := byDateType[key]
			if pStart != nil {
				if c := closestByTime(bucket, consumed, *pStart); c != nil {
					chosen, method = c, "time"
				}
			} else if c := firstUnused(bucket, consumed); c != nil {
				chosen, method = c, "type"
			}
		}

		if chosen == nil {
			continue
		}
		consumed[chosen.idx] = true
		pairedPlanned[pi] = true
		pairs = append(pairs, buildPair(p, pStart, chosen, method))
	}

	result := MatchResult{Pairs: pairs}
	for pi, p := range planned {
		if !pairedPlanned[pi] {
			result.UnmatchedPlanned = append(result.UnmatchedPlanned, p)
		}
	}
	for i, a := range actual {
		if !consumed[i] {
			result.UnmatchedActual = append(result.UnmatchedActual, a)
		}
	}
	return result
}

// sortBucket orders candidates by start time ascending with unknown starts
// last, ties broken by duration, so bucket order is reproducible run to run.
func sortBucket(bucket []candidate) {
	sort.SliceStable(bucket, func(i, j int) bool {
		a, b := bucket[i], bucket[j]
		switch {
		case a.start == nil && b.start == nil:
			return a.seconds < b.seconds
		case a.start == nil:
			return false
		case b.start == nil:
			return true
		case a.start.Equal(*b.start):
			return a.seconds < b.seconds
		default:
			return a.start.Before(*b.start)
		}
	})
}

func firstUnused(bucket []candidate, consumed map[int]bool) *candidate {
	for i := range bucket {
		if !consumed[bucket[i].idx] {
			return &bucket[i]
		}
	}
	return nil
}

// closestByTime picks the unused candidate whose start is nearest to want.
// Candidates without a parseable start never qualify for the time strategy.
func closestByTime(bucket []candidate, consumed map[int]bool, want time.Time) *candidate {
	var best *candidate
	var bestDiff time.Duration
	for i := range bucket {
		c := &bucket[i]
		if consumed[c.idx] || c.start == nil {
			continue
		}
		diff := c.start.Sub(want)
		if diff < 0 {
			diff = -diff
		}
		if best == nil || diff < bestDiff {
			best, bestDiff = c, diff
		}
	}
	return best
}

func buildPair(p Record, pStart *time.Time, c *candidate, method string) SessionPair {
	pair := SessionPair{
		PlannedName:    p.Name,
		PlannedType:    CanonicalRecordType(p),
		PlannedStart:   pStart,
		PlannedSeconds: ExtractSeconds(p),
		PlannedLoad:    ExtractLoad(p),
		ActualName:     c.rec.Name,
		ActualType:     CanonicalRecordType(c.rec),
		ActualStart:    c.start,
		ActualSeconds:  c.seconds,
		ActualLoad:     ExtractLoad(c.rec),
		Method:         method,
	}
	pair.DeltaSeconds = pair.ActualSeconds - pair.PlannedSeconds
	pair.DeltaLoad = pair.ActualLoad - pair.PlannedLoad
	if pStart != nil && c.start != nil {
		pair.DeltaStartSec = int(c.start.Sub(*pStart) / time.Second)
	}
	return pair
}
