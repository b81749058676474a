package main

import "fmt"

const loadEpsilon = 1e-6

// AdviceThresholds are the decision-table cutoffs for the next-day load
// recommendation. Kept in config rather than constants so the heuristic is
// testable with overridden values.
type AdviceThresholds struct {
	HighFatigueTSB     float64 `yaml:"high_fatigue_tsb"`     // at or below: pull back hard
	ModerateFatigueTSB float64 `yaml:"moderate_fatigue_tsb"` // at or below, plus overshoot
	FreshTSB           float64 `yaml:"fresh_tsb"`            // at or above, plus undershoot
	OvershootRatio     float64 `yaml:"overshoot_ratio"`
	UndershootRatio    float64 `yaml:"undershoot_ratio"`
	HighFatigueAdjust  float64 `yaml:"high_fatigue_adjust"`
	OvershootAdjust    float64 `yaml:"overshoot_adjust"`
	UndershootAdjust   float64 `yaml:"undershoot_adjust"`
}

// DefaultAdviceThresholds returns the conservative cutoffs the bot ships with.
func DefaultAdviceThresholds() AdviceThresholds {
	return AdviceThresholds{
		HighFatigueTSB:     -15,
		ModerateFatigueTSB: -5,
		FreshTSB:           10,
		OvershootRatio:     0.20,
		UndershootRatio:    0.30,
		HighFatigueAdjust:  -0.30,
		OvershootAdjust:    -0.18,
		UndershootAdjust:   0.12,
	}
}

// CoachAdvice derives the next-day recommendation from today's actual and
// planned load, the current wellness numbers, and tomorrow's planned load.
// Rules are evaluated in fixed priority order; the first match wins. Pure
// function of its inputs, never fails.
func CoachAdvice(actualLoad, plannedLoad float64, w Wellness, tomorrowPlanned float64, th AdviceThresholds) Advice {
	tsb := w.CTL - w.ATL
	denom := plannedLoad
	if denom < loadEpsilon {
		denom = loadEpsilon
	}
	overshoot := (actualLoad - plannedLoad) / denom
	undershoot := -overshoot

	rec := "Stick to plan."
	adjust := 0.0
	switch {
	case tsb <= th.HighFatigueTSB:
		rec = fmt.Sprintf("High fatigue (TSB %.1f). Reduce tomorrow's load ~%.0f%%.", tsb, -th.HighFatigueAdjust*100)
		adjust = th.HighFatigueAdjust
	case tsb <= th.ModerateFatigueTSB && overshoot > th.OvershootRatio:
		rec = fmt.Sprintf("Slightly in the red and overshot today. Reduce tomorrow ~%.0f%%.", -th.OvershootAdjust*100)
		adjust = th.OvershootAdjust
	case tsb >= th.FreshTSB && undershoot > th.UndershootRatio:
		rec = fmt.Sprintf("Fresh and undershot today. Optional +%.0f%% endurance time tomorrow.", th.UndershootAdjust*100)
		adjust = th.UndershootAdjust
	}

	suggested := tomorrowPlanned * (1 + adjust)
	if suggested < 0 {
		suggested = 0
	}
	return Advice{
		TSB:               tsb,
		CTL:               w.CTL,
		ATL:               w.ATL,
		RampRate:          w.RampRate,
		Recommendation:    rec,
		AdjustPct:         adjust,
		TomorrowPlanned:   tomorrowPlanned,
		TomorrowSuggested: suggested,
	}
}
