package main

import "math"

const (
	minIF = 0.5
	maxIF = 1.15

	warmupPowerLow  = 0.5
	warmupPowerHigh = 0.75
)

// InferIF estimates an intensity factor from total load and duration:
// IF ~ sqrt(load / (100 * hours)). Implausible values are clamped into
// [0.5, 1.15] rather than rejected.
func InferIF(load float64, durationSec int) float64 {
	if durationSec <= 0 || load <= 0 {
		return 0.7
	}
	hours := float64(durationSec) / 3600.0
	ifVal := math.Sqrt(math.Max(1e-6, load/(100.0*hours)))
	return math.Min(maxIF, math.Max(minIF, ifVal))
}

// SynthesizeSteadySteps derives a warmup / steady-state / cooldown structure
// for a target duration and load. Warmup and cooldown are capped at 5 minutes
// for short workouts and 10 minutes otherwise, never more than a sixth of the
// total. A non-positive duration yields an empty structure; callers skip
// emission rather than treating that as an error. Output is fully determined
// by (duration, load).
func SynthesizeSteadySteps(load float64, durationSec int) []Step {
	if durationSec <= 0 {
		return nil
	}
	target := round3(InferIF(load, durationSec))

	rampCap := 600
	if durationSec < 1800 {
		rampCap = 300
	}
	ramp := durationSec / 6
	if ramp > rampCap {
		ramp = rampCap
	}
	steady := durationSec - 2*ramp
	if steady < 0 {
		steady = 0
	}

	var steps []Step
	if ramp > 0 {
		steps = append(steps, Step{Kind: "Warmup", Seconds: ramp, PowerLow: warmupPowerLow, PowerHigh: warmupPowerHigh})
	}
	if steady > 0 {
		steps = append(steps, Step{Kind: "SteadyState", Seconds: steady, Power: target})
	}
	if ramp > 0 {
		steps = append(steps, Step{Kind: "Cooldown", Seconds: ramp, PowerLow: warmupPowerHigh, PowerHigh: warmupPowerLow})
	}
	return steps
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
