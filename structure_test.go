package main

import (
	"math"
	"testing"
)

func TestInferIF(t *testing.T) {
	tests := []struct {
		name     string
		load     float64
		duration int
		want     float64
	}{
		{"one hour at 80 load", 80, 3600, math.Sqrt(0.8)},
		{"degenerate duration", 80, 0, 0.7},
		{"degenerate load", 0, 3600, 0.7},
		{"clamped low", 5, 3600, 0.5},
		{"clamped high", 300, 3600, 1.15},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := InferIF(tt.load, tt.duration)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("InferIF(%v, %d) = %v, want %v", tt.load, tt.duration, got, tt.want)
			}
		})
	}
}

func TestSynthesizeSteadyStepsHour(t *testing.T) {
	steps := SynthesizeSteadySteps(80, 3600)
	if len(steps) != 3 {
		t.Fatalf("expected 3 steps, got %d", len(steps))
	}
	wu, ss, cd := steps[0], steps[1], steps[2]
	if wu.Kind != "Warmup" || wu.Seconds != 600 {
		t.Errorf("warmup = %+v, want Warmup 600s", wu)
	}
	if ss.Kind != "SteadyState" || ss.Seconds != 2400 {
		t.Errorf("steady = %+v, want SteadyState 2400s", ss)
	}
	if cd.Kind != "Cooldown" || cd.Seconds != 600 {
		t.Errorf("cooldown = %+v, want Cooldown 600s", cd)
	}
	if ss.Power < minIF || ss.Power > maxIF {
		t.Errorf("steady power %v outside [%v, %v]", ss.Power, minIF, maxIF)
	}
	if wu.PowerLow != warmupPowerLow || wu.PowerHigh != warmupPowerHigh {
		t.Errorf("warmup ramp = %v..%v, want %v..%v", wu.PowerLow, wu.PowerHigh, warmupPowerLow, warmupPowerHigh)
	}
	// cooldown ramps back down
	if cd.PowerLow != warmupPowerHigh || cd.PowerHigh != warmupPowerLow {
		t.Errorf("cooldown ramp = %v..%v, want %v..%v", cd.PowerLow, cd.PowerHigh, warmupPowerHigh, warmupPowerLow)
	}
}

func TestSynthesizeSteadyStepsShortWorkoutCap(t *testing.T) {
	// under 30 minutes the ramp cap drops to 5 minutes
	steps := SynthesizeSteadySteps(30, 1740)
	if len(steps) != 3 {
		t.Fatalf("expected 3 steps, got %d", len(steps))
	}
	if steps[0].Seconds != 290 { // 1740/6, below the 300 cap
		t.Errorf("warmup = %ds, want 290s", steps[0].Seconds)
	}

	steps = SynthesizeSteadySteps(30, 1790)
	if steps[0].Seconds != 298 {
		t.Errorf("warmup = %ds, want 298s", steps[0].Seconds)
	}
}

func TestSynthesizeSteadyStepsDurationsSum(t *testing.T) {
	for _, dur := range []int{900, 1800, 3600, 7200, 5400} {
		steps := SynthesizeSteadySteps(50, dur)
		total := 0
		for _, s := range steps {
			total += s.Seconds
		}
		if total > dur {
			t.Errorf("duration %d: steps sum to %d, must not exceed target", dur, total)
		}
		if dur-total > 2 { // integer division slack only
			t.Errorf("duration %d: steps sum to %d, too far under target", dur, total)
		}
	}
}

func TestSynthesizeSteadyStepsNonPositiveDuration(t *testing.T) {
	if steps := SynthesizeSteadySteps(60, 0); steps != nil {
		t.Errorf("expected nil steps for zero duration, got %+v", steps)
	}
	if steps := SynthesizeSteadySteps(60, -100); steps != nil {
		t.Errorf("expected nil steps for negative duration, got %+v", steps)
	}
}
