package dsp

import (
	"math"
	"testing"

	"pgregory.net/rapid"
)

func TestSmoothedValue_StableUntilSet(t *testing.T) {
	sv := NewSmoothedValue(0.5, 4)
	for i := 0; i < 10; i++ {
		if got := sv.Next(); got != 0.5 {
			t.Fatalf("Next() = %v, want 0.5 before any Set", got)
		}
	}
}

func TestSmoothedValue_ReachesTargetAfterSteps(t *testing.T) {
	sv := NewSmoothedValue(0, 4)
	sv.Set(1)
	for i := 0; i < 4; i++ {
		sv.Next()
	}
	if got := sv.Value(); got != 1 {
		t.Fatalf("Value() after 4 steps of a 4-step glide = %v, want 1", got)
	}
}

func TestSmoothedValue_SetMidGlideStartsFromInFlightPosition(t *testing.T) {
	sv := NewSmoothedValue(0, 10)
	sv.Set(1)
	for i := 0; i < 5; i++ {
		sv.Next()
	}
	midway := sv.Value()
	if midway <= 0 || midway >= 1 {
		t.Fatalf("midway value %v should be strictly between 0 and 1", midway)
	}
	// Set advances the in-flight glide by one step (0.1) before
	// re-targeting, so the new glide starts from there, not from the
	// original start of 0.
	sv.Set(midway)
	want := midway + 0.1
	if got := sv.Value(); math.Abs(float64(got-want)) > 1e-5 {
		t.Fatalf("Set mid-glide should start from the in-flight value advanced one step: got %v, want %v", got, want)
	}
}

// Property: after enough Next calls following any Set, Value never
// overshoots the target and always converges to it exactly.
func TestSmoothedValue_Property_ConvergesWithoutOvershoot(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		start := rapid.Float32Range(-10, 10).Draw(t, "start")
		target := rapid.Float32Range(-10, 10).Draw(t, "target")
		steps := rapid.IntRange(1, 64).Draw(t, "steps")

		sv := NewSmoothedValue(start, steps)
		sv.Set(target)

		lo, hi := start, target
		if lo > hi {
			lo, hi = hi, lo
		}
		const epsilon = 1e-3
		for i := 0; i < steps*2; i++ {
			v := sv.Next()
			if v < lo-epsilon || v > hi+epsilon {
				t.Fatalf("Next() = %v escaped [%v, %v] bounds mid-glide", v, lo, hi)
			}
		}
		if got := sv.Value(); math.Abs(float64(got-target)) > 1e-3 {
			t.Fatalf("Value() after settling = %v, want %v", got, target)
		}
	})
}
