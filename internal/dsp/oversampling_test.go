package dsp

import (
	"math"
	"testing"
)

// Property: a constant input fed through the upsampler/downsampler pair
// settles back to (approximately) the same constant, once the shared
// FIR history has filled — the oversampling round trip is DC-transparent.
func TestOversampling_Property_DCRoundTrips(t *testing.T) {
	up := NewUpsampler(make([]float32, upsamplerHistoryLen))
	down := NewDownsampler(make([]float32, downsamplerHistoryLen))

	const input float32 = 0.4
	source := func() float32 { return input }

	var last float32
	for block := 0; block < 64; block++ {
		last = down.Next(func() float32 { return up.Next(source) })
	}

	if math.Abs(float64(last-input)) > 0.02 {
		t.Fatalf("round-tripped DC = %v, want close to %v", last, input)
	}
}

func TestUpsampler_ConsumesInputOnlyEveryFourthCall(t *testing.T) {
	calls := 0
	source := func() float32 {
		calls++
		return float32(calls)
	}
	up := NewUpsampler(make([]float32, upsamplerHistoryLen))
	for i := 0; i < oversampleFactor*5; i++ {
		up.Next(source)
	}
	if calls != 5 {
		t.Fatalf("source called %d times over %d Next calls, want %d", calls, oversampleFactor*5, 5)
	}
}

func TestDownsampler_ConsumesFourInputsPerCall(t *testing.T) {
	calls := 0
	source := func() float32 {
		calls++
		return 0
	}
	down := NewDownsampler(make([]float32, downsamplerHistoryLen))
	down.Next(source)
	if calls != oversampleFactor {
		t.Fatalf("source called %d times in one Downsampler.Next, want %d", calls, oversampleFactor)
	}
}
