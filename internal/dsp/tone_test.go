package dsp

import "testing"

func TestLogMap_EndpointsMatchTable(t *testing.T) {
	if got := logMap(0); got != toneLog[0] {
		t.Fatalf("logMap(0) = %v, want %v", got, toneLog[0])
	}
	if got := logMap(1); got != toneLog[len(toneLog)-1] {
		t.Fatalf("logMap(1) = %v, want %v", got, toneLog[len(toneLog)-1])
	}
}

func TestLogMap_ClampsOutOfRangeInputs(t *testing.T) {
	if got := logMap(-1); got != 0 {
		t.Fatalf("logMap(-1) = %v, want 0", got)
	}
	if got := logMap(2); got != 1 {
		t.Fatalf("logMap(2) = %v, want 1", got)
	}
}

func TestTone_MiddleBandPassesInputUnchanged(t *testing.T) {
	tone := NewTone(48000)
	tone.SetAttributes(0.5)
	if got := tone.Process(0.42); got != 0.42 {
		t.Fatalf("middle band Process(0.42) = %v, want 0.42 unchanged", got)
	}
}

func TestTone_LowBandAttenuatesHighFrequencyContent(t *testing.T) {
	tone := NewTone(48000)
	tone.SetAttributes(0.0) // fully low-pass, lowest cutoff

	var sum float32
	for i := 0; i < 2000; i++ {
		x := float32(1)
		if i%2 == 1 {
			x = -1
		}
		sum += abs32(tone.Process(x))
	}
	if sum/2000 > 0.5 {
		t.Fatalf("average rectified low-pass output of a Nyquist-rate square wave = %v, want strongly attenuated", sum/2000)
	}
}

func abs32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
