package dsp

import (
	"math"
	"testing"
)

func TestFractionalDelayReader_StableReadsExactOffset(t *testing.T) {
	buf := NewRingBuffer(make([]float32, 16))
	for i := 0; i < 16; i++ {
		buf.Write(float32(i))
	}
	var r FractionalDelayReader
	r.pointer = 3 // already parked at the position SetAttributes will request
	r.SetAttributes(FractionalDelayAttributes{Position: 3, BlendSteps: 10})
	if r.kind != readerStable {
		t.Fatalf("reader classified as %v, want Stable for an arrived position", r.kind)
	}
	// Most recent sample is 15; position 3 means 3 samples behind.
	if got, want := r.Read(buf, 0), float32(12); got != want {
		t.Fatalf("Read(0) at position 3 = %v, want %v", got, want)
	}
}

func TestFractionalDelayReader_RewindAdvancesTowardTarget(t *testing.T) {
	buf := NewRingBuffer(make([]float32, 64))
	for i := 0; i < 64; i++ {
		buf.Write(float32(i))
	}
	var r FractionalDelayReader
	r.pointer = 10000 // far ahead of the target, so moving to 30 is "forward"

	forward := float32(-2.0)
	r.SetAttributes(FractionalDelayAttributes{Position: 30, RewindForward: &forward, BlendSteps: 10})
	if r.kind != readerRewinding {
		t.Fatalf("reader classified as %v, want Rewinding when a forward rewind speed is configured", r.kind)
	}
	initialDistance := r.pointer - 30
	for i := 0; i < 200000 && r.kind == readerRewinding; i++ {
		r.Read(buf, 0)
	}
	finalDistance := math.Abs(float64(r.pointer - 30))
	if finalDistance >= float64(initialDistance) {
		t.Fatalf("rewind made no progress toward the target: started %v samples away, still %v away", initialDistance, finalDistance)
	}
}

func TestFractionalDelayReader_BlendingCrossesFadeToCompletion(t *testing.T) {
	buf := NewRingBuffer(make([]float32, 16))
	for i := 0; i < 16; i++ {
		buf.Write(1)
	}
	var r FractionalDelayReader
	// First blend (from the zero-value Stable state at pointer 0) must run
	// to completion before a second SetAttributes call is honored instead
	// of ignored as "already blending".
	r.SetAttributes(FractionalDelayAttributes{Position: 2, BlendSteps: 10})
	for i := 0; i < 20; i++ {
		r.Read(buf, 0)
	}
	if !r.blendDone || r.pointer != 2 {
		t.Fatalf("first blend did not complete: done=%v pointer=%v", r.blendDone, r.pointer)
	}

	r.SetAttributes(FractionalDelayAttributes{Position: 8, BlendSteps: 10})
	if r.kind != readerBlending {
		t.Fatalf("reader classified as %v, want Blending with no rewind config", r.kind)
	}
	for i := 0; i < 20; i++ {
		r.Read(buf, 0)
	}
	if !r.blendDone {
		t.Fatalf("second blend did not complete after enough Read calls")
	}
	if r.pointer != 8 {
		t.Fatalf("pointer after blend completion = %v, want the blend target 8", r.pointer)
	}
}

func TestFractionalDelayReader_LiveBlendIsNotRestarted(t *testing.T) {
	buf := NewRingBuffer(make([]float32, 16))
	var r FractionalDelayReader
	r.SetAttributes(FractionalDelayAttributes{Position: 2, BlendSteps: 1000})
	r.SetAttributes(FractionalDelayAttributes{Position: 8, BlendSteps: 1000})
	r.Read(buf, 0) // advance the blend partway
	stepBefore := r.blendStep
	targetBefore := r.blendTarget

	r.SetAttributes(FractionalDelayAttributes{Position: 9, BlendSteps: 1000})
	if r.blendTarget != targetBefore || r.blendStep != stepBefore {
		t.Fatalf("an in-flight blend was restarted by a new SetAttributes call")
	}
}
