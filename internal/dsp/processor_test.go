package dsp

import (
	"math"
	"testing"

	"github.com/tapedeck/engine/internal/arena"
)

func newTestProcessor(t *testing.T) *Processor {
	t.Helper()
	stack := arena.NewOfSize(4096)
	sdram := arena.NewOfSize(UpperPowerOfTwo(MaxLengthSamples(SampleRate)))
	p, err := New(SampleRate, stack, sdram)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return p
}

func defaultTestAttributes() Attributes {
	var a Attributes
	a.PreAmp = 1
	a.Drive = 0.3
	a.Saturation = 0.5
	a.Width = 0.5
	a.DryWet = 0.5
	a.Tone = 0.5
	a.Heads[0] = HeadAttributes{Position: 0.3, Feedback: 0.2, Volume: 1, Pan: 0.5}
	return a
}

func TestProcessor_SilentInputAtRestProducesBoundedOutput(t *testing.T) {
	p := newTestProcessor(t)
	p.SetAttributes(defaultTestAttributes())

	var in, outL, outR Block
	random := constantRandom(0)
	for b := 0; b < 16; b++ {
		p.Process(&in, &outL, &outR, random)
		for i := range outL {
			if math.Abs(float64(outL[i])) > 1.0001 || math.Abs(float64(outR[i])) > 1.0001 {
				t.Fatalf("block %d sample %d output escaped [-1, 1]: L=%v R=%v", b, i, outL[i], outR[i])
			}
		}
	}
}

func TestProcessor_OscillatorModeProducesNonSilentOutput(t *testing.T) {
	p := newTestProcessor(t)
	attrs := defaultTestAttributes()
	attrs.PreAmpMode = PreAmpModeOscillator
	attrs.OscillatorFrequency = 220
	attrs.Heads[0].Volume = 1
	p.SetAttributes(attrs)

	var in, outL, outR Block
	random := constantRandom(0)
	var sawNonZero bool
	for b := 0; b < 64; b++ {
		p.Process(&in, &outL, &outR, random)
		for _, v := range outL {
			if v != 0 {
				sawNonZero = true
			}
		}
	}
	if !sawNonZero {
		t.Fatalf("oscillator mode never produced a non-zero sample")
	}
}

func TestProcessor_Property_OutputNeverExceedsUnitRange(t *testing.T) {
	p := newTestProcessor(t)
	attrs := defaultTestAttributes()
	attrs.PreAmp = 2
	attrs.Drive = 0.9
	attrs.Heads[0].Feedback = 0.95
	attrs.Heads[0].Volume = 1
	p.SetAttributes(attrs)

	var in, outL, outR Block
	for i := range in {
		in[i] = 1
	}
	random := constantRandom(0.3)
	for b := 0; b < 200; b++ {
		p.Process(&in, &outL, &outR, random)
		for i := range outL {
			if math.Abs(float64(outL[i])) > 1.0001 || math.Abs(float64(outR[i])) > 1.0001 {
				t.Fatalf("block %d sample %d: final hard clip invariant violated: L=%v R=%v", b, i, outL[i], outR[i])
			}
		}
	}
}
