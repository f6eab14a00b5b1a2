// Package oscillator implements the dual-sine input-replacement source
// used when the pre-amp is in Oscillator mode.
package oscillator

import "math"

// subCoefficient is the sub-oscillator's frequency ratio relative to the
// fundamental: an octave-minus-epsilon below it, producing a slow
// beating thickening rather than a clean sub-octave.
const subCoefficient = 0.499

// Oscillator is a free-running dual-sine generator with independently
// accumulated phases for its two partials.
type Oscillator struct {
	sampleRate          float32
	frequency           float32
	phaseBase, phaseSub float32
}

// New constructs an oscillator at the given sample rate, silent until
// SetFrequency is called.
func New(sampleRate float32) *Oscillator {
	return &Oscillator{sampleRate: sampleRate}
}

// SetFrequency sets the fundamental frequency in Hz.
func (o *Oscillator) SetFrequency(frequency float32) {
	o.frequency = frequency
}

// Populate fills buffer with the next len(buffer) samples.
func (o *Oscillator) Populate(buffer []float32) {
	for i := range buffer {
		xBase := float32(math.Sin(float64(o.phaseBase) * 2 * math.Pi))
		xSub := float32(math.Sin(float64(o.phaseSub) * 2 * math.Pi))
		buffer[i] = xBase + xSub

		step := o.frequency / o.sampleRate
		o.phaseBase += step
		o.phaseSub += step * subCoefficient
	}

	for o.phaseBase > 1 {
		o.phaseBase -= 1
	}
	for o.phaseSub > 1 {
		o.phaseSub -= 1
	}
}
