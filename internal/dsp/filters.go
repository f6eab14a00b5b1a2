package dsp

import "math"

// SVFOutput is the four simultaneous outputs of one StateVariableFilter
// tick.
type SVFOutput struct {
	LowPass, HighPass, BandPass, BandReject float32
}

// StateVariableFilter is a two-integrator-loop topology producing all four
// standard responses from a single tick, stable for fc < sampleRate/2.
type StateVariableFilter struct {
	sampleRate float32
	f, q       float32
	low, band  float32
}

// NewStateVariableFilter constructs a filter at the given sample rate with
// an initial cutoff of zero and a Q of 0.7; call SetFrequency before use.
func NewStateVariableFilter(sampleRate float32) *StateVariableFilter {
	f := &StateVariableFilter{sampleRate: sampleRate}
	f.SetQ(0.7)
	return f
}

// SetFrequency sets the cutoff frequency in Hz.
func (s *StateVariableFilter) SetFrequency(fc float32) {
	s.f = 2 * float32(math.Sin(math.Pi*float64(fc)/float64(s.sampleRate)))
}

// SetQ sets the resonance; q is clamped to a minimum of 0.5 to stay stable.
func (s *StateVariableFilter) SetQ(qFactor float32) {
	if qFactor < 0.5 {
		qFactor = 0.5
	}
	s.q = 1.0 / qFactor
}

// Tick steps the filter by one sample and returns all four responses.
// Topology: https://www.earlevel.com/main/2003/03/02/the-digital-state-variable-filter/
func (s *StateVariableFilter) Tick(x float32) SVFOutput {
	low := s.band*s.f + s.low
	high := x - low - s.band*s.q
	band := high*s.f + s.band
	notch := high + low

	s.band = band
	s.low = low

	return SVFOutput{LowPass: low, HighPass: high, BandPass: band, BandReject: notch}
}

// LinkwitzRileyOutput is the two complementary responses of one
// LinkwitzRileyFilter tick; they sum flat across the crossover.
type LinkwitzRileyOutput struct {
	LowPass, HighPass float32
}

// LinkwitzRileyFilter is a 4th-order crossover filter, used where a band
// split needs to sum flat rather than merely attenuate the other band.
type LinkwitzRileyFilter struct {
	sampleRate     float32
	g, h           float32
	s0, s1, s2, s3 float32
}

// NewLinkwitzRileyFilter constructs a filter with an initial crossover
// frequency of 0 Hz; call SetFrequency before use.
func NewLinkwitzRileyFilter(sampleRate float32) *LinkwitzRileyFilter {
	f := &LinkwitzRileyFilter{sampleRate: sampleRate}
	f.SetFrequency(0)
	return f
}

const sqrt2 = float32(math.Sqrt2)

// SetFrequency sets the crossover frequency; frequency must be in
// [0, sampleRate/2).
func (f *LinkwitzRileyFilter) SetFrequency(frequency float32) {
	g := float32(math.Tan(math.Pi * float64(frequency) / float64(f.sampleRate)))
	f.g = g
	f.h = 1.0 / (1.0 + sqrt2*g + g*g)
}

// Tick steps the filter by one sample.
func (f *LinkwitzRileyFilter) Tick(x float32) LinkwitzRileyOutput {
	yH := (x - (sqrt2+f.g)*f.s0 - f.s1) * f.h
	tB := f.g * yH
	yB := tB + f.s0
	f.s0 = tB + yB

	tL := f.g * yB
	yL := tL + f.s1
	f.s1 = tL + yL

	yH2 := (yL - (sqrt2+f.g)*f.s2 - f.s3) * f.h
	tB2 := f.g * yH2
	yB2 := tB2 + f.s2
	f.s2 = tB2 + yB2

	tL2 := f.g * yB2
	yL2 := tL2 + f.s3
	f.s3 = tL2 + yL2

	return LinkwitzRileyOutput{
		LowPass:  yL2,
		HighPass: yL - sqrt2*yB + yH - yL2,
	}
}

// OnePoleFilter is a simple smoothing low-pass used for slow parameters.
type OnePoleFilter struct {
	yPrev  float32
	a0, b1 float32
}

// NewOnePoleFilter constructs a one-pole low-pass with cutoff in Hz.
func NewOnePoleFilter(sampleRate, cutoff float32) *OnePoleFilter {
	normalized := cutoff / sampleRate
	b1 := float32(math.Exp(-2 * math.Pi * float64(normalized)))
	return &OnePoleFilter{a0: 1 - b1, b1: b1}
}

// Tick steps the filter by one sample.
func (f *OnePoleFilter) Tick(x float32) float32 {
	f.yPrev = x*f.a0 + f.yPrev*f.b1
	return f.yPrev
}

// DCBlocker removes the DC component of a signal: y[n] = x[n] - x[n-1] +
// pole*y[n-1].
type DCBlocker struct {
	xPrev, yPrev float32
}

const dcBlockerPole = 0.995

// Process steps the blocker by one sample.
func (d *DCBlocker) Process(x float32) float32 {
	y := x - d.xPrev + dcBlockerPole*d.yPrev
	d.xPrev = x
	d.yPrev = y
	return y
}

// Clip hard-clamps a sample to [-1, 1].
func Clip(x float32) float32 {
	if x > 1 {
		return 1
	}
	if x < -1 {
		return -1
	}
	return x
}
