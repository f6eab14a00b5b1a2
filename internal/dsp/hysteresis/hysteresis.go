// Package hysteresis implements the Jiles-Atherton magnetisation model
// used to emulate magnetic tape saturation, plus the wrapper that clamps,
// oversamples, and dry/wet-mixes it for use in the signal chain.
package hysteresis

import "math"

const (
	// kConstant and alphaConstant are the two fixed Jiles-Atherton
	// constants used throughout the simulation.
	kConstant     = 0.47875
	alphaConstant = 1.6e-3

	// dAlpha tunes the trapezoidal differentiator used to estimate the
	// field derivative from successive applied-field samples.
	dAlpha = 0.75

	// divergenceLimit is the |m| bound past which the integrator is
	// considered to have diverged and its state is reset.
	divergenceLimit = 20
)

// Parameters are the external, [0,1]-style hysteresis controls mapped
// into simulation-space constants.
type Parameters struct {
	Drive, Saturation, Width float32
}

// mapped returns the simulation-space a, ms, c constants for the given
// external parameters.
func (p Parameters) mapped() (a, ms, c float32) {
	ms = 0.5 + 1.5*(1-p.Saturation)
	a = ms / (0.01 + 6*p.Drive)
	c = float32(math.Sqrt(float64(1-p.Width))) - 0.01
	return a, ms, c
}

// Simulation integrates the Jiles-Atherton differential equation for
// magnetisation m(t) given a driving field h(t), using an RK2 stepper at
// period t = 1/sampleRate.
type Simulation struct {
	sampleRate float32

	mPrev, hPrev, hDotPrev float32
	xPrev, xDotPrev        float32
}

// NewSimulation constructs a simulation at the given (oversampled) rate.
func NewSimulation(sampleRate float32) *Simulation {
	return &Simulation{sampleRate: sampleRate}
}

// langevin evaluates coth(q) - 1/q, the Langevin function, using a small
// series expansion near q=0 to avoid the removable singularity.
func langevin(q float32) float32 {
	if math.Abs(float64(q)) < 1e-4 {
		return q / 3
	}
	return 1/float32(math.Tanh(float64(q))) - 1/q
}

// langevinPrime evaluates the derivative of the Langevin function,
// 1/q^2 - 1/sinh^2(q), with its q->0 limit of 1/3.
func langevinPrime(q float32) float32 {
	if math.Abs(float64(q)) < 1e-4 {
		return 1.0 / 3.0
	}
	sinh := float32(math.Sinh(float64(q)))
	return 1/(q*q) - 1/(sinh*sinh)
}

// derivative evaluates dm/dt given the current state and applied field
// h with derivative hDot.
func derivative(m, h, hDot float32, a, ms, c float32) float32 {
	q := (h + alphaConstant*m) / a
	l := langevin(q)
	lPrime := langevinPrime(q)

	deltaS := float32(1)
	if hDot < 0 {
		deltaS = -1
	}
	var deltaM float32
	if sign(deltaS) == sign(ms*l-m) {
		deltaM = 1
	}

	numerator := (1-c)*deltaM*(ms*l-m)/((1-c)*deltaS*kConstant-alphaConstant*(ms*l-m)) + c*(ms/a)*hDot*lPrime
	denominator := 1 - c*alphaConstant*(ms/a)*lPrime
	return numerator / denominator
}

func sign(x float32) float32 {
	if x < 0 {
		return -1
	}
	if x > 0 {
		return 1
	}
	return 0
}

// Step integrates one sample of applied field x, returning the resulting
// magnetisation.
func (s *Simulation) Step(x float32, params Parameters) float32 {
	a, ms, c := params.mapped()

	t := 1.0 / s.sampleRate

	// Inversion of trapezoidal integration, differentiating the applied field.
	xDot := ((1+dAlpha)/t)*(x-s.xPrev) - dAlpha*s.xDotPrev
	s.xPrev = x
	s.xDotPrev = xDot

	h := x
	hDot := xDot

	k1 := t * derivative(s.mPrev, s.hPrev, s.hDotPrev, a, ms, c)
	k2 := t * derivative(s.mPrev+k1/2, (h+s.hPrev)/2, (hDot+s.hDotPrev)/2, a, ms, c)
	m := s.mPrev + k2

	if math.Abs(float64(m)) > divergenceLimit {
		m = 0
		hDot = 0
	}

	s.mPrev = m
	s.hPrev = h
	s.hDotPrev = hDot

	return m
}

// makeupGain coefficients, carried verbatim from the fitted-quadratic
// surface the original make-up-gain model was selected through.
const (
	makeupA1 = 1.3679277
	makeupA2 = 0.91246617
	makeupA3 = -1.4378611
	makeupA4 = 1.1241058
	makeupA5 = -0.9857492
	makeupA6 = -0.0668805
	makeupA7 = 3.6736982
	makeupA8 = 1.4908359
	makeupA9 = 0.032865584
	makeupB  = 0.3650935
)

// makeupGain returns the fitted closed-form make-up gain factor for the
// given external drive/saturation/width controls. The fit already yields
// the gain itself (not its reciprocal).
func makeupGain(drive, saturation, width float32) float32 {
	numerator := (makeupA1 + makeupA2*drive + makeupA3*width*width) *
		(makeupA4 + makeupA5*saturation + makeupA6*saturation*saturation)
	denominator := makeupA7 + makeupA8*width + makeupA9*drive*drive
	return 1.0 / (numerator/denominator + makeupB)
}

const amplitudeLimit = 2.0

// Processor wraps Simulation with the input clamp, oversampling, and
// dry/wet mix the signal chain actually uses.
type Processor struct {
	sim                   *Simulation
	upsampler, downsampler func(nextInput func() float32) float32
}

// NewProcessor wires a simulation running at sampleRate*factor against
// caller-provided up/downsampling steppers (kept as closures so the
// package does not import the enclosing dsp package and create a cycle;
// the Processor in package dsp supplies them).
func NewProcessor(oversampledSampleRate float32, upsample, downsample func(nextInput func() float32) float32) *Processor {
	return &Processor{
		sim:        NewSimulation(oversampledSampleRate),
		upsampler:  upsample,
		downsampler: downsample,
	}
}

// Process runs one sample through clamp -> upsample -> integrate ->
// downsample -> makeup -> dry/wet mix, reporting whether the input
// exceeded the clamp.
func (p *Processor) Process(x, bias, dryWet float32, params Parameters) (out float32, clipping bool) {
	driven := x + bias
	clamped := driven
	if clamped > amplitudeLimit {
		clamped = amplitudeLimit
		clipping = true
	} else if clamped < -amplitudeLimit {
		clamped = -amplitudeLimit
		clipping = true
	}

	wetOversampled := p.downsampler(func() float32 {
		return p.sim.Step(p.upsampler(func() float32 { return clamped }), params)
	})

	makeup := makeupGain(params.Drive, params.Saturation, params.Width)
	wet := wetOversampled * makeup

	return clamped*(1-dryWet) + wet*dryWet*0.5, clipping
}
