package dsp

import "math"

type readerStateKind int

const (
	readerStable readerStateKind = iota
	readerRewinding
	readerBlending
)

// FractionalDelayReader is a per-head read position with three possible
// states: parked (Stable), continuously chasing a new target at a bounded
// speed with inertia (Rewinding), or instantly cross-fading to a new
// target (Blending). It is modeled as a single struct with a discriminant
// rather than an interface, so no state transition allocates or costs a
// dynamic dispatch.
type FractionalDelayReader struct {
	pointer float32
	kind    readerStateKind

	// Rewinding fields.
	relativeSpeed  float32
	targetPosition float32
	rewindSpeed    float32

	// Blending fields.
	blendTarget   float32
	currentVolume float32
	targetVolume  float32
	blendStep     float32
	blendDone     bool
}

// Position reports the reader's current pointer, in samples, for
// telemetry (the Reaction struct's new_position field).
func (f *FractionalDelayReader) Position() float32 { return f.pointer }

// Read returns one sample at the given in-block age offset, advancing
// any in-flight rewind or blend by one step.
func (f *FractionalDelayReader) Read(buffer *RingBuffer, age int) float32 {
	switch f.kind {
	case readerStable:
		return buffer.Peek(int(f.pointer) + age)

	case readerRewinding:
		a := buffer.Peek(int(f.pointer) + age)
		b := buffer.Peek(int(f.pointer) + 1 + age)
		frac := f.pointer - float32(math.Floor(float64(f.pointer)))
		x := a + (b-a)*frac

		f.pointer += f.relativeSpeed

		if hasCrossedTarget(f.pointer, f.targetPosition, f.rewindSpeed) {
			f.pointer = f.targetPosition
		} else {
			reflectInertiaOnRelativeSpeed(&f.relativeSpeed, f.pointer, f.targetPosition, f.rewindSpeed)
		}
		return x

	default: // readerBlending
		x := buffer.Peek(int(f.pointer) + age)
		y := buffer.Peek(int(f.blendTarget) + age)
		out := x*f.currentVolume + y*f.targetVolume

		if relativeEq(f.targetVolume, 1.0, 0.0001) {
			f.pointer = f.blendTarget
			f.blendDone = true
		} else {
			f.currentVolume -= f.blendStep
			f.targetVolume += f.blendStep
		}
		return out
	}
}

// readWithModulation applies wow/flutter's per-sample displacement (in
// samples) on top of the reader's position. In the Stable case this is an
// exact fractional re-read at pointer+mod; while Rewinding or Blending the
// modulation is ignored and the call behaves exactly like Read.
func (f *FractionalDelayReader) readWithModulation(buffer *RingBuffer, age int, mod float32) float32 {
	if mod == 0 {
		return f.Read(buffer, age)
	}
	if f.kind != readerStable {
		return f.Read(buffer, age)
	}
	p := f.pointer + mod
	base := int(math.Floor(float64(p)))
	frac := p - float32(base)
	a := buffer.Peek(base + age)
	b := buffer.Peek(base + 1 + age)
	return a + (b-a)*frac
}

// FractionalDelayAttributes configures the reader's next-state
// classification; must be applied once per block for the state machine
// to progress correctly (reads re-derive state only implicitly via
// their own fields, not by re-inspecting attributes).
type FractionalDelayAttributes struct {
	Position       float32
	RewindForward  *float32
	RewindBackward *float32
	BlendSteps     int
}

// SetAttributes reclassifies the reader's state for the upcoming block,
// per the rules: arrived -> Stable; a configured rewind speed for the
// direction of travel -> Rewinding (preserving in-flight relative speed
// if already rewinding); otherwise -> Blending (only reinitializing a
// blend already in flight once it is done, so a live cross-fade is never
// restarted mid-fade).
func (f *FractionalDelayReader) SetAttributes(attrs FractionalDelayAttributes) {
	distance := float32(math.Abs(float64(attrs.Position - f.pointer)))
	if distance < 0.001 {
		f.kind = readerStable
		f.pointer = attrs.Position
		return
	}

	travellingForward := attrs.Position < f.pointer
	var rewindConfig *float32
	if travellingForward {
		rewindConfig = attrs.RewindForward
	} else {
		rewindConfig = attrs.RewindBackward
	}

	if rewindConfig != nil {
		wasRewinding := f.kind == readerRewinding
		relative := float32(0)
		if wasRewinding {
			relative = f.relativeSpeed
		}
		f.kind = readerRewinding
		f.relativeSpeed = relative
		f.targetPosition = attrs.Position
		f.rewindSpeed = *rewindConfig
		return
	}

	if f.kind == readerBlending && !f.blendDone {
		return
	}
	f.kind = readerBlending
	f.blendTarget = attrs.Position
	f.currentVolume = 1.0
	f.targetVolume = 0.0
	f.blendStep = 1.0 / float32(attrs.BlendSteps)
	f.blendDone = false
}

func hasCrossedTarget(currentPosition, targetPosition, rewindSpeed float32) bool {
	return (rewindSpeed >= 0 && currentPosition > targetPosition) ||
		(rewindSpeed < 0 && currentPosition < targetPosition)
}

func reflectInertiaOnRelativeSpeed(relativeSpeed *float32, currentPosition, targetPosition, rewindSpeed float32) {
	distance := float32(math.Abs(float64(targetPosition - currentPosition)))
	switch {
	case distance < 0.1*SampleRate:
		acceleration := signum(*relativeSpeed) * (*relativeSpeed) * (*relativeSpeed) / (2*distance + 1)
		*relativeSpeed -= acceleration
	case rewindSpeed >= 0 && *relativeSpeed < rewindSpeed:
		if rewindSpeed < 0.9 {
			*relativeSpeed += 0.00001
		} else {
			*relativeSpeed += 0.001
		}
	case rewindSpeed < 0 && *relativeSpeed > rewindSpeed:
		if rewindSpeed > -0.9 {
			*relativeSpeed -= 0.00001
		} else {
			*relativeSpeed -= 0.001
		}
	}
}

func signum(x float32) float32 {
	if x >= 0 {
		return 1
	}
	return -1
}

func relativeEq(a, b, epsilon float32) bool {
	return float32(math.Abs(float64(a-b))) < epsilon
}
