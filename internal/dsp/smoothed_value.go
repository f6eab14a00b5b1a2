package dsp

// SmoothedValue glides between values set by a slower control loop over a
// fixed number of steps, so parameter changes never click.
type SmoothedValue struct {
	step  float32
	stateFrom, stateTo float32
	phase float32
	stable bool
}

// NewSmoothedValue creates a value stable at v, converging to any new
// target over steps calls to Next.
func NewSmoothedValue(v float32, steps int) *SmoothedValue {
	return &SmoothedValue{
		step:   1.0 / float32(steps),
		stateFrom: v,
		stateTo:   v,
		stable: true,
	}
}

// Set starts a glide toward value. If a glide is already in flight, its
// current interpolated position (not its original start) becomes the new
// glide's starting point, matching the original source's set() semantics:
// it calls next() once before installing the new target.
func (s *SmoothedValue) Set(value float32) {
	current := s.next()
	s.stateFrom = current
	s.stateTo = value
	s.phase = 0
	s.stable = current == value
}

// Value returns the current interpolated value without advancing state.
func (s *SmoothedValue) Value() float32 {
	if s.stable {
		return s.stateTo
	}
	return s.stateFrom + (s.stateTo-s.stateFrom)*s.phase
}

// next advances the glide by one step and returns the resulting value.
func (s *SmoothedValue) next() float32 {
	if !s.stable {
		s.phase += s.step
		if s.phase >= 1.0 {
			s.stable = true
			s.stateFrom = s.stateTo
			s.phase = 0
		}
	}
	return s.Value()
}

// Next advances the glide by one step and returns the resulting value. It
// is exported so callers stepping a parameter once per sample (rather than
// once per block) can reuse it directly.
func (s *SmoothedValue) Next() float32 { return s.next() }
