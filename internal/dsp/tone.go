package dsp

// toneMaxCutoff is the upper bound of the tone filter's swept cutoff.
const toneMaxCutoff = 6000.0

// toneLog is the 22-entry log-mapping lookup table used to shape the
// tone position control into a perceptually even cutoff sweep, carried
// verbatim from the reference source's own table.
var toneLog = [22]float32{
	0.0,
	0.005,
	0.019996643,
	0.040958643,
	0.06298393,
	0.08618611,
	0.11069828,
	0.13667715,
	0.16430944,
	0.19382,
	0.225483,
	0.2596373,
	0.29670864,
	0.3372422,
	0.38195187,
	0.43179822,
	0.48811662,
	0.55284196,
	0.6289321,
	0.72124636,
	0.838632,
	1.0,
}

func logMap(position float32) float32 {
	if position < 0 {
		return 0
	}
	if position > 1 {
		return 1
	}
	arrayPosition := position * float32(len(toneLog)-1)
	indexA := int(arrayPosition)
	indexB := indexA + 1
	if indexB > len(toneLog)-1 {
		indexB = len(toneLog) - 1
	}
	remainder := arrayPosition - float32(indexA)

	value := toneLog[indexA]
	deltaToNext := toneLog[indexB] - value
	return value + deltaToNext*remainder
}

// Tone is a band-wise router around a single StateVariableFilter: below
// 0.4 it emits low-pass, above 0.6 it emits high-pass, and the middle
// band passes input through unchanged while still stepping the filter
// to keep its state warm for a smooth transition back into either band.
type Tone struct {
	svf      *StateVariableFilter
	Position float32
}

// NewTone constructs a tone filter at the given sample rate, which must
// exceed 500 Hz (design assertion: below that the state-variable filter
// becomes unstable).
func NewTone(sampleRate float32) *Tone {
	if sampleRate <= 500 {
		panic("dsp: tone filter requires sample rate > 500 Hz")
	}
	return &Tone{svf: NewStateVariableFilter(sampleRate)}
}

// SetAttributes applies the tone band position; the filter's cutoff is
// recomputed here, once per block, not on every sample.
func (t *Tone) SetAttributes(position float32) {
	t.Position = position
	if t.Position < 0.4 {
		t.svf.SetFrequency(logMap(t.Position/0.4) * toneMaxCutoff)
	} else if t.Position > 0.6 {
		t.svf.SetFrequency(logMap((t.Position-0.6)/0.4) * toneMaxCutoff)
	}
}

// Process steps the tone filter by one sample, routing to the
// appropriate response for the current band while always stepping the
// filter so its state stays warm across band changes.
func (t *Tone) Process(x float32) float32 {
	switch {
	case t.Position < 0.4:
		return t.svf.Tick(x).LowPass
	case t.Position > 0.6:
		return t.svf.Tick(x).HighPass
	default:
		t.svf.Tick(x)
		return x
	}
}
