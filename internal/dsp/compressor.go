package dsp

import "math"

const (
	compressorAttackSeconds  = 0.01
	compressorReleaseSeconds = 0.14
	compressorThresholdDB    = -12.0
	compressorRatio          = 16.0
	compressorSlope          = 1.0/compressorRatio - 1.0
	compressorKnee           = 6.0
	compressorKneeHalf       = compressorKnee / 2.0
)

// Compressor is a soft-knee, dB-domain dynamics processor with a single
// envelope follower driven by the larger of the two channels' absolute
// levels and applied to both, generalizing the reference source's mono
// detector to the engine's stereo output stage.
type Compressor struct {
	envelope     float32
	alphaAttack  float32
	alphaRelease float32
}

// NewCompressor precomputes the attack/release envelope coefficients for
// the given sample rate.
func NewCompressor(sampleRate float32) *Compressor {
	return &Compressor{
		alphaAttack:  float32(math.Exp(-1 / (float64(sampleRate) * compressorAttackSeconds))),
		alphaRelease: float32(math.Exp(-1 / (float64(sampleRate) * compressorReleaseSeconds))),
	}
}

// Process steps the compressor by one stereo frame, returning the
// gain-reduced frame.
func (c *Compressor) Process(frame Frame) Frame {
	level := maxFloat32(absFloat32(frame.L), absFloat32(frame.R), 1e-6)
	levelDB := 20 * log10f32(level)

	overshoot := levelDB - compressorThresholdDB
	var compression float32
	switch {
	case overshoot < -compressorKneeHalf:
		compression = 0
	case overshoot < compressorKneeHalf:
		compression = 0.5 * compressorSlope * (overshoot + compressorKneeHalf) * (overshoot + compressorKneeHalf) / compressorKnee
	default:
		compression = compressorSlope * overshoot
	}

	var filtered float32
	if compression < c.envelope {
		filtered = c.alphaAttack*c.envelope + (1-c.alphaAttack)*compression
	} else {
		filtered = c.alphaRelease*c.envelope + (1-c.alphaRelease)*compression
	}
	c.envelope = filtered

	gain := float32(math.Pow(10, float64(filtered)/20))
	return Frame{L: frame.L * gain, R: frame.R * gain}
}

func absFloat32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

func maxFloat32(values ...float32) float32 {
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

func log10f32(x float32) float32 {
	return float32(math.Log10(float64(x)))
}
