package dsp

import "math"

// oversampleFactor is the fixed 4x oversampling ratio used around the
// hysteresis stage.
const oversampleFactor = 4

// firTapCount is the length of the shared windowed-sinc low-pass table
// used by both the upsampler and the downsampler, matching the
// "symmetric low-pass, length L~32-64" guidance.
const firTapCount = 32

// firCoefficients is a Blackman-windowed sinc low-pass, cutoff at
// fs/(2*oversampleFactor) in the oversampled-rate domain, built once at
// package init rather than carried as a literal table (the exact taps
// are not load-bearing for the chain's semantics, only its passband).
var firCoefficients = buildFIRCoefficients(firTapCount, oversampleFactor)

func buildFIRCoefficients(n, factor int) [firTapCount]float32 {
	var taps [firTapCount]float32
	cutoff := 1.0 / float64(factor)
	center := float64(n-1) / 2
	for i := 0; i < n; i++ {
		x := float64(i) - center
		var sinc float64
		if x == 0 {
			sinc = cutoff
		} else {
			sinc = math.Sin(math.Pi*cutoff*x) / (math.Pi * x)
		}
		window := 0.42 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n-1)) + 0.08*math.Cos(4*math.Pi*float64(i)/float64(n-1))
		taps[i] = float32(sinc * window)
	}
	return taps
}

// upsamplerHistoryLen is a power of two covering the coefficient table's
// reach of firTapCount/oversampleFactor past input samples, satisfying the
// power-of-two-sized-history requirement for oversampling buffers.
const upsamplerHistoryLen = 64

// Upsampler raises a signal by oversampleFactor, convolving the
// zero-stuffed stream with a shared FIR table via a polyphase cycling
// offset rather than materializing the zero-stuffed signal.
type Upsampler struct {
	buffer             *RingBuffer
	coefficientsOffset int
}

// NewUpsampler allocates its history ring buffer from the given backing
// slice, whose length must be upsamplerHistoryLen.
func NewUpsampler(backing []float32) *Upsampler {
	return &Upsampler{buffer: NewRingBuffer(backing)}
}

// Next consumes one input sample when the polyphase cycle wraps and
// always emits one output sample; call it oversampleFactor times per
// input sample to get the full upsampled stream.
func (u *Upsampler) Next(nextInput func() float32) float32 {
	if u.coefficientsOffset == 0 {
		u.buffer.Write(nextInput())
	}

	var output float32
	for i := u.coefficientsOffset; i < len(firCoefficients); i += oversampleFactor {
		pastValueIndex := i / oversampleFactor
		output += u.buffer.Peek(pastValueIndex) * firCoefficients[i]
	}

	u.coefficientsOffset = (u.coefficientsOffset + 1) % oversampleFactor
	return output * float32(oversampleFactor)
}

// downsamplerHistoryLen must be a power of two at least firTapCount.
const downsamplerHistoryLen = 64

// Downsampler reduces a signal by oversampleFactor, consuming a group of
// oversampleFactor input samples per output sample via a full-length
// inner product against the shared FIR table.
type Downsampler struct {
	buffer *RingBuffer
}

// NewDownsampler allocates its history ring buffer from the given backing
// slice, whose length must be downsamplerHistoryLen.
func NewDownsampler(backing []float32) *Downsampler {
	return &Downsampler{buffer: NewRingBuffer(backing)}
}

// Next consumes oversampleFactor input samples (via nextInput) and emits
// one downsampled output sample.
func (d *Downsampler) Next(nextInput func() float32) float32 {
	for i := 0; i < oversampleFactor; i++ {
		d.buffer.Write(nextInput())
	}

	var output float32
	for i, c := range firCoefficients {
		output += d.buffer.Peek(i) * c
	}
	return output
}
