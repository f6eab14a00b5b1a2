package dsp

// BlockSize is the fixed number of samples processed per call, matching
// the 32-sample block contract the engine is built around.
const BlockSize = 32

// SampleRate is the fixed audio sample rate the engine runs at.
const SampleRate = 48000

// Frame is a single dual-mono (left, right) sample pair.
type Frame struct {
	L, R float32
}

// Block is a fixed-length mono sample buffer.
type Block [BlockSize]float32

// StereoBlock is a fixed-length stereo sample buffer.
type StereoBlock [BlockSize]Frame
