package dsp

// PreAmpMode selects the processor's input source.
type PreAmpMode int

const (
	PreAmpModeInput PreAmpMode = iota
	PreAmpModeOscillator
)

// Attributes is the inbound, once-per-block parameter struct the
// surrounding control layer hands to the engine. The host delivers the
// latest value each block; there is no queue of historical updates to
// replay.
type Attributes struct {
	PreAmp              float32
	Drive               float32
	Saturation          float32
	Width               float32
	Bias                float32
	DryWet              float32
	Wow                 float32
	FlutterDepth        float32
	FlutterChance       float32
	Speed               float32 // delay length, seconds
	Tone                float32
	Heads               [4]HeadAttributes
	PreAmpMode          PreAmpMode
	OscillatorFrequency float32
	FilterPlacement     FilterPlacement
	WowFlutterPlacement WowFlutterPlacement
	ResetImpulse        bool
	RandomImpulse       bool
	ResetBuffer         bool
	Paused              bool
}

// Reaction is the outbound, once-per-block telemetry struct the engine
// hands back to the surrounding control layer.
type Reaction struct {
	DelayImpulse        bool
	HysteresisClipping  bool
	NewPosition         float32 // head 0, in samples
	BufferResetProgress *uint8  // 0..=8, nil when idle
}
