package dsp

import "math"

// maxLengthSeconds is the maximum configurable delay length; the ring
// buffer backing the delay line is sized to the next power of two at or
// above maxLengthSeconds*sampleRate samples.
const maxLengthSeconds = 2.0 * 60.0

// clearChunkSamples bounds how much of the delay buffer a single block's
// worth of the background clear task may zero, so a ~2-minute SDRAM
// buffer clear never blows the per-block CPU budget.
const clearChunkSamples = 4096

// FilterPlacement selects where the tone filter sits in the delay's
// signal path.
type FilterPlacement int

const (
	FilterPlacementInput FilterPlacement = iota
	FilterPlacementFeedback
	FilterPlacementBoth
)

func (p FilterPlacement) appliesToInput() bool {
	return p == FilterPlacementInput || p == FilterPlacementBoth
}

func (p FilterPlacement) appliesToFeedback() bool {
	return p == FilterPlacementFeedback || p == FilterPlacementBoth
}

// head is one of the delay's four independently positioned playback
// heads.
type head struct {
	reader   FractionalDelayReader
	feedback float32
	volume   float32
	pan      float32
}

// HeadAttributes configures a single head for the upcoming block.
type HeadAttributes struct {
	Position       float32 // fraction of the delay length, 0..1
	Feedback       float32
	Volume         float32
	Pan            float32
	RewindForward  *float32
	RewindBackward *float32
}

// DelayAttributes configures the delay line for the upcoming block.
type DelayAttributes struct {
	Length          float32 // seconds
	Heads           [4]HeadAttributes
	ResetImpulse    bool
	RandomImpulse   bool
	ResetBuffer     bool
	FilterPlacement FilterPlacement
	Paused          bool
}

// DelayReaction is the impulse/progress telemetry emitted by Delay.Process.
type DelayReaction struct {
	Impulse              bool
	NewHeadZeroPosition  float32
	BufferResetProgress  *uint8
}

const blendSteps = 3200

// Delay owns the ring buffer, four heads, an impulse scheduler, and the
// filter placement flags; it is the largest single component in the
// chain by implementation share.
type Delay struct {
	sampleRate float32
	buffer     *RingBuffer

	writeModBuffer *RingBuffer // small modulation buffer for input-side wow/flutter

	heads [4]head

	length          float32
	impulseCursor   float32
	randomImpulse   bool
	filterPlacement FilterPlacement
	paused          bool

	clearCursor int
	clearActive bool
}

// NewDelay constructs a delay line backed by the given arena-allocated
// slices: mainBuffer must be a power-of-two slice large enough for
// maxLengthSeconds at sampleRate, writeModBuffer a small power-of-two
// scratch slice (e.g. 64 samples) for input-side wow/flutter modulation.
func NewDelay(sampleRate float32, mainBuffer, writeModBuffer []float32) *Delay {
	return &Delay{
		sampleRate:     sampleRate,
		buffer:         NewRingBuffer(mainBuffer),
		writeModBuffer: NewRingBuffer(writeModBuffer),
	}
}

// UpperPowerOfTwo rounds n up to the next power of two, matching the
// reference source's own helper, used by callers sizing the arena
// allocation passed to NewDelay.
func UpperPowerOfTwo(n int) int {
	if n <= 0 {
		return 0
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n++
	return n
}

// MaxLengthSamples returns the number of samples the delay buffer must
// be sized for before rounding up to a power of two.
func MaxLengthSamples(sampleRate float32) int {
	return int(sampleRate * maxLengthSeconds)
}

// SetAttributes reclassifies all four heads and updates placement flags
// for the upcoming block.
func (d *Delay) SetAttributes(attrs DelayAttributes) {
	if attrs.ResetImpulse {
		d.impulseCursor = 0
	}
	if attrs.ResetBuffer && !d.clearActive {
		d.clearActive = true
		d.clearCursor = 0
	}
	d.randomImpulse = attrs.RandomImpulse
	d.filterPlacement = attrs.FilterPlacement
	d.paused = attrs.Paused

	d.length = attrs.Length
	for i := range d.heads {
		h := &d.heads[i]
		ha := attrs.Heads[i]
		h.feedback = ha.Feedback
		h.volume = ha.Volume
		h.pan = ha.Pan
		h.reader.SetAttributes(FractionalDelayAttributes{
			Position:       d.length * ha.Position * d.sampleRate,
			RewindForward:  ha.RewindForward,
			RewindBackward: ha.RewindBackward,
			BlendSteps:     blendSteps,
		})
	}
}

// Process runs one block through the delay line: write (tone-on-input,
// optionally wow/flutter-displaced), then per-sample read/feedback/read
// passes, then pan split into the two output channels.
func (d *Delay) Process(input *Block, outputLeft, outputRight *Block, tone *Tone, wowFlutter *WowFlutter, modulation *Block, random Random) DelayReaction {
	if d.filterPlacement.appliesToInput() {
		for i := range input {
			input[i] = tone.Process(input[i])
		}
	}

	applyInputMod := wowFlutter != nil && (wowFlutter.Placement == PlacementInput || wowFlutter.Placement == PlacementBoth)
	applyReadMod := wowFlutter != nil && (wowFlutter.Placement == PlacementRead || wowFlutter.Placement == PlacementBoth)

	if !d.paused {
		for i, x := range input {
			if applyInputMod {
				d.writeModBuffer.Write(x)
				disp := modulation[i]
				x = d.writeModBuffer.Peek(int(disp))
			}
			d.buffer.Write(x)
		}
	}

	if d.clearActive {
		d.runClearChunk()
	}

	for i := range outputLeft {
		age := len(outputLeft) - i

		var feedback float32
		for hi := range d.heads {
			h := &d.heads[hi]
			mod := float32(0)
			if applyReadMod {
				mod = modulation[i]
			}
			feedback += h.reader.readWithModulation(d.buffer, age, mod) * h.feedback
		}
		if d.filterPlacement.appliesToFeedback() {
			feedback = tone.Process(feedback)
		}
		*d.buffer.PeekMut(age) += feedback

		var left, right float32
		for hi := range d.heads {
			h := &d.heads[hi]
			mod := float32(0)
			if applyReadMod {
				mod = modulation[i]
			}
			value := h.reader.readWithModulation(d.buffer, age, mod)
			amplified := value * h.volume
			left += amplified * (1 - h.pan)
			right += amplified * h.pan
		}
		outputLeft[i] = left
		outputRight[i] = right
	}

	impulse := d.considerImpulse(len(input), random)

	var progress *uint8
	if d.clearActive {
		p := uint8(d.clearCursor * 8 / d.buffer.Len())
		progress = &p
	}

	return DelayReaction{
		Impulse:             impulse,
		NewHeadZeroPosition: d.heads[0].reader.Position(),
		BufferResetProgress: progress,
	}
}

func (d *Delay) runClearChunk() {
	n := d.buffer.Len()
	for i := 0; i < clearChunkSamples; i++ {
		*d.buffer.PeekMut(d.clearCursor) = 0
		d.clearCursor++
		if d.clearCursor >= n {
			d.clearCursor = 0
			d.clearActive = false
			return
		}
	}
}

func (d *Delay) considerImpulse(traversedSamples int, random Random) bool {
	if d.length < math.SmallestNonzeroFloat32 {
		return false
	}

	initialCursor := d.impulseCursor
	d.impulseCursor += float32(traversedSamples) / d.sampleRate
	for d.impulseCursor > d.length {
		d.impulseCursor -= d.length
	}

	var impulse bool
	for i := range d.heads {
		h := &d.heads[i]
		if h.volume < 0.01 {
			continue
		}
		headPosition := h.reader.Position() / d.sampleRate
		var crossed bool
		if initialCursor > d.impulseCursor {
			crossed = headPosition >= initialCursor || headPosition < d.impulseCursor
		} else {
			crossed = initialCursor <= headPosition && headPosition < d.impulseCursor
		}
		chance := true
		if d.randomImpulse {
			chance = diceToBool(random, h.volume)
		}
		impulse = impulse || (crossed && chance)
	}
	return impulse
}
