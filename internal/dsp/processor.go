package dsp

import (
	"fmt"

	"github.com/tapedeck/engine/internal/arena"
	"github.com/tapedeck/engine/internal/dsp/fpenv"
	"github.com/tapedeck/engine/internal/dsp/hysteresis"
	"github.com/tapedeck/engine/internal/dsp/oscillator"
)

// wowBaseFrequency and flutterBaseFrequency are the engine's fixed
// internal modulation rates; only their depth and (for flutter) chance
// of engagement are exposed as attributes, matching the Attribute table
// in SPEC_FULL.md 6, which names no frequency control for either.
const (
	wowBaseFrequency     = 0.5
	flutterBaseFrequency = 6.0
)

const smoothedValueSteps = 32

// Processor owns every component of the signal chain and orchestrates
// one block at a time. It allocates nothing after construction.
type Processor struct {
	sampleRate float32

	preAmpGain  *SmoothedValue
	oscillator  *oscillator.Oscillator
	hysteresis  *hysteresis.Processor
	drive       *SmoothedValue
	saturation  *SmoothedValue
	width       *SmoothedValue
	bias        *SmoothedValue
	dryWet      *SmoothedValue

	wowFlutter *WowFlutter
	tone       *Tone
	delay      *Delay
	compressor      *Compressor
	dcBlockerLeft   *DCBlocker
	dcBlockerRight  *DCBlocker

	preAmpMode          PreAmpMode
	oscillatorFrequency float32

	scratch     Block
	modulation  Block
	outputLeft  Block
	outputRight Block
}

// New allocates every component's storage from the two arenas and
// returns a Processor ready for SetAttributes/Process calls, or an
// error if either arena is exhausted.
func New(sampleRate float32, stackArena, sdramArena *arena.Arena) (*Processor, error) {
	p := &Processor{sampleRate: sampleRate}

	p.preAmpGain = NewSmoothedValue(0, smoothedValueSteps)
	p.drive = NewSmoothedValue(0, smoothedValueSteps)
	p.saturation = NewSmoothedValue(0, smoothedValueSteps)
	p.width = NewSmoothedValue(0, smoothedValueSteps)
	p.bias = NewSmoothedValue(0, smoothedValueSteps)
	p.dryWet = NewSmoothedValue(0, smoothedValueSteps)

	p.oscillator = oscillator.New(sampleRate)

	upsamplerHistory, err := stackArena.Allocate(upsamplerHistoryLen)
	if err != nil {
		return nil, fmt.Errorf("tapedeck: allocate oversampler upsample history: %w", err)
	}
	downsamplerHistory, err := stackArena.Allocate(downsamplerHistoryLen)
	if err != nil {
		return nil, fmt.Errorf("tapedeck: allocate oversampler downsample history: %w", err)
	}
	upsampler := NewUpsampler(upsamplerHistory)
	downsampler := NewDownsampler(downsamplerHistory)
	p.hysteresis = hysteresis.NewProcessor(sampleRate*oversampleFactor, upsampler.Next, downsampler.Next)

	p.wowFlutter = NewWowFlutter(sampleRate)
	p.tone = NewTone(sampleRate)

	writeModBuffer, err := stackArena.Allocate(64)
	if err != nil {
		return nil, fmt.Errorf("tapedeck: allocate wow/flutter write buffer: %w", err)
	}
	delayBufferLen := UpperPowerOfTwo(MaxLengthSamples(sampleRate))
	delayBuffer, err := sdramArena.Allocate(delayBufferLen)
	if err != nil {
		return nil, fmt.Errorf("tapedeck: allocate delay line (%d samples): %w", delayBufferLen, err)
	}
	p.delay = NewDelay(sampleRate, delayBuffer, writeModBuffer)

	p.compressor = NewCompressor(sampleRate)
	p.dcBlockerLeft = &DCBlocker{}
	p.dcBlockerRight = &DCBlocker{}

	return p, nil
}

// SetAttributes updates SmoothedValue targets and one-shot flags. It is
// O(1) and does not process audio.
func (p *Processor) SetAttributes(attrs Attributes) {
	p.preAmpGain.Set(attrs.PreAmp)
	p.drive.Set(attrs.Drive)
	p.saturation.Set(attrs.Saturation)
	p.width.Set(attrs.Width)
	p.bias.Set(attrs.Bias)
	p.dryWet.Set(attrs.DryWet)

	p.preAmpMode = attrs.PreAmpMode
	p.oscillatorFrequency = attrs.OscillatorFrequency
	p.oscillator.SetFrequency(attrs.OscillatorFrequency)

	p.wowFlutter.SetAttributes(wowBaseFrequency, attrs.Wow, flutterBaseFrequency, attrs.FlutterDepth, attrs.FlutterChance, attrs.WowFlutterPlacement)
	p.tone.SetAttributes(attrs.Tone)

	p.delay.SetAttributes(DelayAttributes{
		Length:          attrs.Speed,
		Heads:           attrs.Heads,
		ResetImpulse:    attrs.ResetImpulse,
		RandomImpulse:   attrs.RandomImpulse,
		ResetBuffer:     attrs.ResetBuffer,
		FilterPlacement: attrs.FilterPlacement,
		Paused:          attrs.Paused,
	})
}

// Process consumes one mono input block, writes both output channels in
// place, and returns the block's Reaction. It performs no allocation,
// no locking, and calls nothing but random.
func (p *Processor) Process(inputBlock *Block, outLeft, outRight *Block, random Random) Reaction {
	restore := fpenv.Guard()
	defer restore()

	if p.preAmpMode == PreAmpModeOscillator {
		p.oscillator.Populate(p.scratch[:])
	} else {
		p.scratch = *inputBlock
	}

	preAmpGain := p.preAmpGain.Value()
	for i := range p.scratch {
		p.scratch[i] *= preAmpGain
	}
	_ = p.preAmpGain.Next()

	hysteresisParams := hysteresis.Parameters{
		Drive:      p.drive.Value(),
		Saturation: p.saturation.Value(),
		Width:      p.width.Value(),
	}
	bias := p.bias.Value()
	dryWet := p.dryWet.Value()
	var clipping bool
	for i := range p.scratch {
		out, clip := p.hysteresis.Process(p.scratch[i], bias, dryWet, hysteresisParams)
		p.scratch[i] = out
		clipping = clipping || clip
	}
	_ = p.drive.Next()
	_ = p.saturation.Next()
	_ = p.width.Next()
	_ = p.bias.Next()
	_ = p.dryWet.Next()

	p.wowFlutter.PopulateBlock(&p.modulation, random)

	delayReaction := p.delay.Process(&p.scratch, &p.outputLeft, &p.outputRight, p.tone, p.wowFlutter, &p.modulation, random)

	for i := range p.outputLeft {
		frame := Frame{L: p.outputLeft[i], R: p.outputRight[i]}
		compressed := p.compressor.Process(frame)
		p.outputLeft[i] = compressed.L
		p.outputRight[i] = compressed.R
	}

	for i := range p.outputLeft {
		p.outputLeft[i] = Clip(p.dcBlockerLeft.Process(p.outputLeft[i]))
	}
	for i := range p.outputRight {
		p.outputRight[i] = Clip(p.dcBlockerRight.Process(p.outputRight[i]))
	}

	*outLeft = p.outputLeft
	*outRight = p.outputRight

	return Reaction{
		DelayImpulse:        delayReaction.Impulse,
		HysteresisClipping:  clipping,
		NewPosition:         delayReaction.NewHeadZeroPosition,
		BufferResetProgress: delayReaction.BufferResetProgress,
	}
}
