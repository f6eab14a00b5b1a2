package dsp

import "math"

// cosLUTSize is the resolution of the shared cosine lookup table used by
// Wow and Flutter in place of calling math.Cos directly in the hot path.
const cosLUTSize = 1024

var cosLUT = buildCosLUT()

func buildCosLUT() [cosLUTSize]float32 {
	var t [cosLUTSize]float32
	for i := range t {
		t[i] = float32(math.Cos(2 * math.Pi * float64(i) / float64(cosLUTSize)))
	}
	return t
}

// lutCos looks up cos(2*pi*phase) for phase in [0,1), wrapping otherwise.
func lutCos(phase float32) float32 {
	phase -= float32(math.Floor(float64(phase)))
	index := int(phase * cosLUTSize)
	if index < 0 {
		index = 0
	}
	if index >= cosLUTSize {
		index = cosLUTSize - 1
	}
	return cosLUT[index]
}

// ornsteinUhlenbeck models brownian motion toward a moving target,
// used to shape Wow's amplitude organically instead of a fixed envelope.
type ornsteinUhlenbeck struct {
	value          float32
	sampleInterval float32
	sqrtDelta      float32
	Noise          float32
	Spring         float32
}

func newOrnsteinUhlenbeck(sampleRate float32) *ornsteinUhlenbeck {
	return &ornsteinUhlenbeck{
		sampleInterval: 1.0 / sampleRate,
		sqrtDelta:      1.0 / float32(math.Sqrt(float64(sampleRate))),
		Spring:         1.0,
	}
}

func (o *ornsteinUhlenbeck) pop(target float32, random Random) float32 {
	o.value += o.Spring * (target - o.value) * o.sampleInterval
	o.value += o.Noise * random.Normal() * o.sqrtDelta
	return o.value
}

// wow is a slow cosine oscillator whose amplitude is shaped by an
// Ornstein-Uhlenbeck process chasing the oscillator's own target value.
type wow struct {
	sampleRate float32
	phase      float32
	Frequency  float32
	Depth      float32
	amplitude  *ornsteinUhlenbeck
}

func newWow(sampleRate float32) *wow {
	w := &wow{sampleRate: sampleRate, amplitude: newOrnsteinUhlenbeck(sampleRate)}
	w.amplitude.Noise = 1.0
	return w
}

func (w *wow) pop(random Random) float32 {
	target := lutCos(w.phase) * w.Depth
	value := w.amplitude.pop(target, random)

	w.phase += w.Frequency / w.sampleRate
	if w.phase > 1 {
		w.phase -= 1
	}
	return value
}

// flutterFreqRatio2 and flutterFreqRatio3 are the two higher partial
// frequencies summed with the fundamental to build a richer, less
// mechanical flutter than a single sine.
const (
	flutterFreqRatio2 = 1.7187124
	flutterFreqRatio3 = 2.8343241
)

// flutter is a fast, three-cosine modulation source gated by a per-block
// chance-to-engage decision.
type flutter struct {
	sampleRate         float32
	phase1, phase2, phase3 float32
	Frequency          float32
	Depth              float32
	Chance             float32
	engaged            bool
}

func newFlutter(sampleRate float32) *flutter {
	return &flutter{sampleRate: sampleRate}
}

// considerEngagement runs the per-block Bernoulli trial deciding whether
// flutter is audible for the upcoming block.
func (f *flutter) considerEngagement(random Random) {
	f.engaged = diceToBool(random, f.Chance)
}

func (f *flutter) pop() float32 {
	value := lutCos(f.phase1) + lutCos(f.phase2) + lutCos(f.phase3)

	f.phase1 += f.Frequency / f.sampleRate
	f.phase2 += (f.Frequency * flutterFreqRatio2) / f.sampleRate
	f.phase3 += (f.Frequency * flutterFreqRatio3) / f.sampleRate
	for _, p := range []*float32{&f.phase1, &f.phase2, &f.phase3} {
		if *p > 1 {
			*p -= 1
		}
	}

	if !f.engaged {
		return 0
	}
	return value * f.Depth / 3
}

// diceToBool runs a Bernoulli trial with probability chance using the
// injected random source, matching the reference source's rule of
// thumb that a fresh uniform draw plus chance must clear 0.99 to fire.
func diceToBool(random Random, chance float32) bool {
	return random.Normal()+chance > 0.99
}

// WowFlutterPlacement selects which side of the delay line the
// modulation displacement is applied to.
type WowFlutterPlacement int

const (
	PlacementInput WowFlutterPlacement = iota
	PlacementRead
	PlacementBoth
)

// WowFlutter produces a per-sample delay displacement, in samples, to be
// added on top of nominal head/write positions.
type WowFlutter struct {
	sampleRate float32
	wow        *wow
	flutter    *flutter
	Placement  WowFlutterPlacement
}

// NewWowFlutter constructs the combined wow/flutter modulator.
func NewWowFlutter(sampleRate float32) *WowFlutter {
	return &WowFlutter{
		sampleRate: sampleRate,
		wow:        newWow(sampleRate),
		flutter:    newFlutter(sampleRate),
	}
}

// SetAttributes applies the latest wow/flutter attributes.
func (w *WowFlutter) SetAttributes(wowFrequency, wowDepth, flutterFrequency, flutterDepth, flutterChance float32, placement WowFlutterPlacement) {
	w.wow.Frequency = wowFrequency
	w.wow.Depth = wowDepth
	w.flutter.Frequency = flutterFrequency
	w.flutter.Depth = flutterDepth
	w.flutter.Chance = flutterChance
	w.Placement = placement
}

// PopulateBlock fills displacement, in samples, for one block; must be
// called once at the start of each block's processing, before either
// PlacementInput or PlacementRead consumers read it.
func (w *WowFlutter) PopulateBlock(displacement *Block, random Random) {
	w.flutter.considerEngagement(random)
	for i := range displacement {
		d := (w.wow.pop(random) + w.flutter.pop()) * w.sampleRate
		displacement[i] = d
	}
}
