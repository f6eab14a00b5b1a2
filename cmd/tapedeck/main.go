package main

import (
	"context"
	"encoding/gob"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2/audio"

	"github.com/tapedeck/engine/internal/arena"
	"github.com/tapedeck/engine/internal/dsp"
	"github.com/tapedeck/engine/internal/syncq"
	"github.com/tapedeck/engine/internal/wavfile"
)

// CLIFlags mirrors the reference CLI's flat flag.*Var layout.
type CLIFlags struct {
	In       string
	Out      string
	Play     bool
	Preset   string
	Bench    int
	Snapshot string
}

func parseFlags() CLIFlags {
	var f CLIFlags
	flag.StringVar(&f.In, "in", "", "path to a mono 48kHz WAV input file")
	flag.StringVar(&f.Out, "out", "", "path to write the processed stereo WAV")
	flag.BoolVar(&f.Play, "play", false, "play the processed signal live through the default audio device")
	flag.StringVar(&f.Preset, "preset", "clean", "built-in attributes preset: clean, saturate, echo, feedback-decay, rewind, blend, compressor-clamp")
	flag.IntVar(&f.Bench, "bench", 0, "run N blocks headless and report per-block timing (0 disables)")
	flag.StringVar(&f.Snapshot, "snapshot", "", "path to write/read a gob-encoded run snapshot")
	flag.Parse()
	return f
}

// seededRandom is the CLI's injected dsp.Random, backed by math/rand for a
// reproducible sequence: no example repo in the pack wraps a third-party
// PRNG, each either hand-rolls a small LCG for determinism or has no
// randomness need at all, so plain math/rand is the stdlib-justified
// choice here.
type seededRandom struct {
	r *rand.Rand
}

func newSeededRandom(seed int64) *seededRandom {
	return &seededRandom{r: rand.New(rand.NewSource(seed))}
}

func (s *seededRandom) Normal() float32 { return float32(s.r.NormFloat64()) }

// runSnapshot is the gob-encoded host/test convenience §2.2 describes: it
// holds a run's random seed, preset name and Attributes, which a later run
// given the same -snapshot path reuses. Blocks is carried over from a
// snapshot read at startup (0 when none was read); the run's own block
// count is not recorded. It is not a dump of any component's internal
// float state.
type runSnapshot struct {
	Seed       int64
	Preset     string
	Attributes dsp.Attributes
	Blocks     int
}

func writeSnapshot(path string, snap runSnapshot) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gob.NewEncoder(f).Encode(snap)
}

func readSnapshot(path string) (runSnapshot, error) {
	var snap runSnapshot
	f, err := os.Open(path)
	if err != nil {
		return snap, err
	}
	defer f.Close()
	return snap, gob.NewDecoder(f).Decode(&snap)
}

func main() {
	f := parseFlags()

	attrs, ok := presets[f.Preset]
	if !ok {
		log.Fatalf("tapedeck: unknown preset %q", f.Preset)
	}

	stack := arena.NewOfSize(4096)
	sdram := arena.NewOfSize(dsp.UpperPowerOfTwo(dsp.MaxLengthSamples(dsp.SampleRate)))
	proc, err := dsp.New(dsp.SampleRate, stack, sdram)
	if err != nil {
		log.Fatalf("tapedeck: construct processor: %v", err)
	}
	proc.SetAttributes(attrs)

	seed := time.Now().UnixNano()
	var blocksFromSnapshot int
	if f.Snapshot != "" {
		if snap, err := readSnapshot(f.Snapshot); err == nil {
			log.Printf("tapedeck: replaying snapshot %s (preset=%s, %d blocks)", f.Snapshot, snap.Preset, snap.Blocks)
			seed = snap.Seed
			attrs = snap.Attributes
			proc.SetAttributes(attrs)
			blocksFromSnapshot = snap.Blocks
		}
	}
	random := newSeededRandom(seed)

	switch {
	case f.Bench > 0:
		runBench(proc, random, f.Bench)
	case f.In != "" || f.Out != "" || f.Play:
		if err := runHeadlessOrLive(proc, random, f); err != nil {
			log.Fatalf("tapedeck: %v", err)
		}
	default:
		log.Printf("tapedeck: nothing to do; pass -in/-out, -play, or -bench")
	}

	if f.Snapshot != "" {
		snap := runSnapshot{Seed: seed, Preset: f.Preset, Attributes: attrs, Blocks: blocksFromSnapshot}
		if err := writeSnapshot(f.Snapshot, snap); err != nil {
			log.Fatalf("tapedeck: write snapshot: %v", err)
		}
	}
}

func runBench(proc *dsp.Processor, random dsp.Random, blocks int) {
	var in, outL, outR dsp.Block
	var worst time.Duration
	start := time.Now()
	for i := 0; i < blocks; i++ {
		blockStart := time.Now()
		proc.Process(&in, &outL, &outR, random)
		elapsed := time.Since(blockStart)
		if elapsed > worst {
			worst = elapsed
		}
	}
	total := time.Since(start)
	log.Printf("bench: blocks=%d total=%s avg/block=%s worst/block=%s budget/block=%s",
		blocks, total.Truncate(time.Microsecond), (total / time.Duration(blocks)).Truncate(time.Microsecond),
		worst.Truncate(time.Microsecond), time.Duration(float64(dsp.BlockSize)/dsp.SampleRate*1e9))
}

// runHeadlessOrLive drives the processor from either a WAV file or
// silence, optionally writing a WAV file and/or streaming to a live
// audio device through ebiten's audio backend, reusing the reference
// repository's apuStream-shaped io.Reader bridge.
func runHeadlessOrLive(proc *dsp.Processor, random dsp.Random, f CLIFlags) error {
	var input []float32
	if f.In != "" {
		samples, format, err := wavfile.ReadMono(f.In)
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}
		if format.SampleRate != dsp.SampleRate {
			log.Printf("tapedeck: input sample rate %d does not match the engine's fixed %d; playback speed will differ", format.SampleRate, dsp.SampleRate)
		}
		input = samples
	}

	stream := &engineStream{proc: proc, random: random, input: input}

	if f.Play {
		ctx := audio.NewContext(dsp.SampleRate)
		player, err := ctx.NewPlayer(stream)
		if err != nil {
			return fmt.Errorf("create audio player: %w", err)
		}
		player.Play()
		for player.IsPlaying() {
			time.Sleep(20 * time.Millisecond)
		}
	}

	if f.Out != "" {
		var outLeft, outRight []float32
		var in, outL, outR dsp.Block
		totalBlocks := stream.outputBlocks()
		for b := 0; b < totalBlocks; b++ {
			stream.fillInputBlock(&in)
			proc.Process(&in, &outL, &outR, random)
			outLeft = append(outLeft, outL[:]...)
			outRight = append(outRight, outR[:]...)
		}
		if err := wavfile.WriteStereo(f.Out, outLeft, outRight, dsp.SampleRate); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		log.Printf("tapedeck: wrote %s (%d samples)", f.Out, len(outLeft))
	}
	return nil
}

// engineStream adapts the processor's block interface to the io.Reader
// shape ebiten's audio.Player expects, exactly as the reference
// repository's apuStream adapts its emulated APU.
type engineStream struct {
	proc   *dsp.Processor
	random dsp.Random
	input  []float32
	cursor int

	mu       sync.Mutex
	scratch  dsp.Block
	outLeft  dsp.Block
	outRight dsp.Block
}

func (s *engineStream) outputBlocks() int {
	if len(s.input) == 0 {
		return 4 * dsp.SampleRate / dsp.BlockSize // 4 seconds of silence by default
	}
	return (len(s.input) + dsp.BlockSize - 1) / dsp.BlockSize
}

func (s *engineStream) fillInputBlock(block *dsp.Block) {
	for i := range block {
		if s.cursor < len(s.input) {
			block[i] = s.input[s.cursor]
			s.cursor++
		} else {
			block[i] = 0
		}
	}
}

func (s *engineStream) Read(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	frames := len(p) / 4
	written := 0
	for written < frames {
		s.fillInputBlock(&s.scratch)
		s.proc.Process(&s.scratch, &s.outLeft, &s.outRight, s.random)
		for i := 0; i < dsp.BlockSize && written < frames; i++ {
			off := written * 4
			putInt16LE(p[off:], s.outLeft[i])
			putInt16LE(p[off+2:], s.outRight[i])
			written++
		}
	}
	return written * 4, nil
}

func putInt16LE(p []byte, x float32) {
	v := int32(x * 32767)
	if v > 32767 {
		v = 32767
	}
	if v < -32768 {
		v = -32768
	}
	p[0] = byte(v)
	p[1] = byte(v >> 8)
}

// attributeQueue/reactionQueue plumbing, demonstrating the host-side
// control/audio-callback split described in SPEC_FULL.md: attribute
// changes go in through a drop-oldest queue, telemetry comes out through
// a backpressured one. Neither is exercised by the simple one-shot CLI
// flows above; kept here as the bridge a richer control surface (MIDI,
// a UI) would build on via cmd/tapedeck as a library entry point.
var (
	_ = syncq.NewAttributeQueue[dsp.Attributes]
	_ = syncq.NewReactionQueue[dsp.Reaction]
	_ = context.Background
)
