// Package wavfile reads and writes 16-bit PCM WAV files. No example repo
// in the retrieved pack imports a WAV library; every one that touches WAV
// (the reference's own PCM test helper among them) hand-rolls the RIFF
// header with encoding/binary, so this package does the same.
package wavfile

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// Format describes a WAV file's PCM layout.
type Format struct {
	SampleRate    int
	NumChannels   int
	BitsPerSample int
}

// ReadMono reads a 16-bit PCM WAV file and returns its samples normalized
// to [-1, 1], downmixing to mono if the file is stereo.
func ReadMono(path string) ([]float32, Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Format{}, err
	}
	defer f.Close()

	var riffHeader [12]byte
	if _, err := io.ReadFull(f, riffHeader[:]); err != nil {
		return nil, Format{}, fmt.Errorf("wavfile: read RIFF header: %w", err)
	}
	if string(riffHeader[0:4]) != "RIFF" || string(riffHeader[8:12]) != "WAVE" {
		return nil, Format{}, fmt.Errorf("wavfile: %s is not a RIFF/WAVE file", path)
	}

	var format Format
	var samples []float32

	for {
		var chunkID [4]byte
		var chunkSize uint32
		if _, err := io.ReadFull(f, chunkID[:]); err != nil {
			if err == io.EOF {
				break
			}
			return nil, Format{}, err
		}
		if err := binary.Read(f, binary.LittleEndian, &chunkSize); err != nil {
			return nil, Format{}, err
		}

		switch string(chunkID[:]) {
		case "fmt ":
			var audioFormat, numChannels uint16
			var sampleRate, byteRate uint32
			var blockAlign, bitsPerSample uint16
			if err := binary.Read(f, binary.LittleEndian, &audioFormat); err != nil {
				return nil, Format{}, err
			}
			if err := binary.Read(f, binary.LittleEndian, &numChannels); err != nil {
				return nil, Format{}, err
			}
			if err := binary.Read(f, binary.LittleEndian, &sampleRate); err != nil {
				return nil, Format{}, err
			}
			if err := binary.Read(f, binary.LittleEndian, &byteRate); err != nil {
				return nil, Format{}, err
			}
			if err := binary.Read(f, binary.LittleEndian, &blockAlign); err != nil {
				return nil, Format{}, err
			}
			if err := binary.Read(f, binary.LittleEndian, &bitsPerSample); err != nil {
				return nil, Format{}, err
			}
			if audioFormat != 1 || bitsPerSample != 16 {
				return nil, Format{}, fmt.Errorf("wavfile: only 16-bit PCM is supported")
			}
			format = Format{SampleRate: int(sampleRate), NumChannels: int(numChannels), BitsPerSample: 16}
			if remaining := int64(chunkSize) - 16; remaining > 0 {
				if _, err := f.Seek(remaining, io.SeekCurrent); err != nil {
					return nil, Format{}, err
				}
			}

		case "data":
			raw := make([]byte, chunkSize)
			if _, err := io.ReadFull(f, raw); err != nil {
				return nil, Format{}, err
			}
			frameBytes := 2 * format.NumChannels
			frames := len(raw) / frameBytes
			samples = make([]float32, frames)
			for i := 0; i < frames; i++ {
				var sum int32
				for ch := 0; ch < format.NumChannels; ch++ {
					off := i*frameBytes + ch*2
					sum += int32(int16(binary.LittleEndian.Uint16(raw[off:])))
				}
				samples[i] = float32(sum) / float32(format.NumChannels) / 32768.0
			}

		default:
			if _, err := f.Seek(int64(chunkSize), io.SeekCurrent); err != nil {
				return nil, Format{}, err
			}
		}
	}

	if samples == nil {
		return nil, Format{}, fmt.Errorf("wavfile: %s has no data chunk", path)
	}
	return samples, format, nil
}

// WriteStereo writes left/right float32 samples in [-1, 1] as a 16-bit
// PCM stereo WAV file.
func WriteStereo(path string, left, right []float32, sampleRate int) error {
	if len(left) != len(right) {
		return fmt.Errorf("wavfile: left/right length mismatch: %d vs %d", len(left), len(right))
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	const (
		numChannels   = 2
		bitsPerSample = 16
	)
	byteRate := sampleRate * numChannels * bitsPerSample / 8
	blockAlign := numChannels * bitsPerSample / 8
	dataSize := len(left) * numChannels * 2
	fileSize := 36 + dataSize

	write := func(v any) error { return binary.Write(f, binary.LittleEndian, v) }

	if _, err := f.Write([]byte("RIFF")); err != nil {
		return err
	}
	if err := write(uint32(fileSize)); err != nil {
		return err
	}
	if _, err := f.Write([]byte("WAVE")); err != nil {
		return err
	}
	if _, err := f.Write([]byte("fmt ")); err != nil {
		return err
	}
	if err := write(uint32(16)); err != nil {
		return err
	}
	if err := write(uint16(1)); err != nil {
		return err
	}
	if err := write(uint16(numChannels)); err != nil {
		return err
	}
	if err := write(uint32(sampleRate)); err != nil {
		return err
	}
	if err := write(uint32(byteRate)); err != nil {
		return err
	}
	if err := write(uint16(blockAlign)); err != nil {
		return err
	}
	if err := write(uint16(bitsPerSample)); err != nil {
		return err
	}
	if _, err := f.Write([]byte("data")); err != nil {
		return err
	}
	if err := write(uint32(dataSize)); err != nil {
		return err
	}

	buf := make([]byte, 4)
	for i := range left {
		binary.LittleEndian.PutUint16(buf[0:], uint16(clampToInt16(left[i])))
		binary.LittleEndian.PutUint16(buf[2:], uint16(clampToInt16(right[i])))
		if _, err := f.Write(buf); err != nil {
			return err
		}
	}
	return nil
}

func clampToInt16(x float32) int16 {
	v := x * 32767.0
	if v > 32767 {
		return 32767
	}
	if v < -32768 {
		return -32768
	}
	return int16(v)
}
