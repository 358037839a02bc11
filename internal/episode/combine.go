package episode

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// combineWAV concatenates PCM WAV fragments into one WAV, in the order
// given (callers sort by fragment index first; lexical sorting would put
// part10 before part2). All inputs must share sample rate and channel count.
func combineWAV(inputs []string, outPath string) error {
	if len(inputs) == 0 {
		return fmt.Errorf("combineWAV: no inputs")
	}

	first, err := os.Open(inputs[0])
	if err != nil {
		return err
	}
	defer first.Close()

	dec0 := wav.NewDecoder(first)
	if !dec0.IsValidFile() {
		return fmt.Errorf("invalid WAV fragment: %s", inputs[0])
	}
	buf0, err := dec0.FullPCMBuffer()
	if err != nil {
		return fmt.Errorf("read %s: %w", inputs[0], err)
	}
	fmt0 := buf0.Format
	bitDepth := buf0.SourceBitDepth
	if bitDepth == 0 {
		bitDepth = 16
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}
	out, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer out.Close()

	enc := wav.NewEncoder(out, fmt0.SampleRate, bitDepth, fmt0.NumChannels, 1)
	defer enc.Close()

	if err := enc.Write(buf0); err != nil {
		return fmt.Errorf("write %s: %w", inputs[0], err)
	}

	for _, in := range inputs[1:] {
		f, err := os.Open(in)
		if err != nil {
			return err
		}
		dec := wav.NewDecoder(f)
		if !dec.IsValidFile() {
			f.Close()
			return fmt.Errorf("invalid WAV fragment: %s", in)
		}
		buf, err := dec.FullPCMBuffer()
		f.Close()
		if err != nil {
			return fmt.Errorf("read %s: %w", in, err)
		}
		if !sameFormat(fmt0, buf.Format) {
			return fmt.Errorf("format mismatch in %s (expected %d Hz, %d ch; got %d Hz, %d ch)",
				in, fmt0.SampleRate, fmt0.NumChannels, buf.Format.SampleRate, buf.Format.NumChannels)
		}
		if err := enc.Write(buf); err != nil {
			return fmt.Errorf("write %s: %w", in, err)
		}
	}
	return nil
}

func sameFormat(a, b *audio.Format) bool {
	return a != nil && b != nil &&
		a.SampleRate == b.SampleRate &&
		a.NumChannels == b.NumChannels
}
