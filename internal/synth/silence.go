package synth

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const silenceSampleRate = 24000

// WriteSilenceWAV writes d of mono 16-bit silence at path, for use as a
// placeholder fragment when a unit fails terminally and the run opted in to
// degraded mode.
func WriteSilenceWAV(path string, d time.Duration) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	frames := int(float64(silenceSampleRate) * d.Seconds())
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: silenceSampleRate},
		Data:           make([]int, frames),
		SourceBitDepth: 16,
	}
	enc := wav.NewEncoder(f, silenceSampleRate, 16, 1, 1)
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("write silence: %w", err)
	}
	return enc.Close()
}

// WriteSilenceMP3 shells out to ffmpeg's anullsrc source; there is no native
// MP3 encoder in the stack.
func WriteSilenceMP3(path string, d time.Duration) error {
	exe, err := exec.LookPath("ffmpeg")
	if err != nil {
		return fmt.Errorf("ffmpeg not found for silence placeholder: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	cmd := exec.Command(exe, "-y", "-f", "lavfi",
		"-i", fmt.Sprintf("anullsrc=channel_layout=mono:sample_rate=%d", silenceSampleRate),
		"-t", fmt.Sprintf("%.2f", d.Seconds()),
		"-q:a", "9", path)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg silence: %w: %s", err, out)
	}
	return nil
}
