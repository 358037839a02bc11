package episode

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Merger assembles ordered fragments into one episode file. Multi-fragment
// merges always go through an explicit concat manifest with re-encoding;
// heterogeneous per-fragment encoding (retries, placeholders) makes raw byte
// concatenation unsafe.
type Merger struct {
	Bitrate string // MP3 re-encode bitrate, e.g. "160k"
	Logger  *slog.Logger
}

// Merge writes the episode at outPath. One fragment is copied, not merged,
// so single-unit documents keep the uniform episode naming contract. Zero
// fragments is an error and produces nothing.
func (m Merger) Merge(frags []Fragment, outPath string) error {
	if len(frags) == 0 {
		return fmt.Errorf("no fragments to merge into %s", filepath.Base(outPath))
	}
	Sort(frags)

	if len(frags) == 1 {
		return copyFile(frags[0].Path, outPath)
	}

	paths := make([]string, len(frags))
	allWAV := true
	for i, f := range frags {
		paths[i] = f.Path
		if !strings.EqualFold(filepath.Ext(f.Path), ".wav") {
			allWAV = false
		}
	}

	if allWAV && strings.EqualFold(filepath.Ext(outPath), ".wav") {
		return combineWAV(paths, outPath)
	}
	if allWAV {
		// native WAV combine, then a single re-encode to the target format
		tmp := outPath + ".tmp.wav"
		if err := combineWAV(paths, tmp); err != nil {
			return err
		}
		defer os.Remove(tmp)
		return encodeMP3(tmp, outPath, m.Bitrate)
	}
	return m.concatReencode(paths, outPath)
}

// concatReencode merges via ffmpeg's concat demuxer with a re-encode pass.
func (m Merger) concatReencode(paths []string, outPath string) error {
	exe, err := exec.LookPath("ffmpeg")
	if err != nil {
		return fmt.Errorf("ffmpeg not found for merge: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}
	manifest := filepath.Join(filepath.Dir(outPath), "concat-"+uuid.NewString()+".txt")
	var b strings.Builder
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		// concat demuxer quoting: close, escape, reopen
		fmt.Fprintf(&b, "file '%s'\n", strings.ReplaceAll(filepath.ToSlash(abs), "'", `'\''`))
	}
	if err := os.WriteFile(manifest, []byte(b.String()), 0o644); err != nil {
		return err
	}
	defer os.Remove(manifest)

	bitrate := m.Bitrate
	if bitrate == "" {
		bitrate = "160k"
	}
	cmd := exec.Command(exe, "-y", "-hide_banner", "-loglevel", "error",
		"-f", "concat", "-safe", "0", "-i", manifest,
		"-c:a", "libmp3lame", "-b:a", bitrate, outPath)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg concat: %w: %s", err, out)
	}
	if m.Logger != nil {
		m.Logger.Info("merged episode", slog.String("path", outPath), slog.Int("fragments", len(paths)))
	}
	return nil
}

func encodeMP3(wavPath, mp3Path, bitrate string) error {
	exe, err := exec.LookPath("ffmpeg")
	if err != nil {
		return fmt.Errorf("ffmpeg not found for mp3 encode: %w", err)
	}
	if bitrate == "" {
		bitrate = "160k"
	}
	cmd := exec.Command(exe, "-y", "-hide_banner", "-loglevel", "error",
		"-i", wavPath, "-vn", "-c:a", "libmp3lame", "-b:a", bitrate, mp3Path)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg encode: %w: %s", err, out)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
