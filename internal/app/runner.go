// Package app orchestrates the per-document pipeline: parse → plan →
// size-guard → synthesize → reassemble.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/vjovkovs/ttscast/internal/chunk"
	"github.com/vjovkovs/ttscast/internal/config"
	"github.com/vjovkovs/ttscast/internal/dialogue"
	"github.com/vjovkovs/ttscast/internal/episode"
	"github.com/vjovkovs/ttscast/internal/markup"
	"github.com/vjovkovs/ttscast/internal/model"
	"github.com/vjovkovs/ttscast/internal/synth"
	"github.com/vjovkovs/ttscast/internal/textproc"
)

// Synthesizer is the synthesis service boundary (implemented by
// synth.Client; faked in tests).
type Synthesizer interface {
	Synthesize(ctx context.Context, ssml, outPath string) error
}

// Summary reports one batch run. Failures lists documents that could not be
// fully produced; processing continues past them.
type Summary struct {
	Fragments int
	Episodes  []string
	Failures  []string
	Skipped   int
}

// Runner processes documents sequentially. There is no shared state across
// documents beyond the summary.
type Runner struct {
	cfg     *config.Config
	synth   Synthesizer
	builder markup.Builder
	merger  episode.Merger
	logger  *slog.Logger

	// injectable for tests
	now     func() time.Time
	sleep   func(context.Context, time.Duration) error
	silence func(path string) error
}

func NewRunner(cfg *config.Config, s Synthesizer, logger *slog.Logger) *Runner {
	r := &Runner{
		cfg:     cfg,
		synth:   s,
		builder: markup.Builder{Rate: cfg.Rate, BreakMS: cfg.BreakMS, Caps: markup.NewCapabilityTable()},
		merger:  episode.Merger{Bitrate: cfg.Bitrate(), Logger: logger},
		logger:  logger.With(slog.String("component", "runner")),
		now:     time.Now,
		sleep:   sleepCtx,
	}
	if cfg.Format == "wav" {
		r.silence = func(path string) error { return synth.WriteSilenceWAV(path, time.Second) }
	} else {
		r.silence = func(path string) error { return synth.WriteSilenceMP3(path, time.Second) }
	}
	return r
}

// Run processes every file matching the input glob, in sorted order.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	files, err := filepath.Glob(r.cfg.InputGlob)
	if err != nil {
		return Summary{}, fmt.Errorf("bad input glob %q: %w", r.cfg.InputGlob, err)
	}
	if len(files) == 0 {
		return Summary{}, fmt.Errorf("no files matched %q", r.cfg.InputGlob)
	}
	sort.Strings(files)

	if err := os.MkdirAll(r.cfg.OutDir, 0o755); err != nil {
		return Summary{}, err
	}

	var sum Summary
	for _, f := range files {
		ep, frags, err := r.processFile(ctx, f)
		sum.Fragments += frags
		switch {
		case err == nil && ep == "":
			sum.Skipped++
		case err == nil:
			sum.Episodes = append(sum.Episodes, ep)
		default:
			r.logger.Error("document failed", slog.String("file", f), slog.String("error", err.Error()))
			sum.Failures = append(sum.Failures, f)
		}
	}
	return sum, nil
}

// processFile runs the pipeline for one document. It returns the episode
// path; an empty path with nil error means the file was skipped.
func (r *Runner) processFile(ctx context.Context, path string) (string, int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", 0, err
	}
	doc, err := model.ParseDocument(string(raw), r.now)
	if err != nil {
		r.logger.Warn("skipping post", slog.String("file", path), slog.String("reason", err.Error()))
		return "", 0, nil
	}

	parser := dialogue.Parser{
		Voices: dialogue.RoleVoices{Host: r.cfg.VoiceHost, Scientist: r.cfg.VoiceScientist},
	}
	if r.cfg.StrictClean {
		parser.Clean = textproc.StrictClean
	}
	chunks := chunk.Plan(parser.Parse(doc.Body), r.cfg.MaxSentences, r.cfg.MaxChars)
	if len(chunks) == 0 {
		r.logger.Warn("no speakable content", slog.String("file", path))
		return "", 0, nil
	}

	units, err := r.expandUnits(chunks)
	if err != nil {
		return "", 0, err
	}

	base := episode.BaseName(doc.Date, doc.Title)
	ext := r.cfg.Ext()
	r.logger.Info("synthesizing document",
		slog.String("file", path),
		slog.String("base", base),
		slog.Int("chunks", len(chunks)),
		slog.Int("units", len(units)))

	var frags []episode.Fragment
	failed := 0
	for i, u := range units {
		name := episode.PartName(base, ext, u.chunkIdx, u.subIdx)
		if len(units) == 1 {
			name = episode.SingleName(base, ext)
		}
		outPath := filepath.Join(r.cfg.OutDir, name)

		synthErr := u.err
		if synthErr == nil {
			synthErr = r.synth.Synthesize(ctx, u.ssml, outPath)
		}
		if synthErr == nil {
			frags = append(frags, episode.Fragment{Path: outPath, Chunk: u.chunkIdx, Sub: u.subIdx})
		} else {
			r.logger.Error("unit failed", slog.String("out", name), slog.String("error", synthErr.Error()))
			if r.cfg.SilenceOnFail {
				if perr := r.silence(outPath); perr != nil {
					r.logger.Error("silence placeholder failed", slog.String("out", name), slog.String("error", perr.Error()))
					failed++
				} else {
					r.logger.Info("wrote silence placeholder", slog.String("out", name))
					frags = append(frags, episode.Fragment{Path: outPath, Chunk: u.chunkIdx, Sub: u.subIdx})
				}
			} else {
				failed++
			}
		}

		if r.cfg.ThrottleEvery > 0 && r.cfg.ThrottlePause > 0 && (i+1)%r.cfg.ThrottleEvery == 0 && i+1 < len(units) {
			if err := r.sleep(ctx, r.cfg.ThrottlePause); err != nil {
				return "", len(frags), err
			}
		}
	}

	if len(frags) == 0 {
		return "", 0, fmt.Errorf("no fragments produced for %s", filepath.Base(path))
	}

	fullPath := filepath.Join(r.cfg.OutDir, episode.FullName(base, ext))
	if err := r.merger.Merge(frags, fullPath); err != nil {
		return "", len(frags), fmt.Errorf("merge: %w", err)
	}
	if failed > 0 {
		return "", len(frags), fmt.Errorf("%d of %d units failed for %s", failed, len(units), filepath.Base(path))
	}
	return fullPath, len(frags), nil
}

// unit is one final rendered request. A non-nil err marks an irreducible
// oversized unit, surfaced as a permanent failure when its turn comes so the
// placeholder policy applies uniformly.
type unit struct {
	chunkIdx int
	subIdx   int
	ssml     string
	err      error
}

func (r *Runner) expandUnits(chunks []chunk.Chunk) ([]unit, error) {
	var units []unit
	for i, c := range chunks {
		subs, err := chunk.SplitOversized(c, r.builder.Build, r.cfg.Ceiling)
		var tooLong *chunk.SentenceTooLongError
		if errors.As(err, &tooLong) {
			units = append(units, unit{chunkIdx: i + 1, subIdx: 1, err: tooLong})
			continue
		}
		if err != nil {
			return nil, err
		}
		for j, sub := range subs {
			units = append(units, unit{chunkIdx: i + 1, subIdx: j + 1, ssml: r.builder.Build(sub)})
		}
	}
	return units, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
