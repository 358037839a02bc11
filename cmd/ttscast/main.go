// ttscast converts structured text posts into narrated audio episodes via
// the speech synthesis service, chunking each post under the service's
// request-size ceiling and merging the fragments back into one file.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/vjovkovs/ttscast/internal/app"
	"github.com/vjovkovs/ttscast/internal/config"
	"github.com/vjovkovs/ttscast/internal/episode"
	"github.com/vjovkovs/ttscast/internal/synth"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil)).
		With(slog.String("run", uuid.NewString()[:8]))

	if err := run(context.Background(), cfg, logger); err != nil {
		logger.Error("run failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	client, err := synth.NewClient(synth.Options{
		Key:          cfg.SpeechKey,
		Region:       cfg.SpeechRegion,
		OutputFormat: cfg.OutputFormat(),
		MaxAttempts:  cfg.MaxAttempts,
		BaseDelay:    cfg.RetryBase,
		Jitter:       cfg.RetryJitter,
		MaxDelay:     cfg.MaxRetryDelay,
		Ceiling:      cfg.Ceiling,
	}, logger)
	if err != nil {
		return err
	}

	sum, err := app.NewRunner(cfg, client, logger).Run(ctx)
	if err != nil {
		return err
	}

	logger.Info("batch finished",
		slog.Int("fragments", sum.Fragments),
		slog.Int("episodes", len(sum.Episodes)),
		slog.Int("skipped", sum.Skipped),
		slog.Int("failed", len(sum.Failures)))

	if cfg.OnlyFull && len(sum.Episodes) > 0 {
		if err := os.MkdirAll(cfg.PublishDir, 0o755); err != nil {
			return fmt.Errorf("publish dir: %w", err)
		}
		if err := episode.Publish(sum.Episodes, cfg.PublishDir); err != nil {
			// the artifacts themselves are fine; report and keep going
			logger.Error("publish failed", slog.String("error", err.Error()))
		} else {
			logger.Info("published episodes", slog.String("dir", cfg.PublishDir), slog.Int("count", len(sum.Episodes)))
		}
	}

	if sum.Fragments == 0 {
		return fmt.Errorf("no audio produced")
	}
	if len(sum.Failures) > 0 {
		return fmt.Errorf("%d post(s) failed: %s", len(sum.Failures), strings.Join(sum.Failures, ", "))
	}
	return nil
}
