// Package synth issues SSML synthesis requests against the speech service,
// with exponential-backoff retry on transient failures.
package synth

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/time/rate"
)

// Output format identifiers accepted by the service.
const (
	FormatMP3_24k = "audio-24khz-160kbitrate-mono-mp3"
	FormatMP3_48k = "audio-48khz-192kbitrate-mono-mp3"
	FormatWAV_24k = "riff-24khz-16bit-mono-pcm"
)

// Options configures the synthesis client.
type Options struct {
	Key          string
	Region       string
	OutputFormat string        // X-Microsoft-OutputFormat value
	MaxAttempts  int           // total attempts per unit, incl. the first
	BaseDelay    time.Duration // first backoff delay
	Jitter       time.Duration // uniform random addition per delay
	MaxDelay     time.Duration // backoff cap
	Ceiling      int           // max SSML chars accepted by the service
	MinGap       time.Duration // pacing between requests
}

// Client performs one blocking request per final unit, sequentially. The
// limiter spaces requests to respect the service's rate limits.
type Client struct {
	opt      Options
	endpoint string
	http     *http.Client
	lim      *rate.Limiter
	logger   *slog.Logger

	// injectable for tests
	sleep func(context.Context, time.Duration) error
	randf func() float64
}

func NewClient(opt Options, logger *slog.Logger) (*Client, error) {
	if opt.Key == "" || opt.Region == "" {
		return nil, fmt.Errorf("missing speech key or region")
	}
	if opt.MaxAttempts < 1 {
		opt.MaxAttempts = 5
	}
	if opt.BaseDelay <= 0 {
		opt.BaseDelay = 600 * time.Millisecond
	}
	if opt.MaxDelay <= 0 {
		opt.MaxDelay = 60 * time.Second
	}
	if opt.Ceiling <= 0 {
		opt.Ceiling = 4500
	}
	if opt.MinGap <= 0 {
		opt.MinGap = 250 * time.Millisecond
	}
	if opt.OutputFormat == "" {
		opt.OutputFormat = FormatMP3_24k
	}
	return &Client{
		opt:      opt,
		endpoint: fmt.Sprintf("https://%s.tts.speech.microsoft.com/cognitiveservices/v1", opt.Region),
		http:     &http.Client{Timeout: 2 * time.Minute},
		lim:      rate.NewLimiter(rate.Every(opt.MinGap), 1),
		logger:   logger.With(slog.String("component", "synth")),
		sleep:    sleepCtx,
		randf:    rand.Float64,
	}, nil
}

// Synthesize renders one unit to outPath. Transient failures are retried with
// delay = base * 2^(attempt-1) + uniform(0, jitter), capped at MaxDelay. A
// permanent classification or exhausted attempts fails the unit terminally.
func (c *Client) Synthesize(ctx context.Context, ssml, outPath string) error {
	if n := utf8.RuneCountInString(ssml); n > c.opt.Ceiling {
		return &SynthesisError{
			Status: http.StatusBadRequest,
			Code:   "RequestTooLarge",
			Detail: fmt.Sprintf("ssml is %d chars, ceiling is %d", n, c.opt.Ceiling),
		}
	}
	for attempt := 1; ; attempt++ {
		if err := c.lim.Wait(ctx); err != nil {
			return err
		}
		c.logger.Debug("synthesis attempt",
			slog.Int("attempt", attempt),
			slog.Int("ssml_len", utf8.RuneCountInString(ssml)),
			slog.String("out", outPath))

		err := c.once(ctx, ssml, outPath)
		if err == nil {
			return nil
		}
		serr, ok := err.(*SynthesisError)
		if !ok || !serr.Retriable || attempt >= c.opt.MaxAttempts {
			return err
		}
		delay := c.backoff(attempt)
		c.logger.Warn("synthesis canceled, retrying",
			slog.Int("attempt", attempt),
			slog.Duration("delay", delay),
			slog.String("error", serr.Error()))
		if err := c.sleep(ctx, delay); err != nil {
			return err
		}
	}
}

func (c *Client) backoff(attempt int) time.Duration {
	d := time.Duration(float64(c.opt.BaseDelay) * math.Pow(2, float64(attempt-1)))
	d += time.Duration(c.randf() * float64(c.opt.Jitter))
	if d > c.opt.MaxDelay {
		d = c.opt.MaxDelay
	}
	return d
}

func (c *Client) once(ctx context.Context, ssml, outPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(ssml))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/ssml+xml")
	req.Header.Set("Ocp-Apim-Subscription-Key", c.opt.Key)
	req.Header.Set("X-Microsoft-OutputFormat", c.opt.OutputFormat)
	req.Header.Set("User-Agent", "ttscast")

	resp, err := c.http.Do(req)
	if err != nil {
		// transport errors are transient by definition
		return &SynthesisError{Detail: err.Error(), Retriable: true}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		detail := strings.TrimSpace(string(body))
		return &SynthesisError{
			Status:    resp.StatusCode,
			Code:      resp.Header.Get("X-Microsoft-Error-Code"),
			Detail:    detail,
			Retriable: classify(resp.StatusCode, detail),
		}
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}
	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(outPath)
		return fmt.Errorf("write audio: %w", err)
	}
	return f.Close()
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
