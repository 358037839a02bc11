// Package config builds the immutable per-run configuration from flags,
// environment variables, and defaults, in that precedence order.
package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/vjovkovs/ttscast/internal/markup"
	"github.com/vjovkovs/ttscast/internal/synth"
)

// Config is constructed once by Load and passed explicitly to every
// component. No ambient state.
type Config struct {
	InputGlob  string
	OutDir     string
	PublishDir string

	MaxSentences int
	MaxChars     int
	BreakMS      int
	Rate         string
	Ceiling      int

	VoiceHost      string
	VoiceScientist string

	Format string // "mp3" or "wav"
	Use48K bool

	MaxAttempts   int
	RetryBase     time.Duration
	RetryJitter   time.Duration
	MaxRetryDelay time.Duration

	ThrottleEvery int // extra pause every N units; 0 disables
	ThrottlePause time.Duration

	SilenceOnFail bool
	OnlyFull      bool
	StrictClean   bool

	SpeechKey    string
	SpeechRegion string
}

// Load parses args (without the program name). A .env file in the working
// directory is honored when present.
func Load(args []string) (*Config, error) {
	_ = godotenv.Load()

	fs := flag.NewFlagSet("ttscast", flag.ContinueOnError)
	cfg := &Config{}

	fs.StringVar(&cfg.InputGlob, "input-glob", envStr("INPUT_GLOB", "posts/*.txt"), "Glob of input .txt posts")
	fs.StringVar(&cfg.OutDir, "out-dir", envStr("OUT_DIR", "tts_out"), "Output directory")
	fs.StringVar(&cfg.PublishDir, "publish-dir", envStr("PUBLISH_DIR", "docs/audio"), "Publish directory for merged episodes")

	fs.IntVar(&cfg.MaxSentences, "max-sents", envInt("MAX_SENTS", 20), "Max sentences per chunk")
	fs.IntVar(&cfg.MaxChars, "max-chars", envInt("MAX_CHARS", 900), "Max characters per chunk")
	fs.IntVar(&cfg.BreakMS, "break-ms", envInt("BREAK_MS", 250), "Pause between sentences (ms)")
	fs.StringVar(&cfg.Rate, "rate", envStr("SPEED", "30%"), "Prosody rate")
	fs.IntVar(&cfg.Ceiling, "ceiling", envInt("SSML_MAX_LEN", 4500), "Hard SSML length ceiling (chars)")

	fs.StringVar(&cfg.VoiceHost, "voice-host", envStr("VOICE_HOST", "en-US-JennyNeural"), "Voice for the host role")
	fs.StringVar(&cfg.VoiceScientist, "voice-sci", envStr("VOICE_SCI", "en-US-GuyNeural"), "Voice for the scientist role")

	fs.StringVar(&cfg.Format, "format", envStr("AUDIO_FORMAT", "mp3"), "Fragment audio format: mp3|wav")
	fs.BoolVar(&cfg.Use48K, "use-48k", false, "48kHz/192k MP3 output instead of 24kHz/160k")

	fs.IntVar(&cfg.MaxAttempts, "retries", envInt("TTS_RETRIES", 5), "Max synthesis attempts per unit")
	fs.DurationVar(&cfg.RetryBase, "retry-base", envDur("TTS_RETRY_BASE", 600*time.Millisecond), "First backoff delay")
	fs.DurationVar(&cfg.RetryJitter, "retry-jitter", envDur("TTS_RETRY_JITTER", 400*time.Millisecond), "Random backoff jitter bound")
	fs.DurationVar(&cfg.MaxRetryDelay, "retry-max-delay", envDur("TTS_RETRY_MAX_DELAY", time.Minute), "Backoff delay cap")

	fs.IntVar(&cfg.ThrottleEvery, "throttle-every", envInt("THROTTLE_EVERY", 0), "Extra pause every N units (0 = off)")
	fs.DurationVar(&cfg.ThrottlePause, "throttle-pause", envDur("THROTTLE_PAUSE", 0), "Duration of the periodic pause")

	fs.BoolVar(&cfg.SilenceOnFail, "silence-on-fail", false, "Write a 1s silence placeholder for failed units instead of failing the post")
	fs.BoolVar(&cfg.OnlyFull, "only-full", false, "Publish only fully merged episodes")
	fs.BoolVar(&cfg.StrictClean, "strict-clean", false, "Restrict sentences to a conservative ASCII set")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg.SpeechKey = os.Getenv("SPEECH_KEY")
	cfg.SpeechRegion = os.Getenv("SPEECH_REGION")
	cfg.VoiceHost = markup.CanonicalVoice(cfg.VoiceHost, "en-US-JennyNeural")
	cfg.VoiceScientist = markup.CanonicalVoice(cfg.VoiceScientist, "en-US-GuyNeural")

	return cfg, cfg.validate()
}

func (c *Config) validate() error {
	if c.SpeechKey == "" || c.SpeechRegion == "" {
		return fmt.Errorf("missing SPEECH_KEY / SPEECH_REGION")
	}
	if c.Format != "mp3" && c.Format != "wav" {
		return fmt.Errorf("unknown format %q (mp3|wav)", c.Format)
	}
	if c.MaxSentences < 1 || c.MaxChars < 1 {
		return fmt.Errorf("chunk limits must be positive")
	}
	if c.MaxAttempts < 1 {
		return fmt.Errorf("retries must be at least 1")
	}
	if c.Ceiling < 1 {
		return fmt.Errorf("ceiling must be positive")
	}
	return nil
}

// Ext is the fragment/episode file extension.
func (c *Config) Ext() string { return c.Format }

// OutputFormat is the service output format identifier for this run.
func (c *Config) OutputFormat() string {
	if c.Format == "wav" {
		return synth.FormatWAV_24k
	}
	if c.Use48K {
		return synth.FormatMP3_48k
	}
	return synth.FormatMP3_24k
}

// Bitrate is the merge re-encode bitrate matching the output tier.
func (c *Config) Bitrate() string {
	if c.Use48K {
		return "192k"
	}
	return "160k"
}

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envDur(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
