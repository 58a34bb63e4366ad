// Package speech drives the text-to-speech pipeline: transcription,
// element mapping, scheduling, synthesis and resampling.
package speech

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nadzzz/formantd/internal/elements"
	"github.com/nadzzz/formantd/internal/holmes"
	"github.com/nadzzz/formantd/internal/klatt"
	"github.com/nadzzz/formantd/internal/resample"
	"github.com/nadzzz/formantd/internal/transcribe"
)

// Channels is the channel count of Result.Samples.
const Channels = 2

var (
	// ErrTooLong is returned when the input or the utterance exceeds the
	// configured limits.
	ErrTooLong = errors.New("speech: input too long")
	// ErrInvalidConfig is returned by NewSession for unusable settings.
	ErrInvalidConfig = errors.New("speech: invalid config")
)

// Config is fixed when a Session is created.
type Config struct {
	SampleRate int     // native synthesis rate; output is Factor times this
	FrameMs    int     // frame length
	F0Hz       float64 // starting pitch
	Flutter    int     // pitch flutter percentage, 0 disables
	Cascade    int     // cascade formants, 0 derives from SampleRate
	Seed       uint32  // noise generator seed
	Smoothing  float64 // parameter smoothing coefficient, 1 disables
	Speed      float64 // duration scale, 1 is nominal

	// Bandwidths of the first four formants before the first element
	// takes over. B4 stays for the whole utterance.
	B1Hz, B2Hz, B3Hz, B4Hz float64

	MaxInputBytes     int // 0 is unlimited
	MaxFrames         int // 0 is unlimited
	MaxCardinalDigits int // see transcribe.Options
}

// DefaultConfig returns the 11025 Hz voice.
func DefaultConfig() Config {
	k := klatt.DefaultConfig()
	f := klatt.DefaultFrame()
	return Config{
		SampleRate:        k.SampleRate,
		FrameMs:           k.FrameMs,
		F0Hz:              holmes.DefaultF0Hz,
		Flutter:           k.Flutter,
		Seed:              k.Seed,
		Smoothing:         1,
		Speed:             1,
		B1Hz:              f.B1hz,
		B2Hz:              f.B2hz,
		B3Hz:              f.B3hz,
		B4Hz:              f.B4hz,
		MaxCardinalDigits: transcribe.DefaultMaxCardinalDigits,
	}
}

func (c Config) validate() error {
	switch {
	case c.SampleRate < 8000 || c.SampleRate > 48000:
		return fmt.Errorf("%w: sample rate %d outside 8000-48000", ErrInvalidConfig, c.SampleRate)
	case c.FrameMs < 1 || c.FrameMs > 100:
		return fmt.Errorf("%w: frame length %d ms outside 1-100", ErrInvalidConfig, c.FrameMs)
	case c.F0Hz < 40 || c.F0Hz > 500:
		return fmt.Errorf("%w: f0 %.1f Hz outside 40-500", ErrInvalidConfig, c.F0Hz)
	case c.Flutter < 0 || c.Flutter > 100:
		return fmt.Errorf("%w: flutter %d outside 0-100", ErrInvalidConfig, c.Flutter)
	case c.Cascade < 0 || c.Cascade > 8:
		return fmt.Errorf("%w: cascade %d outside 0-8", ErrInvalidConfig, c.Cascade)
	case c.Smoothing <= 0 || c.Smoothing > 1:
		return fmt.Errorf("%w: smoothing %.2f outside (0, 1]", ErrInvalidConfig, c.Smoothing)
	case c.Speed <= 0:
		return fmt.Errorf("%w: speed %.2f must be positive", ErrInvalidConfig, c.Speed)
	case c.MaxInputBytes < 0 || c.MaxFrames < 0:
		return fmt.Errorf("%w: negative limit", ErrInvalidConfig)
	}
	return nil
}

// Result is one synthesized utterance.
type Result struct {
	Samples    []int16 // interleaved stereo
	Frames     int     // synthesizer frames rendered
	SampleRate int     // of Samples
	Phonemes   string  // transcription that was spoken
	Skipped    int     // phoneme bytes the element mapper could not read
}

// Duration returns the playing time of the result.
func (r *Result) Duration() time.Duration {
	if r.SampleRate == 0 {
		return 0
	}
	frames := len(r.Samples) / Channels
	return time.Duration(frames) * time.Second / time.Duration(r.SampleRate)
}

// Session owns all synthesis state. It is not safe for concurrent use;
// callers that synthesize in parallel use one Session each.
type Session struct {
	cfg   Config
	tr    *transcribe.Transcriber
	sched *holmes.Scheduler
	synth *klatt.Synthesizer
}

// NewSession validates cfg and builds a session.
func NewSession(cfg Config) (*Session, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	base := klatt.DefaultFrame()
	base.B1hz, base.B1phz = cfg.B1Hz, cfg.B1Hz
	base.B2hz, base.B2phz = cfg.B2Hz, cfg.B2Hz
	base.B3hz, base.B3phz = cfg.B3Hz, cfg.B3Hz
	base.B4hz, base.B4phz = cfg.B4Hz, cfg.B4Hz

	return &Session{
		cfg: cfg,
		tr:  transcribe.New(transcribe.Options{MaxCardinalDigits: cfg.MaxCardinalDigits}),
		sched: holmes.New(holmes.Config{
			F0Hz:      cfg.F0Hz,
			Speed:     cfg.Speed,
			Smoothing: cfg.Smoothing,
			Base:      base,
		}),
		synth: klatt.New(klatt.Config{
			SampleRate: cfg.SampleRate,
			FrameMs:    cfg.FrameMs,
			Cascade:    cfg.Cascade,
			Flutter:    cfg.Flutter,
			Seed:       cfg.Seed,
		}),
	}, nil
}

// Config returns the session's configuration.
func (s *Session) Config() Config { return s.cfg }

// OutputRate returns the sample rate of Result.Samples.
func (s *Session) OutputRate() int { return s.cfg.SampleRate * resample.Factor }

// Phonemes returns the transcription of text.
func (s *Session) Phonemes(text string) (string, error) {
	if err := s.checkInput(text); err != nil {
		return "", err
	}
	ph, _ := s.tr.Transcribe(text)
	return ph, nil
}

// Synthesize speaks text.
func (s *Session) Synthesize(ctx context.Context, text string) (*Result, error) {
	if err := s.checkInput(text); err != nil {
		return nil, err
	}
	ph, st := s.tr.Transcribe(text)
	if st.Unmatched > 0 || st.Dropped > 0 {
		slog.Debug("transcription incomplete", "unmatched", st.Unmatched, "dropped", st.Dropped)
	}
	return s.render(ctx, ph)
}

// SynthesizePhonemes speaks a phoneme string directly.
func (s *Session) SynthesizePhonemes(ctx context.Context, phonemes string) (*Result, error) {
	if err := s.checkInput(phonemes); err != nil {
		return nil, err
	}
	return s.render(ctx, phonemes)
}

func (s *Session) checkInput(text string) error {
	if s.cfg.MaxInputBytes > 0 && len(text) > s.cfg.MaxInputBytes {
		return fmt.Errorf("%w: %d bytes, limit %d", ErrTooLong, len(text), s.cfg.MaxInputBytes)
	}
	return nil
}

func (s *Session) render(ctx context.Context, phonemes string) (*Result, error) {
	inst, stats := elements.Map(phonemes)
	frames := s.sched.Frames(inst)
	if s.cfg.MaxFrames > 0 && frames > s.cfg.MaxFrames {
		return nil, fmt.Errorf("%w: %d frames, limit %d", ErrTooLong, frames, s.cfg.MaxFrames)
	}

	s.synth.Reset()
	native := make([]int16, 0, frames*s.synth.SamplesPerFrame()*resample.Factor*Channels)
	err := s.sched.Run(ctx, inst, func(f *klatt.Frame) error {
		native = s.synth.Render(f, native)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("speech: schedule: %w", err)
	}

	return &Result{
		Samples:    resample.Into(native, native),
		Frames:     frames,
		SampleRate: s.OutputRate(),
		Phonemes:   phonemes,
		Skipped:    stats.Skipped,
	}, nil
}
