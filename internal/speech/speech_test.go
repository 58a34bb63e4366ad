package speech

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/nadzzz/formantd/internal/elements"
)

func newSession(t *testing.T, mutate func(*Config)) *Session {
	t.Helper()
	cfg := DefaultConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	s, err := NewSession(cfg)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	return s
}

func TestSynthesize_Cat(t *testing.T) {
	s := newSession(t, nil)
	res, err := s.Synthesize(context.Background(), "cat")
	if err != nil {
		t.Fatal(err)
	}
	if res.Phonemes != "k'{t" {
		t.Errorf("phonemes = %q, want %q", res.Phonemes, "k'{t")
	}

	inst, _ := elements.Map("k'{t")
	frames := 0
	for _, in := range inst {
		frames += in.Duration
	}
	samplesPerFrame := 11025 * 10 / 1000
	if res.Frames != frames {
		t.Errorf("frames = %d, want %d", res.Frames, frames)
	}
	if want := frames * samplesPerFrame * 4 * 2; len(res.Samples) != want {
		t.Errorf("len(samples) = %d, want %d", len(res.Samples), want)
	}
	if res.SampleRate != 44100 {
		t.Errorf("sample rate = %d, want 44100", res.SampleRate)
	}
}

func TestSynthesize_Empty(t *testing.T) {
	s := newSession(t, nil)
	for _, in := range []string{"", "   ", "~~"} {
		res, err := s.Synthesize(context.Background(), in)
		if err != nil {
			t.Fatalf("Synthesize(%q): %v", in, err)
		}
		if len(res.Samples) != 0 || res.Frames != 0 {
			t.Errorf("Synthesize(%q) = %d samples, %d frames, want none", in, len(res.Samples), res.Frames)
		}
		if res.Duration() != 0 {
			t.Errorf("Synthesize(%q) duration = %v", in, res.Duration())
		}
	}
}

func TestSynthesize_Audible(t *testing.T) {
	s := newSession(t, nil)
	res, err := s.Synthesize(context.Background(), "hello world")
	if err != nil {
		t.Fatal(err)
	}
	peak := 0
	for _, v := range res.Samples {
		if a := int(v); a > peak {
			peak = a
		} else if -a > peak {
			peak = -a
		}
	}
	if peak < 100 {
		t.Errorf("peak amplitude %d, expected audible output", peak)
	}
	for i := 0; i < len(res.Samples); i += 2 {
		if res.Samples[i] != res.Samples[i+1] {
			t.Fatalf("channels differ at frame %d", i/2)
		}
	}
}

func TestSynthesize_Deterministic(t *testing.T) {
	text := "The cat sat on 42 mats."
	a := newSession(t, nil)
	b := newSession(t, nil)

	r1, err := a.Synthesize(context.Background(), text)
	if err != nil {
		t.Fatal(err)
	}
	r2, _ := a.Synthesize(context.Background(), text)
	r3, _ := b.Synthesize(context.Background(), text)
	if !reflect.DeepEqual(r1.Samples, r2.Samples) {
		t.Error("repeated synthesis on one session differs")
	}
	if !reflect.DeepEqual(r1.Samples, r3.Samples) {
		t.Error("synthesis differs across sessions")
	}
}

func TestSynthesize_SeedChangesNoise(t *testing.T) {
	a := newSession(t, nil)
	b := newSession(t, func(c *Config) { c.Seed = 99 })
	r1, _ := a.Synthesize(context.Background(), "sss")
	r2, _ := b.Synthesize(context.Background(), "sss")
	if reflect.DeepEqual(r1.Samples, r2.Samples) {
		t.Error("different seeds produced identical frication")
	}
}

func TestSynthesizePhonemes(t *testing.T) {
	s := newSession(t, nil)
	r1, err := s.SynthesizePhonemes(context.Background(), "k'{t")
	if err != nil {
		t.Fatal(err)
	}
	r2, _ := s.Synthesize(context.Background(), "cat")
	if !reflect.DeepEqual(r1.Samples, r2.Samples) {
		t.Error("phoneme input differs from text input")
	}
}

func TestLimits(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		text   string
	}{
		{"input bytes", func(c *Config) { c.MaxInputBytes = 3 }, "hello"},
		{"frames", func(c *Config) { c.MaxFrames = 10 }, "hello world"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSession(t, tt.mutate)
			_, err := s.Synthesize(context.Background(), tt.text)
			if !errors.Is(err, ErrTooLong) {
				t.Errorf("Synthesize = %v, want ErrTooLong", err)
			}
		})
	}
}

func TestPhonemes(t *testing.T) {
	s := newSession(t, nil)
	got, err := s.Phonemes("the cat")
	if err != nil {
		t.Fatal(err)
	}
	if got != "D@ k'{t" {
		t.Errorf("Phonemes = %q, want %q", got, "D@ k'{t")
	}
}

func TestSynthesize_Cancelled(t *testing.T) {
	s := newSession(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.Synthesize(ctx, "hello")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Synthesize = %v, want context.Canceled", err)
	}
}

func TestNewSession_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"rate", func(c *Config) { c.SampleRate = 100 }},
		{"frame", func(c *Config) { c.FrameMs = 0 }},
		{"f0", func(c *Config) { c.F0Hz = 5 }},
		{"flutter", func(c *Config) { c.Flutter = -1 }},
		{"cascade", func(c *Config) { c.Cascade = 9 }},
		{"smoothing", func(c *Config) { c.Smoothing = 0 }},
		{"speed", func(c *Config) { c.Speed = 0 }},
		{"limit", func(c *Config) { c.MaxFrames = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if _, err := NewSession(cfg); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("NewSession = %v, want ErrInvalidConfig", err)
			}
		})
	}
}
