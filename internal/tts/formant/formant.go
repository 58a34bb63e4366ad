// Package formant implements the TTS Synthesizer with the built-in formant
// synthesis pipeline.
//
// Each voice keeps a pool of speech sessions so concurrent requests
// synthesize in parallel without sharing filter state. Finished audio is
// kept in an LRU cache, and identical requests already in flight are
// coalesced into one synthesis.
package formant

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/nadzzz/formantd/internal/speech"
	"github.com/nadzzz/formantd/internal/tts"
	"github.com/nadzzz/formantd/internal/wav"
)

// DefaultVoice is selected when a request names no voice.
const DefaultVoice = "default"

// Options configures a Synthesizer.
type Options struct {
	// Voices maps voice names to session settings. It must contain
	// DefaultVoice.
	Voices map[string]speech.Config

	// CacheSize is the number of results kept; 0 disables caching.
	CacheSize int
}

// Stats counts cache behaviour since the synthesizer was created.
type Stats struct {
	Hits    int64 // served from the cache
	Misses  int64 // synthesized
	Shared  int64 // joined an identical request in flight
	Renders int64 // sessions actually run
}

type voice struct {
	name string
	pool sync.Pool
}

func (v *voice) get() *speech.Session  { return v.pool.Get().(*speech.Session) }
func (v *voice) put(s *speech.Session) { v.pool.Put(s) }

// Synthesizer implements tts.Synthesizer.
type Synthesizer struct {
	voices map[string]*voice
	cache  *lru.Cache[string, *tts.SynthesizeResult]
	group  singleflight.Group

	hits, misses, shared, renders atomic.Int64
}

// New validates every voice and returns a synthesizer.
func New(opts Options) (*Synthesizer, error) {
	if _, ok := opts.Voices[DefaultVoice]; !ok {
		return nil, fmt.Errorf("no %q voice configured", DefaultVoice)
	}
	s := &Synthesizer{voices: make(map[string]*voice, len(opts.Voices))}
	for name, cfg := range opts.Voices {
		first, err := speech.NewSession(cfg)
		if err != nil {
			return nil, fmt.Errorf("voice %q: %w", name, err)
		}
		name = strings.ToLower(name)
		v := &voice{name: name}
		v.pool.New = func() any {
			sess, err := speech.NewSession(cfg)
			if err != nil {
				// cfg was validated above.
				panic(fmt.Sprintf("formant: voice %q: %v", name, err))
			}
			return sess
		}
		v.put(first)
		s.voices[name] = v
	}
	if opts.CacheSize > 0 {
		c, err := lru.New[string, *tts.SynthesizeResult](opts.CacheSize)
		if err != nil {
			return nil, fmt.Errorf("creating cache: %w", err)
		}
		s.cache = c
	}
	slog.Debug("formant synthesizer ready", "voices", len(s.voices), "cache_size", opts.CacheSize)
	return s, nil
}

func (s *Synthesizer) voice(name string) (*voice, error) {
	if name == "" {
		name = DefaultVoice
	}
	v, ok := s.voices[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", tts.ErrUnknownVoice, name)
	}
	return v, nil
}

func cacheKey(v *voice, text string, opts tts.SynthesizeOpts) string {
	kind := "t"
	if opts.Phonemes {
		kind = "p"
	}
	return v.name + "\x00" + kind + "\x00" + text
}

// Synthesize speaks text with the requested voice.
func (s *Synthesizer) Synthesize(ctx context.Context, text string, opts tts.SynthesizeOpts) (*tts.SynthesizeResult, error) {
	v, err := s.voice(opts.Voice)
	if err != nil {
		return nil, err
	}
	key := cacheKey(v, text, opts)

	if s.cache != nil {
		if r, ok := s.cache.Get(key); ok {
			s.hits.Add(1)
			out := *r
			out.Cached = true
			return &out, nil
		}
	}
	s.misses.Add(1)

	res, err, shared := s.group.Do(key, func() (any, error) {
		return s.render(ctx, v, text, opts)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		s.shared.Add(1)
	}
	r := res.(*tts.SynthesizeResult)
	if s.cache != nil {
		s.cache.Add(key, r)
	}
	out := *r
	return &out, nil
}

func (s *Synthesizer) render(ctx context.Context, v *voice, text string, opts tts.SynthesizeOpts) (*tts.SynthesizeResult, error) {
	s.renders.Add(1)
	sess := v.get()
	defer v.put(sess)

	var (
		res *speech.Result
		err error
	)
	if opts.Phonemes {
		res, err = sess.SynthesizePhonemes(ctx, text)
	} else {
		res, err = sess.Synthesize(ctx, text)
	}
	if err != nil {
		return nil, fmt.Errorf("synthesizing: %w", err)
	}
	slog.Debug("formant synthesize", "voice", v.name, "frames", res.Frames, "samples", len(res.Samples))

	return &tts.SynthesizeResult{
		Audio:       wav.Encode(res.Samples, res.SampleRate, speech.Channels),
		ContentType: "audio/wav",
		SampleRate:  res.SampleRate,
		Channels:    speech.Channels,
		Phonemes:    res.Phonemes,
		Duration:    res.Duration(),
	}, nil
}

// Phonemes returns the transcription of text.
func (s *Synthesizer) Phonemes(text string, opts tts.SynthesizeOpts) (string, error) {
	if opts.Phonemes {
		return text, nil
	}
	v, err := s.voice(opts.Voice)
	if err != nil {
		return "", err
	}
	sess := v.get()
	defer v.put(sess)
	return sess.Phonemes(text)
}

// Voices lists the configured voice names in order.
func (s *Synthesizer) Voices() []string {
	names := make([]string, 0, len(s.voices))
	for name := range s.voices {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Stats returns the cache counters.
func (s *Synthesizer) Stats() Stats {
	return Stats{
		Hits:    s.hits.Load(),
		Misses:  s.misses.Load(),
		Shared:  s.shared.Load(),
		Renders: s.renders.Load(),
	}
}

// Close drops cached audio.
func (s *Synthesizer) Close() error {
	if s.cache != nil {
		s.cache.Purge()
	}
	return nil
}
