// Package tts defines the interface for text-to-speech synthesis.
//
// The dispatcher speaks through this interface so transports never touch
// synthesis state directly. Implementations return complete WAV files.
package tts

import (
	"context"
	"errors"
	"time"
)

// ErrUnknownVoice is returned for a voice the synthesizer does not have.
var ErrUnknownVoice = errors.New("tts: unknown voice")

// SynthesizeOpts controls synthesis behavior.
type SynthesizeOpts struct {
	// Voice selects a configured voice; empty selects the default.
	Voice string

	// Phonemes marks the input as a phoneme string rather than text.
	Phonemes bool
}

// Synthesizer converts text to audio.
type Synthesizer interface {
	// Synthesize generates a WAV file from the given text.
	Synthesize(ctx context.Context, text string, opts SynthesizeOpts) (*SynthesizeResult, error)

	// Phonemes returns the transcription Synthesize would speak.
	Phonemes(text string, opts SynthesizeOpts) (string, error)

	// Voices lists the available voice names.
	Voices() []string

	// Close releases any resources held by the synthesizer.
	Close() error
}

// SynthesizeResult holds the output of TTS synthesis. Audio may be shared
// with other callers and must not be modified.
type SynthesizeResult struct {
	// Audio is the synthesized audio as a WAV file.
	Audio []byte

	// ContentType is the MIME type of the audio ("audio/wav").
	ContentType string

	// SampleRate is the audio sample rate in Hz.
	SampleRate int

	// Channels is the number of interleaved audio channels.
	Channels int

	// Phonemes is the transcription that was spoken.
	Phonemes string

	// Duration is the playing time of Audio.
	Duration time.Duration

	// Cached is true when the result was served from a cache.
	Cached bool
}
