// Package dispatch implements the core message routing engine.
//
// The dispatcher receives messages from transports, normalizes the text,
// runs it through the synthesizer and routes the result to any target
// services. The sender always receives the response; this is an
// architectural invariant.
package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nadzzz/formantd/internal/message"
	"github.com/nadzzz/formantd/internal/speech"
	"github.com/nadzzz/formantd/internal/textnorm"
	"github.com/nadzzz/formantd/internal/transport"
	"github.com/nadzzz/formantd/internal/tts"
)

// ErrInvalid wraps errors caused by the request itself.
var ErrInvalid = errors.New("invalid request")

// Dispatcher is the central routing engine.
type Dispatcher struct {
	synthesizer tts.Synthesizer
	transports  map[string]transport.Transport
	targets     map[string]message.Target // named targets from config
}

// New creates a new Dispatcher. Named targets let requests refer to a
// configured service by name instead of spelling out its endpoint.
func New(synthesizer tts.Synthesizer, transports []transport.Transport, targets map[string]message.Target) *Dispatcher {
	tm := make(map[string]transport.Transport, len(transports))
	for _, t := range transports {
		tm[t.Name()] = t
	}
	return &Dispatcher{
		synthesizer: synthesizer,
		transports:  tm,
		targets:     targets,
	}
}

// Status classifies a Handle error for transports that map it onto their
// own status codes.
type Status int

const (
	StatusOK Status = iota
	StatusInvalid
	StatusTooLarge
	StatusUnavailable
	StatusInternal
)

// Classify returns the Status of err.
func Classify(err error) Status {
	switch {
	case err == nil:
		return StatusOK
	case errors.Is(err, ErrInvalid), errors.Is(err, tts.ErrUnknownVoice):
		return StatusInvalid
	case errors.Is(err, speech.ErrTooLong):
		return StatusTooLarge
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return StatusUnavailable
	}
	return StatusInternal
}

// Handle processes a single message through the full pipeline.
// This function is passed as the transport.Handler to each transport.
// The result is always non-nil; on failure its Error field is set and the
// error is returned as well so transports can pick a status code.
func (d *Dispatcher) Handle(ctx context.Context, msg *message.Message) (*message.DispatchResult, error) {
	start := time.Now()
	msg.Stamp()
	logger := slog.With("message_id", msg.ID, "source", msg.Source)

	result := &message.DispatchResult{
		MessageID: msg.ID,
	}
	fail := func(err error) (*message.DispatchResult, error) {
		result.Error = err.Error()
		logger.Warn("dispatch failed", "error", err)
		return result, err
	}

	if err := msg.Validate(); err != nil {
		return fail(fmt.Errorf("%w: %v", ErrInvalid, err))
	}
	mode := msg.Instruction.ResponseMode
	logger.Info("dispatch started", "response_mode", mode, "voice", msg.Voice)

	// Step 1: Normalize the input.
	input, opts := msg.Phonemes, tts.SynthesizeOpts{Voice: msg.Voice, Phonemes: msg.Phonemes != ""}
	if !opts.Phonemes {
		input = textnorm.Fold(msg.Text)
		result.Text = input
		if input == "" {
			return fail(fmt.Errorf("%w: text has nothing to speak", ErrInvalid))
		}
	}

	// Step 2: Transcribe or synthesize.
	if mode.WantsAudio() {
		res, err := d.synthesizer.Synthesize(ctx, input, opts)
		if err != nil {
			return fail(fmt.Errorf("synthesis failed: %w", err))
		}
		result.SetAudioBytes(res.Audio)
		result.ContentType = res.ContentType
		result.SampleRate = res.SampleRate
		result.Channels = res.Channels
		result.DurationMs = res.Duration.Milliseconds()
		result.Cached = res.Cached
		if mode.WantsPhonemes() {
			result.Phonemes = res.Phonemes
		}
		logger.Info("synthesis complete", "audio_bytes", len(res.Audio), "cached", res.Cached)
	} else {
		ph, err := d.synthesizer.Phonemes(input, opts)
		if err != nil {
			return fail(fmt.Errorf("transcription failed: %w", err))
		}
		result.Phonemes = ph
	}

	// Step 3: Route the result to target services.
	if len(msg.Instruction.Targets) > 0 {
		payload, err := json.Marshal(result)
		if err != nil {
			return fail(fmt.Errorf("marshalling result: %w", err))
		}
		for _, target := range msg.Instruction.Targets {
			target = d.resolve(target)
			t, ok := d.transports[target.Protocol]
			if !ok {
				logger.Warn("no transport for target protocol", "protocol", target.Protocol, "target", target.ServiceName)
				continue
			}

			if err := t.Send(ctx, target, payload); err != nil {
				logger.Error("failed to send to target", "target", target.ServiceName, "error", err)
				continue
			}

			result.RoutedTo = append(result.RoutedTo, target.ServiceName)
			logger.Info("routed to target", "target", target.ServiceName)
		}
	}

	logger.Info("dispatch complete", "duration", time.Since(start), "routed_to", len(result.RoutedTo))

	// The result is always returned to the sender via the transport that received the message.
	return result, nil
}

// resolve fills a target that names a configured service.
func (d *Dispatcher) resolve(t message.Target) message.Target {
	if t.Endpoint != "" {
		return t
	}
	named, ok := d.targets[t.ServiceName]
	if !ok {
		// Config keys are case-folded when loaded.
		if named, ok = d.targets[strings.ToLower(t.ServiceName)]; !ok {
			return t
		}
	}
	named.ServiceName = t.ServiceName
	if t.Protocol != "" {
		named.Protocol = t.Protocol
	}
	return named
}
