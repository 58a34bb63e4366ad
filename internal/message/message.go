// Package message defines the core data types flowing through the formantd pipeline.
package message

import (
	"encoding/base64"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ResponseMode controls what the caller wants back: synthesized audio, the
// phoneme transcription, or both.
type ResponseMode string

const (
	// ResponseModeAudio returns synthesized audio only.
	ResponseModeAudio ResponseMode = "audio"

	// ResponseModePhonemes returns the transcription without synthesizing.
	ResponseModePhonemes ResponseMode = "phonemes"

	// ResponseModeBoth returns audio and the transcription.
	ResponseModeBoth ResponseMode = "audio+phonemes"
)

// WantsAudio reports whether the mode includes audio. The empty mode means
// audio+phonemes.
func (m ResponseMode) WantsAudio() bool { return m != ResponseModePhonemes }

// WantsPhonemes reports whether the mode includes the transcription.
func (m ResponseMode) WantsPhonemes() bool { return m != ResponseModeAudio }

// Valid reports whether m is a known mode or empty.
func (m ResponseMode) Valid() bool {
	switch m {
	case "", ResponseModeAudio, ResponseModePhonemes, ResponseModeBoth:
		return true
	}
	return false
}

// Message represents an incoming speech request from any transport.
type Message struct {
	// ID is a unique identifier for this message (UUID).
	ID string `json:"id"`

	// Source identifies the sender (e.g., "doorbell-01", "kitchen-display").
	Source string `json:"source"`

	// Text is the text to speak.
	Text string `json:"text,omitempty"`

	// Phonemes, when set, is spoken as-is and Text is ignored.
	Phonemes string `json:"phonemes,omitempty"`

	// Voice selects a configured voice; empty means the default voice.
	Voice string `json:"voice,omitempty"`

	// Instruction tells formantd what to return and where to route it.
	Instruction Instruction `json:"instruction"`

	// Timestamp is when the message was received by formantd.
	Timestamp time.Time `json:"timestamp"`
}

// New returns a message with a fresh ID and the current time.
func New(source, text string) *Message {
	m := &Message{Source: source, Text: text}
	m.Stamp()
	return m
}

// Stamp fills in a missing ID and timestamp.
func (m *Message) Stamp() {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now().UTC()
	}
}

// Validate checks the fields a transport cannot repair.
func (m *Message) Validate() error {
	if m.Text == "" && m.Phonemes == "" {
		return fmt.Errorf("message has no text and no phonemes")
	}
	if !m.Instruction.ResponseMode.Valid() {
		return fmt.Errorf("unknown response mode %q", m.Instruction.ResponseMode)
	}
	return nil
}

// Instruction describes what to return and where to route the result.
type Instruction struct {
	// Targets lists the services that should also receive the result.
	// The original sender always receives the response regardless of this list.
	Targets []Target `json:"targets,omitempty"`

	// ResponseMode controls the response content:
	//   "audio"          - WAV audio only
	//   "phonemes"       - transcription only, nothing is synthesized
	//   "audio+phonemes" - both (default)
	ResponseMode ResponseMode `json:"response_mode,omitempty"`

	// ReplyTo is a transport-specific reply address, such as an MQTT topic.
	ReplyTo string `json:"reply_to,omitempty"`
}

// Target defines a downstream service that should receive results.
type Target struct {
	// ServiceName is a human-readable identifier (e.g., "lobby-speaker").
	ServiceName string `json:"service_name"`

	// Endpoint is the address to reach this target (URL, host:port or topic).
	Endpoint string `json:"endpoint"`

	// Protocol is the protocol to use ("http", "grpc", "mqtt", "wyoming").
	Protocol string `json:"protocol"`

	// Token is an optional bearer credential for the target.
	Token string `json:"-"`
}

// DispatchResult is the outcome of processing a message through the pipeline.
type DispatchResult struct {
	// MessageID is the original message ID.
	MessageID string `json:"message_id"`

	// Text is the normalized text that was transcribed.
	Text string `json:"text,omitempty"`

	// Phonemes is the transcription that was spoken.
	Phonemes string `json:"phonemes,omitempty"`

	// Audio is the synthesized WAV file as a base64-encoded string.
	Audio string `json:"audio,omitempty"`

	// ContentType is the MIME type of Audio (e.g., "audio/wav").
	ContentType string `json:"content_type,omitempty"`

	// SampleRate and Channels describe Audio.
	SampleRate int `json:"sample_rate,omitempty"`
	Channels   int `json:"channels,omitempty"`

	// DurationMs is the playing time of Audio.
	DurationMs int64 `json:"duration_ms,omitempty"`

	// Cached is true when the audio came from the synthesis cache.
	Cached bool `json:"cached,omitempty"`

	// RoutedTo lists the targets that received the result.
	RoutedTo []string `json:"routed_to,omitempty"`

	// Error is set if processing failed at any stage.
	Error string `json:"error,omitempty"`
}

// SetAudioBytes base64-encodes raw audio bytes into Audio.
func (r *DispatchResult) SetAudioBytes(audio []byte) {
	if len(audio) > 0 {
		r.Audio = base64.StdEncoding.EncodeToString(audio)
	}
}

// AudioBytes decodes Audio.
func (r *DispatchResult) AudioBytes() ([]byte, error) {
	if r.Audio == "" {
		return nil, nil
	}
	b, err := base64.StdEncoding.DecodeString(r.Audio)
	if err != nil {
		return nil, fmt.Errorf("decoding audio: %w", err)
	}
	return b, nil
}
