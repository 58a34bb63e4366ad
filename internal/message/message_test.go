package message

import (
	"testing"

	"github.com/google/uuid"
)

func TestNew(t *testing.T) {
	m := New("doorbell", "hello")
	if _, err := uuid.Parse(m.ID); err != nil {
		t.Errorf("ID %q is not a UUID: %v", m.ID, err)
	}
	if m.Timestamp.IsZero() {
		t.Error("timestamp not set")
	}
	id := m.ID
	m.Stamp()
	if m.ID != id {
		t.Error("Stamp replaced an existing ID")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		msg     Message
		wantErr bool
	}{
		{"text", Message{Text: "hi"}, false},
		{"phonemes", Message{Phonemes: "h'aI"}, false},
		{"empty", Message{}, true},
		{"bad mode", Message{Text: "hi", Instruction: Instruction{ResponseMode: "video"}}, true},
		{"explicit mode", Message{Text: "hi", Instruction: Instruction{ResponseMode: ResponseModePhonemes}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.msg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestResponseMode(t *testing.T) {
	tests := []struct {
		mode            ResponseMode
		audio, phonemes bool
	}{
		{"", true, true},
		{ResponseModeAudio, true, false},
		{ResponseModePhonemes, false, true},
		{ResponseModeBoth, true, true},
	}
	for _, tt := range tests {
		if got := tt.mode.WantsAudio(); got != tt.audio {
			t.Errorf("%q.WantsAudio() = %v", tt.mode, got)
		}
		if got := tt.mode.WantsPhonemes(); got != tt.phonemes {
			t.Errorf("%q.WantsPhonemes() = %v", tt.mode, got)
		}
	}
}

func TestAudioBytes(t *testing.T) {
	var r DispatchResult
	if b, err := r.AudioBytes(); b != nil || err != nil {
		t.Errorf("empty AudioBytes = %v, %v", b, err)
	}
	r.SetAudioBytes([]byte("RIFF"))
	b, err := r.AudioBytes()
	if err != nil || string(b) != "RIFF" {
		t.Errorf("AudioBytes = %q, %v", b, err)
	}
	r.Audio = "!!"
	if _, err := r.AudioBytes(); err == nil {
		t.Error("AudioBytes accepted invalid base64")
	}
}
