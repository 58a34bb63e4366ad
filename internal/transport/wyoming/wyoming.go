// Package wyoming implements the Wyoming protocol transport for formantd.
//
// Wyoming is the line-oriented event protocol Home Assistant uses to talk
// to speech services. The server answers "describe" with the available
// voices and turns "synthesize" into an audio-start, audio-chunk...,
// audio-stop stream. Send streams routed audio to a Wyoming sound sink.
package wyoming

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/nadzzz/formantd/internal/message"
	"github.com/nadzzz/formantd/internal/transport"
	"github.com/nadzzz/formantd/internal/wav"
)

// DefaultChunkFrames is the number of sample frames per audio-chunk event.
const DefaultChunkFrames = 1024

const (
	programName = "formantd"
	programURL  = "https://github.com/nadzzz/formantd"
)

// Options configures the Wyoming transport.
type Options struct {
	Port        int
	Voices      []string // advertised in the info event
	Languages   []string // defaults to "en"
	ChunkFrames int
}

// Transport implements transport.Transport over the Wyoming protocol.
type Transport struct {
	opts Options

	mu       sync.Mutex
	listener net.Listener
	conns    sync.WaitGroup
}

// New creates a new Wyoming transport.
func New(opts Options) *Transport {
	if opts.ChunkFrames <= 0 {
		opts.ChunkFrames = DefaultChunkFrames
	}
	if len(opts.Languages) == 0 {
		opts.Languages = []string{"en"}
	}
	return &Transport{opts: opts}
}

// Name returns the transport identifier.
func (t *Transport) Name() string { return "wyoming" }

// Listen accepts Wyoming clients until ctx is cancelled.
func (t *Transport) Listen(ctx context.Context, handler transport.Handler) error {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", t.opts.Port))
	if err != nil {
		return fmt.Errorf("wyoming listen: %w", err)
	}
	slog.Info("wyoming transport listening", "port", t.opts.Port, "voices", len(t.opts.Voices))
	return t.serve(ctx, lis, handler)
}

func (t *Transport) serve(ctx context.Context, lis net.Listener, handler transport.Handler) error {
	t.mu.Lock()
	t.listener = lis
	t.mu.Unlock()

	go func() {
		<-ctx.Done()
		slog.Info("wyoming transport shutting down")
		_ = lis.Close()
	}()

	for {
		conn, err := lis.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				t.conns.Wait()
				return nil
			}
			return fmt.Errorf("wyoming accept: %w", err)
		}
		t.conns.Add(1)
		go func() {
			defer t.conns.Done()
			t.serveConn(ctx, conn, handler)
		}()
	}
}

// serveConn handles events from one client until it disconnects.
func (t *Transport) serveConn(ctx context.Context, conn net.Conn, handler transport.Handler) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()

	remote := conn.RemoteAddr().String()
	logger := slog.With("remote", remote)
	logger.Debug("wyoming client connected")

	r := newReader(conn)
	for {
		evt, err := readEvent(r)
		if err != nil {
			if !errors.Is(err, io.EOF) && ctx.Err() == nil && !errors.Is(err, net.ErrClosed) {
				logger.Warn("wyoming read failed", "error", err)
			}
			return
		}

		switch evt.Type {
		case "describe":
			err = writeEvent(conn, Event{Type: "info", Data: t.info()})
		case "synthesize":
			err = t.synthesize(ctx, conn, evt, remote, handler)
		case "ping":
			err = writeEvent(conn, Event{Type: "pong", Data: evt.Data})
		default:
			logger.Debug("wyoming event ignored", "type", evt.Type)
		}
		if err != nil {
			logger.Warn("wyoming write failed", "type", evt.Type, "error", err)
			return
		}
	}
}

// synthesize runs one synthesize event through handler and streams the
// audio back. Failures are reported to the client as an error event.
func (t *Transport) synthesize(ctx context.Context, w io.Writer, evt *Event, remote string, handler transport.Handler) error {
	msg := &message.Message{
		Source: "wyoming:" + remote,
		Text:   str(evt.Data, "text"),
		Voice:  str(obj(evt.Data, "voice"), "name"),
		Instruction: message.Instruction{
			ResponseMode: message.ResponseModeAudio,
		},
	}
	msg.Stamp()

	res, err := handler(ctx, msg)
	if err != nil {
		return writeError(w, err)
	}
	audio, err := res.AudioBytes()
	if err != nil {
		return writeError(w, err)
	}
	a, err := wav.Decode(audio)
	if err != nil {
		return writeError(w, err)
	}
	return streamAudio(w, a, t.opts.ChunkFrames)
}

func writeError(w io.Writer, err error) error {
	return writeEvent(w, Event{Type: "error", Data: map[string]any{
		"text": err.Error(),
		"code": "synthesis-failed",
	}})
}

// streamAudio writes a as audio-start, audio-chunk... and audio-stop.
func streamAudio(w io.Writer, a *wav.Audio, chunkFrames int) error {
	format := func(ms int64) map[string]any {
		return map[string]any{
			"rate":      a.SampleRate,
			"width":     2,
			"channels":  a.Channels,
			"timestamp": ms,
		}
	}
	if err := writeEvent(w, Event{Type: "audio-start", Data: format(0)}); err != nil {
		return err
	}

	step := chunkFrames * a.Channels
	for i := 0; i < len(a.Samples); i += step {
		end := min(i+step, len(a.Samples))
		ms := int64(i/a.Channels) * 1000 / int64(a.SampleRate)
		chunk := Event{Type: "audio-chunk", Data: format(ms), Payload: wav.PCMBytes(a.Samples[i:end])}
		if err := writeEvent(w, chunk); err != nil {
			return err
		}
	}

	total := int64(len(a.Samples)/a.Channels) * 1000 / int64(a.SampleRate)
	return writeEvent(w, Event{Type: "audio-stop", Data: map[string]any{"timestamp": total}})
}

func (t *Transport) info() map[string]any {
	attribution := map[string]any{"name": programName, "url": programURL}
	voices := make([]map[string]any, 0, len(t.opts.Voices))
	for _, v := range t.opts.Voices {
		voices = append(voices, map[string]any{
			"name":        v,
			"description": v,
			"attribution": attribution,
			"installed":   true,
			"languages":   t.opts.Languages,
		})
	}
	return map[string]any{
		"tts": []map[string]any{{
			"name":                          programName,
			"description":                   "Rule-based formant speech synthesizer",
			"attribution":                   attribution,
			"installed":                     true,
			"voices":                        voices,
			"supports_synthesize_streaming": false,
		}},
	}
}

// Send streams the audio of a routed result to a Wyoming sound sink at the
// target endpoint.
func (t *Transport) Send(ctx context.Context, target message.Target, payload []byte) error {
	var res message.DispatchResult
	if err := json.Unmarshal(payload, &res); err != nil {
		return fmt.Errorf("wyoming send: decoding result: %w", err)
	}
	audio, err := res.AudioBytes()
	if err != nil {
		return fmt.Errorf("wyoming send: %w", err)
	}
	if len(audio) == 0 {
		return fmt.Errorf("wyoming send: result %s carries no audio", res.MessageID)
	}
	a, err := wav.Decode(audio)
	if err != nil {
		return fmt.Errorf("wyoming send: %w", err)
	}

	endpoint := strings.TrimPrefix(target.Endpoint, "tcp://")
	dialer := net.Dialer{Timeout: 10 * time.Second}
	conn, err := dialer.DialContext(ctx, "tcp", endpoint)
	if err != nil {
		return fmt.Errorf("wyoming send: %w", err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	} else {
		_ = conn.SetDeadline(time.Now().Add(30 * time.Second))
	}

	if err := streamAudio(conn, a, t.opts.ChunkFrames); err != nil {
		return fmt.Errorf("wyoming send: %w", err)
	}
	slog.Debug("wyoming send success", "target", endpoint, "samples", len(a.Samples))
	return nil
}

// Close stops accepting connections.
func (t *Transport) Close() error {
	t.mu.Lock()
	lis := t.listener
	t.mu.Unlock()
	if lis != nil {
		_ = lis.Close()
	}
	return nil
}
