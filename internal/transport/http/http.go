// Package http implements the HTTP transport for formantd.
//
// This transport exposes a REST API for speech synthesis and
// transcription. It is best suited for web clients, phones, and services
// that prefer HTTP-based communication.
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/nadzzz/formantd/docs" // registers the OpenAPI document
	"github.com/nadzzz/formantd/internal/dispatch"
	"github.com/nadzzz/formantd/internal/message"
	"github.com/nadzzz/formantd/internal/transport"
)

// Request headers for plain-text uploads.
const (
	HeaderSource      = "X-Formantd-Source"
	HeaderVoice       = "X-Formantd-Voice"
	HeaderInstruction = "X-Formantd-Instruction"
	HeaderMessageID   = "X-Formantd-Message-Id"
	HeaderPhonemes    = "X-Formantd-Phonemes"
)

// Options configures the HTTP transport.
type Options struct {
	Port         int
	RateLimitRPM int   // per client IP, 0 disables
	RateBurst    int   // requests allowed at once
	MaxBodyBytes int64 // request body limit, 0 means 1 MiB
}

// Transport implements transport.Transport over HTTP.
type Transport struct {
	opts    Options
	limiter *rateLimiter
	client  *http.Client

	mu     sync.Mutex
	server *http.Server
}

// New creates a new HTTP transport.
func New(opts Options) *Transport {
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 1 << 20
	}
	return &Transport{
		opts:    opts,
		limiter: newRateLimiter(opts.RateLimitRPM, opts.RateBurst),
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Name returns the transport identifier.
func (t *Transport) Name() string { return "http" }

// Handler returns the transport's routes served by handler.
func (t *Transport) Handler(handler transport.Handler) http.Handler {
	mux := http.NewServeMux()

	// POST /synthesize: text in, WAV or JSON out.
	mux.Handle("POST /synthesize", t.limiter.middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.handleSynthesize(w, r, handler)
	})))

	// POST /phonemes: text in, transcription out.
	mux.Handle("POST /phonemes", t.limiter.middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.handlePhonemes(w, r, handler)
	})))

	// Swagger UI: serves the registered OpenAPI docs.
	mux.Handle("GET /swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	return mux
}

// Listen starts the HTTP server and routes incoming requests to the handler.
func (t *Transport) Listen(ctx context.Context, handler transport.Handler) error {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", t.opts.Port))
	if err != nil {
		return fmt.Errorf("http listen: %w", err)
	}
	slog.Info("http transport listening", "port", t.opts.Port, "rate_limit_rpm", t.opts.RateLimitRPM)
	return t.serve(ctx, lis, handler)
}

func (t *Transport) serve(ctx context.Context, lis net.Listener, handler transport.Handler) error {
	srv := &http.Server{
		Handler:           t.Handler(handler),
		ReadHeaderTimeout: 10 * time.Second,
	}
	t.mu.Lock()
	t.server = srv
	t.mu.Unlock()

	if t.limiter.enabled() {
		go t.limiter.cleanupLoop(ctx)
	}
	go func() {
		<-ctx.Done()
		slog.Info("http transport shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.Serve(lis); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http listen: %w", err)
	}
	return nil
}

// handleSynthesize processes a POST /synthesize request.
//
// @Summary     Synthesize speech
// @Description Accepts a JSON message or a plain-text body and returns synthesized speech.
// @Description With "Accept: audio/wav" the response body is the WAV file itself; otherwise a JSON
// @Description result carries the audio base64-encoded alongside the phoneme transcription.
// @Tags        speech
// @Accept      json
// @Accept      plain
// @Produce     json
// @Produce     audio/wav
// @Param       message  body      message.Message  true  "Speech request (JSON). For plain text, POST the text directly."
// @Param       X-Formantd-Source       header  string  false  "Sender identifier (plain-text uploads)"
// @Param       X-Formantd-Voice        header  string  false  "Voice name (plain-text uploads)"
// @Param       X-Formantd-Instruction  header  string  false  "JSON-encoded Instruction (plain-text uploads)"
// @Success     200  {object}  message.DispatchResult  "Synthesis result"
// @Failure     400  {object}  message.DispatchResult  "Invalid request"
// @Failure     413  {object}  message.DispatchResult  "Input too long"
// @Failure     429  {string}  string  "Rate limit exceeded"
// @Failure     500  {object}  message.DispatchResult  "Internal processing error"
// @Router      /synthesize [post]
func (t *Transport) handleSynthesize(w http.ResponseWriter, r *http.Request, handler transport.Handler) {
	msg, ok := t.readMessage(w, r)
	if !ok {
		return
	}
	wantWAV := accepts(r, "audio/wav")
	if wantWAV && msg.Instruction.ResponseMode == message.ResponseModePhonemes {
		http.Error(w, "phonemes response mode cannot produce audio/wav", http.StatusNotAcceptable)
		return
	}

	result, err := handler(r.Context(), msg)
	if err != nil {
		writeResult(w, statusFor(err), result)
		return
	}

	if wantWAV {
		audio, err := result.AudioBytes()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", result.ContentType)
		w.Header().Set("Content-Length", strconv.Itoa(len(audio)))
		w.Header().Set(HeaderMessageID, result.MessageID)
		if result.Phonemes != "" {
			w.Header().Set(HeaderPhonemes, result.Phonemes)
		}
		_, _ = w.Write(audio)
		return
	}
	writeResult(w, http.StatusOK, result)
}

// handlePhonemes processes a POST /phonemes request.
//
// @Summary     Transcribe text to phonemes
// @Description Runs only the letter-to-sound stage and returns the phoneme string that would be spoken.
// @Tags        speech
// @Accept      json
// @Accept      plain
// @Produce     json
// @Param       message  body      message.Message  true  "Transcription request"
// @Success     200  {object}  message.DispatchResult  "Transcription"
// @Failure     400  {object}  message.DispatchResult  "Invalid request"
// @Failure     413  {object}  message.DispatchResult  "Input too long"
// @Failure     429  {string}  string  "Rate limit exceeded"
// @Router      /phonemes [post]
func (t *Transport) handlePhonemes(w http.ResponseWriter, r *http.Request, handler transport.Handler) {
	msg, ok := t.readMessage(w, r)
	if !ok {
		return
	}
	msg.Instruction.ResponseMode = message.ResponseModePhonemes

	result, err := handler(r.Context(), msg)
	if err != nil {
		writeResult(w, statusFor(err), result)
		return
	}
	writeResult(w, http.StatusOK, result)
}

// readMessage decodes the request body. On failure it has already written
// the response.
func (t *Transport) readMessage(w http.ResponseWriter, r *http.Request) (*message.Message, bool) {
	body := http.MaxBytesReader(w, r.Body, t.opts.MaxBodyBytes)
	var msg message.Message

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/json":
		if err := json.NewDecoder(body).Decode(&msg); err != nil {
			writeBodyError(w, "invalid json", err)
			return nil, false
		}
	default:
		// Treat body as text; read the rest from headers.
		text, err := io.ReadAll(body)
		if err != nil {
			writeBodyError(w, "reading body", err)
			return nil, false
		}
		msg.Text = string(text)
		msg.Source = r.Header.Get(HeaderSource)
		msg.Voice = r.Header.Get(HeaderVoice)

		// Instruction can be passed as a JSON header.
		if instrHeader := r.Header.Get(HeaderInstruction); instrHeader != "" {
			if err := json.Unmarshal([]byte(instrHeader), &msg.Instruction); err != nil {
				http.Error(w, "invalid instruction header: "+err.Error(), http.StatusBadRequest)
				return nil, false
			}
		}
	}
	if msg.Source == "" {
		msg.Source = clientIP(r)
	}
	msg.Stamp()
	return &msg, true
}

func writeBodyError(w http.ResponseWriter, what string, err error) {
	var tooBig *http.MaxBytesError
	if errors.As(err, &tooBig) {
		http.Error(w, fmt.Sprintf("request body exceeds %d bytes", tooBig.Limit), http.StatusRequestEntityTooLarge)
		return
	}
	http.Error(w, what+": "+err.Error(), http.StatusBadRequest)
}

func writeResult(w http.ResponseWriter, status int, result *message.DispatchResult) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(result)
}

func statusFor(err error) int {
	switch dispatch.Classify(err) {
	case dispatch.StatusOK:
		return http.StatusOK
	case dispatch.StatusInvalid:
		return http.StatusBadRequest
	case dispatch.StatusTooLarge:
		return http.StatusRequestEntityTooLarge
	case dispatch.StatusUnavailable:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// accepts reports whether the Accept header names mediaType.
func accepts(r *http.Request, mediaType string) bool {
	for _, part := range strings.Split(r.Header.Get("Accept"), ",") {
		mt, _, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err == nil && mt == mediaType {
			return true
		}
	}
	return false
}

// Send delivers a payload to an HTTP target via POST.
func (t *Transport) Send(ctx context.Context, target message.Target, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("http send: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if target.Token != "" {
		req.Header.Set("Authorization", "Bearer "+target.Token)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("http send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("http send: status %d: %s", resp.StatusCode, body)
	}

	slog.Debug("http send success", "target", target.Endpoint, "status", resp.StatusCode)
	return nil
}

// Close gracefully shuts down the HTTP server.
func (t *Transport) Close() error {
	t.mu.Lock()
	srv := t.server
	t.mu.Unlock()
	if srv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
