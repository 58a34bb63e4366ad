// Package grpc implements the gRPC transport for formantd.
//
// The service is described by hand with well-known wrapper types, so no
// generated code is needed: Synthesize takes a StringValue of text and
// returns a BytesValue holding a WAV file, and Phonemes returns the
// transcription as a StringValue. Request options travel as metadata.
// It is the preferred transport for low-latency communication with
// robots and edge devices.
package grpc

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/nadzzz/formantd/internal/dispatch"
	"github.com/nadzzz/formantd/internal/message"
	"github.com/nadzzz/formantd/internal/transport"
)

// Service and method names.
const (
	ServiceName      = "formantd.v1.Speech"
	SynthesizeMethod = "/formantd.v1.Speech/Synthesize"
	PhonemesMethod   = "/formantd.v1.Speech/Phonemes"

	// DeliverMethod is invoked on targets that receive routed results.
	DeliverMethod = "/formantd.v1.Sink/Deliver"
)

// Metadata keys.
const (
	MetaVoice      = "x-formantd-voice"
	MetaSource     = "x-formantd-source"
	MetaMessageID  = "x-formantd-message-id"
	MetaPhonemes   = "x-formantd-phonemes"
	MetaSampleRate = "x-formantd-sample-rate"
	MetaChannels   = "x-formantd-channels"
)

// speechService is the server side of formantd.v1.Speech.
type speechService interface {
	Synthesize(context.Context, *wrapperspb.StringValue) (*wrapperspb.BytesValue, error)
	Phonemes(context.Context, *wrapperspb.StringValue) (*wrapperspb.StringValue, error)
}

var speechServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*speechService)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Synthesize", Handler: synthesizeHandler},
		{MethodName: "Phonemes", Handler: phonemesHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "formantd/v1/speech.proto",
}

func synthesizeHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(speechService).Synthesize(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: SynthesizeMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(speechService).Synthesize(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

func phonemesHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(speechService).Phonemes(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: PhonemesMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(speechService).Phonemes(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

// Transport implements transport.Transport over gRPC.
type Transport struct {
	port     int
	dialOpts []grpc.DialOption

	mu     sync.Mutex
	server *grpc.Server
	health *health.Server
}

// New creates a new gRPC transport on the given port.
func New(port int) *Transport {
	return &Transport{
		port:     port,
		dialOpts: []grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())},
	}
}

// Name returns the transport identifier.
func (t *Transport) Name() string { return "grpc" }

// Listen starts the gRPC server and routes incoming requests to the handler.
func (t *Transport) Listen(ctx context.Context, handler transport.Handler) error {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", t.port))
	if err != nil {
		return fmt.Errorf("grpc listen: %w", err)
	}
	slog.Info("grpc transport listening", "port", t.port)
	return t.serve(ctx, lis, handler)
}

func (t *Transport) serve(ctx context.Context, lis net.Listener, handler transport.Handler) error {
	srv := grpc.NewServer(grpc.UnaryInterceptor(logUnary))
	srv.RegisterService(&speechServiceDesc, &speechServer{handler: handler})

	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)

	t.mu.Lock()
	t.server, t.health = srv, hs
	t.mu.Unlock()

	go func() {
		<-ctx.Done()
		slog.Info("grpc transport shutting down")
		hs.Shutdown()
		srv.GracefulStop()
	}()

	return srv.Serve(lis)
}

// Send delivers a payload to a gRPC target by invoking its Deliver method.
func (t *Transport) Send(ctx context.Context, target message.Target, payload []byte) error {
	conn, err := grpc.NewClient(target.Endpoint, t.dialOpts...)
	if err != nil {
		return fmt.Errorf("grpc send: %w", err)
	}
	defer conn.Close()

	if target.Token != "" {
		ctx = metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+target.Token)
	}
	if err := conn.Invoke(ctx, DeliverMethod, wrapperspb.Bytes(payload), new(emptypb.Empty)); err != nil {
		return fmt.Errorf("grpc send: %w", err)
	}

	slog.Debug("grpc send success", "target", target.Endpoint, "bytes", len(payload))
	return nil
}

// Close gracefully stops the gRPC server.
func (t *Transport) Close() error {
	t.mu.Lock()
	srv, hs := t.server, t.health
	t.mu.Unlock()
	if srv == nil {
		return nil
	}
	hs.Shutdown()
	srv.GracefulStop()
	return nil
}

type speechServer struct {
	handler transport.Handler
}

func (s *speechServer) Synthesize(ctx context.Context, in *wrapperspb.StringValue) (*wrapperspb.BytesValue, error) {
	msg := requestMessage(ctx, in.GetValue())
	msg.Instruction.ResponseMode = message.ResponseModeBoth

	res, err := s.handler(ctx, msg)
	if err != nil {
		return nil, toStatus(err)
	}
	audio, err := res.AudioBytes()
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	header := metadata.Pairs(
		MetaMessageID, res.MessageID,
		MetaSampleRate, strconv.Itoa(res.SampleRate),
		MetaChannels, strconv.Itoa(res.Channels),
	)
	if res.Phonemes != "" {
		header.Set(MetaPhonemes, res.Phonemes)
	}
	if err := grpc.SetHeader(ctx, header); err != nil {
		slog.Warn("grpc set header failed", "error", err)
	}
	return wrapperspb.Bytes(audio), nil
}

func (s *speechServer) Phonemes(ctx context.Context, in *wrapperspb.StringValue) (*wrapperspb.StringValue, error) {
	msg := requestMessage(ctx, in.GetValue())
	msg.Instruction.ResponseMode = message.ResponseModePhonemes

	res, err := s.handler(ctx, msg)
	if err != nil {
		return nil, toStatus(err)
	}
	_ = grpc.SetHeader(ctx, metadata.Pairs(MetaMessageID, res.MessageID))
	return wrapperspb.String(res.Phonemes), nil
}

// requestMessage builds a message from the request text and metadata.
func requestMessage(ctx context.Context, text string) *message.Message {
	msg := &message.Message{Text: text}
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		msg.Voice = first(md.Get(MetaVoice))
		msg.Source = first(md.Get(MetaSource))
	}
	if msg.Source == "" {
		if p, ok := peer.FromContext(ctx); ok && p.Addr != nil {
			msg.Source = p.Addr.String()
		}
	}
	msg.Stamp()
	return msg
}

func first(vals []string) string {
	if len(vals) == 0 {
		return ""
	}
	return vals[0]
}

func toStatus(err error) error {
	var code codes.Code
	switch dispatch.Classify(err) {
	case dispatch.StatusOK:
		return nil
	case dispatch.StatusInvalid:
		code = codes.InvalidArgument
	case dispatch.StatusTooLarge:
		code = codes.ResourceExhausted
	case dispatch.StatusUnavailable:
		code = codes.Unavailable
	default:
		code = codes.Internal
	}
	return status.Error(code, err.Error())
}

func logUnary(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	slog.Debug("grpc request",
		"method", info.FullMethod,
		"code", status.Code(err).String(),
		"duration", time.Since(start))
	return resp, err
}
