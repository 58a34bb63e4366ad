package grpc

import (
	"context"
	"fmt"
	"net"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/nadzzz/formantd/internal/dispatch"
	"github.com/nadzzz/formantd/internal/message"
	"github.com/nadzzz/formantd/internal/speech"
	"github.com/nadzzz/formantd/internal/transport"
)

func bufDialer(lis *bufconn.Listener) grpc.DialOption {
	return grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
		return lis.DialContext(ctx)
	})
}

// startServer serves handler on an in-memory listener and returns a client
// connection to it.
func startServer(t *testing.T, handler transport.Handler) *grpc.ClientConn {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	ctx, cancel := context.WithCancel(context.Background())

	tr := New(0)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = tr.serve(ctx, lis, handler)
	}()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		bufDialer(lis),
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	t.Cleanup(func() {
		conn.Close()
		cancel()
		<-done
	})
	return conn
}

func TestSynthesize(t *testing.T) {
	var got *message.Message
	conn := startServer(t, func(_ context.Context, msg *message.Message) (*message.DispatchResult, error) {
		got = msg
		res := &message.DispatchResult{
			MessageID:  msg.ID,
			Phonemes:   "h@l'@U",
			SampleRate: 44100,
			Channels:   2,
		}
		res.SetAudioBytes([]byte("RIFF"))
		return res, nil
	})

	ctx := metadata.AppendToOutgoingContext(context.Background(),
		MetaVoice, "low", MetaSource, "robot-7")
	var header metadata.MD
	out := new(wrapperspb.BytesValue)
	if err := conn.Invoke(ctx, SynthesizeMethod, wrapperspb.String("hello"), out, grpc.Header(&header)); err != nil {
		t.Fatalf("Synthesize: %v", err)
	}

	if string(out.GetValue()) != "RIFF" {
		t.Errorf("audio = %q", out.GetValue())
	}
	if got.Text != "hello" || got.Voice != "low" || got.Source != "robot-7" {
		t.Errorf("message = %+v", got)
	}
	if got.Instruction.ResponseMode != message.ResponseModeBoth {
		t.Errorf("response mode = %q", got.Instruction.ResponseMode)
	}
	if ph := header.Get(MetaPhonemes); len(ph) != 1 || ph[0] != "h@l'@U" {
		t.Errorf("phonemes header = %v", ph)
	}
	if sr := header.Get(MetaSampleRate); len(sr) != 1 || sr[0] != "44100" {
		t.Errorf("sample rate header = %v", sr)
	}
	if id := header.Get(MetaMessageID); len(id) != 1 || id[0] != got.ID {
		t.Errorf("message id header = %v, want %s", id, got.ID)
	}
}

func TestPhonemes(t *testing.T) {
	conn := startServer(t, func(_ context.Context, msg *message.Message) (*message.DispatchResult, error) {
		if msg.Instruction.ResponseMode != message.ResponseModePhonemes {
			return nil, fmt.Errorf("mode %q", msg.Instruction.ResponseMode)
		}
		return &message.DispatchResult{MessageID: msg.ID, Phonemes: "k'{t"}, nil
	})

	out := new(wrapperspb.StringValue)
	if err := conn.Invoke(context.Background(), PhonemesMethod, wrapperspb.String("cat"), out); err != nil {
		t.Fatalf("Phonemes: %v", err)
	}
	if out.GetValue() != "k'{t" {
		t.Errorf("phonemes = %q", out.GetValue())
	}
}

func TestStatusCodes(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want codes.Code
	}{
		{"invalid", fmt.Errorf("%w: empty", dispatch.ErrInvalid), codes.InvalidArgument},
		{"too long", speech.ErrTooLong, codes.ResourceExhausted},
		{"deadline", context.DeadlineExceeded, codes.Unavailable},
		{"internal", fmt.Errorf("boom"), codes.Internal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn := startServer(t, func(_ context.Context, msg *message.Message) (*message.DispatchResult, error) {
				return &message.DispatchResult{MessageID: msg.ID, Error: tt.err.Error()}, tt.err
			})
			err := conn.Invoke(context.Background(), SynthesizeMethod, wrapperspb.String("x"), new(wrapperspb.BytesValue))
			if got := status.Code(err); got != tt.want {
				t.Errorf("code = %v, want %v (err %v)", got, tt.want, err)
			}
		})
	}
}

func TestHealth(t *testing.T) {
	conn := startServer(t, func(context.Context, *message.Message) (*message.DispatchResult, error) {
		return &message.DispatchResult{}, nil
	})
	resp, err := healthpb.NewHealthClient(conn).Check(context.Background(),
		&healthpb.HealthCheckRequest{Service: ServiceName})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		t.Errorf("status = %v, want SERVING", resp.GetStatus())
	}
}

type sink interface {
	Deliver(context.Context, *wrapperspb.BytesValue) (*emptypb.Empty, error)
}

type sinkServer struct {
	payloads chan []byte
	auth     chan string
}

func (s *sinkServer) Deliver(ctx context.Context, in *wrapperspb.BytesValue) (*emptypb.Empty, error) {
	md, _ := metadata.FromIncomingContext(ctx)
	s.auth <- first(md.Get("authorization"))
	s.payloads <- in.GetValue()
	return new(emptypb.Empty), nil
}

var sinkDesc = grpc.ServiceDesc{
	ServiceName: "formantd.v1.Sink",
	HandlerType: (*sink)(nil),
	Methods: []grpc.MethodDesc{{
		MethodName: "Deliver",
		Handler: func(srv any, ctx context.Context, dec func(any) error, _ grpc.UnaryServerInterceptor) (any, error) {
			in := new(wrapperspb.BytesValue)
			if err := dec(in); err != nil {
				return nil, err
			}
			return srv.(sink).Deliver(ctx, in)
		},
	}},
}

func TestSend(t *testing.T) {
	lis := bufconn.Listen(1 << 20)
	s := grpc.NewServer()
	recv := &sinkServer{payloads: make(chan []byte, 1), auth: make(chan string, 1)}
	s.RegisterService(&sinkDesc, recv)
	go func() { _ = s.Serve(lis) }()
	defer s.Stop()

	tr := New(0)
	tr.dialOpts = append(tr.dialOpts, bufDialer(lis))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	target := message.Target{Endpoint: "passthrough:///sink", Protocol: "grpc", Token: "t0k"}
	if err := tr.Send(ctx, target, []byte(`{"message_id":"1"}`)); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if got := string(<-recv.payloads); got != `{"message_id":"1"}` {
		t.Errorf("payload = %q", got)
	}
	if got := <-recv.auth; got != "Bearer t0k" {
		t.Errorf("authorization = %q", got)
	}
}

func TestSend_Unimplemented(t *testing.T) {
	lis := bufconn.Listen(1 << 20)
	s := grpc.NewServer()
	go func() { _ = s.Serve(lis) }()
	defer s.Stop()

	tr := New(0)
	tr.dialOpts = append(tr.dialOpts, bufDialer(lis))
	err := tr.Send(context.Background(), message.Target{Endpoint: "passthrough:///sink"}, nil)
	if status.Code(err) != codes.Unimplemented {
		t.Errorf("Send error = %v, want Unimplemented", err)
	}
}

func TestServe_Close(t *testing.T) {
	lis := bufconn.Listen(1 << 20)
	tr := New(0)
	done := make(chan error, 1)
	go func() { done <- tr.serve(context.Background(), lis, echoPhonemes) }()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		bufDialer(lis),
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	defer conn.Close()
	if _, err := healthpb.NewHealthClient(conn).Check(context.Background(),
		&healthpb.HealthCheckRequest{Service: ServiceName}); err != nil {
		t.Fatalf("Check: %v", err)
	}

	if err := tr.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("serve = %v, want nil after Close", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return after Close")
	}
}

func TestClose_NotListening(t *testing.T) {
	if err := New(0).Close(); err != nil {
		t.Errorf("Close = %v", err)
	}
}

func echoPhonemes(_ context.Context, msg *message.Message) (*message.DispatchResult, error) {
	return &message.DispatchResult{MessageID: msg.ID, Phonemes: msg.Text}, nil
}
