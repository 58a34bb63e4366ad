package mqtt

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/nadzzz/formantd/internal/message"
)

type fakeToken struct {
	err     error
	pending bool
	done    chan struct{}
}

func newToken(err error) *fakeToken {
	t := &fakeToken{err: err, done: make(chan struct{})}
	close(t.done)
	return t
}

func (t *fakeToken) Wait() bool                     { return true }
func (t *fakeToken) WaitTimeout(time.Duration) bool { return !t.pending }
func (t *fakeToken) Done() <-chan struct{}          { return t.done }
func (t *fakeToken) Error() error                   { return t.err }

type published struct {
	topic   string
	qos     byte
	payload []byte
}

// fakeClient records publishes and hands subscriptions back to the test.
type fakeClient struct {
	pahomqtt.Client

	opts       *pahomqtt.ClientOptions
	connectErr error

	mu         sync.Mutex
	published  []published
	handlers   map[string]pahomqtt.MessageHandler
	subscribed chan string
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		handlers:   make(map[string]pahomqtt.MessageHandler),
		subscribed: make(chan string, 1),
	}
}

func (c *fakeClient) Connect() pahomqtt.Token {
	if c.connectErr == nil && c.opts != nil && c.opts.OnConnect != nil {
		c.opts.OnConnect(c)
	}
	return newToken(c.connectErr)
}

func (c *fakeClient) Subscribe(topic string, _ byte, cb pahomqtt.MessageHandler) pahomqtt.Token {
	c.mu.Lock()
	c.handlers[topic] = cb
	c.mu.Unlock()
	c.subscribed <- topic
	return newToken(nil)
}

func (c *fakeClient) Publish(topic string, qos byte, _ bool, payload any) pahomqtt.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.published = append(c.published, published{topic: topic, qos: qos, payload: payload.([]byte)})
	return newToken(nil)
}

func (c *fakeClient) Disconnect(uint) {}

func (c *fakeClient) deliver(topic string, payload []byte) {
	c.mu.Lock()
	cb := c.handlers[topic]
	c.mu.Unlock()
	cb(c, &fakeMessage{topic: topic, payload: payload})
}

func (c *fakeClient) last() published {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.published[len(c.published)-1]
}

type fakeMessage struct {
	pahomqtt.Message
	topic   string
	payload []byte
}

func (m *fakeMessage) Topic() string   { return m.topic }
func (m *fakeMessage) Payload() []byte { return m.payload }

// listen starts tr with a fake client and waits for the subscription.
func listen(t *testing.T, tr *Transport, handler func(context.Context, *message.Message) (*message.DispatchResult, error)) *fakeClient {
	t.Helper()
	fc := newFakeClient()
	tr.newClient = func(o *pahomqtt.ClientOptions) pahomqtt.Client {
		fc.opts = o
		return fc
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- tr.Listen(ctx, handler) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	select {
	case topic := <-fc.subscribed:
		if topic != tr.opts.Topic {
			t.Fatalf("subscribed to %q, want %q", topic, tr.opts.Topic)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no subscription")
	}
	return fc
}

func echo(_ context.Context, msg *message.Message) (*message.DispatchResult, error) {
	return &message.DispatchResult{MessageID: msg.ID, Text: msg.Text + "|" + msg.Source}, nil
}

func TestOnMessage_Reply(t *testing.T) {
	tests := []struct {
		name      string
		payload   string
		wantTopic string
		wantText  string
	}{
		{"json default reply topic", `{"text":"hi","source":"hall"}`, "formantd/speak/reply", "hi|hall"},
		{"json reply to", `{"text":"hi","instruction":{"reply_to":"room/1"}}`, "room/1", "hi|mqtt:formantd/speak"},
		{"plain text", `good night`, "formantd/speak/reply", "good night|mqtt:formantd/speak"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := New(Options{Topic: "formantd/speak", QoS: 1})
			fc := listen(t, tr, echo)

			fc.deliver("formantd/speak", []byte(tt.payload))

			p := fc.last()
			if p.topic != tt.wantTopic {
				t.Errorf("reply topic = %q, want %q", p.topic, tt.wantTopic)
			}
			if p.qos != 1 {
				t.Errorf("qos = %d", p.qos)
			}
			var res message.DispatchResult
			if err := json.Unmarshal(p.payload, &res); err != nil {
				t.Fatalf("reply is not a result: %v", err)
			}
			if res.Text != tt.wantText || res.MessageID == "" {
				t.Errorf("result = %+v", res)
			}
		})
	}
}

func TestOnMessage_ErrorResult(t *testing.T) {
	tr := New(Options{Topic: "t"})
	fc := listen(t, tr, func(_ context.Context, msg *message.Message) (*message.DispatchResult, error) {
		err := errors.New("bad voice")
		return &message.DispatchResult{MessageID: msg.ID, Error: err.Error()}, err
	})

	fc.deliver("t", []byte(`{"text":"x"}`))

	var res message.DispatchResult
	_ = json.Unmarshal(fc.last().payload, &res)
	if res.Error != "bad voice" {
		t.Errorf("error = %q", res.Error)
	}
}

func TestSend(t *testing.T) {
	tr := New(Options{Topic: "t", QoS: 2})
	if err := tr.Send(context.Background(), message.Target{Endpoint: "x"}, nil); !errors.Is(err, errNotConnected) {
		t.Fatalf("Send before Listen = %v, want errNotConnected", err)
	}

	fc := listen(t, tr, echo)
	if err := tr.Send(context.Background(), message.Target{Endpoint: "speakers/lobby"}, []byte("{}")); err != nil {
		t.Fatalf("Send: %v", err)
	}
	p := fc.last()
	if p.topic != "speakers/lobby" || p.qos != 2 || string(p.payload) != "{}" {
		t.Errorf("published = %+v", p)
	}
}

func TestListen_ConnectError(t *testing.T) {
	tr := New(Options{Broker: "tcp://nowhere:1883", Topic: "t"})
	tr.newClient = func(*pahomqtt.ClientOptions) pahomqtt.Client {
		fc := newFakeClient()
		fc.connectErr = errors.New("refused")
		return fc
	}
	if err := tr.Listen(context.Background(), echo); err == nil {
		t.Fatal("Listen succeeded with a failing broker")
	}
}

func TestListen_ClientOptions(t *testing.T) {
	tr := New(Options{Broker: "tcp://broker:1883", Topic: "t", ClientID: "fd-1", Username: "u", Password: "p"})
	fc := listen(t, tr, echo)

	if got := fc.opts.ClientID; got != "fd-1" {
		t.Errorf("client id = %q", got)
	}
	if fc.opts.Username != "u" || fc.opts.Password != "p" {
		t.Errorf("credentials = %q/%q", fc.opts.Username, fc.opts.Password)
	}
	if len(fc.opts.Servers) != 1 || fc.opts.Servers[0].Host != "broker:1883" {
		t.Errorf("servers = %v", fc.opts.Servers)
	}
	if !fc.opts.AutoReconnect {
		t.Error("auto reconnect disabled")
	}
}

func TestWaitTimeout(t *testing.T) {
	refused := errors.New("not authorized")
	tests := []struct {
		name string
		tok  *fakeToken
		want error
	}{
		{"completed", newToken(nil), nil},
		{"failed", newToken(refused), refused},
		{"timed out", &fakeToken{pending: true, done: make(chan struct{})}, errTimeout},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := waitTimeout(tt.tok, time.Millisecond); !errors.Is(err, tt.want) {
				t.Errorf("waitTimeout = %v, want %v", err, tt.want)
			}
		})
	}
}
