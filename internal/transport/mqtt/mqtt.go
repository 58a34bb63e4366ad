// Package mqtt implements the MQTT transport for formantd.
//
// MQTT is well-suited for IoT devices and lightweight pub/sub messaging.
// This transport subscribes to a configurable topic and publishes responses
// back to the sender's reply topic, or to "<request topic>/reply" when the
// request names none.
package mqtt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/nadzzz/formantd/internal/message"
	"github.com/nadzzz/formantd/internal/transport"
)

// ReplySuffix is appended to the request topic when a message has no ReplyTo.
const ReplySuffix = "/reply"

const connectTimeout = 10 * time.Second

var (
	errNotConnected = errors.New("mqtt: not connected")
	errTimeout      = errors.New("mqtt: timed out")
)

// Options configures the MQTT transport.
type Options struct {
	Broker   string
	Topic    string
	ClientID string
	Username string
	Password string
	QoS      byte
}

// Transport implements transport.Transport over MQTT.
type Transport struct {
	opts      Options
	newClient func(*pahomqtt.ClientOptions) pahomqtt.Client

	mu     sync.Mutex
	client pahomqtt.Client
}

// New creates a new MQTT transport.
func New(opts Options) *Transport {
	return &Transport{opts: opts, newClient: pahomqtt.NewClient}
}

// Name returns the transport identifier.
func (t *Transport) Name() string { return "mqtt" }

// Listen connects to the MQTT broker and subscribes to the configured topic.
// The subscription is renewed on every reconnect.
func (t *Transport) Listen(ctx context.Context, handler transport.Handler) error {
	opts := pahomqtt.NewClientOptions().
		AddBroker(t.opts.Broker).
		SetClientID(t.opts.ClientID).
		SetUsername(t.opts.Username).
		SetPassword(t.opts.Password).
		SetAutoReconnect(true).
		SetOrderMatters(false).
		SetConnectTimeout(connectTimeout).
		SetConnectionLostHandler(func(_ pahomqtt.Client, err error) {
			slog.Warn("mqtt connection lost", "broker", t.opts.Broker, "error", err)
		}).
		SetOnConnectHandler(func(c pahomqtt.Client) {
			tok := c.Subscribe(t.opts.Topic, t.opts.QoS, t.onMessage(ctx, handler))
			if err := waitTimeout(tok, connectTimeout); err != nil {
				slog.Error("mqtt subscribe failed", "topic", t.opts.Topic, "error", err)
				return
			}
			slog.Info("mqtt subscribed", "topic", t.opts.Topic, "qos", t.opts.QoS)
		})

	client := t.newClient(opts)
	t.mu.Lock()
	t.client = client
	t.mu.Unlock()
	if err := wait(ctx, client.Connect()); err != nil {
		t.mu.Lock()
		t.client = nil
		t.mu.Unlock()
		return fmt.Errorf("mqtt connect %s: %w", t.opts.Broker, err)
	}

	slog.Info("mqtt transport listening", "broker", t.opts.Broker, "topic", t.opts.Topic)
	<-ctx.Done()
	return t.Close()
}

// onMessage decodes a request, runs it through handler and publishes the
// result. A payload that is not a JSON object is spoken as plain text.
func (t *Transport) onMessage(ctx context.Context, handler transport.Handler) pahomqtt.MessageHandler {
	return func(c pahomqtt.Client, m pahomqtt.Message) {
		var msg message.Message
		if err := json.Unmarshal(m.Payload(), &msg); err != nil {
			msg = message.Message{Text: string(m.Payload())}
		}
		if msg.Source == "" {
			msg.Source = "mqtt:" + m.Topic()
		}
		msg.Stamp()

		replyTo := msg.Instruction.ReplyTo
		if replyTo == "" {
			replyTo = m.Topic() + ReplySuffix
		}

		// Errors are carried in the result.
		result, _ := handler(ctx, &msg)
		payload, err := json.Marshal(result)
		if err != nil {
			slog.Error("mqtt marshal result failed", "message_id", msg.ID, "error", err)
			return
		}
		if err := wait(ctx, c.Publish(replyTo, t.opts.QoS, false, payload)); err != nil {
			slog.Error("mqtt reply failed", "message_id", msg.ID, "topic", replyTo, "error", err)
			return
		}
		slog.Debug("mqtt reply published", "message_id", msg.ID, "topic", replyTo, "bytes", len(payload))
	}
}

// Send publishes a payload to the topic named by the target endpoint.
func (t *Transport) Send(ctx context.Context, target message.Target, payload []byte) error {
	t.mu.Lock()
	client := t.client
	t.mu.Unlock()
	if client == nil {
		return errNotConnected
	}
	if err := wait(ctx, client.Publish(target.Endpoint, t.opts.QoS, false, payload)); err != nil {
		return fmt.Errorf("mqtt send: %w", err)
	}
	slog.Debug("mqtt send success", "topic", target.Endpoint, "bytes", len(payload))
	return nil
}

// Close disconnects from the MQTT broker.
func (t *Transport) Close() error {
	t.mu.Lock()
	client := t.client
	t.client = nil
	t.mu.Unlock()
	if client != nil {
		client.Disconnect(250)
		slog.Info("mqtt transport disconnected")
	}
	return nil
}

// wait blocks until tok completes or ctx ends.
func wait(ctx context.Context, tok pahomqtt.Token) error {
	select {
	case <-tok.Done():
		return tok.Error()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// waitTimeout blocks until tok completes or d elapses.
func waitTimeout(tok pahomqtt.Token, d time.Duration) error {
	if !tok.WaitTimeout(d) {
		return errTimeout
	}
	return tok.Error()
}
