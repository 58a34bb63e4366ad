package wyoming

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Wyoming protocol format (per event):
//
//	{"type": ..., "data_length": N, "payload_length": M}\n
//	<data_bytes>      (N bytes of JSON, if N > 0)
//	<payload_bytes>   (M bytes, if M > 0)
//
// Small data objects may also be carried inline in the header line.

// ProtocolVersion is written into every event header.
const ProtocolVersion = "1.5.2"

// Limits on what a peer may send.
const (
	maxHeaderBytes  = 64 << 10
	maxDataBytes    = 1 << 20
	maxPayloadBytes = 16 << 20
)

var errTooLarge = errors.New("wyoming: event exceeds size limit")

// Event is a single Wyoming protocol message.
type Event struct {
	Type    string
	Data    map[string]any
	Payload []byte
}

type header struct {
	Type          string         `json:"type"`
	Version       string         `json:"version,omitempty"`
	Data          map[string]any `json:"data,omitempty"`
	DataLength    int            `json:"data_length,omitempty"`
	PayloadLength int            `json:"payload_length,omitempty"`
}

// newReader wraps r with a buffer sized for the longest header line.
func newReader(r io.Reader) *bufio.Reader {
	return bufio.NewReaderSize(r, maxHeaderBytes)
}

// writeEvent sends a Wyoming event.
func writeEvent(w io.Writer, evt Event) error {
	h := header{Type: evt.Type, Version: ProtocolVersion, PayloadLength: len(evt.Payload)}
	var data []byte
	if len(evt.Data) > 0 {
		var err error
		if data, err = json.Marshal(evt.Data); err != nil {
			return fmt.Errorf("marshalling event data: %w", err)
		}
		h.DataLength = len(data)
	}
	line, err := json.Marshal(h)
	if err != nil {
		return fmt.Errorf("marshalling event header: %w", err)
	}

	// One write per event keeps events whole on shared connections.
	buf := make([]byte, 0, len(line)+1+len(data)+len(evt.Payload))
	buf = append(buf, line...)
	buf = append(buf, '\n')
	buf = append(buf, data...)
	buf = append(buf, evt.Payload...)
	_, err = w.Write(buf)
	return err
}

// readEvent reads a Wyoming event.
func readEvent(r *bufio.Reader) (*Event, error) {
	line, err := r.ReadSlice('\n')
	if err != nil {
		if errors.Is(err, bufio.ErrBufferFull) {
			return nil, errTooLarge
		}
		return nil, err
	}

	var h header
	if err := json.Unmarshal(line, &h); err != nil {
		return nil, fmt.Errorf("invalid wyoming header: %w", err)
	}
	if h.Type == "" {
		return nil, fmt.Errorf("invalid wyoming header: missing type")
	}
	if h.DataLength < 0 || h.DataLength > maxDataBytes || h.PayloadLength < 0 || h.PayloadLength > maxPayloadBytes {
		return nil, errTooLarge
	}

	evt := &Event{Type: h.Type, Data: h.Data}
	if h.DataLength > 0 {
		data := make([]byte, h.DataLength)
		if _, err := io.ReadFull(r, data); err != nil {
			return nil, fmt.Errorf("reading event data: %w", err)
		}
		var extra map[string]any
		if err := json.Unmarshal(data, &extra); err != nil {
			return nil, fmt.Errorf("unmarshalling event data: %w", err)
		}
		if evt.Data == nil {
			evt.Data = extra
		} else {
			for k, v := range extra {
				evt.Data[k] = v
			}
		}
	}
	if h.PayloadLength > 0 {
		evt.Payload = make([]byte, h.PayloadLength)
		if _, err := io.ReadFull(r, evt.Payload); err != nil {
			return nil, fmt.Errorf("reading payload: %w", err)
		}
	}
	return evt, nil
}

// str returns a string field of data.
func str(data map[string]any, key string) string {
	s, _ := data[key].(string)
	return s
}

// num returns an integer field of data, or def.
func num(data map[string]any, key string, def int) int {
	if f, ok := data[key].(float64); ok {
		return int(f)
	}
	return def
}

// obj returns an object field of data.
func obj(data map[string]any, key string) map[string]any {
	m, _ := data[key].(map[string]any)
	return m
}
