package stream

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/papercomputeco/llmock/pkg/sse"
)

// Encode renders a frame as an SSE event. Literal payloads are written as
// is; everything else is JSON without HTML escaping.
func Encode(f Frame) (sse.Event, error) {
	if lit, ok := f.Payload.(Literal); ok {
		return sse.Event{Type: f.Event, Data: string(lit)}, nil
	}

	data, err := Marshal(f.Payload)
	if err != nil {
		return sse.Event{}, fmt.Errorf("encoding %q frame: %w", f.Event, err)
	}
	return sse.Event{Type: f.Event, Data: string(data)}, nil
}

// Marshal is json.Marshal with HTML escaping off and no trailing newline.
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Write encodes and sends one frame.
func Write(w *sse.Writer, f Frame) error {
	ev, err := Encode(f)
	if err != nil {
		return err
	}
	return w.Send(ev)
}
