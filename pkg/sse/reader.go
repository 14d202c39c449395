package sse

import (
	"bufio"
	"io"
	"strings"
)

// Reader parses SSE events from a source stream. When built with
// NewTeeReader every raw line read is also copied, verbatim, to a
// destination writer:
//
// ┌────────────┐    ┌───────────────┐    ┌─────────────┐
// │ src Reader │──▶ │ Reader.Next() │──▶ │ dest Writer │
// └────────────┘    └───────────────┘    └─────────────┘
//                           │
//                           ▼
//                       ┌───────┐
//                       │ Event │
//                       └───────┘
//
// llmock chat uses the tee to dump the raw wire format with --raw while
// still rendering the parsed deltas.
type Reader struct {
	scanner *bufio.Scanner
	dest    io.Writer

	current *Event
	hasData bool
}

// NewReader returns a Reader that parses events from src.
func NewReader(src io.Reader) *Reader {
	return NewTeeReader(src, io.Discard)
}

// NewTeeReader returns a Reader that parses events from src and writes all
// raw bytes through to dest.
func NewTeeReader(src io.Reader, dest io.Writer) *Reader {
	scanner := bufio.NewScanner(src)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	return &Reader{
		scanner: scanner,
		dest:    dest,
		current: &Event{},
	}
}

// Next blocks until a complete event is available and returns it. It returns
// nil, nil once the source is exhausted.
func (r *Reader) Next() (*Event, error) {
	for r.scanner.Scan() {
		raw := r.scanner.Text()

		// Scanner strips the newline, put it back for the tee.
		if _, err := io.WriteString(r.dest, raw+"\n"); err != nil {
			return nil, err
		}

		if raw == "" {
			if r.hasData {
				return r.take(), nil
			}
			// keep-alive or leading blank line
			continue
		}

		if strings.HasPrefix(raw, ":") {
			continue
		}

		r.parseLine(raw)
	}

	if err := r.scanner.Err(); err != nil {
		return nil, err
	}

	// Stream ended without a trailing blank line.
	if r.hasData {
		return r.take(), nil
	}
	return nil, nil
}

// All drains the source and returns every remaining event.
func (r *Reader) All() ([]Event, error) {
	var events []Event
	for {
		ev, err := r.Next()
		if err != nil {
			return events, err
		}
		if ev == nil {
			return events, nil
		}
		events = append(events, *ev)
	}
}

// parseLine accumulates one "field:value" line into the current event. A
// single space after the colon is stripped; a line without a colon is a
// field name with an empty value.
func (r *Reader) parseLine(line string) {
	field, value, ok := strings.Cut(line, ":")
	if ok {
		value = strings.TrimPrefix(value, " ")
	}

	switch field {
	case "data":
		if r.hasData && r.current.Data != "" {
			r.current.Data += "\n"
		}
		r.current.Data += value
		r.hasData = true
	case "event":
		r.current.Type = value
		r.hasData = true
	case "id":
		r.current.ID = value
		r.hasData = true
	default:
		// retry and unknown fields are ignored
	}
}

func (r *Reader) take() *Event {
	ev := r.current
	r.current = &Event{}
	r.hasData = false
	return ev
}
