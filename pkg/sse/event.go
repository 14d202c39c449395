// Package sse implements the small slice of Server-Sent Events that llmock
// needs: a Writer that frames events onto an HTTP response body and a Reader
// that parses them back, optionally teeing the raw wire bytes elsewhere.
//
// See https://html.spec.whatwg.org/multipage/server-sent-events.html
package sse

import (
	"io"
	"strings"
)

// Event is a single SSE event, delimited by a blank line on the wire.
type Event struct {
	// Type is the "event:" field. Empty means the default "message" type and
	// no event line is written.
	Type string

	// Data is the payload. Multi-line data is split into one "data:" line
	// per line when encoded, and joined with "\n" when parsed.
	Data string

	// ID is the "id:" field, if present.
	ID string
}

// String returns the wire encoding of the event, including the terminating
// blank line.
func (e Event) String() string {
	var b strings.Builder
	if e.ID != "" {
		b.WriteString("id: ")
		b.WriteString(e.ID)
		b.WriteByte('\n')
	}
	if e.Type != "" {
		b.WriteString("event: ")
		b.WriteString(e.Type)
		b.WriteByte('\n')
	}
	for line := range strings.SplitSeq(e.Data, "\n") {
		b.WriteString("data: ")
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	return b.String()
}

// WriteTo writes the wire encoding of the event to w.
func (e Event) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, e.String())
	return int64(n), err
}
