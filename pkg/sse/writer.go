package sse

import "io"

// Writer frames events onto an underlying stream, typically the write half of
// an io.Pipe whose read half backs a streamed HTTP response body.
type Writer struct {
	w io.Writer
}

// NewWriter returns a Writer that encodes events to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Send writes one event. Errors come straight from the underlying writer; a
// closed pipe means the client went away.
func (w *Writer) Send(ev Event) error {
	_, err := ev.WriteTo(w.w)
	return err
}
