package api

import (
	"io"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/papercomputeco/llmock/pkg/journal"
	"github.com/papercomputeco/llmock/pkg/sse"
	"github.com/papercomputeco/llmock/pkg/stream"
)

// stream sends seq as server-sent events and records the exchange when the
// sequence ends.
func (s *Server) stream(c *fiber.Ctx, seq *stream.Sequence, entry journal.Entry, start time.Time) error {
	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	// Use io.Pipe + SetBodyStream so every frame is flushed to the socket
	// as it is written. fasthttp closes the reader when the client goes
	// away, which fails the next write and ends the sequence.
	pr, pw := io.Pipe()
	s.streams.Go(func() {
		w := sse.NewWriter(pw)
		err := seq.Each(s.ctx, func(f stream.Frame) error {
			return stream.Write(w, f)
		})
		if err != nil {
			s.logger.Debug("stream ended early",
				"id", entry.ID,
				"state", seq.State().String(),
				"error", err,
			)
		}
		// Record before closing the pipe: once the body ends the request is
		// done and Shutdown may return.
		s.record(entry, start, err)
		_ = pw.CloseWithError(err)
	})

	// Unknown size (-1) triggers chunked transfer encoding in fasthttp.
	c.Context().Response.SetBodyStream(pr, -1)
	return nil
}
