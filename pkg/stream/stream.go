// Package stream drives streamed responses. A Sequence walks a protocol
// Script through a fixed set of states, splitting the reply into word deltas
// and pausing after each one to imitate token-by-token generation.
package stream

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"
)

// DefaultPace is the pause after each delta frame.
const DefaultPace = 10 * time.Millisecond

// Frame is one unit of a streamed response.
type Frame struct {
	// Event is the SSE event name. Empty for unnamed data frames.
	Event string

	// Payload is JSON encoded on the wire unless it is a Literal.
	Payload any
}

// Literal is a payload written to the wire verbatim.
type Literal string

// Done terminates a chat completion stream.
const Done Literal = "[DONE]"

// Script supplies the protocol-specific frames of a Sequence.
type Script interface {
	// Prologue returns the frames emitted before any delta.
	Prologue() []Frame

	// Delta returns the frame carrying the index-th delta.
	Delta(index int, delta string) Frame

	// Epilogue returns the frames emitted after the last delta. text is the
	// full reply.
	Epilogue(text string) []Frame
}

// State is the position of a Sequence.
type State int

const (
	StatePrologue State = iota
	StateDeltas
	StateEpilogue
	StateDone
)

func (s State) String() string {
	switch s {
	case StatePrologue:
		return "prologue"
	case StateDeltas:
		return "deltas"
	case StateEpilogue:
		return "epilogue"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// Deltas splits text on single ASCII spaces and prefixes every word after
// the first with one space. Empty words from repeated, leading or trailing
// spaces are kept, so joining the deltas gives back text exactly.
func Deltas(text string) []string {
	words := strings.Split(text, " ")
	deltas := make([]string, len(words))
	for i, w := range words {
		if i == 0 {
			deltas[i] = w
			continue
		}
		deltas[i] = " " + w
	}
	return deltas
}

// Option configures a Sequence.
type Option func(*Sequence)

// WithPace sets the pause after each delta. Zero disables pacing.
func WithPace(d time.Duration) Option {
	return func(s *Sequence) {
		s.pace = max(d, 0)
	}
}

// Sequence is a finite, non-restartable frame producer for one response.
// It is not safe for concurrent use; one goroutine drives it with Next.
type Sequence struct {
	script Script
	text   string
	deltas []string
	pace   time.Duration

	state State
	queue []Frame
	next  int
	pause bool
}

// New returns a Sequence that streams text through script.
func New(script Script, text string, opts ...Option) *Sequence {
	s := &Sequence{
		script: script,
		text:   text,
		deltas: Deltas(text),
		pace:   DefaultPace,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State reports where the sequence is.
func (s *Sequence) State() State {
	return s.state
}

// Next returns the next frame, or io.EOF once the epilogue has been fully
// emitted. The pause owed for the previous delta is taken at the start of
// Next, racing a timer against ctx; a cancelled ctx ends the sequence and
// its error is returned.
func (s *Sequence) Next(ctx context.Context) (Frame, error) {
	if s.state == StateDone && len(s.queue) == 0 {
		return Frame{}, io.EOF
	}

	if err := ctx.Err(); err != nil {
		s.stop()
		return Frame{}, err
	}

	if s.pause {
		s.pause = false
		if err := s.wait(ctx); err != nil {
			s.stop()
			return Frame{}, err
		}
	}

	for {
		if len(s.queue) > 0 {
			f := s.queue[0]
			s.queue = s.queue[1:]
			return f, nil
		}

		switch s.state {
		case StatePrologue:
			s.queue = s.script.Prologue()
			s.state = StateDeltas

		case StateDeltas:
			if s.next < len(s.deltas) {
				f := s.script.Delta(s.next, s.deltas[s.next])
				s.next++
				s.pause = s.pace > 0
				return f, nil
			}
			s.queue = s.script.Epilogue(s.text)
			s.state = StateEpilogue

		case StateEpilogue:
			s.state = StateDone

		case StateDone:
			return Frame{}, io.EOF
		}
	}
}

// Each drives the sequence to completion, calling fn for every frame. It
// stops at the first error from fn or from Next; io.EOF is not an error.
func (s *Sequence) Each(ctx context.Context, fn func(Frame) error) error {
	for {
		f, err := s.Next(ctx)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := fn(f); err != nil {
			s.stop()
			return err
		}
	}
}

// Collect drains the sequence into a slice.
func (s *Sequence) Collect(ctx context.Context) ([]Frame, error) {
	var frames []Frame
	err := s.Each(ctx, func(f Frame) error {
		frames = append(frames, f)
		return nil
	})
	return frames, err
}

func (s *Sequence) wait(ctx context.Context) error {
	t := time.NewTimer(s.pace)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (s *Sequence) stop() {
	s.state = StateDone
	s.queue = nil
}
