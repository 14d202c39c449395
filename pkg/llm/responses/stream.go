package responses

import (
	"time"

	"github.com/papercomputeco/llmock/pkg/llm"
	"github.com/papercomputeco/llmock/pkg/stream"
)

// Script emits the nine event kinds of a streamed response. Every event
// carries the next sequence number. The completed event is stamped with the
// clock's time when it is built.
type Script struct {
	req       *Request
	clock     func() time.Time
	id        string
	messageID string
	createdAt int64
	seq       int
}

var _ stream.Script = (*Script)(nil)

// NewScript prepares the events for streaming a reply to req. clock is read
// once for created_at and again for completed_at.
func NewScript(req *Request, clock func() time.Time) *Script {
	return &Script{
		req:       req,
		clock:     clock,
		id:        llm.NewID(llm.PrefixResponse),
		messageID: llm.NewID(llm.PrefixMessage),
		createdAt: clock().Unix(),
	}
}

// ID is the response ID.
func (s *Script) ID() string {
	return s.id
}

func (s *Script) Prologue() []stream.Frame {
	return []stream.Frame{
		s.responseFrame(EventCreated, snapshot(s.req, s.id, s.createdAt)),
		s.responseFrame(EventInProgress, snapshot(s.req, s.id, s.createdAt)),
		s.frame(EventOutputItemAdded, &OutputItemEvent{
			Type: EventOutputItemAdded,
			Item: OutputMessage{
				Type:    OutputTypeMessage,
				ID:      s.messageID,
				Status:  StatusInProgress,
				Role:    llm.RoleAssistant,
				Content: []OutputText{},
			},
		}),
		s.partFrame(EventContentPartAdded, ""),
	}
}

func (s *Script) Delta(_ int, delta string) stream.Frame {
	return s.frame(EventOutputTextDelta, &TextDeltaEvent{
		Type:   EventOutputTextDelta,
		ItemID: s.messageID,
		Delta:  delta,
	})
}

func (s *Script) Epilogue(text string) []stream.Frame {
	frames := []stream.Frame{
		s.frame(EventOutputTextDone, &TextDoneEvent{
			Type:   EventOutputTextDone,
			ItemID: s.messageID,
			Text:   text,
		}),
		s.partFrame(EventContentPartDone, text),
		s.frame(EventOutputItemDone, &OutputItemEvent{
			Type: EventOutputItemDone,
			Item: completedMessage(s.messageID, text),
		}),
	}

	final := snapshot(s.req, s.id, s.createdAt)
	complete(final, s.req, s.messageID, text, s.clock().Unix())
	return append(frames, s.responseFrame(EventCompleted, final))
}

func (s *Script) responseFrame(typ string, resp *Response) stream.Frame {
	return s.frame(typ, &ResponseEvent{Type: typ, Response: resp})
}

func (s *Script) partFrame(typ, text string) stream.Frame {
	return s.frame(typ, &ContentPartEvent{
		Type:   typ,
		ItemID: s.messageID,
		Part:   newOutputText(text),
	})
}

// frame stamps payload with the next sequence number and wraps it.
func (s *Script) frame(typ string, payload sequenced) stream.Frame {
	payload.setSequence(s.seq)
	s.seq++
	return stream.Frame{Event: typ, Payload: payload}
}
