package chat

import (
	"time"

	"github.com/papercomputeco/llmock/pkg/llm"
	"github.com/papercomputeco/llmock/pkg/stream"
)

// Script emits chat completion chunks: the role announcement, one chunk per
// delta, the stop chunk, an optional usage chunk and the [DONE] sentinel.
// Every chunk of a stream shares one ID and creation time.
type Script struct {
	id           string
	created      int64
	model        string
	includeUsage bool
	usage        Usage
}

var _ stream.Script = (*Script)(nil)

// NewScript prepares the chunks for streaming reply to req.
func NewScript(req *Request, reply string, now time.Time) *Script {
	return &Script{
		id:           llm.NewID(llm.PrefixChatCompletion),
		created:      now.Unix(),
		model:        req.Model,
		includeUsage: req.IncludeUsage(),
		usage:        NewUsage(req.Tokens(reply)),
	}
}

// ID is the completion ID shared by all chunks.
func (s *Script) ID() string {
	return s.id
}

func (s *Script) Prologue() []stream.Frame {
	empty := ""
	return []stream.Frame{s.frame(Delta{Role: llm.RoleAssistant, Content: &empty}, nil)}
}

func (s *Script) Delta(_ int, delta string) stream.Frame {
	return s.frame(Delta{Content: &delta}, nil)
}

func (s *Script) Epilogue(string) []stream.Frame {
	stop := FinishReasonStop
	frames := []stream.Frame{s.frame(Delta{}, &stop)}

	if s.includeUsage {
		usage := s.usage
		frames = append(frames, stream.Frame{Payload: &Chunk{
			ID:      s.id,
			Object:  ObjectChunk,
			Created: s.created,
			Model:   s.model,
			Choices: []ChunkChoice{},
			Usage:   &usage,
		}})
	}

	return append(frames, stream.Frame{Payload: stream.Done})
}

func (s *Script) frame(delta Delta, finish *string) stream.Frame {
	return stream.Frame{Payload: &Chunk{
		ID:      s.id,
		Object:  ObjectChunk,
		Created: s.created,
		Model:   s.model,
		Choices: []ChunkChoice{{
			Index:        0,
			Delta:        delta,
			FinishReason: finish,
		}},
	}}
}
