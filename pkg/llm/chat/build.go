package chat

import (
	"time"

	"github.com/papercomputeco/llmock/pkg/llm"
)

// BuildCompletion assembles the non-streamed response for reply.
func BuildCompletion(req *Request, reply string, now time.Time) *Completion {
	return &Completion{
		ID:      llm.NewID(llm.PrefixChatCompletion),
		Object:  ObjectCompletion,
		Created: now.Unix(),
		Model:   req.Model,
		Choices: []Choice{{
			Index:        0,
			Message:      ReplyMessage{Role: llm.RoleAssistant, Content: reply},
			FinishReason: FinishReasonStop,
		}},
		Usage: NewUsage(req.Tokens(reply)),
	}
}
