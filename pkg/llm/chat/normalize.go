package chat

import (
	"strings"

	"github.com/papercomputeco/llmock/pkg/llm"
)

// Canonical maps every message to one turn, in order. Null content becomes
// an empty turn; multi-part content contributes its first text part.
func (r *Request) Canonical() *llm.CanonicalInput {
	turns := make([]llm.Turn, 0, len(r.Messages))
	for _, m := range r.Messages {
		turns = append(turns, llm.Turn{Role: m.Role, Text: m.Content.Text()})
	}
	return llm.NewTurnInput(llm.ProtocolChat, turns)
}

// PromptText joins the non-empty message texts with single spaces. It is
// the text prompt tokens are estimated from.
func (r *Request) PromptText() string {
	texts := make([]string, 0, len(r.Messages))
	for _, m := range r.Messages {
		if t := m.Content.Text(); t != "" {
			texts = append(texts, t)
		}
	}
	return strings.Join(texts, " ")
}

// Tokens estimates usage for reply.
func (r *Request) Tokens(reply string) llm.TokenCount {
	return llm.CountTokens(r.PromptText(), reply)
}
