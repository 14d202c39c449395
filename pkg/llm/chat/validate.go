package chat

import (
	"fmt"

	"github.com/papercomputeco/llmock/pkg/llm"
)

var roles = map[llm.Role]struct{}{
	llm.RoleSystem:    {},
	llm.RoleDeveloper: {},
	llm.RoleUser:      {},
	llm.RoleAssistant: {},
	llm.RoleTool:      {},
}

// Validate checks the request shape. Only *llm.InvalidRequestError is
// returned.
func (r *Request) Validate() error {
	if r.Model == "" {
		return llm.Invalidf("model", "you must provide a model parameter")
	}
	if len(r.Messages) == 0 {
		return llm.Invalidf("messages", "messages must contain at least one message")
	}
	for i, m := range r.Messages {
		if _, ok := roles[m.Role]; !ok {
			return llm.Invalidf(fmt.Sprintf("messages[%d].role", i), "unsupported role %q", m.Role)
		}
	}
	if t := r.Temperature; t != nil && (*t < 0 || *t > 2) {
		return llm.Invalidf("temperature", "%g is not between 0 and 2", *t)
	}
	if p := r.TopP; p != nil && (*p < 0 || *p > 1) {
		return llm.Invalidf("top_p", "%g is not between 0 and 1", *p)
	}
	if n := r.MaxTokens; n != nil && *n < 1 {
		return llm.Invalidf("max_tokens", "%d is less than the minimum of 1", *n)
	}
	return nil
}
