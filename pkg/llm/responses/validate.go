package responses

import (
	"fmt"

	"github.com/papercomputeco/llmock/pkg/llm"
)

var roles = map[llm.Role]struct{}{
	llm.RoleUser:      {},
	llm.RoleAssistant: {},
	llm.RoleSystem:    {},
	llm.RoleDeveloper: {},
}

// Validate checks the request shape. Only *llm.InvalidRequestError is
// returned.
func (r *Request) Validate() error {
	if r.Model == "" {
		return llm.Invalidf("model", "you must provide a model parameter")
	}
	if !r.Input.IsSet() {
		return llm.Invalidf("input", "you must provide an input parameter")
	}

	for i, it := range r.Input.Items() {
		if _, ok := roles[it.Role]; !ok {
			return llm.Invalidf(fmt.Sprintf("input[%d].role", i), "unsupported role %q", it.Role)
		}
		for j, p := range it.Parts {
			if p.Type != PartInputText && p.Type != PartInputImage {
				return llm.Invalidf(fmt.Sprintf("input[%d].content[%d].type", i, j), "unsupported content type %q", p.Type)
			}
		}
	}

	if t := r.Temperature; t != nil && (*t < 0 || *t > 2) {
		return llm.Invalidf("temperature", "%g is not between 0 and 2", *t)
	}
	if p := r.TopP; p != nil && (*p < 0 || *p > 1) {
		return llm.Invalidf("top_p", "%g is not between 0 and 1", *p)
	}
	if n := r.MaxOutputTokens; n != nil && *n < 1 {
		return llm.Invalidf("max_output_tokens", "%d is less than the minimum of 1", *n)
	}
	switch r.Truncation {
	case "", TruncationAuto, TruncationDisabled:
	default:
		return llm.Invalidf("truncation", "must be %q or %q", TruncationAuto, TruncationDisabled)
	}
	return nil
}
