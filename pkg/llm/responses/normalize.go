package responses

import (
	"strings"

	"github.com/papercomputeco/llmock/pkg/llm"
)

// Canonical normalizes the input. Bare string input becomes a prompt; list
// input yields at most one turn per item, see Turn.
func (r *Request) Canonical() *llm.CanonicalInput {
	if text, ok := r.Input.Text(); ok {
		return llm.NewPromptInput(llm.ProtocolResponses, text)
	}

	items := r.Input.Items()
	turns := make([]llm.Turn, 0, len(items))
	for _, it := range items {
		if t, ok := it.Turn(); ok {
			turns = append(turns, t)
		}
	}
	return llm.NewTurnInput(llm.ProtocolResponses, turns)
}

// Turn returns the item's turn. String content is used as is. For part
// content only the first input_text part counts; images never contribute.
// Items without text yield no turn.
func (it InputItem) Turn() (llm.Turn, bool) {
	var text string
	switch it.Kind {
	case ItemFlat:
		text, _ = it.Content()
	case ItemMessage:
		text = it.firstText()
	}

	if text == "" {
		return llm.Turn{}, false
	}
	return llm.Turn{Role: it.Role, Text: text}, true
}

func (it InputItem) firstText() string {
	if s, ok := it.Content(); ok {
		return s
	}
	for _, p := range it.Parts {
		if p.Type == PartInputText {
			return p.Text
		}
	}
	return ""
}

// texts returns every text of the item, including all input_text parts.
func (it InputItem) texts() []string {
	if s, ok := it.Content(); ok {
		return []string{s}
	}
	var out []string
	for _, p := range it.Parts {
		if p.Type == PartInputText {
			out = append(out, p.Text)
		}
	}
	return out
}

// InputText joins all input texts with single spaces: the bare string, or
// every string content and every input_text part of every item. Unlike
// Canonical, later parts and empty texts are included.
func (r *Request) InputText() string {
	if text, ok := r.Input.Text(); ok {
		return text
	}

	var texts []string
	for _, it := range r.Input.Items() {
		texts = append(texts, it.texts()...)
	}
	return strings.Join(texts, " ")
}

// UsageText is the text input tokens are estimated from: the instructions,
// when set, followed by a space and the input text.
func (r *Request) UsageText() string {
	input := r.InputText()
	if r.Instructions != nil && *r.Instructions != "" {
		return *r.Instructions + " " + input
	}
	return input
}

// Tokens estimates usage for reply.
func (r *Request) Tokens(reply string) llm.TokenCount {
	return llm.CountTokens(r.UsageText(), reply)
}
