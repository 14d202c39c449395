// Package llm holds the protocol-neutral pieces of llmock: canonical turns,
// token estimation, identifiers and the OpenAI-shaped error payload.
package llm

import "slices"

// Role is the author of a Turn. It is always copied from the request.
type Role string

const (
	RoleSystem    Role = "system"
	RoleDeveloper Role = "developer"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Protocol identifies the request family a CanonicalInput was built from.
type Protocol int

const (
	// ProtocolChat is the chat completions API.
	ProtocolChat Protocol = iota

	// ProtocolResponses is the unified responses API.
	ProtocolResponses
)

func (p Protocol) String() string {
	switch p {
	case ProtocolChat:
		return "chat"
	case ProtocolResponses:
		return "responses"
	default:
		return "unknown"
	}
}

// Turn is one role-tagged message of a conversation. Text may be empty.
type Turn struct {
	Role Role
	Text string
}

// CanonicalInput is the normalized form of a request's conversation. It is
// either a bare prompt (responses API string input) or an ordered list of
// turns. It cannot be modified once built.
type CanonicalInput struct {
	protocol  Protocol
	prompt    string
	hasPrompt bool
	turns     []Turn
}

// NewPromptInput builds a CanonicalInput from bare string input.
func NewPromptInput(p Protocol, prompt string) *CanonicalInput {
	return &CanonicalInput{protocol: p, prompt: prompt, hasPrompt: true}
}

// NewTurnInput builds a CanonicalInput from ordered turns. The slice is
// copied.
func NewTurnInput(p Protocol, turns []Turn) *CanonicalInput {
	return &CanonicalInput{protocol: p, turns: slices.Clone(turns)}
}

// Protocol returns the request family the input came from.
func (in *CanonicalInput) Protocol() Protocol {
	return in.protocol
}

// Prompt returns the bare string input and whether the input was one.
func (in *CanonicalInput) Prompt() (string, bool) {
	return in.prompt, in.hasPrompt
}

// Turns returns a copy of the turns in conversation order.
func (in *CanonicalInput) Turns() []Turn {
	return slices.Clone(in.turns)
}

// Len is the number of turns.
func (in *CanonicalInput) Len() int {
	return len(in.turns)
}

// LastUserText scans the turns from the end and returns the first user turn
// with non-empty text.
func (in *CanonicalInput) LastUserText() (string, bool) {
	for i := len(in.turns) - 1; i >= 0; i-- {
		t := in.turns[i]
		if t.Role == RoleUser && t.Text != "" {
			return t.Text, true
		}
	}
	return "", false
}
