// Package strategy decides what text a mock reply carries.
package strategy

import (
	"fmt"

	"github.com/papercomputeco/llmock/pkg/llm"
)

// Replies used when no user text can be found.
const (
	NoUserMessage = "No user message provided."
	NoUserInput   = "No user input provided."
)

// Strategy turns canonical input into reply text. Implementations must be
// safe for concurrent use and must not retain or modify the input.
type Strategy interface {
	Generate(in *llm.CanonicalInput) string
}

// Func adapts a function to Strategy.
type Func func(in *llm.CanonicalInput) string

func (f Func) Generate(in *llm.CanonicalInput) string {
	return f(in)
}

// Fallback returns the reply used when there is no user text for protocol p.
func Fallback(p llm.Protocol) string {
	if p == llm.ProtocolResponses {
		return NoUserInput
	}
	return NoUserMessage
}

// Reply runs s and substitutes the protocol fallback for an empty result,
// so callers never send an empty reply.
func Reply(s Strategy, in *llm.CanonicalInput) string {
	if text := s.Generate(in); text != "" {
		return text
	}
	return Fallback(in.Protocol())
}

// Mirror echoes the caller: a non-empty bare prompt, otherwise the last user
// turn with text.
type Mirror struct{}

func (Mirror) Generate(in *llm.CanonicalInput) string {
	if prompt, ok := in.Prompt(); ok && prompt != "" {
		return prompt
	}
	if text, ok := in.LastUserText(); ok {
		return text
	}
	return Fallback(in.Protocol())
}

// Static always answers with the same text.
type Static string

func (s Static) Generate(*llm.CanonicalInput) string {
	return string(s)
}

// Names of the strategies New can build.
const (
	NameMirror = "mirror"
	NameStatic = "static"
)

// Names lists the strategies New can build.
func Names() []string {
	return []string{NameMirror, NameStatic}
}

// New builds a strategy by name. reply is the text of a static strategy.
func New(name, reply string) (Strategy, error) {
	switch name {
	case "", NameMirror:
		return Mirror{}, nil
	case NameStatic:
		if reply == "" {
			return nil, fmt.Errorf("strategy %q needs a reply", NameStatic)
		}
		return Static(reply), nil
	default:
		return nil, fmt.Errorf("unknown strategy %q, expected one of %v", name, Names())
	}
}
