// Package chat implements the chat completions protocol: request decoding,
// normalization into canonical turns, and the single-shot and streamed
// response shapes.
package chat

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/papercomputeco/llmock/pkg/llm"
)

// Object names.
const (
	ObjectCompletion = "chat.completion"
	ObjectChunk      = "chat.completion.chunk"
)

// FinishReasonStop is the only finish reason llmock produces.
const FinishReasonStop = "stop"

// Request is the body of POST /v1/chat/completions.
type Request struct {
	Model         string         `json:"model"`
	Messages      []Message      `json:"messages"`
	Stream        bool           `json:"stream,omitempty"`
	StreamOptions *StreamOptions `json:"stream_options,omitempty"`
	Temperature   *float64       `json:"temperature,omitempty"`
	TopP          *float64       `json:"top_p,omitempty"`
	MaxTokens     *int           `json:"max_tokens,omitempty"`
	User          string         `json:"user,omitempty"`
}

// StreamOptions tunes streamed responses.
type StreamOptions struct {
	IncludeUsage bool `json:"include_usage"`
}

// IncludeUsage reports whether a usage chunk was requested.
func (r *Request) IncludeUsage() bool {
	return r.StreamOptions != nil && r.StreamOptions.IncludeUsage
}

// Message is one conversation message.
type Message struct {
	Role    llm.Role `json:"role"`
	Content Content  `json:"content"`
	Name    string   `json:"name,omitempty"`
}

// Content is a message body: null, a string, or a list of typed parts.
type Content struct {
	text  *string
	parts []Part
}

// Part is one element of a multi-part message body.
type Part struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

// ImageURL references an image part.
type ImageURL struct {
	URL    string `json:"url"`
	Detail string `json:"detail,omitempty"`
}

// PartTypeText marks a text part.
const PartTypeText = "text"

// TextContent returns string content.
func TextContent(s string) Content {
	return Content{text: &s}
}

// PartsContent returns multi-part content.
func PartsContent(parts ...Part) Content {
	return Content{parts: parts}
}

// IsNull reports whether the content was absent or null.
func (c Content) IsNull() bool {
	return c.text == nil && c.parts == nil
}

// Text returns the string content, or the text of the first text part. Other
// parts, and any later text parts, never contribute.
func (c Content) Text() string {
	if c.text != nil {
		return *c.text
	}
	for _, p := range c.parts {
		if p.Type == PartTypeText {
			return p.Text
		}
	}
	return ""
}

// UnmarshalJSON decodes the three accepted content shapes.
func (c *Content) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*c = Content{}

	switch {
	case bytes.Equal(data, []byte("null")):
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		c.text = &s
		return nil
	case len(data) > 0 && data[0] == '[':
		parts := []Part{}
		if err := json.Unmarshal(data, &parts); err != nil {
			return err
		}
		c.parts = parts
		return nil
	default:
		return fmt.Errorf("content must be a string, an array of parts or null")
	}
}

// MarshalJSON writes the content back in the shape it was decoded from.
func (c Content) MarshalJSON() ([]byte, error) {
	switch {
	case c.text != nil:
		return json.Marshal(*c.text)
	case c.parts != nil:
		return json.Marshal(c.parts)
	default:
		return []byte("null"), nil
	}
}

// Completion is a non-streamed chat completion.
type Completion struct {
	ID      string   `json:"id"`
	Object  string   `json:"object"`
	Created int64    `json:"created"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
	Usage   Usage    `json:"usage"`
}

// Choice is one completion alternative. llmock always returns exactly one.
type Choice struct {
	Index        int          `json:"index"`
	Message      ReplyMessage `json:"message"`
	Logprobs     *struct{}    `json:"logprobs"`
	FinishReason string       `json:"finish_reason"`
}

// ReplyMessage is the assistant message of a Choice.
type ReplyMessage struct {
	Role    llm.Role `json:"role"`
	Content string   `json:"content"`
}

// Usage is chat completion token accounting.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// NewUsage converts a token count.
func NewUsage(c llm.TokenCount) Usage {
	return Usage{
		PromptTokens:     c.Input,
		CompletionTokens: c.Output,
		TotalTokens:      c.Total(),
	}
}

// Chunk is one streamed chat completion frame.
type Chunk struct {
	ID      string        `json:"id"`
	Object  string        `json:"object"`
	Created int64         `json:"created"`
	Model   string        `json:"model"`
	Choices []ChunkChoice `json:"choices"`
	Usage   *Usage        `json:"usage,omitempty"`
}

// ChunkChoice carries a delta. FinishReason is null until the terminal chunk.
type ChunkChoice struct {
	Index        int       `json:"index"`
	Delta        Delta     `json:"delta"`
	Logprobs     *struct{} `json:"logprobs"`
	FinishReason *string   `json:"finish_reason"`
}

// Delta is the incremental part of a chunk. Both fields are absent on the
// terminal chunk.
type Delta struct {
	Role    llm.Role `json:"role,omitempty"`
	Content *string  `json:"content,omitempty"`
}
