// Package responses implements the unified responses protocol: the tagged
// input union, normalization into canonical turns, the response object and
// its nine-kind streaming event sequence.
package responses

import (
	"encoding/json"

	"github.com/papercomputeco/llmock/pkg/llm"
)

// Response statuses.
const (
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// Truncation modes.
const (
	TruncationAuto     = "auto"
	TruncationDisabled = "disabled"
)

// ObjectResponse is the object name of a Response.
const ObjectResponse = "response"

// Output types.
const (
	OutputTypeMessage = "message"
	OutputTypeText    = "output_text"
)

// Request is the body of POST /v1/responses. Optional fields are pointers so
// that absent values can take their protocol defaults when echoed.
type Request struct {
	Model              string            `json:"model"`
	Input              Input             `json:"input"`
	Instructions       *string           `json:"instructions,omitempty"`
	MaxOutputTokens    *int              `json:"max_output_tokens,omitempty"`
	Metadata           map[string]string `json:"metadata,omitempty"`
	ParallelToolCalls  *bool             `json:"parallel_tool_calls,omitempty"`
	PreviousResponseID *string           `json:"previous_response_id,omitempty"`
	Store              *bool             `json:"store,omitempty"`
	Stream             bool              `json:"stream,omitempty"`
	Temperature        *float64          `json:"temperature,omitempty"`
	TopP               *float64          `json:"top_p,omitempty"`
	Truncation         string            `json:"truncation,omitempty"`
	Tools              []json.RawMessage `json:"tools,omitempty"`
	ToolChoice         json.RawMessage   `json:"tool_choice,omitempty"`
	User               *string           `json:"user,omitempty"`
}

// Response is the response object, both returned whole and embedded in the
// created, in_progress and completed stream events.
type Response struct {
	ID                 string            `json:"id"`
	Object             string            `json:"object"`
	CreatedAt          int64             `json:"created_at"`
	Status             string            `json:"status"`
	CompletedAt        *int64            `json:"completed_at"`
	Error              *llm.ErrorDetail  `json:"error"`
	IncompleteDetails  *struct{}         `json:"incomplete_details"`
	Instructions       *string           `json:"instructions"`
	MaxOutputTokens    *int              `json:"max_output_tokens"`
	Model              string            `json:"model"`
	Output             []OutputMessage   `json:"output"`
	ParallelToolCalls  bool              `json:"parallel_tool_calls"`
	PreviousResponseID *string           `json:"previous_response_id"`
	Store              bool              `json:"store"`
	Temperature        float64           `json:"temperature"`
	ToolChoice         json.RawMessage   `json:"tool_choice"`
	Tools              []json.RawMessage `json:"tools"`
	TopP               float64           `json:"top_p"`
	Truncation         string            `json:"truncation"`
	User               *string           `json:"user,omitempty"`
	Metadata           map[string]string `json:"metadata"`
	Usage              *Usage            `json:"usage"`
}

// OutputText returns the concatenated text of all output parts.
func (r Response) OutputText() string {
	var out string
	for _, m := range r.Output {
		for _, c := range m.Content {
			if c.Type == OutputTypeText {
				out += c.Text
			}
		}
	}
	return out
}

// OutputMessage is an assistant message in Response.Output.
type OutputMessage struct {
	Type    string       `json:"type"`
	ID      string       `json:"id"`
	Status  string       `json:"status"`
	Role    llm.Role     `json:"role"`
	Content []OutputText `json:"content"`
}

// OutputText is a text part of an OutputMessage.
type OutputText struct {
	Type        string            `json:"type"`
	Text        string            `json:"text"`
	Annotations []json.RawMessage `json:"annotations"`
}

func newOutputText(text string) OutputText {
	return OutputText{Type: OutputTypeText, Text: text, Annotations: []json.RawMessage{}}
}

// Usage is responses token accounting.
type Usage struct {
	InputTokens         int                 `json:"input_tokens"`
	InputTokensDetails  InputTokensDetails  `json:"input_tokens_details"`
	OutputTokens        int                 `json:"output_tokens"`
	OutputTokensDetails OutputTokensDetails `json:"output_tokens_details"`
	TotalTokens         int                 `json:"total_tokens"`
}

// InputTokensDetails is always zero.
type InputTokensDetails struct {
	CachedTokens int `json:"cached_tokens"`
}

// OutputTokensDetails is always zero.
type OutputTokensDetails struct {
	ReasoningTokens int `json:"reasoning_tokens"`
}

// NewUsage converts a token count.
func NewUsage(c llm.TokenCount) *Usage {
	return &Usage{
		InputTokens:  c.Input,
		OutputTokens: c.Output,
		TotalTokens:  c.Total(),
	}
}
