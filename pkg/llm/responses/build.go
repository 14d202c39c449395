package responses

import (
	"encoding/json"
	"maps"
	"time"

	"github.com/papercomputeco/llmock/pkg/llm"
)

var defaultToolChoice = json.RawMessage(`"auto"`)

// BuildResponse assembles the completed, non-streamed response for reply.
// completed_at equals created_at.
func BuildResponse(req *Request, reply string, now time.Time) *Response {
	resp := snapshot(req, llm.NewID(llm.PrefixResponse), now.Unix())
	complete(resp, req, llm.NewID(llm.PrefixMessage), reply, now.Unix())
	return resp
}

// snapshot returns an in-progress response echoing the request's optional
// fields, with protocol defaults for the absent ones.
func snapshot(req *Request, id string, createdAt int64) *Response {
	resp := &Response{
		ID:                 id,
		Object:             ObjectResponse,
		CreatedAt:          createdAt,
		Status:             StatusInProgress,
		Instructions:       req.Instructions,
		MaxOutputTokens:    req.MaxOutputTokens,
		Model:              req.Model,
		Output:             []OutputMessage{},
		ParallelToolCalls:  true,
		PreviousResponseID: req.PreviousResponseID,
		Store:              true,
		Temperature:        1.0,
		ToolChoice:         defaultToolChoice,
		Tools:              []json.RawMessage{},
		TopP:               1.0,
		Truncation:         TruncationDisabled,
		User:               req.User,
		Metadata:           map[string]string{},
	}

	if req.ParallelToolCalls != nil {
		resp.ParallelToolCalls = *req.ParallelToolCalls
	}
	if req.Store != nil {
		resp.Store = *req.Store
	}
	if req.Temperature != nil {
		resp.Temperature = *req.Temperature
	}
	if req.TopP != nil {
		resp.TopP = *req.TopP
	}
	if req.Truncation != "" {
		resp.Truncation = req.Truncation
	}
	if len(req.ToolChoice) > 0 {
		resp.ToolChoice = req.ToolChoice
	}
	if req.Tools != nil {
		resp.Tools = req.Tools
	}
	if req.Metadata != nil {
		resp.Metadata = maps.Clone(req.Metadata)
	}
	return resp
}

func complete(resp *Response, req *Request, messageID, reply string, completedAt int64) {
	resp.Status = StatusCompleted
	resp.CompletedAt = &completedAt
	resp.Output = []OutputMessage{completedMessage(messageID, reply)}
	resp.Usage = NewUsage(req.Tokens(reply))
}

func completedMessage(id, text string) OutputMessage {
	return OutputMessage{
		Type:    OutputTypeMessage,
		ID:      id,
		Status:  StatusCompleted,
		Role:    llm.RoleAssistant,
		Content: []OutputText{newOutputText(text)},
	}
}
