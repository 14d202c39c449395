package mcp

import (
	"context"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/papercomputeco/llmock/pkg/catalog"
	"github.com/papercomputeco/llmock/pkg/journal"
	"github.com/papercomputeco/llmock/pkg/llm"
	"github.com/papercomputeco/llmock/pkg/strategy"
)

var (
	generateToolName    = "generate"
	generateDescription = "Produce the reply llmock would send for a prompt, with the estimated token usage. Fails for a model missing from a non-empty catalog."

	listModelsToolName    = "list_models"
	listModelsDescription = "List the models llmock answers for. An empty list means every model ID is accepted."

	recentToolName    = "recent_requests"
	recentDescription = "List the most recent completions llmock served, newest first."
)

// GenerateInput represents the input arguments for the generate tool.
type GenerateInput struct {
	Model    string `json:"model" jsonschema:"the model ID to answer as"`
	Prompt   string `json:"prompt" jsonschema:"the user prompt"`
	Protocol string `json:"protocol,omitempty" jsonschema:"chat or responses (default: chat)"`
}

// Usage is the estimated token usage of a generated reply.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
	TotalTokens  int `json:"total_tokens"`
}

// GenerateOutput represents the output of the generate tool.
type GenerateOutput struct {
	Model    string `json:"model"`
	Protocol string `json:"protocol"`
	Reply    string `json:"reply"`
	Usage    Usage  `json:"usage"`
}

// ListModelsInput is empty; list_models takes no arguments.
type ListModelsInput struct{}

// ListModelsOutput represents the output of the list_models tool.
type ListModelsOutput struct {
	Models []catalog.Model `json:"models"`
	Count  int             `json:"count"`
}

// RecentInput represents the input arguments for the recent_requests tool.
type RecentInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"number of entries to return (default: 10)"`
}

// RecentOutput represents the output of the recent_requests tool.
type RecentOutput struct {
	Entries []journal.Entry `json:"entries"`
	Count   int             `json:"count"`
}

// handleGenerate runs the current strategy on a single user prompt.
func (s *Server) handleGenerate(_ context.Context, _ *mcp.CallToolRequest, input GenerateInput) (*mcp.CallToolResult, GenerateOutput, error) {
	logger := s.config.Logger

	var in *llm.CanonicalInput
	switch input.Protocol {
	case "", llm.ProtocolChat.String():
		in = llm.NewTurnInput(llm.ProtocolChat, []llm.Turn{{Role: llm.RoleUser, Text: input.Prompt}})
	case llm.ProtocolResponses.String():
		in = llm.NewPromptInput(llm.ProtocolResponses, input.Prompt)
	default:
		return toolError("Unknown protocol %q: expected chat or responses", input.Protocol), GenerateOutput{}, nil
	}

	if input.Model == "" {
		return toolError("A model is required"), GenerateOutput{}, nil
	}
	snap := s.config.Source.Snapshot()
	if err := snap.Catalog.Lookup(input.Model); err != nil {
		return toolError("%v", err), GenerateOutput{}, nil
	}

	reply := strategy.Reply(snap.Strategy, in)
	tokens := llm.CountTokens(input.Prompt, reply)

	logger.Debug("MCP generate request",
		"model", input.Model,
		"protocol", in.Protocol().String(),
	)

	output := GenerateOutput{
		Model:    input.Model,
		Protocol: in.Protocol().String(),
		Reply:    reply,
		Usage: Usage{
			InputTokens:  tokens.Input,
			OutputTokens: tokens.Output,
			TotalTokens:  tokens.Total(),
		},
	}
	return result(s.config.Logger, output)
}

// handleListModels returns the current catalog.
func (s *Server) handleListModels(_ context.Context, _ *mcp.CallToolRequest, _ ListModelsInput) (*mcp.CallToolResult, ListModelsOutput, error) {
	list := s.config.Source.Snapshot().Catalog.List()
	output := ListModelsOutput{
		Models: list.Data,
		Count:  len(list.Data),
	}
	return result(s.config.Logger, output)
}

// handleRecent returns the newest journal entries.
func (s *Server) handleRecent(_ context.Context, _ *mcp.CallToolRequest, input RecentInput) (*mcp.CallToolResult, RecentOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = 10
	}

	entries := s.config.Recent.Last(limit)
	output := RecentOutput{
		Entries: entries,
		Count:   len(entries),
	}
	return result(s.config.Logger, output)
}

func result[T any](logger *slog.Logger, output T) (*mcp.CallToolResult, T, error) {
	res, err := jsonResult(output)
	if err != nil {
		logger.Error("failed to marshal tool output", "error", err)
		var zero T
		return toolError("Failed to serialize results: %v", err), zero, nil
	}
	return res, output, nil
}
