// Package mcp exposes the mock's strategy and catalog as MCP tools, so an
// agent can ask llmock what it would answer without speaking the OpenAI
// wire protocol.
package mcp

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/papercomputeco/llmock/pkg/catalog"
	"github.com/papercomputeco/llmock/pkg/journal"
	"github.com/papercomputeco/llmock/pkg/strategy"
	"github.com/papercomputeco/llmock/pkg/utils"
)

// Snapshot is the catalog and strategy of one settings generation.
type Snapshot struct {
	Catalog  *catalog.Catalog
	Strategy strategy.Strategy
}

// Source provides the live settings. Each tool call takes one Snapshot so
// reloads are visible and a call never mixes two generations.
type Source interface {
	Snapshot() Snapshot
}

type Config struct {
	// Source is the server whose settings the tools use.
	Source Source

	// Recent enables the recent_requests tool when set.
	Recent *journal.Recent

	// Logger is the configured slog logger
	Logger *slog.Logger
}

type Server struct {
	config    Config
	mcpServer *mcp.Server
	handler   *mcp.StreamableHTTPHandler
}

// NewServer creates a new MCP server with the llmock tools.
func NewServer(c Config) (*Server, error) {
	if c.Source == nil {
		return nil, errors.New("source is required")
	}
	if c.Logger == nil {
		return nil, errors.New("logger is required")
	}

	s := &Server{
		config: c,
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "llmock",
			Version: utils.Version,
		},
		&mcp.ServerOptions{},
	)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        generateToolName,
		Description: generateDescription,
	}, s.handleGenerate)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        listModelsToolName,
		Description: listModelsDescription,
	}, s.handleListModels)

	if c.Recent != nil {
		mcp.AddTool(mcpServer, &mcp.Tool{
			Name:        recentToolName,
			Description: recentDescription,
		}, s.handleRecent)
	}

	s.mcpServer = mcpServer

	// Create a streamable HTTP net/http handler for stateless operations
	s.handler = mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server {
			return mcpServer
		},
		&mcp.StreamableHTTPOptions{
			Stateless: true,
		},
	)

	return s, nil
}

// Handler returns the HTTP handler for the MCP server.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// toolError is a failed tool result. Tool failures are reported to the
// model in the result rather than as protocol errors.
func toolError(format string, args ...any) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf(format, args...)},
		},
	}
}

// jsonResult returns structured output also serialized in a text block for
// clients that only read text content.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(data)},
		},
	}, nil
}
