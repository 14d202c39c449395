// Package api serves the OpenAI-compatible mock endpoints: chat completions,
// responses, models and health.
package api

import (
	"time"

	"github.com/papercomputeco/llmock/pkg/journal"
)

// Config is the API server configuration. Fields here are fixed for the
// life of the server; reloadable values live in Settings.
type Config struct {
	// ListenAddr is the address to listen on (e.g., ":8000")
	ListenAddr string

	// AllowOrigins are the CORS origins. Empty disables CORS.
	AllowOrigins []string

	// MCP mounts the MCP endpoint at /mcp.
	MCP bool

	// Journal, when set, receives an entry for every served completion.
	Journal *journal.Pool

	// Recent backs the MCP recent_requests tool. It should also be one of
	// the Journal's sinks.
	Recent *journal.Recent

	// Clock stamps created/completed times. Defaults to time.Now.
	Clock func() time.Time
}
