// Package journal records served exchanges off the request path. A Pool
// hands entries to background workers which write them to each configured
// Sink, so a slow sink never delays a response.
package journal

import (
	"context"
	"time"
)

// Entry is one served request.
type Entry struct {
	ID           string        `json:"id"`
	Time         time.Time     `json:"time"`
	Protocol     string        `json:"protocol"`
	Model        string        `json:"model"`
	Stream       bool          `json:"stream"`
	Input        string        `json:"input"`
	Reply        string        `json:"reply"`
	InputTokens  int           `json:"input_tokens"`
	OutputTokens int           `json:"output_tokens"`
	Duration     time.Duration `json:"duration_ns"`

	// Err is set when a stream ended early, e.g. the client went away.
	Err string `json:"error,omitempty"`
}

// Sink stores entries.
type Sink interface {
	Record(ctx context.Context, e Entry) error
}
