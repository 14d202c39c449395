package chatcmder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/papercomputeco/llmock/pkg/dotdir"
	"github.com/papercomputeco/llmock/pkg/llm"
	"github.com/papercomputeco/llmock/pkg/llm/chat"
	"github.com/papercomputeco/llmock/pkg/llm/responses"
	"github.com/papercomputeco/llmock/pkg/sse"
)

// Client talks to a running llmock server with either protocol.
type Client struct {
	Target   string
	APIKey   string
	Protocol llm.Protocol

	// Raw, when set, receives the SSE bytes exactly as they arrive.
	Raw io.Writer

	HTTP *http.Client
}

// NewClient returns a Client with a generous timeout for slow streams.
func NewClient(target, apiKey string, protocol llm.Protocol) *Client {
	return &Client{
		Target:   strings.TrimRight(target, "/"),
		APIKey:   apiKey,
		Protocol: protocol,
		HTTP:     &http.Client{Timeout: 5 * time.Minute},
	}
}

// Complete sends a non-streamed request and returns the reply text.
func (c *Client) Complete(ctx context.Context, model string, history []dotdir.SessionMessage) (string, error) {
	resp, err := c.post(ctx, model, history, false)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	switch c.Protocol {
	case llm.ProtocolResponses:
		var r responses.Response
		if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
			return "", fmt.Errorf("decoding response: %w", err)
		}
		return r.OutputText(), nil

	default:
		var completion chat.Completion
		if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
			return "", fmt.Errorf("decoding completion: %w", err)
		}
		if len(completion.Choices) == 0 {
			return "", nil
		}
		return completion.Choices[0].Message.Content, nil
	}
}

// Stream sends a streamed request, calls onDelta for every text delta and
// returns the full reply text.
func (c *Client) Stream(ctx context.Context, model string, history []dotdir.SessionMessage, onDelta func(string)) (string, error) {
	resp, err := c.post(ctx, model, history, true)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw := c.Raw
	if raw == nil {
		raw = io.Discard
	}
	reader := sse.NewTeeReader(resp.Body, raw)

	var full strings.Builder
	for {
		ev, err := reader.Next()
		if err != nil {
			return full.String(), fmt.Errorf("reading stream: %w", err)
		}
		if ev == nil {
			return full.String(), nil
		}

		delta, done, err := c.delta(ev)
		if err != nil {
			return full.String(), err
		}
		if delta != "" {
			full.WriteString(delta)
			onDelta(delta)
		}
		if done {
			return full.String(), nil
		}
	}
}

// delta extracts the text of one event and reports whether it ends the
// stream.
func (c *Client) delta(ev *sse.Event) (string, bool, error) {
	if c.Protocol == llm.ProtocolResponses {
		switch ev.Type {
		case responses.EventOutputTextDelta:
			var d responses.TextDeltaEvent
			if err := json.Unmarshal([]byte(ev.Data), &d); err != nil {
				return "", false, fmt.Errorf("decoding %s: %w", ev.Type, err)
			}
			return d.Delta, false, nil
		case responses.EventCompleted:
			return "", true, nil
		default:
			return "", false, nil
		}
	}

	if ev.Data == "[DONE]" {
		return "", true, nil
	}
	var chunk chat.Chunk
	if err := json.Unmarshal([]byte(ev.Data), &chunk); err != nil {
		return "", false, fmt.Errorf("decoding chunk: %w", err)
	}
	if len(chunk.Choices) == 0 || chunk.Choices[0].Delta.Content == nil {
		return "", false, nil
	}
	return *chunk.Choices[0].Delta.Content, false, nil
}

func (c *Client) post(ctx context.Context, model string, history []dotdir.SessionMessage, stream bool) (*http.Response, error) {
	path, body := c.body(model, history, stream)

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Target+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		respBody, _ := io.ReadAll(resp.Body)

		var apiErr llm.ErrorResponse
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error.Message != "" {
			return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, apiErr.Error.Message)
		}
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}
	return resp, nil
}

// body builds the request path and payload for the client's protocol.
func (c *Client) body(model string, history []dotdir.SessionMessage, stream bool) (string, any) {
	if c.Protocol == llm.ProtocolResponses {
		items := make([]responses.InputItem, 0, len(history))
		for _, m := range history {
			items = append(items, responses.FlatItem(llm.Role(m.Role), m.Content))
		}
		return "/v1/responses", &responses.Request{
			Model:  model,
			Input:  responses.ItemsInput(items...),
			Stream: stream,
		}
	}

	messages := make([]chat.Message, 0, len(history))
	for _, m := range history {
		messages = append(messages, chat.Message{Role: llm.Role(m.Role), Content: chat.TextContent(m.Content)})
	}
	return "/v1/chat/completions", &chat.Request{
		Model:    model,
		Messages: messages,
		Stream:   stream,
	}
}

// ParseProtocol maps a --protocol value to a protocol.
func ParseProtocol(name string) (llm.Protocol, error) {
	switch name {
	case "", llm.ProtocolChat.String():
		return llm.ProtocolChat, nil
	case llm.ProtocolResponses.String():
		return llm.ProtocolResponses, nil
	default:
		return 0, fmt.Errorf("unknown protocol %q (want %q or %q)", name, llm.ProtocolChat, llm.ProtocolResponses)
	}
}
