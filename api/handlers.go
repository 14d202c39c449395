package api

import (
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/papercomputeco/llmock/pkg/journal"
	"github.com/papercomputeco/llmock/pkg/llm"
	"github.com/papercomputeco/llmock/pkg/llm/chat"
	"github.com/papercomputeco/llmock/pkg/llm/responses"
	"github.com/papercomputeco/llmock/pkg/strategy"
	"github.com/papercomputeco/llmock/pkg/stream"
	"github.com/papercomputeco/llmock/pkg/utils"
)

// appName is reported by /health.
const appName = "llmock"

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status    string    `json:"status"`
	AppName   string    `json:"app_name"`
	Version   string    `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

// handleHealth returns a simple health check response.
func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{
		Status:    "healthy",
		AppName:   appName,
		Version:   utils.Version,
		Timestamp: s.config.Clock().UTC(),
	})
}

// handleListModels returns the configured catalog.
func (s *Server) handleListModels(c *fiber.Ctx) error {
	return c.JSON(s.current().Catalog.List())
}

// handleGetModel returns a single configured model.
func (s *Server) handleGetModel(c *fiber.Ctx) error {
	m, err := s.current().Catalog.Get(c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(m)
}

// handleChatCompletions serves POST /v1/chat/completions.
func (s *Server) handleChatCompletions(c *fiber.Ctx) error {
	start := time.Now()
	settings := s.current()

	var req chat.Request
	if err := decodeBody(c, &req); err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return err
	}
	if err := settings.Catalog.Lookup(req.Model); err != nil {
		return err
	}

	reply := strategy.Reply(settings.Strategy, req.Canonical())
	now := s.config.Clock()
	entry := journal.Entry{
		Time:     now,
		Protocol: llm.ProtocolChat.String(),
		Model:    req.Model,
		Stream:   req.Stream,
		Input:    req.PromptText(),
		Reply:    reply,
	}
	setTokens(&entry, req.Tokens(reply))

	if req.Stream {
		script := chat.NewScript(&req, reply, now)
		entry.ID = script.ID()
		seq := stream.New(script, reply, stream.WithPace(settings.Pace))
		return s.stream(c, seq, entry, start)
	}

	resp := chat.BuildCompletion(&req, reply, now)
	entry.ID = resp.ID
	s.record(entry, start, nil)
	return c.JSON(resp)
}

// handleResponses serves POST /v1/responses.
func (s *Server) handleResponses(c *fiber.Ctx) error {
	start := time.Now()
	settings := s.current()

	var req responses.Request
	if err := decodeBody(c, &req); err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return err
	}
	if err := settings.Catalog.Lookup(req.Model); err != nil {
		return err
	}

	reply := strategy.Reply(settings.Strategy, req.Canonical())
	entry := journal.Entry{
		Protocol: llm.ProtocolResponses.String(),
		Model:    req.Model,
		Stream:   req.Stream,
		Input:    req.UsageText(),
		Reply:    reply,
	}
	setTokens(&entry, req.Tokens(reply))

	if req.Stream {
		script := responses.NewScript(&req, s.config.Clock)
		entry.ID = script.ID()
		entry.Time = s.config.Clock()
		seq := stream.New(script, reply, stream.WithPace(settings.Pace))
		return s.stream(c, seq, entry, start)
	}

	now := s.config.Clock()
	resp := responses.BuildResponse(&req, reply, now)
	entry.ID = resp.ID
	entry.Time = now
	s.record(entry, start, nil)
	return c.JSON(resp)
}

// decodeBody unmarshals the JSON request body into v.
func decodeBody(c *fiber.Ctx, v any) error {
	body := c.Body()
	if len(body) == 0 {
		return llm.Invalidf("", "Request body is required")
	}
	if err := json.Unmarshal(body, v); err != nil {
		return llm.Invalidf("", "Invalid JSON body: %v", err)
	}
	return nil
}

func setTokens(e *journal.Entry, t llm.TokenCount) {
	e.InputTokens = t.Input
	e.OutputTokens = t.Output
}

// record hands a finished exchange to the journal, if one is configured.
func (s *Server) record(e journal.Entry, start time.Time, err error) {
	if s.config.Journal == nil {
		return
	}
	e.Duration = time.Since(start)
	if err != nil {
		e.Err = err.Error()
	}
	s.config.Journal.Enqueue(e)
}
