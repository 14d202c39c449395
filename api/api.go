package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/papercomputeco/llmock/api/mcp"
	"github.com/papercomputeco/llmock/pkg/catalog"
	"github.com/papercomputeco/llmock/pkg/strategy"
)

// Server is the mock OpenAI API server.
type Server struct {
	config   Config
	settings atomic.Pointer[Settings]
	logger   *slog.Logger
	app      *fiber.App

	// ctx ends in-flight streams on Shutdown. Streams outlive their
	// fasthttp request context, so they cannot use it.
	ctx    context.Context
	cancel context.CancelFunc

	// streams tracks the goroutines writing streamed bodies.
	streams sync.WaitGroup
}

// NewServer creates a new API server with the initial settings.
func NewServer(config Config, settings *Settings, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		return nil, errors.New("logger is required")
	}
	if err := settings.validate(); err != nil {
		return nil, err
	}
	if config.Clock == nil {
		config.Clock = time.Now
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		config: config,
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}
	s.settings.Store(settings)

	s.app = fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          s.handleError,
	})

	s.app.Use(s.logRequests)
	s.app.Use(recover.New())

	corsHandler, err := newCORS(config.AllowOrigins)
	if err != nil {
		cancel()
		return nil, err
	}
	if corsHandler != nil {
		s.app.Use(corsHandler)
	}
	s.app.Use(s.auth())

	s.app.Get("/health", s.handleHealth)
	s.app.Get("/v1/models", s.handleListModels)
	s.app.Get("/v1/models/:id", s.handleGetModel)
	s.app.Post("/v1/chat/completions", s.handleChatCompletions)
	s.app.Post("/v1/responses", s.handleResponses)

	if config.MCP {
		mcpServer, err := mcp.NewServer(mcp.Config{
			Source: s,
			Recent: config.Recent,
			Logger: logger,
		})
		if err != nil {
			cancel()
			return nil, fmt.Errorf("creating MCP server: %w", err)
		}
		s.app.All("/mcp", adaptor.HTTPHandler(mcpServer.Handler()))
	}

	return s, nil
}

// Apply swaps in new settings. Requests already running keep the snapshot
// they started with.
func (s *Server) Apply(settings *Settings) error {
	if err := settings.validate(); err != nil {
		return err
	}
	s.settings.Store(settings)
	s.logger.Info("settings applied",
		"models", settings.Catalog.Len(),
		"auth", settings.APIKey != "",
		"pace", settings.Pace,
	)
	return nil
}

// SetStrategy replaces only the strategy.
func (s *Server) SetStrategy(strat strategy.Strategy) error {
	next := *s.current()
	next.Strategy = strat
	return s.Apply(&next)
}

// Settings returns the current snapshot.
func (s *Server) Settings() *Settings {
	return s.current()
}

// Catalog returns the current model catalog.
func (s *Server) Catalog() *catalog.Catalog {
	return s.current().Catalog
}

// Strategy returns the current strategy.
func (s *Server) Strategy() strategy.Strategy {
	return s.current().Strategy
}

// Snapshot returns the catalog and strategy of the current settings for the
// MCP tools.
func (s *Server) Snapshot() mcp.Snapshot {
	cur := s.current()
	return mcp.Snapshot{Catalog: cur.Catalog, Strategy: cur.Strategy}
}

func (s *Server) current() *Settings {
	return s.settings.Load()
}

// Run starts the API server on the configured address.
func (s *Server) Run() error {
	s.logger.Info("starting llmock server",
		"listen", s.config.ListenAddr,
	)
	return s.app.Listen(s.config.ListenAddr)
}

// RunWithListener starts the API server using the provided listener.
func (s *Server) RunWithListener(listener net.Listener) error {
	s.logger.Info("starting llmock server",
		"listen", listener.Addr().String(),
	)
	return s.app.Listener(listener)
}

// Shutdown ends open streams, gracefully shuts down the server and waits
// for every stream goroutine to finish recording.
func (s *Server) Shutdown() error {
	s.cancel()
	err := s.app.Shutdown()
	s.streams.Wait()
	return err
}
