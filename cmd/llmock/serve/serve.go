// Package servecmder provides the serve command that runs the mock API server.
package servecmder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/llmock/api"
	"github.com/papercomputeco/llmock/pkg/config"
	"github.com/papercomputeco/llmock/pkg/journal"
	"github.com/papercomputeco/llmock/pkg/logger"
)

// flagKeys are the registry flags serve binds into viper.
var flagKeys = []string{
	config.FlagListen,
	config.FlagAPIKey,
	config.FlagAllowOrigins,
	config.FlagDelay,
	config.FlagStrategy,
	config.FlagReply,
	config.FlagModelsFile,
	config.FlagMCP,
	config.FlagLogJSON,
	config.FlagLogFile,
}

type serveCommander struct {
	listen       string
	apiKey       string
	allowOrigins string
	delay        string
	strategy     string
	reply        string
	modelsFile   string
	mcp          bool
	logJSON      bool
	logFile      string

	watch       bool
	journalFile string
	configDir   string
	debug       bool

	cmd    *cobra.Command
	cfg    *config.Config
	logger *slog.Logger
}

const serveLongDesc string = `Run the llmock mock API server.

The server answers OpenAI chat completion and Responses API requests with
deterministic replies. The default mirror strategy echoes the last user
message; the static strategy always answers with --reply.

Settings come from flags, LLMOCK_* environment variables and config.toml,
in that order of precedence. List values given as flags or environment
variables are separated by ';'.

With --watch, edits to config.toml and the models file are applied without
a restart. Changes to the listen address, CORS origins and MCP endpoint
still need one.

Examples:
  llmock serve
  llmock serve --listen :9000 --delay 0s
  llmock serve --strategy static --reply "All systems nominal."
  LLMOCK_AUTH_API_KEY=sk-test llmock serve --watch`

const serveShortDesc string = "Run the mock API server"

func NewServeCmd() *cobra.Command {
	cmder := &serveCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}
			cmder.configDir, _ = cmd.Flags().GetString("config-dir")
			cmder.cmd = cmd

			cmder.cfg, err = cmder.loadConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run(cmd.Context())
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagListen, &cmder.listen)
	config.AddStringFlag(cmd, config.Flags, config.FlagAPIKey, &cmder.apiKey)
	config.AddStringFlag(cmd, config.Flags, config.FlagAllowOrigins, &cmder.allowOrigins)
	config.AddStringFlag(cmd, config.Flags, config.FlagDelay, &cmder.delay)
	config.AddStringFlag(cmd, config.Flags, config.FlagStrategy, &cmder.strategy)
	config.AddStringFlag(cmd, config.Flags, config.FlagReply, &cmder.reply)
	config.AddStringFlag(cmd, config.Flags, config.FlagModelsFile, &cmder.modelsFile)
	config.AddBoolFlag(cmd, config.Flags, config.FlagMCP, &cmder.mcp)
	config.AddBoolFlag(cmd, config.Flags, config.FlagLogJSON, &cmder.logJSON)
	config.AddStringFlag(cmd, config.Flags, config.FlagLogFile, &cmder.logFile)

	cmd.Flags().BoolVarP(&cmder.watch, "watch", "w", false, "Apply config.toml and models file edits without a restart")
	cmd.Flags().StringVar(&cmder.journalFile, "journal", "", "Append a JSON line per served request to this file")

	return cmd
}

// loadConfig resolves the effective config: flags > env > config.toml > defaults.
func (c *serveCommander) loadConfig() (*config.Config, error) {
	v, err := config.InitViper(c.configDir)
	if err != nil {
		return nil, err
	}
	config.BindRegisteredFlags(v, c.cmd, config.Flags, flagKeys)

	cfg, err := config.FromViper(v)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

func (c *serveCommander) run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	log, closeLog, err := c.newLogger()
	if err != nil {
		return err
	}
	defer closeLog()
	c.logger = log

	settings, err := api.NewSettings(c.cfg)
	if err != nil {
		return fmt.Errorf("building settings: %w", err)
	}

	recent := journal.NewRecent(journal.DefaultRecent)
	sinks := []journal.Sink{recent}
	if c.journalFile != "" {
		file, err := journal.OpenFile(c.journalFile)
		if err != nil {
			return fmt.Errorf("opening journal: %w", err)
		}
		defer file.Close()
		sinks = append(sinks, file)
	}

	pool, err := journal.NewPool(&journal.Config{
		Sinks:  sinks,
		Logger: c.logger,
	})
	if err != nil {
		return fmt.Errorf("creating journal: %w", err)
	}
	defer pool.Close()

	server, err := api.NewServer(api.Config{
		ListenAddr:   c.cfg.Server.Listen,
		AllowOrigins: c.cfg.CORS.AllowOrigins,
		MCP:          c.cfg.MCP.Enabled,
		Journal:      pool,
		Recent:       recent,
	}, settings, c.logger)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	c.logger.Info("llmock configured",
		"strategy", c.cfg.Strategy.Name,
		"models", settings.Catalog.Len(),
		"auth", settings.APIKey != "",
		"mcp", c.cfg.MCP.Enabled,
		"pace", settings.Pace,
	)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if c.watch {
		go c.watchConfig(ctx, server)
	}

	// Channel to capture errors from the server goroutine
	errChan := make(chan error, 1)
	go func() {
		if err := server.Run(); err != nil {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		c.logger.Info("shutting down")
		return server.Shutdown()
	}
}

// newLogger builds the console logger and, with log.file set, tees JSON
// records into that file. The returned func closes the file.
func (c *serveCommander) newLogger() (*slog.Logger, func(), error) {
	console := logger.Console(os.Stderr, c.debug, c.cfg.Log.JSON)
	if c.cfg.Log.File == "" {
		return console, func() {}, nil
	}

	file, closer, err := logger.File(c.cfg.Log.File, c.debug)
	if err != nil {
		return nil, nil, err
	}
	return logger.Multi(console, file), func() { _ = closer.Close() }, nil
}

// watchConfig reloads settings whenever the config file or models file
// changes. A bad edit is logged and the running settings are kept.
func (c *serveCommander) watchConfig(ctx context.Context, server *api.Server) {
	paths, err := c.watchPaths()
	if err != nil {
		c.logger.Warn("config watch disabled", "error", err)
		return
	}

	c.logger.Info("watching config", "paths", paths)
	err = config.Watch(ctx, paths, config.DefaultSettle, func() {
		if err := c.reload(server); err != nil {
			c.logger.Error("config reload failed", "error", err)
		}
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		c.logger.Error("config watch stopped", "error", err)
	}
}

func (c *serveCommander) watchPaths() ([]string, error) {
	cfger, err := config.NewConfiger(c.configDir)
	if err != nil {
		return nil, err
	}

	var paths []string
	if target := cfger.GetTarget(); target != "" {
		paths = append(paths, target)
	}
	if c.cfg.Catalog.ModelsFile != "" {
		paths = append(paths, c.cfg.Catalog.ModelsFile)
	}
	if len(paths) == 0 {
		return nil, errors.New("no config file or models file to watch")
	}
	return paths, nil
}

func (c *serveCommander) reload(server *api.Server) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	settings, err := api.NewSettings(cfg)
	if err != nil {
		return err
	}
	if err := server.Apply(settings); err != nil {
		return err
	}

	if cfg.Server.Listen != c.cfg.Server.Listen || cfg.MCP.Enabled != c.cfg.MCP.Enabled {
		c.logger.Warn("listen address and MCP changes apply on restart")
	}
	c.cfg = cfg
	return nil
}
