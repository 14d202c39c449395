package config

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/papercomputeco/llmock/pkg/catalog"
	"github.com/papercomputeco/llmock/pkg/strategy"
)

// Config is the persistent llmock configuration stored as config.toml in the
// .llmock/ directory.
type Config struct {
	Version  int             `toml:"version"`
	Server   ServerConfig    `toml:"server"`
	Auth     AuthConfig      `toml:"auth"`
	CORS     CORSConfig      `toml:"cors"`
	Stream   StreamConfig    `toml:"stream"`
	Strategy StrategyConfig  `toml:"strategy"`
	Catalog  CatalogConfig   `toml:"catalog"`
	MCP      MCPConfig       `toml:"mcp"`
	Log      LogConfig       `toml:"log"`
	Client   ClientConfig    `toml:"client"`
	Models   []catalog.Model `toml:"models,omitempty"`
}

// ServerConfig holds the listener settings of llmock serve.
type ServerConfig struct {
	Listen string `toml:"listen,omitempty"`
}

// AuthConfig holds the bearer key. Empty disables authentication.
type AuthConfig struct {
	APIKey string `toml:"api_key,omitempty"`
}

// CORSConfig holds the allowed browser origins.
type CORSConfig struct {
	AllowOrigins []string `toml:"allow_origins"`
}

// StreamConfig holds streaming settings. Delay is a Go duration string.
type StreamConfig struct {
	Delay string `toml:"delay,omitempty"`
}

// Pace parses Delay. Empty means the default pace.
func (s StreamConfig) Pace() (time.Duration, error) {
	if s.Delay == "" {
		return defaultStreamPace, nil
	}
	d, err := time.ParseDuration(s.Delay)
	if err != nil {
		return 0, fmt.Errorf("invalid stream.delay: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid stream.delay: %s is negative", s.Delay)
	}
	return d, nil
}

// StrategyConfig selects the reply strategy.
type StrategyConfig struct {
	Name  string `toml:"name,omitempty"`
	Reply string `toml:"reply,omitempty"`
}

// CatalogConfig points at an external YAML models file, merged after the
// [[models]] tables.
type CatalogConfig struct {
	ModelsFile string `toml:"models_file,omitempty"`
}

// MCPConfig toggles the MCP endpoint.
type MCPConfig struct {
	Enabled bool `toml:"enabled"`
}

// LogConfig selects the log format of llmock serve.
type LogConfig struct {
	JSON bool   `toml:"json"`
	File string `toml:"file,omitempty"`
}

// ClientConfig holds settings for commands that talk to a running server.
type ClientConfig struct {
	Target string `toml:"target,omitempty"`
	Model  string `toml:"model,omitempty"`
}

// configKeyInfo maps a dotted key to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

func setBool(key string, dst *bool, v string) error {
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	*dst = b
	return nil
}

// configKeys is the authoritative map of supported config keys. Models are
// edited in the TOML file directly.
var configKeys = map[string]configKeyInfo{
	"server.listen": {
		get: func(c *Config) string { return c.Server.Listen },
		set: func(c *Config, v string) error { c.Server.Listen = v; return nil },
	},
	"auth.api_key": {
		get: func(c *Config) string { return c.Auth.APIKey },
		set: func(c *Config, v string) error { c.Auth.APIKey = v; return nil },
	},
	"cors.allow_origins": {
		get: func(c *Config) string { return strings.Join(c.CORS.AllowOrigins, ListSeparator) },
		set: func(c *Config, v string) error { c.CORS.AllowOrigins = SplitList(v); return nil },
	},
	"stream.delay": {
		get: func(c *Config) string { return c.Stream.Delay },
		set: func(c *Config, v string) error {
			if _, err := (StreamConfig{Delay: v}).Pace(); err != nil {
				return err
			}
			c.Stream.Delay = v
			return nil
		},
	},
	"strategy.name": {
		get: func(c *Config) string { return c.Strategy.Name },
		set: func(c *Config, v string) error {
			if !slices.Contains(strategy.Names(), v) {
				return fmt.Errorf("invalid value for strategy.name: %q (available: %s)", v, strings.Join(strategy.Names(), ", "))
			}
			c.Strategy.Name = v
			return nil
		},
	},
	"strategy.reply": {
		get: func(c *Config) string { return c.Strategy.Reply },
		set: func(c *Config, v string) error { c.Strategy.Reply = v; return nil },
	},
	"catalog.models_file": {
		get: func(c *Config) string { return c.Catalog.ModelsFile },
		set: func(c *Config, v string) error { c.Catalog.ModelsFile = v; return nil },
	},
	"mcp.enabled": {
		get: func(c *Config) string { return strconv.FormatBool(c.MCP.Enabled) },
		set: func(c *Config, v string) error { return setBool("mcp.enabled", &c.MCP.Enabled, v) },
	},
	"log.json": {
		get: func(c *Config) string { return strconv.FormatBool(c.Log.JSON) },
		set: func(c *Config, v string) error { return setBool("log.json", &c.Log.JSON, v) },
	},
	"log.file": {
		get: func(c *Config) string { return c.Log.File },
		set: func(c *Config, v string) error { c.Log.File = v; return nil },
	},
	"client.target": {
		get: func(c *Config) string { return c.Client.Target },
		set: func(c *Config, v string) error { c.Client.Target = v; return nil },
	},
	"client.model": {
		get: func(c *Config) string { return c.Client.Model },
		set: func(c *Config, v string) error { c.Client.Model = v; return nil },
	},
}
