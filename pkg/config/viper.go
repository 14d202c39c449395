package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/papercomputeco/llmock/pkg/catalog"
	"github.com/papercomputeco/llmock/pkg/dotdir"
)

// EnvPrefix is the prefix of environment overrides, e.g. LLMOCK_SERVER_LISTEN.
const EnvPrefix = "LLMOCK"

// InitViper creates and returns a configured *viper.Viper.
// It sets defaults from NewDefaultConfig(), reads the config.toml file
// (if found via dotdir resolution), and binds environment variables
// with the LLMOCK_ prefix.
//
// Config precedence (highest to lowest):
//  1. CLI flags (once bound via BindRegisteredFlags)
//  2. Environment variables (LLMOCK_SERVER_LISTEN, LLMOCK_AUTH_API_KEY, etc.)
//  3. config.toml file values
//  4. Defaults from NewDefaultConfig()
func InitViper(configDir string) (*viper.Viper, error) {
	v := viper.New()

	setViperDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("toml")

	ddm := dotdir.NewManager()
	target, err := ddm.Target(configDir)
	if err != nil {
		return nil, fmt.Errorf("resolving config dir: %w", err)
	}

	if target != "" {
		v.AddConfigPath(target)
	}

	if err := v.ReadInConfig(); err != nil {
		// Config file not found errors are fine, defaults will apply.
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v, nil
}

// setViperDefaults registers defaults from NewDefaultConfig() into viper
// using dotted-key notation. This keeps defaults.go as the single source of truth.
func setViperDefaults(v *viper.Viper) {
	d := NewDefaultConfig()

	v.SetDefault("version", d.Version)

	v.SetDefault("server.listen", d.Server.Listen)
	v.SetDefault("auth.api_key", d.Auth.APIKey)
	v.SetDefault("cors.allow_origins", d.CORS.AllowOrigins)
	v.SetDefault("stream.delay", d.Stream.Delay)

	v.SetDefault("strategy.name", d.Strategy.Name)
	v.SetDefault("strategy.reply", d.Strategy.Reply)
	v.SetDefault("catalog.models_file", d.Catalog.ModelsFile)

	v.SetDefault("mcp.enabled", d.MCP.Enabled)
	v.SetDefault("log.json", d.Log.JSON)
	v.SetDefault("log.file", d.Log.File)

	v.SetDefault("client.target", d.Client.Target)
	v.SetDefault("client.model", d.Client.Model)
}

// FromViper materializes the effective Config from v after flags, env and
// file have been merged.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Version:  v.GetInt("version"),
		Server:   ServerConfig{Listen: v.GetString("server.listen")},
		Auth:     AuthConfig{APIKey: v.GetString("auth.api_key")},
		Stream:   StreamConfig{Delay: v.GetString("stream.delay")},
		Strategy: StrategyConfig{Name: v.GetString("strategy.name"), Reply: v.GetString("strategy.reply")},
		Catalog:  CatalogConfig{ModelsFile: v.GetString("catalog.models_file")},
		MCP:      MCPConfig{Enabled: v.GetBool("mcp.enabled")},
		Log:      LogConfig{JSON: v.GetBool("log.json"), File: v.GetString("log.file")},
		Client:   ClientConfig{Target: v.GetString("client.target"), Model: v.GetString("client.model")},
	}

	origins, err := stringList(v.Get("cors.allow_origins"))
	if err != nil {
		return nil, fmt.Errorf("invalid cors.allow_origins: %w", err)
	}
	cfg.CORS.AllowOrigins = origins

	if err := v.UnmarshalKey("models", &cfg.Models); err != nil {
		return nil, fmt.Errorf("invalid models: %w", err)
	}

	if _, err := cfg.Stream.Pace(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// stringList accepts the shapes a list key takes in viper: a ";"-separated
// string from env or flags, or a list from TOML or defaults.
func stringList(raw any) ([]string, error) {
	switch val := raw.(type) {
	case nil:
		return nil, nil
	case string:
		return SplitList(val), nil
	case []string:
		return val, nil
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("expected string, got %T", item)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported type %T", raw)
	}
}

// CatalogModels returns the [[models]] tables followed by the models read
// from catalog.models_file, if set.
func (c *Config) CatalogModels() ([]catalog.Model, error) {
	models := append([]catalog.Model(nil), c.Models...)
	if c.Catalog.ModelsFile == "" {
		return models, nil
	}

	fromFile, err := catalog.LoadFile(c.Catalog.ModelsFile)
	if err != nil {
		return nil, err
	}
	return append(models, fromFile...), nil
}
