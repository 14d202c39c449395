// Package config loads, validates and persists llmock configuration.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/papercomputeco/llmock/pkg/catalog"
	"github.com/papercomputeco/llmock/pkg/dotdir"
)

const (
	configFile = "config.toml"

	// v0 is the alpha version of the config
	v0 = 0

	// CurrentV is the currently supported version, points to v0
	CurrentV = v0

	// ListSeparator splits list values given as a single string, in env
	// vars and config set. Empty segments are kept.
	ListSeparator = ";"
)

// SplitList splits a ";"-separated list. Empty segments are kept, so "a;;b"
// has three elements.
func SplitList(s string) []string {
	return strings.Split(s, ListSeparator)
}

// Configer reads and writes config.toml in a resolved .llmock/ directory.
type Configer struct {
	ddm        *dotdir.Manager
	targetPath string
}

// NewConfiger resolves the .llmock/ directory (override first) and returns a
// Configer for its config.toml, which need not exist yet.
func NewConfiger(override string) (*Configer, error) {
	cfger := &Configer{ddm: dotdir.NewManager()}

	target, err := cfger.ddm.Target(override)
	if err != nil {
		return nil, err
	}
	if target == "" {
		return cfger, nil
	}

	path := filepath.Join(target, configFile)
	if _, err := os.Stat(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfger.targetPath = path
	return cfger, nil
}

// orderedKeys is the display order of config keys, following the TOML layout.
var orderedKeys = []string{
	"server.listen",
	"auth.api_key",
	"cors.allow_origins",
	"stream.delay",
	"strategy.name",
	"strategy.reply",
	"catalog.models_file",
	"mcp.enabled",
	"log.json",
	"log.file",
	"client.target",
	"client.model",
}

// ValidConfigKeys returns all supported key names in display order.
func ValidConfigKeys() []string {
	result := make([]string, 0, len(configKeys))
	for _, k := range orderedKeys {
		if _, ok := configKeys[k]; ok {
			result = append(result, k)
		}
	}
	return result
}

// IsValidConfigKey reports whether key is a supported configuration key.
func IsValidConfigKey(key string) bool {
	_, ok := configKeys[key]
	return ok
}

// GetTarget returns the config.toml path, or "" when none was resolved.
func (c *Configer) GetTarget() string {
	return c.targetPath
}

// LoadConfig loads config.toml. A missing file yields NewDefaultConfig(), and
// fields absent from the file take their defaults.
func (c *Configer) LoadConfig() (*Config, error) {
	if c.targetPath == "" {
		return NewDefaultConfig(), nil
	}

	data, err := os.ReadFile(c.targetPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return NewDefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg, err := ParseConfigTOML(data)
	if err != nil {
		return nil, err
	}
	applyDefaults(cfg)

	return cfg, nil
}

// applyDefaults fills zero-value fields in cfg from NewDefaultConfig().
// allow_origins is only defaulted when absent; an explicit empty list
// disables CORS.
func applyDefaults(cfg *Config) {
	defaults := NewDefaultConfig()

	if cfg.Version == 0 {
		cfg.Version = defaults.Version
	}
	if cfg.Server.Listen == "" {
		cfg.Server.Listen = defaults.Server.Listen
	}
	if cfg.CORS.AllowOrigins == nil {
		cfg.CORS.AllowOrigins = defaults.CORS.AllowOrigins
	}
	if cfg.Stream.Delay == "" {
		cfg.Stream.Delay = defaults.Stream.Delay
	}
	if cfg.Strategy.Name == "" {
		cfg.Strategy.Name = defaults.Strategy.Name
	}
	if cfg.Client.Target == "" {
		cfg.Client.Target = defaults.Client.Target
	}
	if cfg.Client.Model == "" {
		cfg.Client.Model = defaults.Client.Model
	}
}

// SaveConfig writes cfg to config.toml.
func (c *Configer) SaveConfig(cfg *Config) error {
	if cfg == nil {
		return errors.New("cannot save nil config")
	}
	if c.targetPath == "" {
		return errors.New("cannot save empty target path")
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(c.targetPath, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// SetConfigValue loads the config, sets key and saves it.
func (c *Configer) SetConfigValue(key string, value string) error {
	info, ok := configKeys[key]
	if !ok {
		return fmt.Errorf("unknown config key: %q", key)
	}

	cfg, err := c.LoadConfig()
	if err != nil {
		return err
	}
	if err := info.set(cfg, value); err != nil {
		return err
	}
	return c.SaveConfig(cfg)
}

// GetConfigValue loads the config and returns the string form of key.
func (c *Configer) GetConfigValue(key string) (string, error) {
	info, ok := configKeys[key]
	if !ok {
		return "", fmt.Errorf("unknown config key: %q", key)
	}

	cfg, err := c.LoadConfig()
	if err != nil {
		return "", err
	}
	return info.get(cfg), nil
}

// PresetConfig returns a default config seeded with a named model catalog.
// "open" has no models, so every model ID is accepted.
func PresetConfig(name string) (*Config, error) {
	cfg := NewDefaultConfig()

	switch strings.ToLower(name) {
	case "open":
		return cfg, nil

	case "openai":
		cfg.Models = []catalog.Model{
			{ID: "gpt-4o", Created: 1715367049, OwnedBy: "system"},
			{ID: "gpt-4o-mini", Created: 1721172741, OwnedBy: "system"},
			{ID: "gpt-4.1", Created: 1744316542, OwnedBy: "system"},
			{ID: "gpt-4.1-mini", Created: 1744318173, OwnedBy: "system"},
			{ID: "o3-mini", Created: 1737146383, OwnedBy: "system"},
		}
		return cfg, nil

	case "legacy":
		cfg.Models = []catalog.Model{
			{ID: "gpt-4", Created: 1687882411, OwnedBy: "openai"},
			{ID: "gpt-3.5-turbo", Created: 1677610602, OwnedBy: "openai"},
		}
		return cfg, nil

	default:
		return nil, fmt.Errorf("unknown preset: %q (available: %s)", name, strings.Join(ValidPresetNames(), ", "))
	}
}

// ValidPresetNames returns the recognized preset names.
func ValidPresetNames() []string {
	return []string{"open", "openai", "legacy"}
}

// ParseConfigTOML parses raw TOML into a Config. A version other than
// CurrentV is rejected.
func ParseConfigTOML(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config TOML: %w", err)
	}

	if cfg.Version != 0 && cfg.Version != CurrentV {
		return nil, fmt.Errorf("unsupported config version %d (expected %d)", cfg.Version, CurrentV)
	}
	return cfg, nil
}
