package api

import (
	"errors"
	"time"

	"github.com/papercomputeco/llmock/pkg/catalog"
	"github.com/papercomputeco/llmock/pkg/config"
	"github.com/papercomputeco/llmock/pkg/strategy"
)

// Settings is the reloadable part of the server. A Settings value is never
// mutated after it is applied; reloads swap in a new one, so a request sees
// one consistent snapshot from start to finish.
type Settings struct {
	Catalog  *catalog.Catalog
	Strategy strategy.Strategy

	// APIKey is the required bearer key. Empty disables auth.
	APIKey string

	// Pace is the pause after each streamed delta.
	Pace time.Duration
}

// NewSettings builds Settings from a loaded config.
func NewSettings(cfg *config.Config) (*Settings, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}

	models, err := cfg.CatalogModels()
	if err != nil {
		return nil, err
	}

	strat, err := strategy.New(cfg.Strategy.Name, cfg.Strategy.Reply)
	if err != nil {
		return nil, err
	}

	pace, err := cfg.Stream.Pace()
	if err != nil {
		return nil, err
	}

	return &Settings{
		Catalog:  catalog.New(models),
		Strategy: strat,
		APIKey:   cfg.Auth.APIKey,
		Pace:     pace,
	}, nil
}

func (s *Settings) validate() error {
	if s == nil {
		return errors.New("settings are required")
	}
	if s.Catalog == nil {
		return errors.New("catalog is required")
	}
	if s.Strategy == nil {
		return errors.New("strategy is required")
	}
	return nil
}
