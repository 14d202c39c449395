package config

import (
	"time"

	"github.com/papercomputeco/llmock/pkg/strategy"
	"github.com/papercomputeco/llmock/pkg/stream"
)

const (
	defaultListen       = ":8000"
	defaultClientTarget = "http://localhost:8000"
	defaultClientModel  = "gpt-4o"
	defaultStreamDelay  = "10ms"

	defaultStreamPace time.Duration = stream.DefaultPace
)

var defaultAllowOrigins = []string{"http://localhost:8000"}

// NewDefaultConfig returns a Config with defaults for all fields. This is
// the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		Server: ServerConfig{
			Listen: defaultListen,
		},
		CORS: CORSConfig{
			AllowOrigins: append([]string(nil), defaultAllowOrigins...),
		},
		Stream: StreamConfig{
			Delay: defaultStreamDelay,
		},
		Strategy: StrategyConfig{
			Name: strategy.NameMirror,
		},
		Client: ClientConfig{
			Target: defaultClientTarget,
			Model:  defaultClientModel,
		},
	}
}
