// Package initcmder provides the init command for initializing a local
// .llmock directory in the current working directory.
package initcmder

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/llmock/pkg/cliui"
	"github.com/papercomputeco/llmock/pkg/config"
	"github.com/papercomputeco/llmock/pkg/dotdir"
)

const configFile = "config.toml"

const initLongDesc string = `Initialize a new .llmock/ directory in the current working directory.

Creates a local .llmock/ directory that takes precedence over the default
~/.llmock/ directory, and writes a config.toml into it. An existing
config.toml is kept unless --preset is given.

--preset seeds the model catalog. Named presets:
  open     no models; every model ID is accepted (default)
  openai   current OpenAI chat models
  legacy   gpt-4 and gpt-3.5-turbo

--preset also accepts an http(s) URL of a config.toml to download.

Examples:
  llmock init
  llmock init --preset openai
  llmock init --preset https://example.com/llmock/config.toml`

const initShortDesc string = "Initialize a local .llmock/ directory"

type initCommander struct {
	preset string
	out    io.Writer
}

func NewInitCmd() *cobra.Command {
	cmder := &initCommander{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: initShortDesc,
		Long:  initLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmder.out = cmd.OutOrStdout()
			return cmder.run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&cmder.preset, "preset", "", "Model preset name ("+strings.Join(config.ValidPresetNames(), ", ")+") or config.toml URL")

	return cmd
}

func (c *initCommander) run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}
	dir := filepath.Join(cwd, dotdir.DirName)

	// Resolve the preset before touching the filesystem so a bad preset
	// leaves nothing behind.
	var cfg *config.Config
	if c.preset != "" {
		cfg, err = c.resolvePreset(ctx)
		if err != nil {
			return err
		}
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating .llmock directory: %w", err)
	}

	path := filepath.Join(dir, configFile)
	if cfg == nil {
		if _, err := os.Stat(path); err == nil {
			fmt.Fprintf(c.out, "  %s Already initialized: %s\n", cliui.SuccessMark, dir)
			return nil
		}
		cfg = config.NewDefaultConfig()
	}

	cfger, err := config.NewConfiger(dir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfger.SaveConfig(cfg); err != nil {
		return err
	}

	fmt.Fprintf(c.out, "  %s Initialized %s %s\n",
		cliui.SuccessMark,
		dir,
		cliui.DimStyle.Render(fmt.Sprintf("(%d models)", len(cfg.Models))),
	)
	return nil
}

// resolvePreset returns the named preset, or downloads and parses the
// config when the preset is a URL.
func (c *initCommander) resolvePreset(ctx context.Context) (*config.Config, error) {
	if !strings.HasPrefix(c.preset, "http://") && !strings.HasPrefix(c.preset, "https://") {
		return config.PresetConfig(c.preset)
	}

	data, err := fetch(ctx, c.preset)
	if err != nil {
		return nil, fmt.Errorf("fetching remote config: %w", err)
	}

	cfg, err := config.ParseConfigTOML(data)
	if err != nil {
		return nil, fmt.Errorf("parsing remote config: %w", err)
	}
	return cfg, nil
}

func fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
