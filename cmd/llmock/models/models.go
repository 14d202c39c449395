// Package modelscmder provides the models command for listing the model
// catalog of a running llmock server.
package modelscmder

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/llmock/pkg/catalog"
	"github.com/papercomputeco/llmock/pkg/cliui"
	"github.com/papercomputeco/llmock/pkg/config"
	"github.com/papercomputeco/llmock/pkg/llm"
)

type modelsCommander struct {
	target string
	apiKey string
	quiet  bool

	out io.Writer
}

const modelsLongDesc string = `List the models a running llmock server offers.

Calls GET /v1/models on the target server. An empty list means the server
runs with an open catalog and accepts any model ID.

Use --quiet to print only model IDs, one per line.

Examples:
  llmock models
  llmock models --target http://localhost:9000
  llmock models --quiet`

const modelsShortDesc string = "List the models of a running server"

func NewModelsCmd() *cobra.Command {
	cmder := &modelsCommander{}

	cmd := &cobra.Command{
		Use:   "models",
		Short: modelsShortDesc,
		Long:  modelsLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			cfger, err := config.NewConfiger(configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			cfg, err := cfger.LoadConfig()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			if !cmd.Flags().Changed(config.Flags[config.FlagTarget].Name) {
				cmder.target = cfg.Client.Target
			}
			if !cmd.Flags().Changed(config.Flags[config.FlagAPIKey].Name) {
				cmder.apiKey = cfg.Auth.APIKey
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmder.out = cmd.OutOrStdout()
			return cmder.run(cmd.Context())
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagTarget, &cmder.target)
	config.AddStringFlag(cmd, config.Flags, config.FlagAPIKey, &cmder.apiKey)
	cmd.Flags().BoolVarP(&cmder.quiet, "quiet", "q", false, "Print only model IDs")

	return cmd
}

func (c *modelsCommander) run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var list *catalog.List
	fetch := func() error {
		var err error
		list, err = FetchModels(ctx, c.target, c.apiKey)
		return err
	}

	if c.quiet {
		if err := fetch(); err != nil {
			return err
		}
		for _, m := range list.Data {
			fmt.Fprintln(c.out, m.ID)
		}
		return nil
	}

	fmt.Fprintln(c.out)
	if err := cliui.Step(os.Stderr, "Fetching models from "+c.target, fetch); err != nil {
		return err
	}
	fmt.Fprintln(c.out)

	if len(list.Data) == 0 {
		fmt.Fprintf(c.out, "  %s\n\n", cliui.DimStyle.Render("Open catalog: every model ID is accepted."))
		return nil
	}

	width := 0
	for _, m := range list.Data {
		width = max(width, len(m.ID))
	}
	for _, m := range list.Data {
		fmt.Fprintf(c.out, "  %s  %s  %s\n",
			cliui.KeyStyle.Render(fmt.Sprintf("%-*s", width, m.ID)),
			cliui.ValueStyle.Render(m.OwnedBy),
			cliui.DimStyle.Render(time.Unix(m.Created, 0).UTC().Format(time.DateOnly)),
		)
	}
	fmt.Fprintf(c.out, "\n  %s\n\n", cliui.DimStyle.Render(fmt.Sprintf("%d models", len(list.Data))))
	return nil
}

// FetchModels calls GET /v1/models on target. Error payloads are returned
// as errors carrying the server's message.
func FetchModels(ctx context.Context, target, apiKey string) (*catalog.List, error) {
	url := strings.TrimRight(target, "/") + "/v1/models"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting models: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr llm.ErrorResponse
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error.Message != "" {
			return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, apiErr.Error.Message)
		}
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	list := &catalog.List{}
	if err := json.Unmarshal(body, list); err != nil {
		return nil, fmt.Errorf("decoding models: %w", err)
	}
	return list, nil
}
