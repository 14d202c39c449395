// Package configcmder provides the config command for managing persistent
// llmock configuration stored in the .llmock/ directory.
package configcmder

import (
	"github.com/spf13/cobra"
)

const configLongDesc string = `Manage persistent llmock configuration.

Configuration is stored as config.toml in the .llmock/ directory and provides
default values for command flags. CLI flags and LLMOCK_* environment
variables take precedence over config file values.

Keys use dotted notation matching the TOML section structure:
  server.listen, auth.api_key, cors.allow_origins, stream.delay,
  strategy.name, strategy.reply, catalog.models_file, mcp.enabled,
  log.json, log.file, client.target, client.model

List values such as cors.allow_origins are separated by ';'. Model tables
([[models]]) are edited in config.toml directly, or seeded with
"llmock init --preset".

Use subcommands to get, set, or list configuration values:
  llmock config set <key> <value>    Set a configuration value
  llmock config get <key>            Get a configuration value
  llmock config list                 List all configuration values

Examples:
  llmock config set stream.delay 0s
  llmock config set cors.allow_origins "http://localhost:3000;http://localhost:8000"
  llmock config get strategy.name
  llmock config list`

const configShortDesc string = "Manage persistent llmock configuration"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}

// validKeysCompletion completes the first argument with config keys.
func validKeysCompletion(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) == 0 {
		return configKeys(), cobra.ShellCompDirectiveNoFileComp
	}
	return nil, cobra.ShellCompDirectiveNoFileComp
}
