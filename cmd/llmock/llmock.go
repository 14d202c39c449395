// Package llmockcmder
package llmockcmder

import (
	"github.com/spf13/cobra"

	chatcmder "github.com/papercomputeco/llmock/cmd/llmock/chat"
	configcmder "github.com/papercomputeco/llmock/cmd/llmock/config"
	initcmder "github.com/papercomputeco/llmock/cmd/llmock/init"
	modelscmder "github.com/papercomputeco/llmock/cmd/llmock/models"
	servecmder "github.com/papercomputeco/llmock/cmd/llmock/serve"
	versioncmder "github.com/papercomputeco/llmock/cmd/version"
)

const llmockLongDesc string = `llmock is a local mock of the OpenAI API.

It serves chat completions and the Responses API with deterministic replies,
streamed or not, so clients can be developed and tested offline.

Run the server using:
  llmock serve          Run the mock API server
  llmock models         List the models a server offers
  llmock chat           Chat with a running server`

const llmockShortDesc string = "llmock - OpenAI API mock"

func NewLLMockCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "llmock",
		Short:         llmockShortDesc,
		Long:          llmockLongDesc,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Directory holding config.toml (default: ./.llmock or ~/.llmock)")

	// Add subcommands
	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(modelscmder.NewModelsCmd())
	cmd.AddCommand(chatcmder.NewChatCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(initcmder.NewInitCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
