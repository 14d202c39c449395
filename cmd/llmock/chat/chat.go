// Package chatcmder provides the chat command for interactive chat against a
// running llmock server.
package chatcmder

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/papercomputeco/llmock/pkg/cliui"
	"github.com/papercomputeco/llmock/pkg/config"
	"github.com/papercomputeco/llmock/pkg/dotdir"
	"github.com/papercomputeco/llmock/pkg/llm"
	"github.com/papercomputeco/llmock/pkg/logger"
	"github.com/papercomputeco/llmock/pkg/utils"
)

type chatCommander struct {
	target   string
	apiKey   string
	model    string
	protocol string
	raw      bool
	markdown bool
	fresh    bool

	configDir string
	debug     bool

	in     io.Reader
	out    io.Writer
	errOut io.Writer
	tty    bool

	client *Client
	dotdir *dotdir.Manager
	logger *slog.Logger
}

const chatLongDesc string = `Start an interactive chat session with a running llmock server.

Each message is sent with the whole conversation so far and the reply is
streamed to the terminal as it arrives. The conversation is saved to
session.json in the .llmock/ directory and resumed on the next run; use
--new to start over.

Use --raw to also print the server-sent event bytes to stderr, and
--markdown to request whole replies and render them as markdown.

Inside a session, /reset clears the conversation and /exit quits.

Examples:
  llmock chat
  llmock chat --model gpt-4o-mini --protocol responses
  llmock chat --target http://localhost:9000 --raw`

const chatShortDesc string = "Interactive chat with a running server"

func NewChatCmd() *cobra.Command {
	cmder := &chatCommander{}

	cmd := &cobra.Command{
		Use:   "chat",
		Short: chatShortDesc,
		Long:  chatLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			cmder.configDir, _ = cmd.Flags().GetString("config-dir")
			cfger, err := config.NewConfiger(cmder.configDir)
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
			if !cmd.Flags().Changed(config.Flags[config.FlagModel].Name) {
				cmder.model = cfg.Client.Model
			}
			if !cmd.Flags().Changed(config.Flags[config.FlagAPIKey].Name) {
				cmder.apiKey = cfg.Auth.APIKey
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}

			cmder.in = cmd.InOrStdin()
			cmder.out = cmd.OutOrStdout()
			cmder.errOut = cmd.ErrOrStderr()
			cmder.tty = term.IsTerminal(int(os.Stdin.Fd()))

			return cmder.run(cmd.Context())
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagTarget, &cmder.target)
	config.AddStringFlag(cmd, config.Flags, config.FlagModel, &cmder.model)
	config.AddStringFlag(cmd, config.Flags, config.FlagAPIKey, &cmder.apiKey)
	cmd.Flags().StringVarP(&cmder.protocol, "protocol", "p", "chat", "API to talk to (chat, responses)")
	cmd.Flags().BoolVar(&cmder.raw, "raw", false, "Print raw server-sent events to stderr")
	cmd.Flags().BoolVar(&cmder.markdown, "markdown", false, "Request whole replies and render them as markdown")
	cmd.Flags().BoolVar(&cmder.fresh, "new", false, "Discard the saved session and start a new one")

	return cmd
}

func (c *chatCommander) run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	c.logger = logger.Console(c.errOut, c.debug, false)

	protocol, err := ParseProtocol(c.protocol)
	if err != nil {
		return err
	}
	c.client = NewClient(c.target, c.apiKey, protocol)
	if c.raw {
		c.client.Raw = c.errOut
	}
	c.dotdir = dotdir.NewManager()

	session, err := c.openSession()
	if err != nil {
		return err
	}

	cliui.Field(c.out, "Model", c.model)
	cliui.Field(c.out, "Server", c.target+" ("+protocol.String()+")")
	fmt.Fprintln(c.out)
	if c.tty {
		fmt.Fprintf(c.out, "  %s\n\n", cliui.DimStyle.Render("Type your message and press Enter. /reset to start over, /exit or Ctrl+D to quit."))
	}

	scanner := bufio.NewScanner(c.in)
	for {
		if c.tty {
			fmt.Fprint(c.out, cliui.UserPrompt)
		}
		if !scanner.Scan() {
			break
		}

		input := strings.TrimSpace(scanner.Text())
		switch input {
		case "":
			continue
		case "/exit":
			fmt.Fprintln(c.out)
			return nil
		case "/reset":
			session.Messages = nil
			if err := c.dotdir.ClearSession(c.configDir); err != nil {
				return err
			}
			cliui.Note(c.out, "New conversation")
			fmt.Fprintln(c.out)
			continue
		}

		session.Messages = append(session.Messages, dotdir.SessionMessage{Role: string(llm.RoleUser), Content: input})

		reply, err := c.send(ctx, session.Messages)
		if err != nil {
			fmt.Fprintf(c.errOut, "  %s %v\n", cliui.FailMark, err)
			// Drop the failed message so it can be retried.
			session.Messages = session.Messages[:len(session.Messages)-1]
			continue
		}

		session.Messages = append(session.Messages, dotdir.SessionMessage{Role: string(llm.RoleAssistant), Content: reply})
		if err := c.dotdir.SaveSession(session, c.configDir); err != nil {
			c.logger.Warn("could not save session", "error", err)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	fmt.Fprintln(c.out)
	return nil
}

// openSession resumes the saved session, unless --new was given or it was
// held with another model.
func (c *chatCommander) openSession() (*dotdir.Session, error) {
	fresh := &dotdir.Session{Model: c.model}

	if c.fresh {
		if err := c.dotdir.ClearSession(c.configDir); err != nil {
			return nil, err
		}
		fmt.Fprintln(c.out)
		cliui.Note(c.out, "New conversation")
		return fresh, nil
	}

	session, err := c.dotdir.LoadSession(c.configDir)
	if err != nil {
		return nil, fmt.Errorf("loading session: %w", err)
	}
	fmt.Fprintln(c.out)
	if session == nil || len(session.Messages) == 0 {
		cliui.Note(c.out, "New conversation")
		return fresh, nil
	}
	if session.Model != c.model {
		cliui.Note(c.out, "Saved session used "+session.Model+", starting a new conversation")
		return fresh, nil
	}

	last := session.Messages[len(session.Messages)-1]
	cliui.Note(c.out, "Resuming",
		"("+strconv.Itoa(len(session.Messages))+" messages)",
		utils.Truncate(last.Content, 48),
	)
	return session, nil
}

// send prints the reply to history and returns its text.
func (c *chatCommander) send(ctx context.Context, history []dotdir.SessionMessage) (string, error) {
	c.logger.Debug("sending chat request",
		"target", c.target,
		"model", c.model,
		"message_count", len(history),
	)

	if c.markdown {
		reply, err := c.client.Complete(ctx, c.model, history)
		if err != nil {
			return "", err
		}
		rendered, err := cliui.RenderMarkdown(reply)
		if err != nil {
			c.logger.Debug("markdown rendering failed", "error", err)
		}
		fmt.Fprint(c.out, rendered)
		return reply, nil
	}

	fmt.Fprint(c.out, cliui.AssistantPrompt)
	reply, err := c.client.Stream(ctx, c.model, history, func(delta string) {
		fmt.Fprint(c.out, delta)
	})
	fmt.Fprint(c.out, "\n\n")
	return reply, err
}
