package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/capital/agent"
	"github.com/google/subcommands"
	"google.golang.org/genai"
)

// assistCmd is the subcommand for the AI assistant.
type assistCmd struct{}

func (*assistCmd) Name() string     { return "assist" }
func (*assistCmd) Synopsis() string { return "Start an interactive session with the AI assistant." }
func (*assistCmd) Usage() string {
	return `assist [<question>]

  Start an interactive session with the AI assistant, reading the owner's book.
  The Gemini API key is read from GEMINI_API_KEY.
`
}
func (*assistCmd) SetFlags(_ *flag.FlagSet) {}

func (c *assistCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	initialPrompt := strings.Join(f.Args(), " ")

	return withApp(ctx, func(ctx context.Context, a *app) error {
		client, err := genai.NewClient(ctx, nil)
		if err != nil {
			return fmt.Errorf("error initializing Gemini's client: %w", err)
		}

		accountant := agent.NewAccountant(a.book, a.cfg.Owner, a.cfg.GeminiModel)
		accountant.Log = a.log
		assistant := agent.New(os.Stdout, os.Stdin, a.cfg.GeminiModel, accountant)
		assistant.Render = renderMarkdown

		if err := assistant.Run(ctx, client, initialPrompt); err != nil {
			return fmt.Errorf("agent failed: %w", err)
		}
		return nil
	})
}
