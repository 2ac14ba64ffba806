// Package cli implements the one-shot question command.
package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/sportspulse/internal/domain/answer"
	"github.com/kailas-cloud/sportspulse/internal/domain/query"
	"github.com/kailas-cloud/sportspulse/internal/transport/dto"
	"github.com/kailas-cloud/sportspulse/internal/version"
)

// Asker answers questions.
type Asker interface {
	Ask(ctx context.Context, q query.Request) (answer.Result, error)
}

// Factory builds the question pipeline. It runs only when a question is actually asked, so
// --help and --version stay fast. The returned func releases resources.
type Factory func(ctx context.Context) (Asker, func(), error)

type askOptions struct {
	noWeb    bool
	forceWeb bool
	json     bool
	timeout  time.Duration
}

// NewRootCommand creates the sportspulse-ask command.
func NewRootCommand(factory Factory) *cobra.Command {
	opts := &askOptions{}

	cmd := &cobra.Command{
		Use:   "sportspulse-ask [question]",
		Short: "Answer a sports question",
		Long: `Answers a sports question from the local article corpus and, for questions about
recent events, from live web search. Answers are ranked by confidence.`,
		Args:          cobra.MinimumNArgs(1),
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAsk(cmd, factory, opts, strings.Join(args, " "))
		},
	}

	cmd.Flags().BoolVar(&opts.noWeb, "no-web", false, "answer from the knowledge base only")
	cmd.Flags().BoolVar(&opts.forceWeb, "force-web", false, "search the web even for historical questions")
	cmd.Flags().BoolVar(&opts.json, "json", false, "output the result as JSON")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", time.Minute, "overall time limit")
	cmd.MarkFlagsMutuallyExclusive("no-web", "force-web")

	return cmd
}

func runAsk(cmd *cobra.Command, factory Factory, opts *askOptions, question string) error {
	q, err := query.New(question, !opts.noWeb, opts.forceWeb)
	if err != nil {
		return fmt.Errorf("invalid question: %w", err)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
	defer cancel()

	asker, release, err := factory(ctx)
	if err != nil {
		return fmt.Errorf("initialise: %w", err)
	}
	defer release()

	res, err := asker.Ask(ctx, q)
	if err != nil {
		return fmt.Errorf("ask: %w", err)
	}

	resp := dto.NewAskResponse(&res)
	if opts.json {
		return renderJSON(cmd.OutOrStdout(), &resp)
	}
	renderText(cmd.OutOrStdout(), &resp, newStyles())
	return nil
}
