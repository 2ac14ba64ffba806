package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/kailas-cloud/sportspulse/internal/app"
	"github.com/kailas-cloud/sportspulse/internal/config"
	logpkg "github.com/kailas-cloud/sportspulse/internal/logger"
	"github.com/kailas-cloud/sportspulse/internal/transport/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := cli.NewRootCommand(buildAsker)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// buildAsker wires the same pipeline as the API server and loads the corpus synchronously.
func buildAsker(ctx context.Context) (cli.Asker, func(), error) {
	cfg, err := config.Load(config.GetEnv())
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	// Diagnostics go to stderr at warn level so stdout stays clean for --json.
	logger, err := logpkg.NewLogger("cli")
	if err != nil {
		return nil, nil, fmt.Errorf("create logger: %w", err)
	}

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		_ = logger.Sync()
		return nil, nil, fmt.Errorf("build application: %w", err)
	}

	release := func() {
		application.Close()
		_ = logger.Sync()
	}

	if err := application.LoadCorpus(); err != nil {
		release()
		return nil, nil, fmt.Errorf("load corpus %s: %w", cfg.Corpus.Path, err)
	}
	if !application.WebEnabled() {
		logger.Warn("web search disabled, answering from the knowledge base only",
			zap.String("corpus", cfg.Corpus.Path))
	}

	return application.QA, release, nil
}
