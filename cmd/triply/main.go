package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"triply/internal/app"
	"triply/internal/cli"
	"triply/internal/config"
	"triply/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	open := func(ctx context.Context) (*app.App, error) {
		cfg, err := config.NewFromEnv()
		if err != nil {
			return nil, fmt.Errorf("failed to load configuration: %w", err)
		}
		logger, err := logging.New(cfg.LogLevel)
		if err != nil {
			return nil, err
		}
		return app.New(ctx, cfg, logger)
	}

	if err := cli.NewRootCmd(open).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", cli.UserMessage(err))
		os.Exit(1)
	}
}
