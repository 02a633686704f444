// Package main implements contribgrid, a command-line tool that renders a
// fixed-width grid of recent GitHub contribution activity for a list of
// users.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"contribgrid/batch"
	"contribgrid/config"
	"contribgrid/fetcher"
	"contribgrid/render"
	"contribgrid/userlist"
)

func main() {
	// The table goes to stdout; all diagnostics go to stderr.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}
	logger.Info("Configuration loaded", "config", cfg.NonSensitiveString())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	users, err := userlist.Load(ctx, cfg.InputPath, logger)
	if err != nil {
		logger.Error("Failed to read user list", "source", cfg.InputPath, "error", err)
		os.Exit(1)
	}
	logger.Info("User list loaded", "source", cfg.InputPath, "users", len(users))

	contribFetcher := fetcher.New(
		&http.Client{Timeout: 30 * time.Second},
		cfg.Endpoint,
		cfg.Token,
		cfg.RetryAttempts,
		fetcher.DefaultBackoff,
		logger,
	)

	orchestrator := batch.New(
		contribFetcher,
		render.New(cfg.NameWidth),
		os.Stdout,
		cfg.BatchSize,
		cfg.InterBatchDelay,
		logger,
	)

	if err := orchestrator.Run(ctx, users, time.Now()); err != nil {
		logger.Error("Run aborted", "error", err)
		os.Exit(1)
	}
}
