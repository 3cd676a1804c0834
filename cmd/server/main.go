// Package main is the entry point for the contributor cards server.
// It stays minimal: build the logger, load config, hand off to the
// server package.
package main

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sakif/contributor-cards/internal/config"
	"github.com/sakif/contributor-cards/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// The logger format depends on config, so this one error goes
		// through a bootstrap text logger.
		slog.New(slog.NewTextHandler(os.Stderr, nil)).Error("invalid configuration",
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	logger := newLogger(cfg)

	// The database file's directory must exist before sqlite opens it.
	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			logger.Error("failed to create database directory",
				slog.String("dir", dir),
				slog.String("error", err.Error()),
			)
			os.Exit(1)
		}
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start blocks until SIGINT/SIGTERM.
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// newLogger returns a JSON logger at Info level in production, a text
// logger at Debug level otherwise.
func newLogger(cfg *config.Config) *slog.Logger {
	if cfg.IsProduction() {
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}
