package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/claude/mapty/internal/cli"
	"github.com/claude/mapty/internal/config"
	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	// Logs go to stderr so that stdout stays clean for tables and MCP stdio.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	cfg, err := config.Load(os.Getenv("MAPTY_CONFIG"))
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	app := &cli.App{
		Open:    cli.NewOpener(cfg, os.Stderr, log),
		Version: Version,
		Server:  os.Getenv("MAPTY_SERVER"),
		Log:     log,
		IsInteractive: func() bool {
			return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	defer app.Close()
	return cli.NewRootCmd(app).ExecuteContext(ctx)
}
