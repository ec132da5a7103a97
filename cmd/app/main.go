// Package main provides the entry point for the application with CLI commands.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func newRootCommand() *cli.Command {
	return &cli.Command{
		Name:     "app",
		Usage:    "Todo command service: persists todos and publishes TODO_CREATED events",
		Version:  version,
		Commands: append(getSystemCommands(version), getTodoCommands()...),
	}
}

func main() {
	if err := newRootCommand().Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.Any("error", err))
		os.Exit(1)
	}
}
