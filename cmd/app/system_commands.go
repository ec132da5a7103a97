package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/allisson/todos/cmd/app/commands"
	"github.com/allisson/todos/internal/app"
	"github.com/allisson/todos/internal/config"
)

const systemCategory = "system"

// formatFlag selects between human readable and JSON command output.
func formatFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Value:   "text",
		Usage:   "Output format: 'text' or 'json'",
	}
}

// loadValidConfig loads configuration and refuses to continue with an incomplete one.
func loadValidConfig() (*config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func getSystemCommands(version string) []*cli.Command {
	return []*cli.Command{
		{
			Name:     "server",
			Category: systemCategory,
			Usage:    "Start the HTTP server",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunServer(ctx, version)
			},
		},
		{
			Name:     "migrate",
			Category: systemCategory,
			Usage:    "Run database migrations",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				return commands.RunMigrations(container.Logger(), cfg.DBDriver, cfg.DatabaseURL)
			},
		},
		{
			Name:     "check-connections",
			Category: systemCategory,
			Usage:    "Connect to the database and the broker with the configured retry policy",
			Flags:    []cli.Flag{formatFlag()},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg, err := loadValidConfig()
				if err != nil {
					return err
				}

				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				supervisor, err := container.Supervisor()
				if err != nil {
					return err
				}

				return commands.RunCheckConnections(
					ctx,
					supervisor,
					container.Logger(),
					cmd.String("format"),
					commands.DefaultIO(),
				)
			},
		},
	}
}
