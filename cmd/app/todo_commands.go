package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/todos/cmd/app/commands"
	"github.com/allisson/todos/internal/app"
)

func getTodoCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:     "create-todo",
			Category: "todos",
			Usage:    "Create a todo and publish its TODO_CREATED event",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "title",
					Aliases:  []string{"t"},
					Required: true,
					Usage:    "Todo title",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg, err := loadValidConfig()
				if err != nil {
					return err
				}

				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				todoUseCase, err := container.TodoUseCase()
				if err != nil {
					return err
				}

				return commands.RunCreateTodo(
					ctx,
					todoUseCase,
					container.Logger(),
					cmd.String("title"),
					cmd.String("format"),
					commands.DefaultIO(),
				)
			},
		},
	}
}
