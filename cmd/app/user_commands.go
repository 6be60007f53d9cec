package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/dmvault/cmd/app/commands"
	"github.com/allisson/dmvault/internal/app"
	"github.com/allisson/dmvault/internal/config"
)

func getUserCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-user",
			Usage: "Create a user account in the sealed user directory",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "login",
					Aliases:  []string{"l"},
					Required: true,
					Usage:    "Login (letters, digits and . _ @ + -)",
				},
				&cli.StringFlag{
					Name:    "password",
					Aliases: []string{"p"},
					Usage:   "Password (omit to be prompted)",
				},
				&cli.StringFlag{
					Name:    "display-name",
					Aliases: []string{"n"},
					Usage:   "Display name (defaults to the login)",
				},
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				userUseCase, err := container.UserUseCase()
				if err != nil {
					return err
				}

				return commands.RunCreateUser(
					ctx,
					userUseCase,
					container.Logger(),
					commands.CreateUserInput{
						Login:       cmd.String("login"),
						Password:    cmd.String("password"),
						DisplayName: cmd.String("display-name"),
						AdminLogin:  cfg.AdminLogin,
					},
					cmd.String("format"),
					commands.DefaultIO(),
				)
			},
		},
	}
}
