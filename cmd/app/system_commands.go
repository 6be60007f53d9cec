package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/dmvault/cmd/app/commands"
	"github.com/allisson/dmvault/internal/app"
	"github.com/allisson/dmvault/internal/config"
	cryptoDomain "github.com/allisson/dmvault/internal/crypto/domain"
)

func getSystemCommands(version string) []*cli.Command {
	return []*cli.Command{
		{
			Name:  "server",
			Usage: "Start the HTTP server",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunServer(ctx, version)
			},
		},
		{
			Name:  "migrate",
			Usage: "Run database migrations for the postgres and mysql storage drivers",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				return commands.RunMigrations(container.Logger(), cfg.StorageDriver, cfg.DBConnectionString)
			},
		},
		{
			Name:  "verify-storage",
			Usage: "Open the sealed stores and report entry counts",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				// Never reset a store while verifying it.
				cfg.CorruptStorePolicy = string(cryptoDomain.RecoveryFail)

				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				userUseCase, err := container.UserUseCase()
				if err != nil {
					return err
				}
				conversationKeyUseCase, err := container.ConversationKeyUseCase()
				if err != nil {
					return err
				}
				messageUseCase, err := container.MessageUseCase()
				if err != nil {
					return err
				}

				return commands.RunVerifyStorage(
					ctx,
					userUseCase,
					conversationKeyUseCase,
					messageUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("format"),
				)
			},
		},
	}
}
