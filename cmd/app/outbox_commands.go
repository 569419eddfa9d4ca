package main

import (
	"context"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/GroomCloudTeam2/e-commerce-v3-sub000/cmd/app/commands"
	"github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/app"
	"github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/config"
)

func getOutboxCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "clean-outbox",
			Usage: "Delete published and failed outbox records older than the given hours",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:    "hours",
					Aliases: []string{"H"},
					Value:   24,
					Usage:   "Delete terminal records older than this many hours",
				},
				&cli.BoolFlag{
					Name:    "dry-run",
					Aliases: []string{"n"},
					Value:   false,
					Usage:   "Show how many records would be deleted without deleting",
				},
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				hours := int(cmd.Int("hours"))

				cfg := config.Load()
				cfg.OutboxRetention = time.Duration(hours) * time.Hour
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				cleaner, err := container.OutboxCleaner()
				if err != nil {
					return err
				}

				return commands.RunCleanOutbox(
					ctx,
					cleaner,
					container.Logger(),
					commands.DefaultIO().Writer,
					hours,
					cmd.Bool("dry-run"),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "requeue-outbox",
			Usage: "Move failed outbox records with attempts left back to the publish queue",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:    "max-attempts",
					Aliases: []string{"m"},
					Usage:   "Attempt bound (defaults to OUTBOX_MAX_ATTEMPTS)",
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
				if maxAttempts := int(cmd.Int("max-attempts")); maxAttempts > 0 {
					cfg.OutboxMaxAttempts = maxAttempts
				}
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				requeuer, err := container.OutboxRequeuer()
				if err != nil {
					return err
				}

				return commands.RunRequeueOutbox(
					ctx,
					requeuer,
					container.Logger(),
					commands.DefaultIO().Writer,
					cfg.OutboxMaxAttempts,
					cmd.String("format"),
				)
			},
		},
	}
}
