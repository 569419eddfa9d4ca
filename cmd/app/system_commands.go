package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/GroomCloudTeam2/e-commerce-v3-sub000/cmd/app/commands"
	"github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/app"
	"github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/config"
)

func getSystemCommands(version string) []*cli.Command {
	return []*cli.Command{
		{
			Name:  "server",
			Usage: "Start the order HTTP API",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunServer(ctx, version)
			},
		},
		{
			Name:  "worker",
			Usage: "Start the outbox publisher, cleaner, requeuer and saga reactor",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunWorker(ctx, version)
			},
		},
		{
			Name:  "migrate",
			Usage: "Run database migrations",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				return commands.RunMigrations(container.Logger(), cfg.DBDriver, cfg.DBConnectionString)
			},
		},
	}
}
