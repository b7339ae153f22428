package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/certify/cmd/app/commands"
	"github.com/allisson/certify/internal/app"
	"github.com/allisson/certify/internal/config"
)

func getIssuanceCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "approve-event",
			Usage: "Approve a logged event so ORGANIZER certificates can reference it",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "reference-id",
					Aliases:  []string{"r"},
					Required: true,
					Usage:    "Event reference ID",
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

				eventUseCase, err := container.EventUseCase()
				if err != nil {
					return err
				}

				return commands.RunApproveEvent(
					ctx,
					eventUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("reference-id"),
					cmd.String("format"),
				)
			},
		},
	}
}
