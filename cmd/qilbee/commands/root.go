package commands

import (
	"context"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/qilbeedb/qilbee-go/internal/app"
)

// Execute runs the root command with the given context and arguments.
func Execute(ctx context.Context, args []string) error {
	cmd := &cli.Command{
		Name:  "qilbee",
		Usage: "QilbeeDB command line client",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to config file",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "log level (debug|info|warn|error)",
				Value: slog.LevelInfo.String(),
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "log format (text|json)",
				Value: string(app.DefaultConfigLogFormat),
			},
			&cli.StringFlag{
				Name:  "base-url",
				Usage: "QilbeeDB server base URL",
				Value: app.DefaultConfigBaseURL,
			},
			&cli.StringFlag{
				Name:  "storage",
				Usage: "token storage (file|keyring|none)",
				Value: string(app.DefaultConfigAuthStorage),
			},
		},
		Commands: []*cli.Command{
			loginCommand(),
			logoutCommand(),
			refreshCommand(),
			statusCommand(),
		},
	}

	return cmd.Run(ctx, args)
}
