package commands

import (
	"context"
	"fmt"
	"os"
	"syscall"

	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/qilbeedb/qilbee-go/internal/app"
	"github.com/qilbeedb/qilbee-go/internal/observability"
	"github.com/qilbeedb/qilbee-go/qilbee"
)

// setup loads configuration, instruments logging and builds the client.
// The returned shutdown function flushes any buffered log records.
func setup(ctx context.Context, cmd *cli.Command) (*qilbee.Client, func(context.Context) error, error) {
	cfg, err := loadConfig(cmd.String("config"), cmd, os.Environ)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	shutdown, err := observability.Instrument(ctx, cfg.LogLevel, string(cfg.LogFormat), string(cfg.LogExporter))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logging: %w", err)
	}

	client, err := app.NewClient(cfg)
	if err != nil {
		return nil, nil, err
	}
	return client, shutdown, nil
}

func loginCommand() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "authenticate with username and password",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "username",
				Aliases:  []string{"u"},
				Usage:    "account username",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "password",
				Usage: "account password (prompted when omitted)",
			},
		},
		Action: loginAction,
	}
}

func loginAction(ctx context.Context, cmd *cli.Command) error {
	client, shutdown, err := setup(ctx, cmd)
	if err != nil {
		return err
	}
	defer func() { _ = shutdown(ctx) }()

	password := cmd.String("password")
	if password == "" {
		fmt.Fprint(os.Stderr, "Password: ")
		raw, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return fmt.Errorf("reading password: %w", err)
		}
		password = string(raw)
	}

	resp, err := client.Login(ctx, cmd.String("username"), password)
	if err != nil {
		return err
	}

	fmt.Printf("logged in as %s\n", resp.Username)
	return nil
}

func logoutCommand() *cli.Command {
	return &cli.Command{
		Name:   "logout",
		Usage:  "clear stored credentials",
		Action: logoutAction,
	}
}

func logoutAction(ctx context.Context, cmd *cli.Command) error {
	client, shutdown, err := setup(ctx, cmd)
	if err != nil {
		return err
	}
	defer func() { _ = shutdown(ctx) }()

	// Restore any persisted session so the server gets notified too
	client.ResumeSession(ctx)
	client.Logout(ctx)

	fmt.Println("logged out")
	return nil
}

func refreshCommand() *cli.Command {
	return &cli.Command{
		Name:   "refresh",
		Usage:  "force an access token refresh",
		Action: refreshAction,
	}
}

func refreshAction(ctx context.Context, cmd *cli.Command) error {
	client, shutdown, err := setup(ctx, cmd)
	if err != nil {
		return err
	}
	defer func() { _ = shutdown(ctx) }()

	client.ResumeSession(ctx)
	if _, err := client.RefreshToken(ctx); err != nil {
		return err
	}

	fmt.Println("access token refreshed")
	return nil
}

func statusCommand() *cli.Command {
	return &cli.Command{
		Name:   "status",
		Usage:  "show server health and authentication state",
		Action: statusAction,
	}
}

func statusAction(ctx context.Context, cmd *cli.Command) error {
	client, shutdown, err := setup(ctx, cmd)
	if err != nil {
		return err
	}
	defer func() { _ = shutdown(ctx) }()

	authenticated := client.IsAuthenticated() || client.ResumeSession(ctx)
	if authenticated {
		// Refresh now, serially: the requests below share one session and
		// must not mutate its headers mid-flight
		if _, err := client.Authenticator().EnsureValidToken(ctx); err != nil {
			authenticated = false
		}
	}

	var (
		health *qilbee.HealthStatus
		graphs []string
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		health, err = client.Health(gCtx)
		return err
	})
	if authenticated {
		g.Go(func() error {
			var err error
			graphs, err = client.ListGraphs(gCtx)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	fmt.Printf("server: %s (%s)\n", client.Session().BaseURL(), health.Status)
	if authenticated {
		fmt.Printf("authenticated: yes, %d graph(s) visible\n", len(graphs))
	} else {
		fmt.Println("authenticated: no")
	}
	return nil
}
