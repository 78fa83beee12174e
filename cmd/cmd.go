// submodule cmd contains command definitions
package main

import (
	"time"

	"github.com/urfave/cli/v3"
)

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

// setupCommand initializes config and database
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Create config.toml and initialize the token database",
		Flags:  []cli.Flag{configFlag()},
		Action: r.Setup,
	}
}

// serveCommand runs the callback server in the foreground
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the single-shot callback server",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:  "host",
				Usage: "Interface to bind",
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to bind",
			},
			&cli.StringFlag{
				Name:  "greeting",
				Usage: "Name used in the root route greeting",
			},
			&cli.BoolFlag{
				Name:  "stop-on-root",
				Usage: "Stop the server after a request to /",
			},
			&cli.BoolFlag{
				Name:  "stop-on-visit",
				Usage: "Stop the server after a request to the visitor route",
				Value: true,
			},
			&cli.FloatFlag{
				Name:  "rate-limit",
				Usage: "Maximum requests per second (0 disables throttling)",
			},
		},
		Action: r.Serve,
	}
}

// loginCommand runs the OAuth2 authorization flow
func loginCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "Authorize with the configured provider via the local callback server",
		Flags: []cli.Flag{
			configFlag(),
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "How long to wait for the redirect",
				Value: 2 * time.Minute,
			},
			&cli.BoolFlag{
				Name:  "no-browser",
				Usage: "Print the authorization URL instead of opening a browser",
			},
			&cli.BoolFlag{
				Name:  "quiet",
				Usage: "Disable the wait spinner",
			},
		},
		Action: r.Login,
	}
}

// tokensCommand inspects and clears stored tokens
func tokensCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "tokens",
		Usage: "Manage captured OAuth tokens",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List stored tokens, newest first",
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:  "provider",
						Usage: "Filter by provider",
					},
					&cli.BoolFlag{
						Name:  "reveal",
						Usage: "Include token values in the output",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.TokensList,
			},
			{
				Name:  "purge",
				Usage: "Soft-delete stored tokens",
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:  "provider",
						Usage: "Only purge tokens for this provider",
					},
				},
				Action: r.TokensPurge,
			},
		},
	}
}
