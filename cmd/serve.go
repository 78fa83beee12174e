package main

import (
	"context"

	"github.com/ipeirotis/callbackd/internal/server"
	"github.com/urfave/cli/v3"
)

// Serve runs the callback server in the foreground until a shutdown-flagged
// route fires (or the process is killed).
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	config := r.loadConfig(cmd)

	if cmd.IsSet("host") {
		config.Server.Host = cmd.String("host")
	}
	if cmd.IsSet("port") {
		config.Server.Port = cmd.Int("port")
	}
	if cmd.IsSet("greeting") {
		config.Server.GreetingName = cmd.String("greeting")
	}
	if cmd.IsSet("stop-on-root") {
		config.Server.ShutdownOnRoot = cmd.Bool("stop-on-root")
	}
	if cmd.IsSet("stop-on-visit") {
		config.Server.ShutdownOnVisit = cmd.Bool("stop-on-visit")
	}
	if cmd.IsSet("rate-limit") {
		config.Server.RateLimit = cmd.Float("rate-limit")
	}

	srv := server.New(config.Server, r.logger)

	r.writePlain("→ Serving on %s (GET %s, GET %s)\n", config.Server.Addr(), server.GreetingPath, server.VisitorPath)

	if err := srv.Start(); err != nil {
		return err
	}

	r.writePlain("✓ Server stopped after %d visit(s)\n", srv.Visits())
	return nil
}
