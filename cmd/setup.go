package main

import (
	"context"
	"fmt"
	"os"

	"github.com/ipeirotis/callbackd/internal/shared"
	"github.com/urfave/cli/v3"
)

// Setup writes a starter config.toml and initializes the token database.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")
	if configPath == "" {
		configPath = "config.toml"
	}

	if _, err := os.Stat(configPath); err == nil {
		r.writePlain("→ Config already exists at %s, leaving it alone\n", configPath)
	} else {
		if err := shared.CreateConfigFile(configPath); err != nil {
			return fmt.Errorf("failed to create config: %w", err)
		}
		r.writePlain("✓ Created %s\n", configPath)
	}

	config := r.loadConfig(cmd)

	if _, err := r.tokenRepo(config); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	r.writePlain("✓ Database ready at %s\n", config.Database.Path)
	r.writePlain("\nEdit %s with your provider credentials, then run: callbackd login\n", configPath)

	return nil
}
