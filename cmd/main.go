package main

import (
	"context"
	"os"

	"github.com/ipeirotis/callbackd/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	var config *shared.Config
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		} else {
			logger.Warnf("failed to load config.toml %v", err)
		}
	}

	runner := NewRunner(RunnerOpts{
		Config:      config,
		Logger:      logger,
		Interactive: true,
	})

	app := &cli.Command{
		Name:     "callbackd",
		Usage:    "Single-shot local HTTP callback server for OAuth redirects",
		Version:  "0.2.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
