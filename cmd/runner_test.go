package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ipeirotis/callbackd/internal/shared"
	tu "github.com/ipeirotis/callbackd/internal/testing"
	"github.com/urfave/cli/v3"
)

func testApp(r *Runner) *cli.Command {
	return &cli.Command{
		Name:     "callbackd",
		Commands: r.register(),
	}
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			db := tu.NewTestDatabase(t)

			runner := NewRunner(RunnerOpts{
				Config:      config,
				DB:          db,
				Logger:      logger,
				Output:      output,
				Interactive: true,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.db != db {
				t.Error("expected db to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if !runner.interactive {
				t.Error("expected interactive to be set")
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Output: output})

		if err := runner.writePlain("visitor #%d\n", 1); err != nil {
			t.Fatalf("writePlain failed: %v", err)
		}
		if output.String() != "visitor #1\n" {
			t.Errorf("unexpected output: %q", output.String())
		}

		runner = NewRunner(RunnerOpts{Output: &tu.FWriter{}})
		if err := runner.writePlain("x"); err == nil {
			t.Error("expected write failure")
		}
	})

	t.Run("writeJSON", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Output: output})

		if err := runner.writeJSON(map[string]int{"visits": 3}, false); err != nil {
			t.Fatalf("writeJSON failed: %v", err)
		}
		if strings.TrimSpace(output.String()) != `{"visits":3}` {
			t.Errorf("unexpected output: %q", output.String())
		}

		if err := runner.writeJSON(make(chan int), false); err == nil {
			t.Error("expected marshal failure for unsupported type")
		}
	})
}

func TestSetup(t *testing.T) {
	t.Run("creates config and database", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")
		dbPath := filepath.Join(tmpDir, "tokens.db")

		// Pre-seed a config pointing at temp paths so setup initializes there.
		config := shared.DefaultConfig()
		config.Database.Path = dbPath
		if err := shared.SaveConfig(configPath, config); err != nil {
			t.Fatalf("failed to seed config: %v", err)
		}

		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Logger: shared.NewLogger(io.Discard), Output: output})

		err := testApp(runner).Run(context.Background(), []string{"callbackd", "setup", "--config", configPath})
		if err != nil {
			t.Fatalf("setup failed: %v", err)
		}

		if _, err := os.Stat(dbPath); err != nil {
			t.Errorf("database file should exist: %v", err)
		}
		if !strings.Contains(output.String(), "Database ready") {
			t.Errorf("unexpected output: %q", output.String())
		}
	})
}

func TestTokensCommands(t *testing.T) {
	newTokenRunner := func(t *testing.T) (*Runner, *bytes.Buffer) {
		t.Helper()
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{
			Config: shared.DefaultConfig(),
			DB:     tu.NewTestDatabase(t),
			Logger: shared.NewLogger(io.Discard),
			Output: output,
		})
		return runner, output
	}

	t.Run("list with no tokens", func(t *testing.T) {
		runner, output := newTokenRunner(t)

		err := testApp(runner).Run(context.Background(), []string{"callbackd", "tokens", "list"})
		if err != nil {
			t.Fatalf("tokens list failed: %v", err)
		}
		if !strings.Contains(output.String(), "No tokens stored") {
			t.Errorf("unexpected output: %q", output.String())
		}
	})

	t.Run("list as JSON", func(t *testing.T) {
		runner, output := newTokenRunner(t)

		err := testApp(runner).Run(context.Background(), []string{"callbackd", "tokens", "list", "--json"})
		if err != nil {
			t.Fatalf("tokens list failed: %v", err)
		}
		if strings.TrimSpace(output.String()) != "[]" {
			t.Errorf("expected empty JSON array, got %q", output.String())
		}
	})

	t.Run("purge reports the count", func(t *testing.T) {
		runner, output := newTokenRunner(t)

		err := testApp(runner).Run(context.Background(), []string{"callbackd", "tokens", "purge"})
		if err != nil {
			t.Fatalf("tokens purge failed: %v", err)
		}
		if !strings.Contains(output.String(), "Purged 0 token(s)") {
			t.Errorf("unexpected output: %q", output.String())
		}
	})
}

func TestLogin(t *testing.T) {
	t.Run("missing credentials", func(t *testing.T) {
		config := shared.DefaultConfig()
		config.OAuth.ClientID = ""
		config.OAuth.ClientSecret = ""

		runner := NewRunner(RunnerOpts{
			Config: config,
			Logger: shared.NewLogger(io.Discard),
			Output: &bytes.Buffer{},
		})

		err := testApp(runner).Run(context.Background(), []string{"callbackd", "login"})
		if !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}
	})

	t.Run("doOAuth times out when no redirect arrives", func(t *testing.T) {
		config := shared.DefaultConfig()
		config.Server.Host = "127.0.0.1"
		config.Server.Port = 0
		config.OAuth.ClientID = "id"
		config.OAuth.ClientSecret = "secret"

		runner := NewRunner(RunnerOpts{
			Config: config,
			Logger: shared.NewLogger(io.Discard),
			Output: &bytes.Buffer{},
		})

		start := time.Now()
		_, err := runner.doOAuth(config, 100*time.Millisecond, true, true)
		if !errors.Is(err, shared.ErrTimeout) {
			t.Errorf("expected ErrTimeout, got %v", err)
		}
		if time.Since(start) > 2*time.Second {
			t.Error("doOAuth did not return promptly after the timeout")
		}
	})
}
