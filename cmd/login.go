package main

import (
	"context"
	"fmt"
	"time"

	"github.com/ipeirotis/callbackd/internal/server"
	"github.com/ipeirotis/callbackd/internal/shared"
	"github.com/ipeirotis/callbackd/internal/ui"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

// Login performs the OAuth2 authorization-code flow.
//
// Starts the local callback server, opens the browser for user authorization,
// exchanges the auth code for tokens, and saves the result to the database.
func (r *Runner) Login(ctx context.Context, cmd *cli.Command) error {
	config := r.loadConfig(cmd)

	if config.OAuth.ClientID == "" || config.OAuth.ClientSecret == "" {
		return fmt.Errorf("%w: client_id and client_secret must be set in config.toml", shared.ErrMissingCredentials)
	}

	timeout := cmd.Duration("timeout")
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}

	token, err := r.doOAuth(config, timeout, cmd.Bool("no-browser"), cmd.Bool("quiet"))
	if err != nil {
		return err
	}

	repo, err := r.tokenRepo(config)
	if err != nil {
		return fmt.Errorf("failed to open token store: %w", err)
	}

	saved, err := repo.Save(config.OAuth.Provider, token)
	if err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}

	r.writePlainln("%s", ui.Ok("✓ Authorization successful"))
	r.writePlain("✓ Token #%d saved for provider %s\n", saved.Sequence(), saved.Provider())

	return nil
}

// doOAuth executes the OAuth2 authorization flow against a local callback server.
//
// The server terminates itself: the callback handler posts the stop signal
// after delivering the result, and Start unblocks once the response is flushed.
func (r *Runner) doOAuth(config *shared.Config, timeout time.Duration, noBrowser, quiet bool) (*oauth2.Token, error) {
	state, err := shared.GenerateState()
	if err != nil {
		return nil, err
	}

	oauthCfg := server.NewOAuthConfig(config.OAuth)
	srv := server.New(config.Server, r.logger)
	handler := server.NewOAuthHandler(oauthCfg, state, srv.Stop)
	if err := srv.Handler(handler); err != nil {
		return nil, err
	}

	serverErrors := make(chan error, 1)
	go func() {
		r.logger.Infof("starting callback server for %s at %v", config.OAuth.Provider, config.Server.Addr())
		if err := srv.Start(); err != nil {
			serverErrors <- err
		}
	}()

	time.Sleep(100 * time.Millisecond)

	authURL := oauthCfg.AuthCodeURL(state, oauth2.AccessTypeOffline)

	if noBrowser {
		r.writePlain("Open this URL in your browser:\n%s\n\n", authURL)
	} else {
		r.writePlain("→ Opening browser for %s authorization...\n", config.OAuth.Provider)
		if err := shared.OpenBrowser(authURL); err != nil {
			r.logger.Warnf("failed to open browser automatically %v", err)
			r.writePlainln("%s", ui.Warn("⚠ Could not open browser automatically."))
			r.writePlain("Please open this URL in your browser:\n%s\n\n", authURL)
		}
	}

	r.writePlain("→ Waiting for authorization (%v timeout)...\n", timeout)

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	var result server.AuthResult
	var flowErr error

	waitDone := make(chan struct{})
	go func() {
		defer close(waitDone)
		select {
		case result = <-handler.Result():
		case err := <-serverErrors:
			flowErr = fmt.Errorf("server error: %w", err)
		case <-timer.C:
			flowErr = fmt.Errorf("%w: authorization not completed within %v", shared.ErrTimeout, timeout)
		}
	}()

	if r.interactive && !quiet {
		if err := ui.Wait("Waiting for the provider to redirect...", waitDone); err != nil {
			r.logger.Warnf("spinner failed %v", err)
		}
	}
	<-waitDone

	// Unblocks the serving loop on the timeout and error paths; no-op when the
	// callback handler already posted the signal.
	srv.Stop()

	if flowErr != nil {
		return nil, flowErr
	}
	if result.Error() != nil {
		return nil, fmt.Errorf("authorization failed: %w", result.Error())
	}
	if result.Token == nil {
		return nil, shared.ErrNoToken
	}

	return result.Token, nil
}
