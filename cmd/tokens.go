package main

import (
	"context"
	"fmt"
	"time"

	"github.com/ipeirotis/callbackd/internal/ui"
	"github.com/urfave/cli/v3"
)

// tokenView is the JSON projection of a stored token. Access and refresh
// token values are withheld unless --reveal is set.
type tokenView struct {
	ID        string    `json:"id"`
	Sequence  int       `json:"sequence"`
	Provider  string    `json:"provider"`
	TokenType string    `json:"token_type"`
	Expiry    time.Time `json:"expiry,omitzero"`
	CreatedAt time.Time `json:"created_at"`
	Access    string    `json:"access_token,omitempty"`
	Refresh   string    `json:"refresh_token,omitempty"`
}

// TokensList prints stored tokens, newest first.
func (r *Runner) TokensList(ctx context.Context, cmd *cli.Command) error {
	config := r.loadConfig(cmd)

	repo, err := r.tokenRepo(config)
	if err != nil {
		return fmt.Errorf("failed to open token store: %w", err)
	}

	criteria := map[string]any{}
	if provider := cmd.String("provider"); provider != "" {
		criteria["provider"] = provider
	}

	tokens, err := repo.List(criteria)
	if err != nil {
		return err
	}

	reveal := cmd.Bool("reveal")

	if cmd.Bool("json") {
		views := make([]tokenView, 0, len(tokens))
		for _, t := range tokens {
			view := tokenView{
				ID:        t.ID(),
				Sequence:  t.Sequence(),
				Provider:  t.Provider(),
				TokenType: t.TokenType(),
				Expiry:    t.Expiry(),
				CreatedAt: t.CreatedAt(),
			}
			if reveal {
				view.Access = t.AccessToken()
				view.Refresh = t.RefreshToken()
			}
			views = append(views, view)
		}
		return r.writeJSON(views, cmd.Bool("pretty"))
	}

	if len(tokens) == 0 {
		return r.writePlain("No tokens stored\n")
	}

	for _, t := range tokens {
		status := ui.Ok("valid")
		if t.Expired() {
			status = ui.Warn("expired")
		}
		r.writePlain("#%d %s (%s) captured %s [%s]\n",
			t.Sequence(), t.Provider(), t.TokenType(),
			t.CreatedAt().Format(time.RFC3339), status)
		if reveal {
			r.writePlain("   access: %s\n", t.AccessToken())
			if t.RefreshToken() != "" {
				r.writePlain("   refresh: %s\n", t.RefreshToken())
			}
		}
	}

	return nil
}

// TokensPurge soft-deletes stored tokens, optionally scoped to one provider.
func (r *Runner) TokensPurge(ctx context.Context, cmd *cli.Command) error {
	config := r.loadConfig(cmd)

	repo, err := r.tokenRepo(config)
	if err != nil {
		return fmt.Errorf("failed to open token store: %w", err)
	}

	provider := cmd.String("provider")
	count, err := repo.Purge(provider)
	if err != nil {
		return err
	}

	if provider != "" {
		r.writePlain("✓ Purged %d token(s) for provider %s\n", count, provider)
	} else {
		r.writePlain("✓ Purged %d token(s)\n", count)
	}

	return nil
}
