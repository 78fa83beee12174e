package repositories

import (
	"errors"
	"testing"
	"time"

	"github.com/ipeirotis/callbackd/internal/models"
	"github.com/ipeirotis/callbackd/internal/shared"
	tu "github.com/ipeirotis/callbackd/internal/testing"
	"golang.org/x/oauth2"
)

func sampleToken(provider string) *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  "access-" + provider,
		RefreshToken: "refresh-" + provider,
		TokenType:    "Bearer",
		Expiry:       time.Now().Add(time.Hour),
	}
}

func TestTokenRepository(t *testing.T) {
	t.Run("Create assigns id and sequence", func(t *testing.T) {
		repo := NewTokenRepository(tu.NewTestDatabase(t))

		token := models.NewToken(0, "spotify", sampleToken("spotify"))
		if err := repo.Create(token); err != nil {
			t.Fatalf("failed to create token: %v", err)
		}

		if token.ID() == "" {
			t.Error("expected generated ID")
		}
		if token.Sequence() != 1 {
			t.Errorf("expected sequence 1, got %d", token.Sequence())
		}
	})

	t.Run("Create rejects invalid tokens", func(t *testing.T) {
		repo := NewTokenRepository(tu.NewTestDatabase(t))

		token := models.NewToken(0, "", sampleToken("x"))
		if err := repo.Create(token); err == nil {
			t.Error("expected validation failure for missing provider")
		}

		token = models.NewToken(0, "spotify", &oauth2.Token{})
		if err := repo.Create(token); err == nil {
			t.Error("expected validation failure for missing access token")
		}
	})

	t.Run("Get round-trips fields", func(t *testing.T) {
		repo := NewTokenRepository(tu.NewTestDatabase(t))

		saved, err := repo.Save("spotify", sampleToken("spotify"))
		if err != nil {
			t.Fatalf("failed to save token: %v", err)
		}

		got, err := repo.Get(saved.ID())
		if err != nil {
			t.Fatalf("failed to get token: %v", err)
		}

		if got.Provider() != "spotify" {
			t.Errorf("unexpected provider: %s", got.Provider())
		}
		if got.AccessToken() != "access-spotify" || got.RefreshToken() != "refresh-spotify" {
			t.Error("token values not round-tripped")
		}
		if got.TokenType() != "Bearer" {
			t.Errorf("unexpected token type: %s", got.TokenType())
		}
		if got.Expired() {
			t.Error("token should not be expired")
		}
	})

	t.Run("Get unknown id returns ErrTokenNotFound", func(t *testing.T) {
		repo := NewTokenRepository(tu.NewTestDatabase(t))

		if _, err := repo.Get("missing"); !errors.Is(err, shared.ErrTokenNotFound) {
			t.Errorf("expected ErrTokenNotFound, got %v", err)
		}
	})

	t.Run("Latest returns the newest token per provider", func(t *testing.T) {
		repo := NewTokenRepository(tu.NewTestDatabase(t))

		if _, err := repo.Save("spotify", sampleToken("old")); err != nil {
			t.Fatalf("failed to save: %v", err)
		}
		if _, err := repo.Save("github", sampleToken("github")); err != nil {
			t.Fatalf("failed to save: %v", err)
		}
		newest, err := repo.Save("spotify", sampleToken("new"))
		if err != nil {
			t.Fatalf("failed to save: %v", err)
		}

		got, err := repo.Latest("spotify")
		if err != nil {
			t.Fatalf("failed to get latest: %v", err)
		}
		if got.ID() != newest.ID() {
			t.Errorf("expected token %s, got %s", newest.ID(), got.ID())
		}
	})

	t.Run("Update modifies stored values", func(t *testing.T) {
		repo := NewTokenRepository(tu.NewTestDatabase(t))

		saved, err := repo.Save("spotify", sampleToken("spotify"))
		if err != nil {
			t.Fatalf("failed to save: %v", err)
		}

		saved.SetAccessToken("rotated")
		if err := repo.Update(saved); err != nil {
			t.Fatalf("failed to update: %v", err)
		}

		got, err := repo.Get(saved.ID())
		if err != nil {
			t.Fatalf("failed to get: %v", err)
		}
		if got.AccessToken() != "rotated" {
			t.Errorf("expected rotated access token, got %s", got.AccessToken())
		}
	})

	t.Run("Delete soft-deletes", func(t *testing.T) {
		repo := NewTokenRepository(tu.NewTestDatabase(t))

		saved, err := repo.Save("spotify", sampleToken("spotify"))
		if err != nil {
			t.Fatalf("failed to save: %v", err)
		}

		if err := repo.Delete(saved.ID()); err != nil {
			t.Fatalf("failed to delete: %v", err)
		}

		if _, err := repo.Get(saved.ID()); !errors.Is(err, shared.ErrTokenNotFound) {
			t.Errorf("expected ErrTokenNotFound after delete, got %v", err)
		}

		if err := repo.Delete(saved.ID()); !errors.Is(err, shared.ErrTokenNotFound) {
			t.Errorf("expected ErrTokenNotFound on double delete, got %v", err)
		}
	})

	t.Run("List filters by provider", func(t *testing.T) {
		repo := NewTokenRepository(tu.NewTestDatabase(t))

		for _, provider := range []string{"spotify", "spotify", "github"} {
			if _, err := repo.Save(provider, sampleToken(provider)); err != nil {
				t.Fatalf("failed to save: %v", err)
			}
		}

		all, err := repo.List(nil)
		if err != nil {
			t.Fatalf("failed to list: %v", err)
		}
		if len(all) != 3 {
			t.Errorf("expected 3 tokens, got %d", len(all))
		}

		spotify, err := repo.List(map[string]any{"provider": "spotify"})
		if err != nil {
			t.Fatalf("failed to list: %v", err)
		}
		if len(spotify) != 2 {
			t.Errorf("expected 2 spotify tokens, got %d", len(spotify))
		}
	})

	t.Run("Purge soft-deletes by provider", func(t *testing.T) {
		repo := NewTokenRepository(tu.NewTestDatabase(t))

		for _, provider := range []string{"spotify", "spotify", "github"} {
			if _, err := repo.Save(provider, sampleToken(provider)); err != nil {
				t.Fatalf("failed to save: %v", err)
			}
		}

		count, err := repo.Purge("spotify")
		if err != nil {
			t.Fatalf("failed to purge: %v", err)
		}
		if count != 2 {
			t.Errorf("expected purge count 2, got %d", count)
		}

		remaining, err := repo.List(nil)
		if err != nil {
			t.Fatalf("failed to list: %v", err)
		}
		if len(remaining) != 1 || remaining[0].Provider() != "github" {
			t.Errorf("expected only github to remain, got %d tokens", len(remaining))
		}

		count, err = repo.Purge("")
		if err != nil {
			t.Fatalf("failed to purge all: %v", err)
		}
		if count != 1 {
			t.Errorf("expected purge count 1, got %d", count)
		}
	})
}
