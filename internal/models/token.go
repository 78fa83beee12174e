package models

import (
	"fmt"
	"time"

	"golang.org/x/oauth2"
)

// Token is a persisted OAuth2 token captured by the callback server.
type Token struct {
	id           string
	sequence     int
	provider     string
	accessToken  string
	refreshToken string
	tokenType    string
	expiry       time.Time
	createdAt    time.Time
	updatedAt    time.Time
	deletedAt    *time.Time
}

// NewToken creates a Token for the given provider from an [oauth2.Token].
func NewToken(sequence int, provider string, tok *oauth2.Token) *Token {
	now := time.Now()
	return &Token{
		sequence:     sequence,
		provider:     provider,
		accessToken:  tok.AccessToken,
		refreshToken: tok.RefreshToken,
		tokenType:    tok.TokenType,
		expiry:       tok.Expiry,
		createdAt:    now,
		updatedAt:    now,
	}
}

func (t *Token) ID() string            { return t.id }
func (t *Token) Sequence() int         { return t.sequence }
func (t *Token) Provider() string      { return t.provider }
func (t *Token) AccessToken() string   { return t.accessToken }
func (t *Token) RefreshToken() string  { return t.refreshToken }
func (t *Token) TokenType() string     { return t.tokenType }
func (t *Token) Expiry() time.Time     { return t.expiry }
func (t *Token) CreatedAt() time.Time  { return t.createdAt }
func (t *Token) UpdatedAt() time.Time  { return t.updatedAt }
func (t *Token) DeletedAt() *time.Time { return t.deletedAt }

func (t *Token) SetID(id string)             { t.id = id }
func (t *Token) SetSequence(seq int)         { t.sequence = seq }
func (t *Token) SetAccessToken(at string)    { t.accessToken = at }
func (t *Token) SetRefreshToken(rt string)   { t.refreshToken = rt }
func (t *Token) SetExpiry(e time.Time)       { t.expiry = e }
func (t *Token) SetCreatedAt(c time.Time)    { t.createdAt = c }
func (t *Token) SetUpdatedAt(u time.Time)    { t.updatedAt = u }
func (t *Token) SetDeletedAt(d *time.Time)   { t.deletedAt = d }
func (t *Token) SetTokenType(tokType string) { t.tokenType = tokType }

// Validate checks that the token carries a provider and an access token.
func (t *Token) Validate() error {
	if t.provider == "" {
		return fmt.Errorf("token provider is required")
	}
	if t.accessToken == "" {
		return fmt.Errorf("token access_token is required")
	}
	return nil
}

// Expired reports whether the token's expiry is set and in the past.
func (t *Token) Expired() bool {
	return !t.expiry.IsZero() && t.expiry.Before(time.Now())
}

// OAuth2 converts the stored token back into an [oauth2.Token].
func (t *Token) OAuth2() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  t.accessToken,
		RefreshToken: t.refreshToken,
		TokenType:    t.tokenType,
		Expiry:       t.expiry,
	}
}
