package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/ipeirotis/callbackd/internal/models"
	"github.com/ipeirotis/callbackd/internal/shared"
	"golang.org/x/oauth2"
)

// TokenRepository implements [models.Repository] for [models.Token] persistence.
type TokenRepository struct {
	db *sql.DB
}

// NewTokenRepository creates a new [TokenRepository] with the given database connection
func NewTokenRepository(db *sql.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

// Create inserts a new token into the database with generated ID and sequence
func (r *TokenRepository) Create(token *models.Token) error {
	sequence, err := NextSequence(r.db, "tokens")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	token.SetID(id)
	token.SetSequence(sequence)

	if err := token.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO tokens (id, sequence, provider, access_token, refresh_token, token_type, expiry, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query, id, sequence, token.Provider(), token.AccessToken(),
		token.RefreshToken(), token.TokenType(), token.Expiry(), token.CreatedAt(), token.UpdatedAt())
	if err != nil {
		return fmt.Errorf("failed to insert token: %w", err)
	}

	return nil
}

// Save wraps Create for a raw [oauth2.Token], assigning the next sequence.
func (r *TokenRepository) Save(provider string, tok *oauth2.Token) (*models.Token, error) {
	token := models.NewToken(0, provider, tok)
	if err := r.Create(token); err != nil {
		return nil, err
	}
	return token, nil
}

// Get retrieves a token by ID, excluding soft-deleted tokens
func (r *TokenRepository) Get(id string) (*models.Token, error) {
	query := `
		SELECT id, sequence, provider, access_token, refresh_token, token_type, expiry, created_at, updated_at, deleted_at
		FROM tokens
		WHERE id = ? AND deleted_at IS NULL
	`

	return r.scanOne(r.db.QueryRow(query, id))
}

// Latest retrieves the most recently captured token for a provider.
func (r *TokenRepository) Latest(provider string) (*models.Token, error) {
	query := `
		SELECT id, sequence, provider, access_token, refresh_token, token_type, expiry, created_at, updated_at, deleted_at
		FROM tokens
		WHERE provider = ? AND deleted_at IS NULL
		ORDER BY created_at DESC, sequence DESC
		LIMIT 1
	`

	return r.scanOne(r.db.QueryRow(query, provider))
}

// Update modifies an existing token in the database
func (r *TokenRepository) Update(token *models.Token) error {
	if err := token.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	token.SetUpdatedAt(now)

	query := `
		UPDATE tokens
		SET access_token = ?, refresh_token = ?, token_type = ?, expiry = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, token.AccessToken(), token.RefreshToken(),
		token.TokenType(), token.Expiry(), now, token.ID())
	if err != nil {
		return fmt.Errorf("failed to update token: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrTokenNotFound, token.ID())
	}

	return nil
}

// Delete soft-deletes a token by ID
func (r *TokenRepository) Delete(id string) error {
	now := time.Now()

	query := `
		UPDATE tokens
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete token: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrTokenNotFound, id)
	}

	return nil
}

// List retrieves all tokens matching the given criteria, newest first.
//
// Supported criteria: "provider" (string).
func (r *TokenRepository) List(criteria map[string]any) ([]*models.Token, error) {
	query := `
		SELECT id, sequence, provider, access_token, refresh_token, token_type, expiry, created_at, updated_at, deleted_at
		FROM tokens
		WHERE deleted_at IS NULL
	`
	args := []any{}

	if provider, ok := criteria["provider"].(string); ok && provider != "" {
		query += " AND provider = ?"
		args = append(args, provider)
	}

	query += " ORDER BY created_at DESC, sequence DESC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tokens: %w", err)
	}
	defer rows.Close()

	var tokens []*models.Token
	for rows.Next() {
		token, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, token)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tokens: %w", err)
	}

	return tokens, nil
}

// Purge soft-deletes every token for the given provider and returns the count.
// An empty provider purges all tokens.
func (r *TokenRepository) Purge(provider string) (int64, error) {
	query := "UPDATE tokens SET deleted_at = ? WHERE deleted_at IS NULL"
	args := []any{time.Now()}

	if provider != "" {
		query += " AND provider = ?"
		args = append(args, provider)
	}

	result, err := r.db.Exec(query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to purge tokens: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return rows, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *TokenRepository) scanOne(row *sql.Row) (*models.Token, error) {
	token, err := r.scan(row)
	if err == sql.ErrNoRows {
		return nil, shared.ErrTokenNotFound
	}
	return token, err
}

func (r *TokenRepository) scan(row rowScanner) (*models.Token, error) {
	var (
		id           string
		sequence     int
		provider     string
		accessToken  string
		refreshToken sql.NullString
		tokenType    string
		expiry       sql.NullTime
		createdAt    time.Time
		updatedAt    time.Time
		deletedAt    sql.NullTime
	)

	err := row.Scan(&id, &sequence, &provider, &accessToken, &refreshToken,
		&tokenType, &expiry, &createdAt, &updatedAt, &deletedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan token: %w", err)
	}

	tok := &oauth2.Token{
		AccessToken: accessToken,
		TokenType:   tokenType,
	}
	if refreshToken.Valid {
		tok.RefreshToken = refreshToken.String
	}
	if expiry.Valid {
		tok.Expiry = expiry.Time
	}

	token := models.NewToken(sequence, provider, tok)
	token.SetID(id)
	token.SetCreatedAt(createdAt)
	token.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		token.SetDeletedAt(&deletedAt.Time)
	}

	return token, nil
}
