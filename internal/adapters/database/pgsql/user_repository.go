package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hagglund/bokforing_backend/internal/apperrors"
	"github.com/hagglund/bokforing_backend/internal/core/domain"
	portsrepo "github.com/hagglund/bokforing_backend/internal/core/ports/repositories"
)

// PgxUserRepository persists users and their credentials.
type PgxUserRepository struct {
	pool *pgxpool.Pool
}

func newPgxUserRepository(pool *pgxpool.Pool) *PgxUserRepository {
	return &PgxUserRepository{pool: pool}
}

var _ portsrepo.UserRepository = (*PgxUserRepository)(nil)

const userColumns = `
	user_id, username, name, password_hash, api_key_hash,
	refresh_token_hash, refresh_token_expiry, local_currency_code,
	created_at, created_by, last_updated_at, last_updated_by
`

func (r *PgxUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.pool.Exec(ctx, query,
		user.UserID,
		user.Username,
		user.Name,
		user.PasswordHash,
		user.APIKeyHash,
		user.RefreshTokenHash,
		user.RefreshTokenExpiry,
		string(user.LocalCode),
		user.CreatedAt,
		user.CreatedBy,
		user.LastUpdatedAt,
		user.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save user %s: %w", user.UserID, err)
	}
	return nil
}

func (r *PgxUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return r.findUserWhere(ctx, "user_id = $1", userID)
}

func (r *PgxUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findUserWhere(ctx, "username = $1", username)
}

// FindUserByAPIKeyHash looks a user up by the deterministic digest of their
// API key.
func (r *PgxUserRepository) FindUserByAPIKeyHash(ctx context.Context, apiKeyHash string) (*domain.User, error) {
	return r.findUserWhere(ctx, "api_key_hash = $1", apiKeyHash)
}

func (r *PgxUserRepository) UpdateAPIKeyHash(ctx context.Context, userID string, apiKeyHash string, updatedAt time.Time) error {
	query := `
		UPDATE users
		SET api_key_hash = $2, last_updated_at = $3, last_updated_by = $1
		WHERE user_id = $1;
	`
	tag, err := r.pool.Exec(ctx, query, userID, apiKeyHash, updatedAt)
	if err != nil {
		return fmt.Errorf("failed to update api key hash for user %s: %w", userID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// UpdateRefreshToken replaces the stored refresh token digest and expiry.
func (r *PgxUserRepository) UpdateRefreshToken(ctx context.Context, userID string, tokenHash string, expiry time.Time, updatedAt time.Time) error {
	query := `
		UPDATE users
		SET refresh_token_hash = $2, refresh_token_expiry = $3, last_updated_at = $4, last_updated_by = $1
		WHERE user_id = $1;
	`
	tag, err := r.pool.Exec(ctx, query, userID, tokenHash, expiry, updatedAt)
	if err != nil {
		return fmt.Errorf("failed to update refresh token for user %s: %w", userID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxUserRepository) findUserWhere(ctx context.Context, where string, arg any) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + where + `;`

	var (
		user             domain.User
		localCode        string
		refreshTokenHash sql.NullString
		refreshExpiry    sql.NullTime
	)
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&user.UserID,
		&user.Username,
		&user.Name,
		&user.PasswordHash,
		&user.APIKeyHash,
		&refreshTokenHash,
		&refreshExpiry,
		&localCode,
		&user.CreatedAt,
		&user.CreatedBy,
		&user.LastUpdatedAt,
		&user.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	user.LocalCode = domain.CurrencyCode(localCode)
	if refreshTokenHash.Valid {
		user.RefreshTokenHash = refreshTokenHash.String
	}
	if refreshExpiry.Valid {
		t := refreshExpiry.Time
		user.RefreshTokenExpiry = &t
	}
	return &user, nil
}
