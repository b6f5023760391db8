package resettokens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/mixmini/internal/common"
	"github.com/dmitrijs2005/mixmini/internal/dbx"
	"github.com/dmitrijs2005/mixmini/internal/server/models"
)

// PostgresRepository implements reset token storage over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// nowFunc is a seam for tests.
var nowFunc = time.Now

// Create inserts a reset token hash for userID expiring at now+validity.
func (r *PostgresRepository) Create(ctx context.Context, userID string, tokenHash string, validity time.Duration) error {
	query := `
		INSERT INTO password_reset_tokens (token_hash, user_id, expires_at)
		VALUES ($1, $2, $3)
	`
	if _, err := r.db.ExecContext(ctx, query, tokenHash, userID, nowFunc().Add(validity)); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// Find returns the row for tokenHash. If absent, it returns common.ErrorNotFound.
func (r *PostgresRepository) Find(ctx context.Context, tokenHash string) (*models.ResetToken, error) {
	query := `
		SELECT token_hash, user_id, expires_at
		FROM password_reset_tokens
		WHERE token_hash = $1
	`
	t := &models.ResetToken{}
	if err := r.db.QueryRowContext(ctx, query, tokenHash).Scan(&t.TokenHash, &t.UserID, &t.Expires); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return t, nil
}

// Delete removes a reset token by its hash.
func (r *PostgresRepository) Delete(ctx context.Context, tokenHash string) error {
	query := `
		DELETE FROM password_reset_tokens
		WHERE token_hash = $1
	`
	if _, err := r.db.ExecContext(ctx, query, tokenHash); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) DeleteByUser(ctx context.Context, userID string) error {
	query := `
		DELETE FROM password_reset_tokens
		WHERE user_id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
