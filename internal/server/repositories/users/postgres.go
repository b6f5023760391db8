package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/mixmini/internal/common"
	"github.com/dmitrijs2005/mixmini/internal/dbx"
	"github.com/dmitrijs2005/mixmini/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const userColumns = `id, email, hashed_password, is_active, is_superuser, is_verified, created_at`

// Create inserts a user whose ID is already set. A taken email yields
// common.ErrorAlreadyExists.
func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {

	query :=
		`INSERT INTO users (id, email, hashed_password, is_active, is_superuser, is_verified)
         VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		user.ID, user.Email, user.HashedPassword, user.IsActive, user.IsSuperuser, user.IsVerified).Scan(&user.CreatedAt)

	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query :=
		`SELECT ` + userColumns + ` FROM users
		 WHERE email = $1
		 `
	return r.getOne(ctx, query, email)
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query :=
		`SELECT ` + userColumns + ` FROM users
		 WHERE id = $1
		 `
	return r.getOne(ctx, query, id)
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, arg any) (*models.User, error) {
	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID, &user.Email, &user.HashedPassword, &user.IsActive, &user.IsSuperuser, &user.IsVerified, &user.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) UpdatePassword(ctx context.Context, id string, hashedPassword string) error {
	query :=
		`UPDATE users SET hashed_password = $1
		 WHERE id = $2
		 `

	res, err := r.db.ExecContext(ctx, query, hashedPassword, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
