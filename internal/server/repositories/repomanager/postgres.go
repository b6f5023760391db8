// Package repomanager provides a concrete RepositoryManager for PostgreSQL,
// wiring together repository constructors and database migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/mixmini/internal/dbx"
	"github.com/dmitrijs2005/mixmini/internal/server/migrations"
	"github.com/dmitrijs2005/mixmini/internal/server/repositories/paints"
	"github.com/dmitrijs2005/mixmini/internal/server/repositories/recipes"
	"github.com/dmitrijs2005/mixmini/internal/server/repositories/resettokens"
	"github.com/dmitrijs2005/mixmini/internal/server/repositories/userpaints"
	"github.com/dmitrijs2005/mixmini/internal/server/repositories/users"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresRepositoryManager vends PostgreSQL-backed repository implementations
// and exposes a schema migration hook.
type PostgresRepositoryManager struct{}

// Paints returns a paints.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Paints(db dbx.DBTX) paints.Repository {
	return paints.NewPostgresRepository(db)
}

// UserPaints returns a userpaints.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) UserPaints(db dbx.DBTX) userpaints.Repository {
	return userpaints.NewPostgresRepository(db)
}

// Recipes returns a recipes.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Recipes(db dbx.DBTX) recipes.Repository {
	return recipes.NewPostgresRepository(db)
}

// Users returns a users.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

// ResetTokens returns a resettokens.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) ResetTokens(db dbx.DBTX) resettokens.Repository {
	return resettokens.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the provided database connection.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return err
	}
	return nil
}

// NewPostgresRepositoryManager constructs a PostgreSQL-backed RepositoryManager.
func NewPostgresRepositoryManager() RepositoryManager {
	return &PostgresRepositoryManager{}
}

// sqlOpen is a seam for tests.
var sqlOpen = sql.Open

// Open opens a pgx-backed *sql.DB for dsn and verifies the connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sqlOpen("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}
	return db, nil
}
