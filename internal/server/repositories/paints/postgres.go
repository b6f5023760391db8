// Package paints provides the PostgreSQL-backed catalog repository.
package paints

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/mixmini/internal/common"
	"github.com/dmitrijs2005/mixmini/internal/dbx"
	"github.com/dmitrijs2005/mixmini/internal/server/models"
)

// PostgresRepository implements catalog queries over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Search returns paints whose name contains nameQuery (case-insensitive,
// matched literally), ordered by brand, range, name. An empty query matches
// everything; limit <= 0 means no limit.
func (r *PostgresRepository) Search(ctx context.Context, nameQuery string, limit int) ([]*models.Paint, error) {
	var (
		sb   strings.Builder
		args []any
	)
	sb.WriteString(`SELECT id, brand, range, name, hex, paint_type FROM paints`)
	if nameQuery != "" {
		args = append(args, likeEscaper.Replace(nameQuery))
		sb.WriteString(` WHERE name ILIKE '%' || $1 || '%'`)
	}
	sb.WriteString(` ORDER BY brand, range, name`)
	if limit > 0 {
		args = append(args, limit)
		fmt.Fprintf(&sb, ` LIMIT $%d`, len(args))
	}

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Paint
	for rows.Next() {
		p := &models.Paint{}
		if err := rows.Scan(&p.ID, &p.Brand, &p.Range, &p.Name, &p.Hex, &p.PaintType); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetByID returns the paint or common.ErrorNotFound.
func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Paint, error) {
	query :=
		`SELECT id, brand, range, name, hex, paint_type FROM paints
		 WHERE id = $1
		 `

	p := &models.Paint{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.Brand, &p.Range, &p.Name, &p.Hex, &p.PaintType)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

// Upsert inserts the paint or refreshes hex/paint_type of the existing
// (brand, range, name) row. paint.ID is set either way.
func (r *PostgresRepository) Upsert(ctx context.Context, paint *models.Paint) (bool, error) {
	query := `
		INSERT INTO paints (brand, range, name, hex, paint_type)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (brand, range, name)
		DO UPDATE SET hex = EXCLUDED.hex, paint_type = EXCLUDED.paint_type
		RETURNING id, (xmax = 0) AS inserted
	`
	var inserted bool
	err := r.db.QueryRowContext(ctx, query,
		paint.Brand, paint.Range, paint.Name, paint.Hex, paint.PaintType).Scan(&paint.ID, &inserted)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return inserted, nil
}
