// Package userpaints provides the PostgreSQL-backed ownership ledger.
package userpaints

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/mixmini/internal/common"
	"github.com/dmitrijs2005/mixmini/internal/dbx"
	"github.com/dmitrijs2005/mixmini/internal/server/models"
)

// PostgresRepository implements the ownership ledger over a dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Find returns the user's record for paintID or common.ErrorNotFound.
// With forUpdate the row stays locked until the surrounding tx ends.
func (r *PostgresRepository) Find(ctx context.Context, userID string, paintID int64, forUpdate bool) (*models.UserPaint, error) {
	query :=
		`SELECT id, user_id, paint_id, status FROM user_paints
		 WHERE user_id = $1 AND paint_id = $2`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	up := &models.UserPaint{}
	var status string
	err := r.db.QueryRowContext(ctx, query, userID, paintID).Scan(&up.ID, &up.UserID, &up.PaintID, &status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	if up.Status, err = models.ParseStatus(status); err != nil {
		return nil, err
	}
	return up, nil
}

// Create inserts an ownership record. A duplicate (user, paint) pair yields
// common.ErrorAlreadyExists.
func (r *PostgresRepository) Create(ctx context.Context, up *models.UserPaint) (*models.UserPaint, error) {
	query :=
		`INSERT INTO user_paints (user_id, paint_id, status)
		 VALUES ($1, $2, $3)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query, up.UserID, up.PaintID, string(up.Status)).Scan(&up.ID)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return up, nil
}

// UpdateStatus sets the status of record id.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, id int64, status models.PaintStatus) error {
	query := `UPDATE user_paints SET status = $1 WHERE id = $2`

	res, err := r.db.ExecContext(ctx, query, string(status), id)
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

// Delete removes the user's record for paintID and reports whether one existed.
func (r *PostgresRepository) Delete(ctx context.Context, userID string, paintID int64) (bool, error) {
	query := `DELETE FROM user_paints WHERE user_id = $1 AND paint_id = $2`

	res, err := r.db.ExecContext(ctx, query, userID, paintID)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected error: %w", err)
	}
	return n > 0, nil
}

// StatusesByUser maps every paint the user owns to its status.
func (r *PostgresRepository) StatusesByUser(ctx context.Context, userID string) (map[int64]models.PaintStatus, error) {
	query := `SELECT paint_id, status FROM user_paints WHERE user_id = $1`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make(map[int64]models.PaintStatus)
	for rows.Next() {
		var (
			paintID int64
			status  string
		)
		if err := rows.Scan(&paintID, &status); err != nil {
			return nil, err
		}
		s, err := models.ParseStatus(status)
		if err != nil {
			return nil, err
		}
		result[paintID] = s
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ListItems returns the user's paints joined with the catalog, ordered by
// brand, range, name. An empty status lists everything.
func (r *PostgresRepository) ListItems(ctx context.Context, userID string, status models.PaintStatus) ([]*models.InventoryItem, error) {
	query := `
		SELECT up.id, up.user_id, up.paint_id, up.status,
		       p.id, p.brand, p.range, p.name, p.hex, p.paint_type
		FROM user_paints up
		JOIN paints p ON p.id = up.paint_id
		WHERE up.user_id = $1`
	args := []any{userID}
	if status != "" {
		query += ` AND up.status = $2`
		args = append(args, string(status))
	}
	query += ` ORDER BY p.brand, p.range, p.name`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.InventoryItem
	for rows.Next() {
		item := &models.InventoryItem{}
		var st string
		if err := rows.Scan(
			&item.UserPaint.ID, &item.UserPaint.UserID, &item.UserPaint.PaintID, &st,
			&item.Paint.ID, &item.Paint.Brand, &item.Paint.Range, &item.Paint.Name, &item.Paint.Hex, &item.Paint.PaintType,
		); err != nil {
			return nil, err
		}
		if item.UserPaint.Status, err = models.ParseStatus(st); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Counts returns per-status totals over all of the user's paints.
func (r *PostgresRepository) Counts(ctx context.Context, userID string) (models.InventoryCounts, error) {
	query := `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status = 'full'),
		       COUNT(*) FILTER (WHERE status = 'low'),
		       COUNT(*) FILTER (WHERE status = 'empty')
		FROM user_paints
		WHERE user_id = $1
	`
	var c models.InventoryCounts
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&c.All, &c.Full, &c.Low, &c.Empty); err != nil {
		return models.InventoryCounts{}, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}
