// Package recipes provides the PostgreSQL-backed recipe repository.
package recipes

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

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, recipe *models.Recipe) (*models.Recipe, error) {
	query :=
		`INSERT INTO recipes (user_id, name, note)
		 VALUES ($1, $2, NULLIF($3, ''))
		 RETURNING id
		 `

	if err := r.db.QueryRowContext(ctx, query, recipe.UserID, recipe.Name, recipe.Note).Scan(&recipe.ID); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return recipe, nil
}

// GetOwned returns recipe id if it belongs to userID, else common.ErrorNotFound.
func (r *PostgresRepository) GetOwned(ctx context.Context, userID string, id int64, forUpdate bool) (*models.Recipe, error) {
	query :=
		`SELECT id, user_id, name, note FROM recipes
		 WHERE id = $1 AND user_id = $2`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	rec := &models.Recipe{}
	var note sql.NullString
	err := r.db.QueryRowContext(ctx, query, id, userID).Scan(&rec.ID, &rec.UserID, &rec.Name, &note)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	rec.Note = note.String
	return rec, nil
}

func (r *PostgresRepository) Update(ctx context.Context, recipe *models.Recipe) error {
	query :=
		`UPDATE recipes SET name = $1, note = NULLIF($2, '')
		 WHERE id = $3 AND user_id = $4
		 `
	res, err := r.db.ExecContext(ctx, query, recipe.Name, recipe.Note, recipe.ID, recipe.UserID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireRow(res)
}

// Delete removes the recipe; components go with it (ON DELETE CASCADE).
func (r *PostgresRepository) Delete(ctx context.Context, userID string, id int64) error {
	query := `DELETE FROM recipes WHERE id = $1 AND user_id = $2`

	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireRow(res)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

// ListByUser returns the user's recipes ordered by name.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*models.Recipe, error) {
	query :=
		`SELECT id, user_id, name, note FROM recipes
		 WHERE user_id = $1
		 ORDER BY name, id`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Recipe
	for rows.Next() {
		rec := &models.Recipe{}
		var note sql.NullString
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.Name, &note); err != nil {
			return nil, err
		}
		rec.Note = note.String
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

const componentSelect = `
	SELECT rc.id, rc.recipe_id, rc.paint_id, rc.ratio,
	       p.id, p.brand, p.range, p.name, p.hex, p.paint_type
	FROM recipe_components rc
	JOIN paints p ON p.id = rc.paint_id`

func (r *PostgresRepository) Components(ctx context.Context, recipeID int64) ([]models.ComponentWithPaint, error) {
	query := componentSelect + `
	WHERE rc.recipe_id = $1
	ORDER BY rc.id`

	var result []models.ComponentWithPaint
	err := r.scanComponents(ctx, query, recipeID, func(c models.ComponentWithPaint) {
		result = append(result, c)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) ComponentsByUser(ctx context.Context, userID string) (map[int64][]models.ComponentWithPaint, error) {
	query := componentSelect + `
	JOIN recipes r ON r.id = rc.recipe_id
	WHERE r.user_id = $1
	ORDER BY rc.recipe_id, rc.id`

	result := make(map[int64][]models.ComponentWithPaint)
	err := r.scanComponents(ctx, query, userID, func(c models.ComponentWithPaint) {
		result[c.Component.RecipeID] = append(result[c.Component.RecipeID], c)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) scanComponents(ctx context.Context, query string, arg any, add func(models.ComponentWithPaint)) error {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c models.ComponentWithPaint
		if err := rows.Scan(
			&c.Component.ID, &c.Component.RecipeID, &c.Component.PaintID, &c.Component.Ratio,
			&c.Paint.ID, &c.Paint.Brand, &c.Paint.Range, &c.Paint.Name, &c.Paint.Hex, &c.Paint.PaintType,
		); err != nil {
			return err
		}
		add(c)
	}
	return rows.Err()
}

func (r *PostgresRepository) DeleteComponents(ctx context.Context, recipeID int64) error {
	query := `DELETE FROM recipe_components WHERE recipe_id = $1`

	if _, err := r.db.ExecContext(ctx, query, recipeID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// InsertComponents appends components in slice order with a single
// multi-row INSERT. An empty slice is a no-op.
func (r *PostgresRepository) InsertComponents(ctx context.Context, recipeID int64, components []models.RecipeComponent) error {
	if len(components) == 0 {
		return nil
	}

	var sb strings.Builder
	sb.WriteString(`INSERT INTO recipe_components (recipe_id, paint_id, ratio) VALUES `)
	args := make([]any, 0, len(components)*3)
	for i, c := range components {
		if i > 0 {
			sb.WriteString(", ")
		}
		n := len(args)
		fmt.Fprintf(&sb, "($%d, $%d, $%d)", n+1, n+2, n+3)
		args = append(args, recipeID, c.PaintID, c.Ratio)
	}

	if _, err := r.db.ExecContext(ctx, sb.String(), args...); err != nil {
		if dbx.IsForeignKeyViolation(err) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
