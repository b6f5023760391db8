package recipes

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/mixmini/internal/common"
	"github.com/dmitrijs2005/mixmini/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const owner = "5b0f1c6e-2d3a-4c1b-8f6e-9a7d3c2b1a00"

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return NewPostgresRepository(db), mock, db
}

func TestCreate(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`^INSERT INTO recipes \(user_id, name, note\) VALUES \(\$1, \$2, NULLIF\(\$3, ''\)\) RETURNING id$`).
		WithArgs(owner, "Skin Tone", "").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(11)))
	mock.ExpectQuery(`^INSERT INTO recipes`).
		WillReturnError(errors.New("db down"))

	rec, err := repo.Create(context.Background(), &models.Recipe{UserID: owner, Name: "Skin Tone"})
	require.NoError(t, err)
	assert.Equal(t, int64(11), rec.ID)

	_, err = repo.Create(context.Background(), &models.Recipe{UserID: owner, Name: "x"})
	require.ErrorContains(t, err, "db error: db down")
}

func TestGetOwned(t *testing.T) {
	cols := []string{"id", "user_id", "name", "note"}

	t.Run("null note", func(t *testing.T) {
		repo, mock, db := newRepoWithMock(t)
		defer db.Close()

		mock.ExpectQuery(`FROM recipes WHERE id = \$1 AND user_id = \$2$`).
			WithArgs(int64(3), owner).
			WillReturnRows(sqlmock.NewRows(cols).AddRow(int64(3), owner, "Skin Tone", nil))

		rec, err := repo.GetOwned(context.Background(), owner, 3, false)
		require.NoError(t, err)
		assert.Equal(t, &models.Recipe{ID: 3, UserID: owner, Name: "Skin Tone"}, rec)
	})

	t.Run("for update", func(t *testing.T) {
		repo, mock, db := newRepoWithMock(t)
		defer db.Close()

		mock.ExpectQuery(`AND user_id = \$2 FOR UPDATE$`).
			WithArgs(int64(3), owner).
			WillReturnRows(sqlmock.NewRows(cols).AddRow(int64(3), owner, "Skin Tone", "warm"))

		rec, err := repo.GetOwned(context.Background(), owner, 3, true)
		require.NoError(t, err)
		assert.Equal(t, "warm", rec.Note)
	})

	t.Run("foreign or missing", func(t *testing.T) {
		repo, mock, db := newRepoWithMock(t)
		defer db.Close()

		mock.ExpectQuery(`FROM recipes`).WillReturnError(sql.ErrNoRows)

		_, err := repo.GetOwned(context.Background(), "someone-else", 3, false)
		require.ErrorIs(t, err, common.ErrorNotFound)
	})
}

func TestUpdateAndDelete(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`^UPDATE recipes SET name = \$1, note = NULLIF\(\$2, ''\) WHERE id = \$3 AND user_id = \$4$`).
		WithArgs("Renamed", "", int64(3), owner).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`^UPDATE recipes`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`^DELETE FROM recipes WHERE id = \$1 AND user_id = \$2$`).
		WithArgs(int64(3), owner).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`^DELETE FROM recipes`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Update(context.Background(), &models.Recipe{ID: 3, UserID: owner, Name: "Renamed"}))
	require.ErrorIs(t, repo.Update(context.Background(), &models.Recipe{ID: 4, UserID: owner, Name: "x"}), common.ErrorNotFound)
	require.NoError(t, repo.Delete(context.Background(), owner, 3))
	require.ErrorIs(t, repo.Delete(context.Background(), owner, 3), common.ErrorNotFound)
}

func TestListByUser(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`WHERE user_id = \$1 ORDER BY name, id$`).
		WithArgs(owner).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "name", "note"}).
			AddRow(int64(2), owner, "Armour", nil).
			AddRow(int64(1), owner, "Skin Tone", "base coat"))

	list, err := repo.ListByUser(context.Background(), owner)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Armour", list[0].Name)
	assert.Equal(t, "base coat", list[1].Note)
}

var componentColumns = []string{
	"id", "recipe_id", "paint_id", "ratio",
	"id", "brand", "range", "name", "hex", "paint_type",
}

func TestComponents(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`JOIN paints p ON p.id = rc.paint_id WHERE rc.recipe_id = \$1 ORDER BY rc.id$`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(componentColumns).
			AddRow(int64(5), int64(1), int64(7), 3, int64(7), "Citadel", "Base", "Bugman's Glow", "#834F44", "base").
			AddRow(int64(6), int64(1), int64(8), 1, int64(8), "Citadel", "Layer", "Cadian Fleshtone", "#C77958", "layer"))

	comps, err := repo.Components(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, comps, 2)
	assert.Equal(t, 3, comps[0].Component.Ratio)
	assert.Equal(t, "Cadian Fleshtone", comps[1].Paint.Name)
}

func TestComponentsByUser(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`JOIN recipes r ON r.id = rc.recipe_id WHERE r.user_id = \$1 ORDER BY rc.recipe_id, rc.id$`).
		WithArgs(owner).
		WillReturnRows(sqlmock.NewRows(componentColumns).
			AddRow(int64(5), int64(1), int64(7), 3, int64(7), "Citadel", "Base", "Bugman's Glow", "#834F44", "base").
			AddRow(int64(6), int64(1), int64(8), 1, int64(8), "Citadel", "Layer", "Cadian Fleshtone", "#C77958", "layer").
			AddRow(int64(9), int64(2), int64(7), 2, int64(7), "Citadel", "Base", "Bugman's Glow", "#834F44", "base"))

	byRecipe, err := repo.ComponentsByUser(context.Background(), owner)
	require.NoError(t, err)
	assert.Len(t, byRecipe[1], 2)
	assert.Len(t, byRecipe[2], 1)
	assert.Empty(t, byRecipe[3])
}

func TestComponents_ScanError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`FROM recipe_components`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))

	_, err := repo.Components(context.Background(), 1)
	require.Error(t, err)
}

func TestDeleteComponents(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`^DELETE FROM recipe_components WHERE recipe_id = \$1$`).
		WithArgs(int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 2))

	require.NoError(t, repo.DeleteComponents(context.Background(), 4))
}

func TestInsertComponents(t *testing.T) {
	t.Run("multi row in order", func(t *testing.T) {
		repo, mock, db := newRepoWithMock(t)
		defer db.Close()

		mock.ExpectExec(`^INSERT INTO recipe_components \(recipe_id, paint_id, ratio\) VALUES \(\$1, \$2, \$3\), \(\$4, \$5, \$6\)$`).
			WithArgs(int64(4), int64(7), 3, int64(4), int64(7), 1).
			WillReturnResult(sqlmock.NewResult(0, 2))

		err := repo.InsertComponents(context.Background(), 4, []models.RecipeComponent{
			{PaintID: 7, Ratio: 3},
			{PaintID: 7, Ratio: 1},
		})
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty is no-op", func(t *testing.T) {
		repo, mock, db := newRepoWithMock(t)
		defer db.Close()

		require.NoError(t, repo.InsertComponents(context.Background(), 4, nil))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown paint", func(t *testing.T) {
		repo, mock, db := newRepoWithMock(t)
		defer db.Close()

		mock.ExpectExec(`^INSERT INTO recipe_components`).
			WillReturnError(&pgconn.PgError{Code: "23503"})

		err := repo.InsertComponents(context.Background(), 4, []models.RecipeComponent{{PaintID: 999, Ratio: 1}})
		require.ErrorIs(t, err, common.ErrorNotFound)
	})
}
