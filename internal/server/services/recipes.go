package services

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/mixmini/internal/common"
	"github.com/dmitrijs2005/mixmini/internal/dbx"
	"github.com/dmitrijs2005/mixmini/internal/server/models"
	"github.com/dmitrijs2005/mixmini/internal/server/repositories/paints"
	"github.com/dmitrijs2005/mixmini/internal/server/repositories/recipes"
	"github.com/dmitrijs2005/mixmini/internal/server/repositories/repomanager"
)

// RecipeInput is a submitted recipe form. PaintIDs and Ratios are parallel
// lists; extra entries in the longer one are ignored.
type RecipeInput struct {
	Name     string
	Note     string
	PaintIDs []string
	Ratios   []string
}

// RecipeDetail is the read-side projection of one recipe.
type RecipeDetail struct {
	models.RecipeWithComponents
	TotalRatio    int
	OwnedPaintIDs map[int64]bool
}

// Owns reports whether the viewer owns paintID.
func (d *RecipeDetail) Owns(paintID int64) bool {
	return d.OwnedPaintIDs[paintID]
}

// Percent is ratio's share of the total, in percent.
func (d *RecipeDetail) Percent(ratio int) float64 {
	if d.TotalRatio == 0 {
		return 0
	}
	return float64(ratio) * 100 / float64(d.TotalRatio)
}

// RecipeForm backs the create and edit pages. Recipe is nil for a new recipe.
type RecipeForm struct {
	Recipe     *models.Recipe
	Components []models.ComponentWithPaint
	Paints     []*models.Paint
}

type RecipeService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewRecipeService(db *sql.DB, m repomanager.RepositoryManager) *RecipeService {
	return &RecipeService{db: db, repomanager: m}
}

// owned is the single ownership check behind every recipe operation: a recipe
// of another user is indistinguishable from a missing one.
func owned(ctx context.Context, repo recipes.Repository, userID string, id int64, forUpdate bool) (*models.Recipe, error) {
	return repo.GetOwned(ctx, userID, id, forUpdate)
}

// List returns the user's recipes ordered by name, each with its components.
func (s *RecipeService) List(ctx context.Context, userID string) ([]models.RecipeWithComponents, error) {
	var result []models.RecipeWithComponents

	err := dbx.WithTx(ctx, s.db, dbx.ReadOnly, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Recipes(tx)
		list, err := repo.ListByUser(ctx, userID)
		if err != nil {
			return err
		}
		comps, err := repo.ComponentsByUser(ctx, userID)
		if err != nil {
			return err
		}
		result = make([]models.RecipeWithComponents, 0, len(list))
		for _, r := range list {
			result = append(result, models.RecipeWithComponents{Recipe: *r, Components: comps[r.ID]})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Get returns the recipe detail or common.ErrorNotFound.
func (s *RecipeService) Get(ctx context.Context, userID string, id int64) (*RecipeDetail, error) {
	detail := &RecipeDetail{OwnedPaintIDs: map[int64]bool{}}

	err := dbx.WithTx(ctx, s.db, dbx.ReadOnly, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Recipes(tx)
		rec, err := owned(ctx, repo, userID, id, false)
		if err != nil {
			return err
		}
		detail.Recipe = *rec

		if detail.Components, err = repo.Components(ctx, id); err != nil {
			return err
		}

		statuses, err := s.repomanager.UserPaints(tx).StatusesByUser(ctx, userID)
		if err != nil {
			return err
		}
		for _, c := range detail.Components {
			if _, ok := statuses[c.Component.PaintID]; ok {
				detail.OwnedPaintIDs[c.Component.PaintID] = true
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	detail.TotalRatio = detail.RecipeWithComponents.TotalRatio()
	return detail, nil
}

// Form loads what the create (id == 0) or edit page needs.
func (s *RecipeService) Form(ctx context.Context, userID string, id int64) (*RecipeForm, error) {
	form := &RecipeForm{}

	err := dbx.WithTx(ctx, s.db, dbx.ReadOnly, func(ctx context.Context, tx dbx.DBTX) error {
		if id != 0 {
			repo := s.repomanager.Recipes(tx)
			rec, err := owned(ctx, repo, userID, id, false)
			if err != nil {
				return err
			}
			form.Recipe = rec
			if form.Components, err = repo.Components(ctx, id); err != nil {
				return err
			}
		}

		var err error
		form.Paints, err = s.repomanager.Paints(tx).Search(ctx, "", 0)
		return err
	})
	if err != nil {
		return nil, err
	}
	return form, nil
}

// Create validates in and stores a new recipe with its components.
func (s *RecipeService) Create(ctx context.Context, userID string, in RecipeInput) (*models.Recipe, error) {
	var rec *models.Recipe

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		name, components, err := validateRecipe(ctx, s.repomanager.Paints(tx), in)
		if err != nil {
			return err
		}

		repo := s.repomanager.Recipes(tx)
		rec, err = repo.Create(ctx, &models.Recipe{UserID: userID, Name: name, Note: in.Note})
		if err != nil {
			return err
		}
		return repo.InsertComponents(ctx, rec.ID, components)
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// Update replaces name, note and the whole component set of recipe id.
// Nothing is written unless every component is valid.
func (s *RecipeService) Update(ctx context.Context, userID string, id int64, in RecipeInput) (*models.Recipe, error) {
	var rec *models.Recipe

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Recipes(tx)

		var err error
		if rec, err = owned(ctx, repo, userID, id, true); err != nil {
			return err
		}

		name, components, err := validateRecipe(ctx, s.repomanager.Paints(tx), in)
		if err != nil {
			return err
		}

		rec.Name = name
		rec.Note = in.Note
		if err := repo.Update(ctx, rec); err != nil {
			return err
		}
		if err := repo.DeleteComponents(ctx, id); err != nil {
			return err
		}
		return repo.InsertComponents(ctx, id, components)
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// Delete removes recipe id and its components.
func (s *RecipeService) Delete(ctx context.Context, userID string, id int64) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Recipes(tx)
		if _, err := owned(ctx, repo, userID, id, true); err != nil {
			return err
		}
		return repo.Delete(ctx, userID, id)
	})
}

// validateRecipe checks the name and every component pair in submission
// order, looking up each referenced paint.
func validateRecipe(ctx context.Context, catalog paints.Repository, in RecipeInput) (string, []models.RecipeComponent, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return "", nil, common.NewValidationError("Recipe name required")
	}

	n := min(len(in.PaintIDs), len(in.Ratios))
	components := make([]models.RecipeComponent, 0, n)
	for i := 0; i < n; i++ {
		idStr := strings.TrimSpace(in.PaintIDs[i])
		ratioStr := strings.TrimSpace(in.Ratios[i])
		if idStr == "" || ratioStr == "" {
			continue
		}

		paintID, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			return "", nil, common.NewValidationError("Invalid paint id or ratio")
		}
		ratio, err := strconv.ParseInt(ratioStr, 10, 32)
		if err != nil || ratio <= 0 {
			return "", nil, common.NewValidationError("Invalid paint id or ratio")
		}

		if _, err := catalog.GetByID(ctx, paintID); err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return "", nil, common.NewValidationError("Paint %d not found", paintID)
			}
			return "", nil, err
		}
		components = append(components, models.RecipeComponent{PaintID: paintID, Ratio: int(ratio)})
	}
	return name, components, nil
}
