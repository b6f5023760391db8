package recipes

import (
	"context"

	"github.com/dmitrijs2005/mixmini/internal/server/models"
)

// Repository stores recipes and their components. Every recipe lookup is
// scoped to its owner: a recipe of another user is reported as not found.
type Repository interface {
	Create(ctx context.Context, recipe *models.Recipe) (*models.Recipe, error)
	GetOwned(ctx context.Context, userID string, id int64, forUpdate bool) (*models.Recipe, error)
	Update(ctx context.Context, recipe *models.Recipe) error
	Delete(ctx context.Context, userID string, id int64) error
	ListByUser(ctx context.Context, userID string) ([]*models.Recipe, error)

	// Components returns the components of one recipe in insertion order.
	Components(ctx context.Context, recipeID int64) ([]models.ComponentWithPaint, error)
	// ComponentsByUser returns the components of all of the user's recipes
	// keyed by recipe id.
	ComponentsByUser(ctx context.Context, userID string) (map[int64][]models.ComponentWithPaint, error)
	DeleteComponents(ctx context.Context, recipeID int64) error
	InsertComponents(ctx context.Context, recipeID int64, components []models.RecipeComponent) error
}
