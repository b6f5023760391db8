package paints

import (
	"context"

	"github.com/dmitrijs2005/mixmini/internal/server/models"
)

type Repository interface {
	Search(ctx context.Context, nameQuery string, limit int) ([]*models.Paint, error)
	GetByID(ctx context.Context, id int64) (*models.Paint, error)
	Upsert(ctx context.Context, paint *models.Paint) (inserted bool, err error)
}
