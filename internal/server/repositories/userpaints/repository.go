package userpaints

import (
	"context"

	"github.com/dmitrijs2005/mixmini/internal/server/models"
)

type Repository interface {
	Find(ctx context.Context, userID string, paintID int64, forUpdate bool) (*models.UserPaint, error)
	Create(ctx context.Context, up *models.UserPaint) (*models.UserPaint, error)
	UpdateStatus(ctx context.Context, id int64, status models.PaintStatus) error
	Delete(ctx context.Context, userID string, paintID int64) (bool, error)
	StatusesByUser(ctx context.Context, userID string) (map[int64]models.PaintStatus, error)
	ListItems(ctx context.Context, userID string, status models.PaintStatus) ([]*models.InventoryItem, error)
	Counts(ctx context.Context, userID string) (models.InventoryCounts, error)
}
