package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dmitrijs2005/mixmini/internal/common"
	"github.com/dmitrijs2005/mixmini/internal/dbx"
	"github.com/dmitrijs2005/mixmini/internal/server/models"
	"github.com/dmitrijs2005/mixmini/internal/server/repositories/repomanager"
)

// PaintCard is a paint with the caller's ownership record; UserPaint is nil
// when the paint is not owned.
type PaintCard struct {
	Paint     models.Paint
	UserPaint *models.UserPaint
}

// Owned reports whether the card's paint is in the caller's inventory.
func (c *PaintCard) Owned() bool {
	return c.UserPaint != nil
}

// InventoryView is the user's inventory, optionally filtered by status.
// Counts always cover the unfiltered set.
type InventoryView struct {
	Filter models.PaintStatus
	Groups []models.BrandGroup[*models.InventoryItem]
	Counts models.InventoryCounts
}

type InventoryService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewInventoryService(db *sql.DB, m repomanager.RepositoryManager) *InventoryService {
	return &InventoryService{db: db, repomanager: m}
}

// Toggle flips ownership of paintID: an unowned paint is added with status
// full, an owned one is removed (the returned card then has no UserPaint).
// Unknown paints yield common.ErrorNotFound. Losing a concurrent insert race
// yields common.ErrorConflict.
func (s *InventoryService) Toggle(ctx context.Context, userID string, paintID int64) (*PaintCard, error) {
	var card *PaintCard

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		paint, err := s.repomanager.Paints(tx).GetByID(ctx, paintID)
		if err != nil {
			return err
		}
		card = &PaintCard{Paint: *paint}

		repo := s.repomanager.UserPaints(tx)
		_, err = repo.Find(ctx, userID, paintID, true)
		switch {
		case err == nil:
			_, err = repo.Delete(ctx, userID, paintID)
			return err
		case errors.Is(err, common.ErrorNotFound):
			up, err := repo.Create(ctx, &models.UserPaint{UserID: userID, PaintID: paintID, Status: models.StatusFull})
			if err != nil {
				if errors.Is(err, common.ErrorAlreadyExists) {
					return common.ErrorConflict
				}
				return err
			}
			card.UserPaint = up
			return nil
		default:
			return err
		}
	})
	if err != nil {
		return nil, err
	}
	return card, nil
}

// CycleStatus advances the status of an owned paint one step
// (full -> low -> empty -> full). A paint not in the inventory yields
// common.ErrorNotFound.
func (s *InventoryService) CycleStatus(ctx context.Context, userID string, paintID int64) (*PaintCard, error) {
	var card *PaintCard

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.UserPaints(tx)
		up, err := repo.Find(ctx, userID, paintID, true)
		if err != nil {
			return err
		}

		up.Status = up.Status.Next()
		if err := repo.UpdateStatus(ctx, up.ID, up.Status); err != nil {
			return err
		}

		paint, err := s.repomanager.Paints(tx).GetByID(ctx, paintID)
		if err != nil {
			return err
		}
		card = &PaintCard{Paint: *paint, UserPaint: up}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return card, nil
}

// List returns the user's inventory. filter is "", full, low or empty;
// any other value lists everything.
func (s *InventoryService) List(ctx context.Context, userID string, filter string) (*InventoryView, error) {
	status, err := models.ParseStatus(filter)
	if err != nil {
		status = ""
	}

	view := &InventoryView{Filter: status}
	err = dbx.WithTx(ctx, s.db, dbx.ReadOnly, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.UserPaints(tx)
		items, err := repo.ListItems(ctx, userID, status)
		if err != nil {
			return err
		}
		view.Groups = models.GroupByBrandRange(items, func(i *models.InventoryItem) models.Paint { return i.Paint })

		view.Counts, err = repo.Counts(ctx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// Remove deletes the user's record for paintID. Removing a paint that is not
// owned is a no-op.
func (s *InventoryService) Remove(ctx context.Context, userID string, paintID int64) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		_, err := s.repomanager.UserPaints(tx).Delete(ctx, userID, paintID)
		return err
	})
}
