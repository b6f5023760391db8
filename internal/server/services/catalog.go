// Package services contains the server-side business logic. Each service
// owns a *sql.DB and a RepositoryManager and runs every operation in a single
// dbx.WithTx transaction, rebinding repositories to the transaction handle.
package services

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/mixmini/internal/common"
	"github.com/dmitrijs2005/mixmini/internal/dbx"
	"github.com/dmitrijs2005/mixmini/internal/server/models"
	"github.com/dmitrijs2005/mixmini/internal/server/repositories/repomanager"
)

// CatalogEntry is a catalog paint annotated with the viewer's ownership.
type CatalogEntry struct {
	Paint  models.Paint
	Owned  bool
	Status models.PaintStatus
}

// CatalogView is the browse page: filtered paints grouped brand -> range.
// OwnedCount counts every paint the viewer owns, TotalCount the paints listed.
type CatalogView struct {
	Query      string
	Groups     []models.BrandGroup[CatalogEntry]
	OwnedCount int
	TotalCount int
}

type CatalogService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewCatalogService(db *sql.DB, m repomanager.RepositoryManager) *CatalogService {
	return &CatalogService{db: db, repomanager: m}
}

// Search returns paints whose name contains q, ordered by brand, range, name.
// limit <= 0 means unbounded.
func (s *CatalogService) Search(ctx context.Context, q string, limit int) ([]*models.Paint, error) {
	return s.repomanager.Paints(s.db).Search(ctx, q, limit)
}

// PaintSearch is the bounded typeahead used by the recipe builder.
func (s *CatalogService) PaintSearch(ctx context.Context, q string) ([]*models.Paint, error) {
	return s.Search(ctx, q, common.PaintSearchLimit)
}

// Browse lists the (optionally filtered) catalog with the user's statuses.
func (s *CatalogService) Browse(ctx context.Context, userID string, q string) (*CatalogView, error) {
	var (
		paints   []*models.Paint
		statuses map[int64]models.PaintStatus
	)

	err := dbx.WithTx(ctx, s.db, dbx.ReadOnly, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		if paints, err = s.repomanager.Paints(tx).Search(ctx, q, 0); err != nil {
			return err
		}
		statuses, err = s.repomanager.UserPaints(tx).StatusesByUser(ctx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}

	entries := make([]CatalogEntry, 0, len(paints))
	for _, p := range paints {
		st, owned := statuses[p.ID]
		entries = append(entries, CatalogEntry{Paint: *p, Owned: owned, Status: st})
	}

	return &CatalogView{
		Query:      q,
		Groups:     models.GroupByBrandRange(entries, func(e CatalogEntry) models.Paint { return e.Paint }),
		OwnedCount: len(statuses),
		TotalCount: len(paints),
	}, nil
}
