package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/dmitrijs2005/mixmini/internal/common"
	"github.com/dmitrijs2005/mixmini/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrowse_AnnotatesOwnership(t *testing.T) {
	store := newMemStore()
	p1 := store.addPaint("Citadel", "Base", "Abaddon Black")
	store.addPaint("Citadel", "Base", "Mephiston Red")
	p3 := store.addPaint("Vallejo", "Model Color", "Black")
	ownPaint(store, alice, p1, models.StatusLow)
	ownPaint(store, alice, p3, models.StatusFull)
	ownPaint(store, bob, p1, models.StatusEmpty)

	db, mock := newSQLMockDB(t)
	expectTxs(mock, 1)

	view, err := NewCatalogService(db, store).Browse(context.Background(), alice, "")
	require.NoError(t, err)

	assert.Equal(t, 3, view.TotalCount)
	assert.Equal(t, 2, view.OwnedCount)
	require.Len(t, view.Groups, 2)

	citadel := view.Groups[0].Ranges[0].Items
	require.Len(t, citadel, 2)
	assert.True(t, citadel[0].Owned)
	assert.Equal(t, models.StatusLow, citadel[0].Status)
	assert.False(t, citadel[1].Owned)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBrowse_FilterKeepsOwnedCountOverAllPaints(t *testing.T) {
	store := newMemStore()
	p1 := store.addPaint("Citadel", "Base", "Abaddon Black")
	p2 := store.addPaint("Citadel", "Layer", "Wazdakka Red")
	ownPaint(store, alice, p1, models.StatusFull)
	ownPaint(store, alice, p2, models.StatusFull)

	db, mock := newSQLMockDB(t)
	expectTxs(mock, 1)

	view, err := NewCatalogService(db, store).Browse(context.Background(), alice, "wazdakka")
	require.NoError(t, err)

	assert.Equal(t, "wazdakka", view.Query)
	assert.Equal(t, 1, view.TotalCount)
	assert.Equal(t, 2, view.OwnedCount)
}

func TestPaintSearch_Bounded(t *testing.T) {
	store := newMemStore()
	for i := 0; i < 30; i++ {
		store.addPaint("Citadel", "Base", fmt.Sprintf("Red %02d", i))
	}
	store.addPaint("Citadel", "Base", "Blue")

	db, _ := newSQLMockDB(t)
	s := NewCatalogService(db, store)

	got, err := s.PaintSearch(context.Background(), "red")
	require.NoError(t, err)
	assert.Len(t, got, common.PaintSearchLimit)
	assert.Equal(t, "Red 00", got[0].Name)

	all, err := s.Search(context.Background(), "", 0)
	require.NoError(t, err)
	assert.Len(t, all, 31)
}
