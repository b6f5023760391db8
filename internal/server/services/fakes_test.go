package services

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/mixmini/internal/common"
	"github.com/dmitrijs2005/mixmini/internal/dbx"
	"github.com/dmitrijs2005/mixmini/internal/server/models"
	"github.com/dmitrijs2005/mixmini/internal/server/repositories/paints"
	"github.com/dmitrijs2005/mixmini/internal/server/repositories/recipes"
	"github.com/dmitrijs2005/mixmini/internal/server/repositories/resettokens"
	"github.com/dmitrijs2005/mixmini/internal/server/repositories/userpaints"
	"github.com/dmitrijs2005/mixmini/internal/server/repositories/users"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

// expectTxs queues n transactions that each end in commit.
func expectTxs(mock sqlmock.Sqlmock, n int) {
	for i := 0; i < n; i++ {
		mock.ExpectBegin()
		mock.ExpectCommit()
	}
}

// memStore is an in-memory stand-in for every repository. Transactions are
// simulated by sqlmock, so writes are visible immediately.
type memStore struct {
	nextID     int64
	paints     map[int64]*models.Paint
	userPaints map[int64]*models.UserPaint
	recipes    map[int64]*models.Recipe
	components []models.RecipeComponent
	users      map[string]*models.User
	tokens     map[string]*models.ResetToken

	// injected failures
	userPaintCreateErr error
	insertComponentErr error
}

func newMemStore() *memStore {
	return &memStore{
		paints:     map[int64]*models.Paint{},
		userPaints: map[int64]*models.UserPaint{},
		recipes:    map[int64]*models.Recipe{},
		users:      map[string]*models.User{},
		tokens:     map[string]*models.ResetToken{},
	}
}

func (s *memStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *memStore) addPaint(brand, rng, name string) *models.Paint {
	p := &models.Paint{ID: s.id(), Brand: brand, Range: rng, Name: name, Hex: "#000000", PaintType: "base"}
	s.paints[p.ID] = p
	return p
}

func (s *memStore) RunMigrations(context.Context, *sql.DB) error { return nil }
func (s *memStore) Paints(dbx.DBTX) paints.Repository            { return memPaints{s} }
func (s *memStore) UserPaints(dbx.DBTX) userpaints.Repository    { return memUserPaints{s} }
func (s *memStore) Recipes(dbx.DBTX) recipes.Repository          { return memRecipes{s} }
func (s *memStore) Users(dbx.DBTX) users.Repository              { return memUsers{s} }
func (s *memStore) ResetTokens(dbx.DBTX) resettokens.Repository  { return memTokens{s} }

// --- paints ---

type memPaints struct{ s *memStore }

func (r memPaints) Search(_ context.Context, q string, limit int) ([]*models.Paint, error) {
	var out []*models.Paint
	for _, p := range r.s.paints {
		if q == "" || strings.Contains(strings.ToLower(p.Name), strings.ToLower(q)) {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Brand != b.Brand {
			return a.Brand < b.Brand
		}
		if a.Range != b.Range {
			return a.Range < b.Range
		}
		return a.Name < b.Name
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r memPaints) GetByID(_ context.Context, id int64) (*models.Paint, error) {
	p, ok := r.s.paints[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *p
	return &cp, nil
}

func (r memPaints) Upsert(_ context.Context, p *models.Paint) (bool, error) {
	for _, existing := range r.s.paints {
		if existing.Brand == p.Brand && existing.Range == p.Range && existing.Name == p.Name {
			existing.Hex, existing.PaintType = p.Hex, p.PaintType
			p.ID = existing.ID
			return false, nil
		}
	}
	p.ID = r.s.id()
	cp := *p
	r.s.paints[p.ID] = &cp
	return true, nil
}

// --- user paints ---

type memUserPaints struct{ s *memStore }

func (r memUserPaints) find(userID string, paintID int64) *models.UserPaint {
	for _, up := range r.s.userPaints {
		if up.UserID == userID && up.PaintID == paintID {
			return up
		}
	}
	return nil
}

func (r memUserPaints) Find(_ context.Context, userID string, paintID int64, _ bool) (*models.UserPaint, error) {
	up := r.find(userID, paintID)
	if up == nil {
		return nil, common.ErrorNotFound
	}
	cp := *up
	return &cp, nil
}

func (r memUserPaints) Create(_ context.Context, up *models.UserPaint) (*models.UserPaint, error) {
	if r.s.userPaintCreateErr != nil {
		return nil, r.s.userPaintCreateErr
	}
	if r.find(up.UserID, up.PaintID) != nil {
		return nil, common.ErrorAlreadyExists
	}
	up.ID = r.s.id()
	cp := *up
	r.s.userPaints[up.ID] = &cp
	return up, nil
}

func (r memUserPaints) UpdateStatus(_ context.Context, id int64, status models.PaintStatus) error {
	up, ok := r.s.userPaints[id]
	if !ok {
		return common.ErrorNotFound
	}
	up.Status = status
	return nil
}

func (r memUserPaints) Delete(_ context.Context, userID string, paintID int64) (bool, error) {
	up := r.find(userID, paintID)
	if up == nil {
		return false, nil
	}
	delete(r.s.userPaints, up.ID)
	return true, nil
}

func (r memUserPaints) StatusesByUser(_ context.Context, userID string) (map[int64]models.PaintStatus, error) {
	out := map[int64]models.PaintStatus{}
	for _, up := range r.s.userPaints {
		if up.UserID == userID {
			out[up.PaintID] = up.Status
		}
	}
	return out, nil
}

func (r memUserPaints) ListItems(ctx context.Context, userID string, status models.PaintStatus) ([]*models.InventoryItem, error) {
	all, _ := memPaints{r.s}.Search(ctx, "", 0)
	var out []*models.InventoryItem
	for _, p := range all {
		up := r.find(userID, p.ID)
		if up == nil || (status != "" && up.Status != status) {
			continue
		}
		out = append(out, &models.InventoryItem{UserPaint: *up, Paint: *p})
	}
	return out, nil
}

func (r memUserPaints) Counts(_ context.Context, userID string) (models.InventoryCounts, error) {
	var c models.InventoryCounts
	for _, up := range r.s.userPaints {
		if up.UserID != userID {
			continue
		}
		c.All++
		switch up.Status {
		case models.StatusFull:
			c.Full++
		case models.StatusLow:
			c.Low++
		case models.StatusEmpty:
			c.Empty++
		}
	}
	return c, nil
}

// --- recipes ---

type memRecipes struct{ s *memStore }

func (r memRecipes) Create(_ context.Context, rec *models.Recipe) (*models.Recipe, error) {
	rec.ID = r.s.id()
	cp := *rec
	r.s.recipes[rec.ID] = &cp
	return rec, nil
}

func (r memRecipes) GetOwned(_ context.Context, userID string, id int64, _ bool) (*models.Recipe, error) {
	rec, ok := r.s.recipes[id]
	if !ok || rec.UserID != userID {
		return nil, common.ErrorNotFound
	}
	cp := *rec
	return &cp, nil
}

func (r memRecipes) Update(_ context.Context, rec *models.Recipe) error {
	existing, ok := r.s.recipes[rec.ID]
	if !ok || existing.UserID != rec.UserID {
		return common.ErrorNotFound
	}
	existing.Name, existing.Note = rec.Name, rec.Note
	return nil
}

func (r memRecipes) Delete(ctx context.Context, userID string, id int64) error {
	if _, err := r.GetOwned(ctx, userID, id, false); err != nil {
		return err
	}
	delete(r.s.recipes, id)
	return r.DeleteComponents(ctx, id)
}

func (r memRecipes) ListByUser(_ context.Context, userID string) ([]*models.Recipe, error) {
	var out []*models.Recipe
	for _, rec := range r.s.recipes {
		if rec.UserID == userID {
			cp := *rec
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r memRecipes) Components(_ context.Context, recipeID int64) ([]models.ComponentWithPaint, error) {
	var out []models.ComponentWithPaint
	for _, c := range r.s.components {
		if c.RecipeID == recipeID {
			out = append(out, models.ComponentWithPaint{Component: c, Paint: *r.s.paints[c.PaintID]})
		}
	}
	return out, nil
}

func (r memRecipes) ComponentsByUser(ctx context.Context, userID string) (map[int64][]models.ComponentWithPaint, error) {
	out := map[int64][]models.ComponentWithPaint{}
	for id, rec := range r.s.recipes {
		if rec.UserID != userID {
			continue
		}
		comps, _ := r.Components(ctx, id)
		if len(comps) > 0 {
			out[id] = comps
		}
	}
	return out, nil
}

func (r memRecipes) DeleteComponents(_ context.Context, recipeID int64) error {
	kept := r.s.components[:0]
	for _, c := range r.s.components {
		if c.RecipeID != recipeID {
			kept = append(kept, c)
		}
	}
	r.s.components = kept
	return nil
}

func (r memRecipes) InsertComponents(_ context.Context, recipeID int64, comps []models.RecipeComponent) error {
	if r.s.insertComponentErr != nil {
		return r.s.insertComponentErr
	}
	for _, c := range comps {
		c.ID = r.s.id()
		c.RecipeID = recipeID
		r.s.components = append(r.s.components, c)
	}
	return nil
}

// --- users ---

type memUsers struct{ s *memStore }

func (r memUsers) Create(_ context.Context, u *models.User) (*models.User, error) {
	for _, existing := range r.s.users {
		if existing.Email == u.Email {
			return nil, common.ErrorAlreadyExists
		}
	}
	u.CreatedAt = time.Now()
	cp := *u
	r.s.users[u.ID] = &cp
	return u, nil
}

func (r memUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range r.s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r memUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	u, ok := r.s.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *u
	return &cp, nil
}

func (r memUsers) UpdatePassword(_ context.Context, id string, hash string) error {
	u, ok := r.s.users[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.HashedPassword = hash
	return nil
}

// --- reset tokens ---

type memTokens struct{ s *memStore }

func (r memTokens) Create(_ context.Context, userID, tokenHash string, validity time.Duration) error {
	r.s.tokens[tokenHash] = &models.ResetToken{TokenHash: tokenHash, UserID: userID, Expires: time.Now().Add(validity)}
	return nil
}

func (r memTokens) Find(_ context.Context, tokenHash string) (*models.ResetToken, error) {
	t, ok := r.s.tokens[tokenHash]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *t
	return &cp, nil
}

func (r memTokens) Delete(_ context.Context, tokenHash string) error {
	delete(r.s.tokens, tokenHash)
	return nil
}

func (r memTokens) DeleteByUser(_ context.Context, userID string) error {
	for h, t := range r.s.tokens {
		if t.UserID == userID {
			delete(r.s.tokens, h)
		}
	}
	return nil
}
