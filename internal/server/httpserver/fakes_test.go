package httpserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/mixmini/internal/common"
	"github.com/dmitrijs2005/mixmini/internal/logging"
	"github.com/dmitrijs2005/mixmini/internal/server/config"
	"github.com/dmitrijs2005/mixmini/internal/server/metrics"
	"github.com/dmitrijs2005/mixmini/internal/server/models"
	"github.com/dmitrijs2005/mixmini/internal/server/services"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (n nopLogger) Debug(context.Context, string, ...any) {}
func (n nopLogger) Info(context.Context, string, ...any)  {}
func (n nopLogger) Warn(context.Context, string, ...any)  {}
func (n nopLogger) Error(context.Context, string, ...any) {}
func (n nopLogger) With(...any) logging.Logger            { return n }

const goodToken = "good-token"

var testUser = &models.User{ID: "u-1", Email: "alice@example.com", IsActive: true}

// ---- fakes ----

type fakeAuth struct {
	registered *models.User
	regErr     error
	loginErr   error
	forgotErr  error
	resetErr   error
	forgotFor  string
}

func (f *fakeAuth) Register(_ context.Context, email, _ string) (*models.User, error) {
	if f.regErr != nil {
		return nil, f.regErr
	}
	f.registered = &models.User{ID: "u-new", Email: email, IsActive: true}
	return f.registered, nil
}

func (f *fakeAuth) Login(_ context.Context, _, _ string) (string, error) {
	if f.loginErr != nil {
		return "", f.loginErr
	}
	return goodToken, nil
}

func (f *fakeAuth) CurrentUser(_ context.Context, token string) (*models.User, error) {
	if token == goodToken {
		return testUser, nil
	}
	return nil, common.ErrorUnauthorized
}

func (f *fakeAuth) ForgotPassword(_ context.Context, email string) error {
	f.forgotFor = email
	return f.forgotErr
}

func (f *fakeAuth) ResetPassword(context.Context, string, string) error { return f.resetErr }
func (f *fakeAuth) TokenLifetime() time.Duration                      { return common.DefaultTokenLifetime }

type fakeCatalog struct {
	view    *services.CatalogView
	results []*models.Paint
	err     error
	lastQ   string
}

func (f *fakeCatalog) Browse(_ context.Context, _ string, q string) (*services.CatalogView, error) {
	f.lastQ = q
	return f.view, f.err
}

func (f *fakeCatalog) PaintSearch(_ context.Context, q string) ([]*models.Paint, error) {
	f.lastQ = q
	return f.results, f.err
}

type fakeInventory struct {
	card       *services.PaintCard
	view       *services.InventoryView
	err        error
	removed    []int64
	lastFilter string
}

func (f *fakeInventory) Toggle(context.Context, string, int64) (*services.PaintCard, error) {
	return f.card, f.err
}

func (f *fakeInventory) CycleStatus(context.Context, string, int64) (*services.PaintCard, error) {
	return f.card, f.err
}

func (f *fakeInventory) List(_ context.Context, _ string, filter string) (*services.InventoryView, error) {
	f.lastFilter = filter
	return f.view, f.err
}

func (f *fakeInventory) Remove(_ context.Context, _ string, paintID int64) error {
	f.removed = append(f.removed, paintID)
	return f.err
}

type fakeRecipes struct {
	list     []models.RecipeWithComponents
	detail   *services.RecipeDetail
	form     *services.RecipeForm
	created  *models.Recipe
	err      error
	formErr  error
	lastIn   services.RecipeInput
	deleted  int64
	updateID int64
}

func (f *fakeRecipes) List(context.Context, string) ([]models.RecipeWithComponents, error) {
	return f.list, f.err
}

func (f *fakeRecipes) Get(context.Context, string, int64) (*services.RecipeDetail, error) {
	return f.detail, f.err
}

func (f *fakeRecipes) Form(context.Context, string, int64) (*services.RecipeForm, error) {
	if f.form == nil {
		return &services.RecipeForm{}, f.formErr
	}
	return f.form, f.formErr
}

func (f *fakeRecipes) Create(_ context.Context, _ string, in services.RecipeInput) (*models.Recipe, error) {
	f.lastIn = in
	return f.created, f.err
}

func (f *fakeRecipes) Update(_ context.Context, _ string, id int64, in services.RecipeInput) (*models.Recipe, error) {
	f.lastIn, f.updateID = in, id
	return &models.Recipe{ID: id}, f.err
}

func (f *fakeRecipes) Delete(_ context.Context, _ string, id int64) error {
	f.deleted = id
	return f.err
}

// ---- helpers ----

type fixture struct {
	srv       *HTTPServer
	auth      *fakeAuth
	catalog   *fakeCatalog
	inventory *fakeInventory
	recipes   *fakeRecipes
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		auth:      &fakeAuth{},
		catalog:   &fakeCatalog{},
		inventory: &fakeInventory{},
		recipes:   &fakeRecipes{},
	}

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.HTTPAddr = "127.0.0.1:0"

	srv, err := NewHTTPServer(cfg, nopLogger{}, Services{
		Users:     f.auth,
		Catalog:   f.catalog,
		Inventory: f.inventory,
		Recipes:   f.recipes,
	}, metrics.New())
	require.NoError(t, err)
	f.srv = srv
	return f
}

// do sends a request through the router. A true authed adds the session cookie.
func (f *fixture) do(method, target string, body string, authed bool, headers ...string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	if authed {
		req.AddCookie(&http.Cookie{Name: common.AuthCookieName, Value: goodToken})
	}

	rec := httptest.NewRecorder()
	f.srv.Router().ServeHTTP(rec, req)
	return rec
}

func (f *fixture) postForm(target string, form url.Values, authed bool) *httptest.ResponseRecorder {
	return f.do(http.MethodPost, target, form.Encode(), authed, "Content-Type", "application/x-www-form-urlencoded")
}
