// Package httpserver is the HTTP surface of MixMini: server rendered pages,
// htmx fragments and a small JSON auth API on a chi router.
package httpserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/mixmini/internal/logging"
	"github.com/dmitrijs2005/mixmini/internal/server/config"
	"github.com/dmitrijs2005/mixmini/internal/server/metrics"
	"github.com/dmitrijs2005/mixmini/internal/server/models"
	"github.com/dmitrijs2005/mixmini/internal/server/services"
)

const shutdownTimeout = 10 * time.Second

type Authenticator interface {
	Register(ctx context.Context, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (string, error)
	CurrentUser(ctx context.Context, token string) (*models.User, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, password string) error
	TokenLifetime() time.Duration
}

type CatalogBrowser interface {
	Browse(ctx context.Context, userID string, q string) (*services.CatalogView, error)
	PaintSearch(ctx context.Context, q string) ([]*models.Paint, error)
}

type InventoryManager interface {
	Toggle(ctx context.Context, userID string, paintID int64) (*services.PaintCard, error)
	CycleStatus(ctx context.Context, userID string, paintID int64) (*services.PaintCard, error)
	List(ctx context.Context, userID string, filter string) (*services.InventoryView, error)
	Remove(ctx context.Context, userID string, paintID int64) error
}

type RecipeManager interface {
	List(ctx context.Context, userID string) ([]models.RecipeWithComponents, error)
	Get(ctx context.Context, userID string, id int64) (*services.RecipeDetail, error)
	Form(ctx context.Context, userID string, id int64) (*services.RecipeForm, error)
	Create(ctx context.Context, userID string, in services.RecipeInput) (*models.Recipe, error)
	Update(ctx context.Context, userID string, id int64, in services.RecipeInput) (*models.Recipe, error)
	Delete(ctx context.Context, userID string, id int64) error
}

// Services groups the application services the handlers call.
type Services struct {
	Users     Authenticator
	Catalog   CatalogBrowser
	Inventory InventoryManager
	Recipes   RecipeManager
}

type HTTPServer struct {
	address       string
	logger        logging.Logger
	users         Authenticator
	catalog       CatalogBrowser
	inventory     InventoryManager
	recipes       RecipeManager
	metrics       *metrics.Metrics
	exposeMetrics bool
	cookieSecure  bool
	views         *views
}

func NewHTTPServer(cfg *config.Config, l logging.Logger, svc Services, m *metrics.Metrics) (*HTTPServer, error) {
	v, err := loadViews()
	if err != nil {
		return nil, err
	}
	if m == nil {
		m = metrics.New()
	}

	return &HTTPServer{
		address:       cfg.HTTPAddr,
		logger:        l.With("module", "http_server"),
		users:         svc.Users,
		catalog:       svc.Catalog,
		inventory:     svc.Inventory,
		recipes:       svc.Recipes,
		metrics:       m,
		exposeMetrics: cfg.MetricsEnabled,
		cookieSecure:  cfg.CookieSecure,
		views:         v,
	}, nil
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(context.Background(), "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(shutdownCtx, "shutdown error", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
