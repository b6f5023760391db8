// Package server initializes and runs the MixMini application: it opens the
// database, applies migrations, wires services and serves HTTP until a
// shutdown signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/mixmini/internal/logging"
	"github.com/dmitrijs2005/mixmini/internal/server/config"
	"github.com/dmitrijs2005/mixmini/internal/server/httpserver"
	"github.com/dmitrijs2005/mixmini/internal/server/metrics"
	"github.com/dmitrijs2005/mixmini/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/mixmini/internal/server/services"
)

// Seams for tests.
var (
	openDB               = repomanager.Open
	newRepositoryManager = repomanager.NewPostgresRepositoryManager
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	http   *httpserver.HTTPServer
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	db, err := openDB(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := newRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	svc := httpserver.Services{
		Users:     services.NewUserService(db, rm, c, services.NewLogResetNotifier(logger.With("module", "reset_notifier"))),
		Catalog:   services.NewCatalogService(db, rm),
		Inventory: services.NewInventoryService(db, rm),
		Recipes:   services.NewRecipeService(db, rm),
	}

	hs, err := httpserver.NewHTTPServer(c, logger, svc, metrics.New())
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("http server init error: %w", err)
	}

	return &App{config: c, logger: logger, db: db, http: hs}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.http.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run blocks until ctx is cancelled, a signal arrives or the server fails,
// then closes the database.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(context.Background(), "db close error", "error", err)
	}
	app.logger.Info(context.Background(), "App stopped")
}
