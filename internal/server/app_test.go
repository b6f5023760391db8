package server

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/mixmini/internal/server/config"
	"github.com/dmitrijs2005/mixmini/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubManager struct {
	repomanager.RepositoryManager
	migrateErr error
	migrated   bool
}

func (m *stubManager) RunMigrations(context.Context, *sql.DB) error {
	m.migrated = true
	return m.migrateErr
}

func withSeams(t *testing.T, db *sql.DB, dbErr error, m *stubManager) {
	t.Helper()
	origOpen, origManager := openDB, newRepositoryManager
	t.Cleanup(func() { openDB, newRepositoryManager = origOpen, origManager })

	openDB = func(context.Context, string) (*sql.DB, error) { return db, dbErr }
	newRepositoryManager = func() repomanager.RepositoryManager { return m }
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.HTTPAddr = "127.0.0.1:0"
	cfg.LogLevel = "error"
	return cfg
}

func TestNewApp_DBError(t *testing.T) {
	withSeams(t, nil, errors.New("connection refused"), &stubManager{})

	_, err := NewApp(context.Background(), testConfig())
	require.ErrorContains(t, err, "db init error")
}

func TestNewApp_MigrationErrorClosesDB(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	mock.ExpectClose()

	m := &stubManager{migrateErr: errors.New("bad migration")}
	withSeams(t, db, nil, m)

	_, err = NewApp(context.Background(), testConfig())
	require.ErrorContains(t, err, "migration error")
	assert.True(t, m.migrated)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApp_RunStopsOnCancel(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	mock.ExpectClose()

	withSeams(t, db, nil, &stubManager{})

	app, err := NewApp(context.Background(), testConfig())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		app.Run(ctx)
		close(done)
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("app did not stop after cancel")
	}
	require.NoError(t, mock.ExpectationsWereMet())
}
