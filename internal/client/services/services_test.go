package services

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"granja/internal/client/models"
	"granja/internal/client/store"
	"granja/internal/logging"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func setupStore(t *testing.T) *store.Store {
	t.Helper()
	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	db, err := store.Open(context.Background(), dsn)
	require.NoError(t, err)
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	t.Cleanup(func() { _ = db.Close() })
	return store.New(db)
}

func seed(t *testing.T, st *store.Store, table, id string, fields map[string]any) {
	t.Helper()
	now := time.Now().UTC()
	err := st.Put(context.Background(), table, &store.Record{
		ID:         id,
		CreatedAt:  now,
		UpdatedAt:  now,
		SyncStatus: models.StatusSynced,
		Fields:     fields,
	})
	require.NoError(t, err)
}

func mustGet(t *testing.T, st *store.Store, table, id string) *store.Record {
	t.Helper()
	rec, err := st.Get(context.Background(), table, id)
	require.NoError(t, err)
	require.NotNil(t, rec)
	return rec
}
