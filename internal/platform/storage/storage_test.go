package storage_test

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/SscSPs/personal_ledger_app/internal/platform/config"
	"github.com/SscSPs/personal_ledger_app/internal/platform/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestOpenStore_SQLite(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{StoreDriver: config.StoreSQLite, SQLitePath: filepath.Join(t.TempDir(), "ledger.db")}

	store, closeStore, err := storage.OpenStore(ctx, cfg, discard)
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, "currentUser", "{}"))
	closeStore()

	// Reopening runs the migrations again and keeps the data.
	store, closeStore, err = storage.OpenStore(ctx, cfg, discard)
	require.NoError(t, err)
	defer closeStore()
	value, err := store.Get(ctx, "currentUser")
	require.NoError(t, err)
	assert.Equal(t, "{}", value)
}

func TestOpenStore_Memory(t *testing.T) {
	store, closeStore, err := storage.OpenStore(context.Background(), &config.Config{StoreDriver: config.StoreMemory}, discard)
	require.NoError(t, err)
	defer closeStore()
	assert.NotNil(t, store)
}

func TestOpenStore_Unknown(t *testing.T) {
	_, _, err := storage.OpenStore(context.Background(), &config.Config{StoreDriver: "redis"}, discard)
	assert.Error(t, err)
}

func TestOpenArchive(t *testing.T) {
	ctx := context.Background()

	a, err := storage.OpenArchive(ctx, &config.Config{BackupArchive: config.ArchiveNone}, discard)
	require.NoError(t, err)
	assert.Nil(t, a)

	a, err = storage.OpenArchive(ctx, &config.Config{BackupArchive: config.ArchiveFile, BackupDir: t.TempDir()}, discard)
	require.NoError(t, err)
	assert.NotNil(t, a)

	_, err = storage.OpenArchive(ctx, &config.Config{BackupArchive: "ftp"}, discard)
	assert.Error(t, err)
}
