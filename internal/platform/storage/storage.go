package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/personal_ledger_app/internal/adapters/archive"
	"github.com/SscSPs/personal_ledger_app/internal/adapters/kvstore"
	portsrepo "github.com/SscSPs/personal_ledger_app/internal/core/ports/repositories"
	"github.com/SscSPs/personal_ledger_app/internal/platform/config"
	"github.com/SscSPs/personal_ledger_app/pkg/database"
)

// OpenStore opens and migrates the key-value store selected by cfg. The
// returned func releases it.
func OpenStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.KeyValueStore, func(), error) {
	switch cfg.StoreDriver {
	case config.StoreMemory:
		logger.Info("Using in-memory store")
		return kvstore.NewMemoryStore(), func() {}, nil

	case config.StoreSQLite:
		migrationDB, err := database.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Running database migrations...", slog.String("driver", cfg.StoreDriver))
		if err := kvstore.MigrateSQLite(migrationDB); err != nil {
			return nil, nil, err
		}

		db, err := database.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("SQLite store opened", slog.String("path", cfg.SQLitePath))
		return kvstore.NewSQLiteStore(db), func() {
			if err := db.Close(); err != nil {
				logger.Error("Error closing sqlite database", slog.String("error", err.Error()))
			}
		}, nil

	case config.StorePostgres:
		pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}

		logger.Info("Running database migrations...", slog.String("driver", cfg.StoreDriver))
		migrationDB, err := database.OpenPgxDB(cfg.DatabaseURL)
		if err != nil {
			pool.Close()
			return nil, nil, err
		}
		if err := kvstore.MigratePostgres(migrationDB); err != nil {
			pool.Close()
			return nil, nil, err
		}
		if cfg.EnableDBCheck {
			if err := pool.Ping(ctx); err != nil {
				pool.Close()
				return nil, nil, fmt.Errorf("database check failed: %w", err)
			}
		}
		return kvstore.NewPgxStore(pool), func() { database.ClosePgxPool(pool) }, nil
	}
	return nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}

// OpenArchive returns the backup archive selected by cfg, or nil when archiving is off.
func OpenArchive(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.BackupArchive, error) {
	switch cfg.BackupArchive {
	case config.ArchiveNone:
		return nil, nil
	case config.ArchiveFile:
		dir, err := archive.NewDirArchive(cfg.BackupDir)
		if err != nil {
			return nil, err
		}
		logger.Info("Using directory backup archive", slog.String("dir", cfg.BackupDir))
		return dir, nil
	case config.ArchiveS3:
		client, err := archive.NewS3Client(ctx, archive.S3Config{
			Bucket:       cfg.S3.Bucket,
			Prefix:       cfg.S3.Prefix,
			Region:       cfg.S3.Region,
			AccessKey:    cfg.S3.AccessKey,
			SecretKey:    cfg.S3.SecretKey,
			BaseEndpoint: cfg.S3.Endpoint,
		})
		if err != nil {
			return nil, err
		}
		bucket, err := archive.NewS3Archive(client, cfg.S3.Bucket, cfg.S3.Prefix)
		if err != nil {
			return nil, err
		}
		logger.Info("Using S3 backup archive", slog.String("bucket", cfg.S3.Bucket))
		return bucket, nil
	}
	return nil, fmt.Errorf("unknown backup archive %q", cfg.BackupArchive)
}
