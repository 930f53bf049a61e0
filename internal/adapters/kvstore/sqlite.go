package kvstore

import (
	"context"
	"database/sql"
	"errors"

	"github.com/SscSPs/personal_ledger_app/internal/apperrors"
	portsrepo "github.com/SscSPs/personal_ledger_app/internal/core/ports/repositories"
)

// SQLiteStore keeps entries in the kv_entries table of a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore wraps db, which must already be migrated.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

var _ portsrepo.KeyValueStore = (*SQLiteStore)(nil)

func (s *SQLiteStore) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv_entries WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", apperrors.ErrNotFound
		}
		return "", apperrors.Storage("get "+key, err)
	}
	return value, nil
}

func (s *SQLiteStore) Set(ctx context.Context, key, value string) error {
	query := `
        INSERT INTO kv_entries (key, value, updated_at)
        VALUES (?, ?, CURRENT_TIMESTAMP)
        ON CONFLICT (key) DO UPDATE SET
            value = excluded.value,
            updated_at = excluded.updated_at;
    `
	if _, err := s.db.ExecContext(ctx, query, key, value); err != nil {
		return apperrors.Storage("set "+key, err)
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv_entries WHERE key = ?`, key); err != nil {
		return apperrors.Storage("delete "+key, err)
	}
	return nil
}
