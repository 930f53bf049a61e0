package kvstore

import (
	"context"
	"errors"

	"github.com/SscSPs/personal_ledger_app/internal/apperrors"
	portsrepo "github.com/SscSPs/personal_ledger_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxStore keeps entries in the kv_entries table of a PostgreSQL database.
type PgxStore struct {
	db *pgxpool.Pool
}

// NewPgxStore wraps pool, whose database must already be migrated.
func NewPgxStore(pool *pgxpool.Pool) *PgxStore {
	return &PgxStore{db: pool}
}

var _ portsrepo.KeyValueStore = (*PgxStore)(nil)

func (s *PgxStore) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRow(ctx, `SELECT value FROM kv_entries WHERE key = $1`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.ErrNotFound
		}
		return "", apperrors.Storage("get "+key, err)
	}
	return value, nil
}

func (s *PgxStore) Set(ctx context.Context, key, value string) error {
	query := `
        INSERT INTO kv_entries (key, value, updated_at)
        VALUES ($1, $2, NOW())
        ON CONFLICT (key) DO UPDATE SET
            value = EXCLUDED.value,
            updated_at = EXCLUDED.updated_at;
    `
	if _, err := s.db.Exec(ctx, query, key, value); err != nil {
		return apperrors.Storage("set "+key, err)
	}
	return nil
}

func (s *PgxStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM kv_entries WHERE key = $1`, key); err != nil {
		return apperrors.Storage("delete "+key, err)
	}
	return nil
}
