package kvrepo

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/SscSPs/personal_ledger_app/internal/apperrors"
	portsrepo "github.com/SscSPs/personal_ledger_app/internal/core/ports/repositories"
)

// BaseRepository provides JSON record access on top of a KeyValueStore
type BaseRepository struct {
	Store portsrepo.KeyValueStore
}

// getJSON decodes the record under key into dst. A missing key is returned as
// apperrors.ErrNotFound; every other failure as apperrors.ErrStorageFailure.
func (r *BaseRepository) getJSON(ctx context.Context, key string, dst any) error {
	raw, err := r.Store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) || errors.Is(err, apperrors.ErrStorageFailure) {
			return err
		}
		return apperrors.Storage("get "+key, err)
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return apperrors.Storage("decode "+key, err)
	}
	return nil
}

func (r *BaseRepository) setJSON(ctx context.Context, key string, src any) error {
	raw, err := json.Marshal(src)
	if err != nil {
		return apperrors.Storage("encode "+key, err)
	}
	return r.set(ctx, key, string(raw))
}

func (r *BaseRepository) set(ctx context.Context, key, value string) error {
	if err := r.Store.Set(ctx, key, value); err != nil {
		if errors.Is(err, apperrors.ErrStorageFailure) {
			return err
		}
		return apperrors.Storage("set "+key, err)
	}
	return nil
}

func (r *BaseRepository) delete(ctx context.Context, key string) error {
	if err := r.Store.Delete(ctx, key); err != nil {
		if errors.Is(err, apperrors.ErrStorageFailure) {
			return err
		}
		return apperrors.Storage("delete "+key, err)
	}
	return nil
}
