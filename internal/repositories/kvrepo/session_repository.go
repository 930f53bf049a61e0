package kvrepo

import (
	"context"
	"errors"

	"github.com/SscSPs/personal_ledger_app/internal/apperrors"
	"github.com/SscSPs/personal_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/personal_ledger_app/internal/core/ports/repositories"
)

// KVSessionRepository persists the signed-in account and the device PIN.
type KVSessionRepository struct {
	BaseRepository
}

func newKVSessionRepository(store portsrepo.KeyValueStore) *KVSessionRepository {
	return &KVSessionRepository{BaseRepository{Store: store}}
}

var _ portsrepo.SessionRepositoryFacade = (*KVSessionRepository)(nil)

func (r *KVSessionRepository) FindCurrentAccount(ctx context.Context) (*domain.Account, error) {
	var account domain.Account
	if err := r.getJSON(ctx, portsrepo.CurrentUserKey, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *KVSessionRepository) SaveCurrentAccount(ctx context.Context, account domain.Account) error {
	return r.setJSON(ctx, portsrepo.CurrentUserKey, account)
}

func (r *KVSessionRepository) ClearCurrentAccount(ctx context.Context) error {
	return r.delete(ctx, portsrepo.CurrentUserKey)
}

// FindPinHash returns the raw appPin value.
func (r *KVSessionRepository) FindPinHash(ctx context.Context) (string, error) {
	hash, err := r.Store.Get(ctx, portsrepo.AppPinKey)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) || errors.Is(err, apperrors.ErrStorageFailure) {
			return "", err
		}
		return "", apperrors.Storage("get "+portsrepo.AppPinKey, err)
	}
	return hash, nil
}

func (r *KVSessionRepository) SavePinHash(ctx context.Context, hash string) error {
	return r.set(ctx, portsrepo.AppPinKey, hash)
}

func (r *KVSessionRepository) ClearPin(ctx context.Context) error {
	return r.delete(ctx, portsrepo.AppPinKey)
}
