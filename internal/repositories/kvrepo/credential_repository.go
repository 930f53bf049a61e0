package kvrepo

import (
	"context"

	"github.com/SscSPs/personal_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/personal_ledger_app/internal/core/ports/repositories"
)

// KVCredentialRepository stores one credential record per identifier.
type KVCredentialRepository struct {
	BaseRepository
}

func newKVCredentialRepository(store portsrepo.KeyValueStore) *KVCredentialRepository {
	return &KVCredentialRepository{BaseRepository{Store: store}}
}

var _ portsrepo.CredentialRepositoryFacade = (*KVCredentialRepository)(nil)

func (r *KVCredentialRepository) FindCredential(ctx context.Context, identifier string) (*domain.Credential, error) {
	var credential domain.Credential
	if err := r.getJSON(ctx, portsrepo.UserKey(identifier), &credential); err != nil {
		return nil, err
	}
	return &credential, nil
}

func (r *KVCredentialRepository) SaveCredential(ctx context.Context, credential domain.Credential) error {
	return r.setJSON(ctx, portsrepo.UserKey(credential.Identifier), credential)
}
