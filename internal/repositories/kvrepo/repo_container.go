package kvrepo

import (
	portsrepo "github.com/SscSPs/personal_ledger_app/internal/core/ports/repositories"
)

// NewRepositoryProvider builds every repository on top of store. archive may be nil.
func NewRepositoryProvider(store portsrepo.KeyValueStore, archive portsrepo.BackupArchive) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		CredentialRepo: newKVCredentialRepository(store),
		SessionRepo:    newKVSessionRepository(store),
		LedgerRepo:     newKVLedgerRepository(store),
		Archive:        archive,
	}
}
