package services

import (
	portsrepo "github.com/SscSPs/personal_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/personal_ledger_app/internal/core/ports/services"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(repos portsrepo.RepositoryProvider, options ...Option) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// The ledger is only reachable for loading through the session, which
	// decides whose ledger is open.
	ledger := NewLedgerService(repos.LedgerRepo, options...)
	container.Ledger = ledger

	session := NewSessionService(repos.SessionRepo, ledger, options...)
	container.Session = session

	container.Credential = NewCredentialService(repos.CredentialRepo, session, options...)

	backupOptions := []BackupServiceOption{WithBackupBaseOptions(options...)}
	if repos.Archive != nil {
		backupOptions = append(backupOptions, WithArchive(repos.Archive))
	}
	container.Backup = NewBackupService(session, ledger, backupOptions...)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.CredentialSvcFacade = (*CredentialService)(nil)
	_ portssvc.SessionSvcFacade    = (*SessionService)(nil)
	_ portssvc.BackupSvcFacade     = (*BackupService)(nil)
)
