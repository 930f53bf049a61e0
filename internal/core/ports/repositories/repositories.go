package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	CredentialRepo CredentialRepositoryFacade
	SessionRepo    SessionRepositoryFacade
	LedgerRepo     LedgerRepositoryFacade
	Archive        BackupArchive // Optional
}
