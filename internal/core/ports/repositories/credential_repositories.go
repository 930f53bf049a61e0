package repositories

import (
	"context"

	"github.com/SscSPs/personal_ledger_app/internal/core/domain"
)

// CredentialReader defines read operations for stored credentials
type CredentialReader interface {
	// FindCredential retrieves the credential for identifier, or apperrors.ErrNotFound.
	FindCredential(ctx context.Context, identifier string) (*domain.Credential, error)
}

// CredentialWriter defines write operations for stored credentials
type CredentialWriter interface {
	// SaveCredential persists a credential under its identifier.
	SaveCredential(ctx context.Context, credential domain.Credential) error
}

// CredentialRepositoryFacade combines all credential repository interfaces
type CredentialRepositoryFacade interface {
	CredentialReader
	CredentialWriter
}
