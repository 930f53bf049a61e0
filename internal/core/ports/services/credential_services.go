package services

import (
	"context"

	"github.com/SscSPs/personal_ledger_app/internal/core/domain"
	"github.com/SscSPs/personal_ledger_app/internal/dto"
)

// CredentialRegistrarSvc defines account creation
type CredentialRegistrarSvc interface {
	// Register creates an account and makes it the active session account.
	Register(ctx context.Context, req dto.RegisterRequest) (*domain.Account, error)
}

// CredentialAuthSvc defines operations for account authentication
type CredentialAuthSvc interface {
	// Authenticate verifies the secret and makes the account the active session account.
	Authenticate(ctx context.Context, req dto.LoginRequest) (*domain.Account, error)

	// SocialLogin is a placeholder for federated sign-in. It always fails with apperrors.ErrNotImplemented.
	SocialLogin(ctx context.Context, provider string) (*domain.Account, error)
}

// CredentialSvcFacade combines all credential service interfaces
type CredentialSvcFacade interface {
	CredentialRegistrarSvc
	CredentialAuthSvc
}
