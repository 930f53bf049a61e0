package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/personal_ledger_app/internal/apperrors"
	"github.com/SscSPs/personal_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/personal_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/personal_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/personal_ledger_app/internal/dto"
	"github.com/SscSPs/personal_ledger_app/internal/utils"
)

// CredentialService is the account directory.
type CredentialService struct {
	BaseService
	credentialRepo portsrepo.CredentialRepositoryFacade
	session        portssvc.SessionSvcFacade
}

// NewCredentialService creates the account directory. Successful register and
// login calls start a session on session.
func NewCredentialService(repo portsrepo.CredentialRepositoryFacade, session portssvc.SessionSvcFacade, options ...Option) *CredentialService {
	svc := &CredentialService{credentialRepo: repo, session: session}
	applyOptions(&svc.BaseService, options)
	return svc
}

func (s *CredentialService) Register(ctx context.Context, req dto.RegisterRequest) (*domain.Account, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if s.session.Status().State != domain.Unauthenticated {
		return nil, apperrors.ErrAlreadyAuthenticated
	}

	_, err := s.credentialRepo.FindCredential(ctx, req.Identifier)
	switch {
	case err == nil:
		s.LogWarn(ctx, "Registration for existing account", slog.String("account_id", req.Identifier))
		return nil, apperrors.ErrDuplicateAccount
	case !errors.Is(err, apperrors.ErrNotFound):
		s.LogError(ctx, err, "Failed to look up account", slog.String("account_id", req.Identifier))
		return nil, err
	}

	hash, err := utils.HashPassword(req.Secret)
	if err != nil {
		s.LogError(ctx, err, "Failed to hash secret")
		return nil, fmt.Errorf("failed to hash secret: %w", err)
	}

	account := domain.Account{
		Identifier:  req.Identifier,
		DisplayName: req.DisplayName,
		CreatedAt:   domain.NewTimestamp(s.Now()),
	}
	if err := s.credentialRepo.SaveCredential(ctx, domain.Credential{Account: account, SecretHash: hash}); err != nil {
		s.LogError(ctx, err, "Failed to save account", slog.String("account_id", account.Identifier))
		return nil, err
	}

	if err := s.session.Start(ctx, account); err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Account registered", slog.String("account_id", account.Identifier))
	return &account, nil
}

func (s *CredentialService) Authenticate(ctx context.Context, req dto.LoginRequest) (*domain.Account, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	// Signing in again as the active account only re-checks the secret.
	status := s.session.Status()
	reauth := status.State == domain.Active && status.ActiveAccount != nil && status.ActiveAccount.Identifier == req.Identifier
	if status.State != domain.Unauthenticated && !reauth {
		return nil, apperrors.ErrAlreadyAuthenticated
	}

	credential, err := s.credentialRepo.FindCredential(ctx, req.Identifier)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrAccountNotFound
		}
		s.LogError(ctx, err, "Failed to look up account", slog.String("account_id", req.Identifier))
		return nil, err
	}

	if !s.secretMatches(credential, req.Secret) {
		s.LogWarn(ctx, "Invalid credential", slog.String("account_id", req.Identifier))
		return nil, apperrors.ErrInvalidCredential
	}
	if credential.SecretHash == "" {
		s.upgradeLegacyCredential(ctx, *credential, req.Secret)
	}

	if !reauth {
		if err := s.session.Start(ctx, credential.Account); err != nil {
			return nil, err
		}
	}

	s.LogInfo(ctx, "Account authenticated", slog.Bool("reauth", reauth), slog.String("account_id", credential.Identifier))
	account := credential.Account
	return &account, nil
}

func (s *CredentialService) SocialLogin(ctx context.Context, provider string) (*domain.Account, error) {
	s.LogInfo(ctx, "Social login requested", slog.String("provider", provider))
	return nil, fmt.Errorf("%s login: %w", provider, apperrors.ErrNotImplemented)
}

func (s *CredentialService) secretMatches(credential *domain.Credential, secret string) bool {
	if credential.SecretHash != "" {
		return utils.CheckPasswordHash(secret, credential.SecretHash)
	}
	if credential.LegacySecret == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(credential.LegacySecret), []byte(secret)) == 1
}

// upgradeLegacyCredential rewrites a plaintext record as a hashed one. Failure
// only costs another upgrade attempt on the next login.
func (s *CredentialService) upgradeLegacyCredential(ctx context.Context, credential domain.Credential, secret string) {
	hash, err := utils.HashPassword(secret)
	if err != nil {
		s.LogError(ctx, err, "Failed to hash legacy secret", slog.String("account_id", credential.Identifier))
		return
	}
	credential.SecretHash = hash
	credential.LegacySecret = ""
	if err := s.credentialRepo.SaveCredential(ctx, credential); err != nil {
		s.LogError(ctx, err, "Failed to upgrade legacy credential", slog.String("account_id", credential.Identifier))
		return
	}
	s.LogInfo(ctx, "Legacy credential upgraded", slog.String("account_id", credential.Identifier))
}
