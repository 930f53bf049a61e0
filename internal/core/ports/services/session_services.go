package services

import (
	"context"

	"github.com/SscSPs/personal_ledger_app/internal/core/domain"
	"github.com/SscSPs/personal_ledger_app/internal/dto"
)

// SessionReaderSvc exposes the current session.
type SessionReaderSvc interface {
	Status() domain.SessionStatus

	// ActiveAccount returns the account of an Active session. It fails with
	// apperrors.ErrUnauthenticated or apperrors.ErrLocked otherwise.
	ActiveAccount() (*domain.Account, error)
}

// SessionLifecycleSvc moves the session between its states.
type SessionLifecycleSvc interface {
	// Restore rebuilds the session from persisted records at process start.
	Restore(ctx context.Context) (domain.SessionStatus, error)

	// Start activates account after a successful login or registration.
	// A stored PIN is not enforced here; the lock only applies on Restore.
	Start(ctx context.Context, account domain.Account) error

	// Logout forgets the active account and discards its ledger.
	Logout(ctx context.Context) error
}

// PinLockSvc manages the device PIN gate.
type PinLockSvc interface {
	SetPin(ctx context.Context, req dto.SetPinRequest) error
	RemovePin(ctx context.Context) error
	VerifyPin(ctx context.Context, req dto.VerifyPinRequest) error
}

// SessionSvcFacade combines all session service interfaces
type SessionSvcFacade interface {
	SessionReaderSvc
	SessionLifecycleSvc
	PinLockSvc
}
