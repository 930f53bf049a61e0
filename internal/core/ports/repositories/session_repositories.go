package repositories

import (
	"context"

	"github.com/SscSPs/personal_ledger_app/internal/core/domain"
)

// CurrentAccountStore persists which account is signed in on this device.
type CurrentAccountStore interface {
	// FindCurrentAccount returns the signed-in account, or apperrors.ErrNotFound.
	FindCurrentAccount(ctx context.Context) (*domain.Account, error)
	SaveCurrentAccount(ctx context.Context, account domain.Account) error
	ClearCurrentAccount(ctx context.Context) error
}

// PinStore persists the device PIN hash.
type PinStore interface {
	// FindPinHash returns the stored PIN hash, or apperrors.ErrNotFound.
	FindPinHash(ctx context.Context) (string, error)
	SavePinHash(ctx context.Context, hash string) error
	ClearPin(ctx context.Context) error
}

// SessionRepositoryFacade combines the session persistence interfaces
type SessionRepositoryFacade interface {
	CurrentAccountStore
	PinStore
}
