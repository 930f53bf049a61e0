package dto

import (
	"time"

	"github.com/SscSPs/personal_ledger_app/internal/core/domain"
)

// RegisterRequest defines the data needed to create an account.
type RegisterRequest struct {
	Identifier  string `json:"email" validate:"required"`
	DisplayName string `json:"name" validate:"required"`
	Secret      string `json:"password" validate:"required,min=6"`
}

// LoginRequest defines the credentials for signing in.
type LoginRequest struct {
	Identifier string `json:"email" validate:"required"`
	Secret     string `json:"password" validate:"required"`
}

// AuthResponse is returned after a successful register or login.
type AuthResponse struct {
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expiresAt"`
	Account   domain.Account `json:"account"`
}

// SetPinRequest registers a device PIN.
type SetPinRequest struct {
	Pin        string `json:"pin"`
	ConfirmPin string `json:"confirmPin"`
}

// VerifyPinRequest unlocks a session awaiting its PIN.
type VerifyPinRequest struct {
	Pin string `json:"pin"`
}

// SessionStatusResponse is the public view of the session gate. It never
// names the account.
type SessionStatusResponse struct {
	State domain.SessionState `json:"state"`
	Lock  domain.LockState    `json:"lock"`
}
