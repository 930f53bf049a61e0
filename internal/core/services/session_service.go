package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/SscSPs/personal_ledger_app/internal/apperrors"
	"github.com/SscSPs/personal_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/personal_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/personal_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/personal_ledger_app/internal/dto"
	"github.com/SscSPs/personal_ledger_app/internal/utils"
)

// SessionService tracks the signed-in account and the PIN gate.
//
// States: Unauthenticated -> Active on Start; Restore yields AwaitingUnlock
// instead of Active when a PIN is stored; VerifyPin or RemovePin open the gate.
type SessionService struct {
	BaseService
	sessionRepo portsrepo.SessionRepositoryFacade
	ledger      portssvc.LedgerLoaderSvc

	mu      sync.Mutex
	state   domain.SessionState
	lock    domain.LockState
	pinHash string
	account *domain.Account
}

// NewSessionService creates an Unauthenticated session. Call Restore at process start.
func NewSessionService(repo portsrepo.SessionRepositoryFacade, ledger portssvc.LedgerLoaderSvc, options ...Option) *SessionService {
	svc := &SessionService{
		sessionRepo: repo,
		ledger:      ledger,
		state:       domain.Unauthenticated,
		lock:        domain.NoLock,
	}
	applyOptions(&svc.BaseService, options)
	return svc
}

var _ portssvc.SessionSvcFacade = (*SessionService)(nil)

func (s *SessionService) Status() domain.SessionStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statusLocked()
}

func (s *SessionService) statusLocked() domain.SessionStatus {
	status := domain.SessionStatus{State: s.state, Lock: s.lock}
	if s.account != nil {
		account := *s.account
		status.ActiveAccount = &account
	}
	return status
}

func (s *SessionService) ActiveAccount() (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case domain.Unauthenticated:
		return nil, apperrors.ErrUnauthenticated
	case domain.AwaitingUnlock:
		return nil, apperrors.ErrLocked
	}
	account := *s.account
	return &account, nil
}

// Restore reads the persisted account and PIN. Missing records mean a first run.
func (s *SessionService) Restore(ctx context.Context) (domain.SessionStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, err := s.sessionRepo.FindCurrentAccount(ctx)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to read current account")
		return s.statusLocked(), err
	}
	pinHash, err := s.sessionRepo.FindPinHash(ctx)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to read PIN record")
		return s.statusLocked(), err
	}

	lock := domain.NoLock
	if pinHash != "" {
		lock = domain.HasLock
	}

	switch {
	case account == nil:
		s.state = domain.Unauthenticated
	case lock == domain.HasLock:
		s.state = domain.AwaitingUnlock
	default:
		if _, err := s.ledger.Load(ctx, account.Identifier); err != nil {
			return s.statusLocked(), err
		}
		s.state = domain.Active
	}
	s.account = account
	s.lock = lock
	s.pinHash = pinHash

	s.LogInfo(ctx, "Session restored",
		slog.String("state", string(s.state)),
		slog.String("lock", string(s.lock)))
	return s.statusLocked(), nil
}

// Start opens an Active session for account and loads its ledger.
func (s *SessionService) Start(ctx context.Context, account domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != domain.Unauthenticated {
		return apperrors.ErrAlreadyAuthenticated
	}

	if _, err := s.ledger.Load(ctx, account.Identifier); err != nil {
		return err
	}
	if err := s.sessionRepo.SaveCurrentAccount(ctx, account); err != nil {
		s.ledger.Unload()
		s.LogError(ctx, err, "Failed to persist current account", slog.String("account_id", account.Identifier))
		return err
	}
	s.account = &account
	s.state = domain.Active

	s.LogInfo(ctx, "Session started", slog.String("account_id", account.Identifier))
	return nil
}

// Logout ends the session. Logging out of an Unauthenticated session is a no-op.
func (s *SessionService) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == domain.Unauthenticated {
		return nil
	}

	if err := s.sessionRepo.ClearCurrentAccount(ctx); err != nil {
		s.LogError(ctx, err, "Failed to clear current account")
		return err
	}
	s.ledger.Unload()

	accountID := s.account.Identifier
	s.account = nil
	s.state = domain.Unauthenticated

	s.LogInfo(ctx, "Session ended", slog.String("account_id", accountID))
	return nil
}

// SetPin registers a device PIN. It needs an Active session.
func (s *SessionService) SetPin(ctx context.Context, req dto.SetPinRequest) error {
	if !validPin(req.Pin) || !validPin(req.ConfirmPin) {
		return apperrors.ErrInvalidPin
	}
	if req.Pin != req.ConfirmPin {
		return apperrors.ErrPinMismatch
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireStateLocked(domain.Active); err != nil {
		return err
	}

	hash, err := utils.HashPassword(req.Pin)
	if err != nil {
		s.LogError(ctx, err, "Failed to hash PIN")
		return fmt.Errorf("failed to hash pin: %w", err)
	}
	if err := s.sessionRepo.SavePinHash(ctx, hash); err != nil {
		s.LogError(ctx, err, "Failed to persist PIN")
		return err
	}
	s.pinHash = hash
	s.lock = domain.HasLock

	s.LogInfo(ctx, "PIN lock registered")
	return nil
}

// RemovePin clears the device PIN. A session waiting for the PIN becomes Active.
func (s *SessionService) RemovePin(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == domain.Unauthenticated {
		return apperrors.ErrUnauthenticated
	}

	unlocking := s.state == domain.AwaitingUnlock
	if unlocking {
		if _, err := s.ledger.Load(ctx, s.account.Identifier); err != nil {
			return err
		}
	}
	if err := s.sessionRepo.ClearPin(ctx); err != nil {
		if unlocking {
			s.ledger.Unload()
		}
		s.LogError(ctx, err, "Failed to clear PIN")
		return err
	}
	s.pinHash = ""
	s.lock = domain.NoLock
	if unlocking {
		s.state = domain.Active
	}

	s.LogInfo(ctx, "PIN lock removed", slog.Bool("unlocked", unlocking))
	return nil
}

// VerifyPin opens a session waiting for its PIN. There is no lockout; a wrong
// candidate is discarded and the session stays locked. An open session is
// rejected with ErrNotLocked so that no candidate is ever accepted unchecked.
func (s *SessionService) VerifyPin(ctx context.Context, req dto.VerifyPinRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case domain.Unauthenticated:
		return apperrors.ErrUnauthenticated
	case domain.Active:
		return apperrors.ErrNotLocked
	}

	if !pinMatches(s.pinHash, req.Pin) {
		s.LogWarn(ctx, "Wrong PIN entered", slog.String("account_id", s.account.Identifier))
		return apperrors.ErrWrongPin
	}
	if _, err := s.ledger.Load(ctx, s.account.Identifier); err != nil {
		return err
	}
	s.state = domain.Active

	s.LogInfo(ctx, "Session unlocked", slog.String("account_id", s.account.Identifier))
	return nil
}

func (s *SessionService) requireStateLocked(want domain.SessionState) error {
	if s.state == want {
		return nil
	}
	if s.state == domain.AwaitingUnlock {
		return apperrors.ErrLocked
	}
	return apperrors.ErrUnauthenticated
}

// pinMatches compares candidate with the stored record. Records written before
// hashing hold the four digits themselves.
func pinMatches(stored, candidate string) bool {
	if validPin(stored) {
		return subtle.ConstantTimeCompare([]byte(stored), []byte(candidate)) == 1
	}
	return utils.CheckPasswordHash(candidate, stored)
}

func validPin(pin string) bool {
	return validate.Var(pin, "len=4,number") == nil
}
