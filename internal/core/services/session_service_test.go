package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/SscSPs/personal_ledger_app/internal/apperrors"
	"github.com/SscSPs/personal_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/personal_ledger_app/internal/core/ports/repositories"
	"github.com/SscSPs/personal_ledger_app/internal/core/services"
	"github.com/SscSPs/personal_ledger_app/internal/dto"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockSessionRepository is a mock type for the SessionRepositoryFacade interface
type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) FindCurrentAccount(ctx context.Context) (*domain.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockSessionRepository) SaveCurrentAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockSessionRepository) ClearCurrentAccount(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockSessionRepository) FindPinHash(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockSessionRepository) SavePinHash(ctx context.Context, hash string) error {
	args := m.Called(ctx, hash)
	return args.Error(0)
}

func (m *MockSessionRepository) ClearPin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type SessionServiceTestSuite struct {
	serviceSuite
}

func TestSessionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SessionServiceTestSuite))
}

func (s *SessionServiceTestSuite) TestRestore_FirstRun() {
	status := s.boot()
	s.Equal(domain.Unauthenticated, status.State)
	s.Equal(domain.NoLock, status.Lock)
	s.Nil(status.ActiveAccount)

	_, err := s.svc.Session.ActiveAccount()
	s.ErrorIs(err, apperrors.ErrUnauthenticated)
	_, err = s.svc.Ledger.Ledger(s.ctx)
	s.ErrorIs(err, apperrors.ErrUnauthenticated)
}

func (s *SessionServiceTestSuite) TestRestore_ActiveWithoutPin() {
	s.register("ana@example.com", "secret1")
	s.addIncome("100", "Salary")

	status := s.boot()
	s.Equal(domain.Active, status.State)
	s.Equal(domain.NoLock, status.Lock)
	s.Require().NotNil(status.ActiveAccount)
	s.Equal("ana@example.com", status.ActiveAccount.Identifier)

	ledger, err := s.svc.Ledger.Ledger(s.ctx)
	s.Require().NoError(err)
	s.Len(ledger.Transactions, 1)
}

func (s *SessionServiceTestSuite) TestPinLifecycle() {
	s.register("ana@example.com", "secret1")
	s.addIncome("100", "Salary")
	s.Require().NoError(s.svc.Session.SetPin(s.ctx, dto.SetPinRequest{Pin: "1234", ConfirmPin: "1234"}))

	// The lock only applies from the next start.
	s.Equal(domain.Active, s.svc.Session.Status().State)
	s.Equal(domain.HasLock, s.svc.Session.Status().Lock)

	raw, err := s.store.Get(s.ctx, portsrepo.AppPinKey)
	s.Require().NoError(err)
	s.NotEqual("1234", raw)

	status := s.boot()
	s.Equal(domain.AwaitingUnlock, status.State)
	s.Equal(domain.HasLock, status.Lock)
	_, err = s.svc.Session.ActiveAccount()
	s.ErrorIs(err, apperrors.ErrLocked)
	_, err = s.svc.Ledger.Ledger(s.ctx)
	s.ErrorIs(err, apperrors.ErrUnauthenticated)

	err = s.svc.Session.VerifyPin(s.ctx, dto.VerifyPinRequest{Pin: "0000"})
	s.ErrorIs(err, apperrors.ErrWrongPin)
	s.Equal(domain.AwaitingUnlock, s.svc.Session.Status().State)

	s.Require().NoError(s.svc.Session.VerifyPin(s.ctx, dto.VerifyPinRequest{Pin: "1234"}))
	s.Equal(domain.Active, s.svc.Session.Status().State)
	ledger, err := s.svc.Ledger.Ledger(s.ctx)
	s.Require().NoError(err)
	s.Len(ledger.Transactions, 1)

	// An open session does not take PIN candidates.
	err = s.svc.Session.VerifyPin(s.ctx, dto.VerifyPinRequest{Pin: "9999"})
	s.ErrorIs(err, apperrors.ErrNotLocked)
	s.Equal(domain.Active, s.svc.Session.Status().State)
}

func (s *SessionServiceTestSuite) TestSetPin_Validation() {
	s.register("ana@example.com", "secret1")

	cases := []struct {
		name string
		req  dto.SetPinRequest
		err  error
	}{
		{"too short", dto.SetPinRequest{Pin: "123", ConfirmPin: "123"}, apperrors.ErrInvalidPin},
		{"letters", dto.SetPinRequest{Pin: "12a4", ConfirmPin: "12a4"}, apperrors.ErrInvalidPin},
		{"too long", dto.SetPinRequest{Pin: "12345", ConfirmPin: "12345"}, apperrors.ErrInvalidPin},
		{"bad confirmation shape", dto.SetPinRequest{Pin: "1234", ConfirmPin: "12"}, apperrors.ErrInvalidPin},
		{"mismatch", dto.SetPinRequest{Pin: "1234", ConfirmPin: "4321"}, apperrors.ErrPinMismatch},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			s.ErrorIs(s.svc.Session.SetPin(s.ctx, tc.req), tc.err)
		})
	}

	s.Equal(domain.NoLock, s.svc.Session.Status().Lock)
	_, err := s.store.Get(s.ctx, portsrepo.AppPinKey)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *SessionServiceTestSuite) TestSetPin_RequiresActiveSession() {
	err := s.svc.Session.SetPin(s.ctx, dto.SetPinRequest{Pin: "1234", ConfirmPin: "1234"})
	s.ErrorIs(err, apperrors.ErrUnauthenticated)
}

func (s *SessionServiceTestSuite) TestRemovePin_UnlocksWaitingSession() {
	s.register("ana@example.com", "secret1")
	s.Require().NoError(s.svc.Session.SetPin(s.ctx, dto.SetPinRequest{Pin: "1234", ConfirmPin: "1234"}))
	s.Equal(domain.AwaitingUnlock, s.boot().State)

	s.Require().NoError(s.svc.Session.RemovePin(s.ctx))
	s.Equal(domain.Active, s.svc.Session.Status().State)
	s.Equal(domain.NoLock, s.svc.Session.Status().Lock)

	s.Equal(domain.Active, s.boot().State)
}

func (s *SessionServiceTestSuite) TestRemovePin_Unauthenticated() {
	s.ErrorIs(s.svc.Session.RemovePin(s.ctx), apperrors.ErrUnauthenticated)
	s.ErrorIs(s.svc.Session.VerifyPin(s.ctx, dto.VerifyPinRequest{Pin: "1234"}), apperrors.ErrUnauthenticated)
}

func (s *SessionServiceTestSuite) TestLegacyPlainPin() {
	s.register("ana@example.com", "secret1")
	s.Require().NoError(s.store.Set(s.ctx, portsrepo.AppPinKey, "4321"))

	s.Equal(domain.AwaitingUnlock, s.boot().State)
	s.ErrorIs(s.svc.Session.VerifyPin(s.ctx, dto.VerifyPinRequest{Pin: "1234"}), apperrors.ErrWrongPin)
	s.NoError(s.svc.Session.VerifyPin(s.ctx, dto.VerifyPinRequest{Pin: "4321"}))
}

func (s *SessionServiceTestSuite) TestLogout() {
	s.register("ana@example.com", "secret1")
	s.Require().NoError(s.svc.Session.SetPin(s.ctx, dto.SetPinRequest{Pin: "1234", ConfirmPin: "1234"}))

	s.Require().NoError(s.svc.Session.Logout(s.ctx))
	s.Equal(domain.Unauthenticated, s.svc.Session.Status().State)
	_, err := s.svc.Ledger.Ledger(s.ctx)
	s.ErrorIs(err, apperrors.ErrUnauthenticated)
	_, err = s.store.Get(s.ctx, portsrepo.CurrentUserKey)
	s.ErrorIs(err, apperrors.ErrNotFound)

	// The PIN belongs to the device, not the account.
	status := s.boot()
	s.Equal(domain.Unauthenticated, status.State)
	s.Equal(domain.HasLock, status.Lock)

	s.NoError(s.svc.Session.Logout(s.ctx))
}

func (s *SessionServiceTestSuite) TestStart_AlreadyAuthenticated() {
	account := s.register("ana@example.com", "secret1")
	s.ErrorIs(s.svc.Session.Start(s.ctx, *account), apperrors.ErrAlreadyAuthenticated)
}

func (s *SessionServiceTestSuite) TestRestore_StoreFailure() {
	repo := new(MockSessionRepository)
	storeErr := apperrors.Storage("get currentUser", errors.New("disk on fire"))
	repo.On("FindCurrentAccount", mock.Anything).Return(nil, storeErr).Once()

	session := services.NewSessionService(repo, services.NewLedgerService(s.repos.LedgerRepo))
	status, err := session.Restore(s.ctx)
	s.ErrorIs(err, apperrors.ErrStorageFailure)
	s.Equal(domain.Unauthenticated, status.State)
	repo.AssertExpectations(s.T())
}

func (s *SessionServiceTestSuite) TestStart_PersistFailureLeavesSessionClosed() {
	repo := new(MockSessionRepository)
	ledger := services.NewLedgerService(s.repos.LedgerRepo)
	account := domain.Account{Identifier: "ana@example.com", DisplayName: "Ana"}
	repo.On("SaveCurrentAccount", mock.Anything, account).Return(apperrors.Storage("set currentUser", errors.New("read-only"))).Once()

	session := services.NewSessionService(repo, ledger)
	err := session.Start(s.ctx, account)
	s.ErrorIs(err, apperrors.ErrStorageFailure)
	s.Equal(domain.Unauthenticated, session.Status().State)
	_, err = ledger.Ledger(s.ctx)
	s.ErrorIs(err, apperrors.ErrUnauthenticated)
	repo.AssertExpectations(s.T())
}
