package services_test

import (
	"context"
	"time"

	"github.com/SscSPs/personal_ledger_app/internal/adapters/kvstore"
	"github.com/SscSPs/personal_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/personal_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/personal_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/personal_ledger_app/internal/core/services"
	"github.com/SscSPs/personal_ledger_app/internal/dto"
	"github.com/SscSPs/personal_ledger_app/internal/repositories/kvrepo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

var fixedNow = time.Date(2024, time.March, 15, 10, 30, 0, 0, time.UTC)

// serviceSuite wires the real services over an in-memory store. boot can be
// called again to simulate a process restart on the same store.
type serviceSuite struct {
	suite.Suite
	ctx     context.Context
	store   *kvstore.MemoryStore
	archive portsrepo.BackupArchive
	repos   portsrepo.RepositoryProvider
	svc     *portssvc.ServiceContainer
}

func (s *serviceSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = kvstore.NewMemoryStore()
	s.archive = nil
	s.boot()
}

func (s *serviceSuite) boot() domain.SessionStatus {
	s.repos = kvrepo.NewRepositoryProvider(s.store, s.archive)
	s.svc = services.NewServiceContainer(s.repos, services.WithClock(func() time.Time { return fixedNow }))
	status, err := s.svc.Session.Restore(s.ctx)
	s.Require().NoError(err)
	return status
}

func (s *serviceSuite) register(email, secret string) *domain.Account {
	account, err := s.svc.Credential.Register(s.ctx, dto.RegisterRequest{
		Identifier:  email,
		DisplayName: "Test User",
		Secret:      secret,
	})
	s.Require().NoError(err)
	return account
}

func (s *serviceSuite) addExpense(amount, category, date string) *domain.Transaction {
	value := decimal.RequireFromString(amount)
	txn, err := s.svc.Ledger.AddTransaction(s.ctx, dto.AddTransactionRequest{
		Amount:   &value,
		Category: category,
		Date:     date,
		Kind:     domain.Expense,
	})
	s.Require().NoError(err)
	return txn
}

func (s *serviceSuite) addIncome(amount, category string) *domain.Transaction {
	value := decimal.RequireFromString(amount)
	txn, err := s.svc.Ledger.AddTransaction(s.ctx, dto.AddTransactionRequest{
		Amount:   &value,
		Category: category,
		Kind:     domain.Income,
	})
	s.Require().NoError(err)
	return txn
}

func (s *serviceSuite) addLoan(amount, person string, direction domain.LoanDirection) *domain.LoanRecord {
	value := decimal.RequireFromString(amount)
	loan, err := s.svc.Ledger.AddLoan(s.ctx, dto.AddLoanRequest{
		Amount:           &value,
		CounterpartyName: person,
		Direction:        direction,
	})
	s.Require().NoError(err)
	return loan
}
