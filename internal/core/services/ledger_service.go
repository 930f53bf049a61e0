package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/SscSPs/personal_ledger_app/internal/apperrors"
	"github.com/SscSPs/personal_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/personal_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/personal_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/personal_ledger_app/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerService owns the in-memory ledger of the active account. Every mutation
// holds mu across load, change and persist, so two mutations never interleave.
type LedgerService struct {
	BaseService
	ledgerRepo portsrepo.LedgerRepositoryFacade

	mu     sync.Mutex
	ledger *domain.Ledger // nil until Load
}

// NewLedgerService creates a LedgerService with nothing loaded.
func NewLedgerService(repo portsrepo.LedgerRepositoryFacade, options ...Option) *LedgerService {
	svc := &LedgerService{ledgerRepo: repo}
	applyOptions(&svc.BaseService, options)
	return svc
}

var (
	_ portssvc.LedgerSvcFacade = (*LedgerService)(nil)
	_ portssvc.LedgerLoaderSvc = (*LedgerService)(nil)
)

// Load reads both collections of accountID and makes them the active ledger.
func (s *LedgerService) Load(ctx context.Context, accountID string) (*domain.Ledger, error) {
	transactions, err := s.ledgerRepo.FindTransactions(ctx, accountID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load transactions", slog.String("account_id", accountID))
		return nil, err
	}
	loans, err := s.ledgerRepo.FindLoans(ctx, accountID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load loans", slog.String("account_id", accountID))
		return nil, err
	}

	ledger := domain.NewLedger(accountID)
	ledger.Transactions = append(ledger.Transactions, transactions...)
	ledger.Loans = append(ledger.Loans, loans...)

	s.mu.Lock()
	s.ledger = ledger
	s.mu.Unlock()

	s.LogDebug(ctx, "Ledger loaded",
		slog.String("account_id", accountID),
		slog.Int("transactions", len(transactions)),
		slog.Int("loans", len(loans)))
	return ledger.Clone(), nil
}

// Unload discards the in-memory ledger.
func (s *LedgerService) Unload() {
	s.mu.Lock()
	s.ledger = nil
	s.mu.Unlock()
}

// active returns the loaded ledger. Callers must hold mu.
func (s *LedgerService) active() (*domain.Ledger, error) {
	if s.ledger == nil {
		return nil, apperrors.ErrUnauthenticated
	}
	return s.ledger, nil
}

func (s *LedgerService) Ledger(ctx context.Context) (*domain.Ledger, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ledger, err := s.active()
	if err != nil {
		return nil, err
	}
	return ledger.Clone(), nil
}

func (s *LedgerService) GetFiltered(ctx context.Context, period domain.Period) (*domain.LedgerView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ledger, err := s.active()
	if err != nil {
		return nil, err
	}
	view := domain.Summarize(ledger, period, s.Now())
	return &view, nil
}

func (s *LedgerService) AddTransaction(ctx context.Context, req dto.AddTransactionRequest) (*domain.Transaction, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	amount, date, err := s.entryFields(req.Amount, req.Date)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	ledger, err := s.active()
	if err != nil {
		return nil, err
	}

	txn := domain.Transaction{
		ID:          uuid.NewString(),
		Amount:      amount,
		Category:    req.Category,
		Description: req.Description,
		Date:        date,
		Kind:        req.Kind,
		CreatedAt:   domain.NewTimestamp(s.Now()),
	}
	updated := make([]domain.Transaction, 0, len(ledger.Transactions)+1)
	updated = append(append(updated, ledger.Transactions...), txn)

	if err := s.ledgerRepo.SaveTransactions(ctx, ledger.AccountID, updated); err != nil {
		s.LogError(ctx, err, "Failed to persist transactions", slog.String("account_id", ledger.AccountID))
		return nil, err
	}
	ledger.Transactions = updated

	s.LogInfo(ctx, "Transaction added",
		slog.String("transaction_id", txn.ID),
		slog.String("kind", string(txn.Kind)))
	return &txn, nil
}

func (s *LedgerService) AddLoan(ctx context.Context, req dto.AddLoanRequest) (*domain.LoanRecord, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	amount, date, err := s.entryFields(req.Amount, req.Date)
	if err != nil {
		return nil, err
	}
	direction := req.Direction
	if direction == "" {
		direction = domain.Lend
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	ledger, err := s.active()
	if err != nil {
		return nil, err
	}

	loan := domain.LoanRecord{
		ID:               uuid.NewString(),
		Amount:           amount,
		CounterpartyName: req.CounterpartyName,
		Description:      req.Description,
		Date:             date,
		Direction:        direction,
		Status:           domain.LoanPending,
		CreatedAt:        domain.NewTimestamp(s.Now()),
	}
	updated := make([]domain.LoanRecord, 0, len(ledger.Loans)+1)
	updated = append(append(updated, ledger.Loans...), loan)

	if err := s.ledgerRepo.SaveLoans(ctx, ledger.AccountID, updated); err != nil {
		s.LogError(ctx, err, "Failed to persist loans", slog.String("account_id", ledger.AccountID))
		return nil, err
	}
	ledger.Loans = updated

	s.LogInfo(ctx, "Loan added",
		slog.String("loan_id", loan.ID),
		slog.String("direction", string(loan.Direction)))
	return &loan, nil
}

// MarkLoanPaid settles a loan. Marking an already paid loan succeeds without writing.
func (s *LedgerService) MarkLoanPaid(ctx context.Context, loanID string) (*domain.LoanRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ledger, err := s.active()
	if err != nil {
		return nil, err
	}

	idx := ledger.LoanIndex(loanID)
	if idx < 0 {
		return nil, fmt.Errorf("loan %s: %w", loanID, apperrors.ErrNotFound)
	}
	if ledger.Loans[idx].Status == domain.LoanPaid {
		loan := ledger.Loans[idx]
		return &loan, nil
	}

	updated := make([]domain.LoanRecord, len(ledger.Loans))
	copy(updated, ledger.Loans)
	updated[idx].Status = domain.LoanPaid

	if err := s.ledgerRepo.SaveLoans(ctx, ledger.AccountID, updated); err != nil {
		s.LogError(ctx, err, "Failed to persist loans", slog.String("account_id", ledger.AccountID))
		return nil, err
	}
	ledger.Loans = updated

	s.LogInfo(ctx, "Loan marked paid", slog.String("loan_id", loanID))
	loan := updated[idx]
	return &loan, nil
}

func (s *LedgerService) DeleteTransaction(ctx context.Context, transactionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ledger, err := s.active()
	if err != nil {
		return err
	}

	idx := ledger.TransactionIndex(transactionID)
	if idx < 0 {
		return fmt.Errorf("transaction %s: %w", transactionID, apperrors.ErrNotFound)
	}
	updated := make([]domain.Transaction, 0, len(ledger.Transactions)-1)
	updated = append(append(updated, ledger.Transactions[:idx]...), ledger.Transactions[idx+1:]...)

	if err := s.ledgerRepo.SaveTransactions(ctx, ledger.AccountID, updated); err != nil {
		s.LogError(ctx, err, "Failed to persist transactions", slog.String("account_id", ledger.AccountID))
		return err
	}
	ledger.Transactions = updated

	s.LogInfo(ctx, "Transaction deleted", slog.String("transaction_id", transactionID))
	return nil
}

func (s *LedgerService) DeleteLoan(ctx context.Context, loanID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ledger, err := s.active()
	if err != nil {
		return err
	}

	idx := ledger.LoanIndex(loanID)
	if idx < 0 {
		return fmt.Errorf("loan %s: %w", loanID, apperrors.ErrNotFound)
	}
	updated := make([]domain.LoanRecord, 0, len(ledger.Loans)-1)
	updated = append(append(updated, ledger.Loans[:idx]...), ledger.Loans[idx+1:]...)

	if err := s.ledgerRepo.SaveLoans(ctx, ledger.AccountID, updated); err != nil {
		s.LogError(ctx, err, "Failed to persist loans", slog.String("account_id", ledger.AccountID))
		return err
	}
	ledger.Loans = updated

	s.LogInfo(ctx, "Loan deleted", slog.String("loan_id", loanID))
	return nil
}

// Replace overwrites both collections. If the second write fails the first is
// rolled back so the store never holds half of a replacement.
func (s *LedgerService) Replace(ctx context.Context, transactions []domain.Transaction, loans []domain.LoanRecord) (*domain.Ledger, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ledger, err := s.active()
	if err != nil {
		return nil, err
	}

	replacement := domain.NewLedger(ledger.AccountID)
	replacement.Transactions = append(replacement.Transactions, transactions...)
	replacement.Loans = append(replacement.Loans, loans...)

	if err := s.ledgerRepo.SaveTransactions(ctx, ledger.AccountID, replacement.Transactions); err != nil {
		s.LogError(ctx, err, "Failed to persist replacement transactions", slog.String("account_id", ledger.AccountID))
		return nil, err
	}
	if err := s.ledgerRepo.SaveLoans(ctx, ledger.AccountID, replacement.Loans); err != nil {
		s.LogError(ctx, err, "Failed to persist replacement loans", slog.String("account_id", ledger.AccountID))
		if rbErr := s.ledgerRepo.SaveTransactions(ctx, ledger.AccountID, ledger.Transactions); rbErr != nil {
			s.LogError(ctx, rbErr, "Failed to restore transactions after aborted replace", slog.String("account_id", ledger.AccountID))
		}
		return nil, err
	}
	s.ledger = replacement

	s.LogInfo(ctx, "Ledger replaced",
		slog.String("account_id", ledger.AccountID),
		slog.Int("transactions", len(replacement.Transactions)),
		slog.Int("loans", len(replacement.Loans)))
	return replacement.Clone(), nil
}

// entryFields checks the amount and resolves the entry date, defaulting to today.
func (s *LedgerService) entryFields(amount *decimal.Decimal, date string) (decimal.Decimal, domain.Date, error) {
	if amount == nil {
		return decimal.Zero, domain.Date{}, fmt.Errorf("%w: amount", apperrors.ErrMissingField)
	}
	if !amount.IsPositive() {
		return decimal.Zero, domain.Date{}, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}
	if date == "" {
		return *amount, domain.DateOf(s.Now()), nil
	}
	d, err := domain.ParseDate(date)
	if err != nil {
		return decimal.Zero, domain.Date{}, fmt.Errorf("%w: date: %v", apperrors.ErrValidation, err)
	}
	return *amount, d, nil
}
