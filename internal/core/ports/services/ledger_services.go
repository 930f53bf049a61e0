package services

import (
	"context"

	"github.com/SscSPs/personal_ledger_app/internal/core/domain"
	"github.com/SscSPs/personal_ledger_app/internal/dto"
)

// LedgerLoaderSvc binds the ledger to an account. Only the session manager holds it,
// so nothing above the core can address another account's ledger.
type LedgerLoaderSvc interface {
	Load(ctx context.Context, accountID string) (*domain.Ledger, error)
	Unload()
}

// LedgerReaderSvc defines read operations on the loaded ledger
type LedgerReaderSvc interface {
	// Ledger returns a copy of the loaded ledger.
	Ledger(ctx context.Context) (*domain.Ledger, error)

	// GetFiltered derives totals for period as of the current wall clock.
	GetFiltered(ctx context.Context, period domain.Period) (*domain.LedgerView, error)
}

// LedgerWriterSvc defines mutations on the loaded ledger. Each one persists before returning.
type LedgerWriterSvc interface {
	AddTransaction(ctx context.Context, req dto.AddTransactionRequest) (*domain.Transaction, error)
	AddLoan(ctx context.Context, req dto.AddLoanRequest) (*domain.LoanRecord, error)
	MarkLoanPaid(ctx context.Context, loanID string) (*domain.LoanRecord, error)
	DeleteTransaction(ctx context.Context, transactionID string) error
	DeleteLoan(ctx context.Context, loanID string) error

	// Replace swaps the whole ledger content for the given entries.
	Replace(ctx context.Context, transactions []domain.Transaction, loans []domain.LoanRecord) (*domain.Ledger, error)
}

// LedgerSvcFacade is what the presentation layer sees of the ledger.
type LedgerSvcFacade interface {
	LedgerReaderSvc
	LedgerWriterSvc
}
