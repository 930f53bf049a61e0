package repositories

import (
	"context"

	"github.com/SscSPs/personal_ledger_app/internal/core/domain"
)

// LedgerReader loads account-scoped collections. Missing collections are returned empty.
type LedgerReader interface {
	FindTransactions(ctx context.Context, accountID string) ([]domain.Transaction, error)
	FindLoans(ctx context.Context, accountID string) ([]domain.LoanRecord, error)
}

// LedgerWriter replaces whole account-scoped collections.
type LedgerWriter interface {
	SaveTransactions(ctx context.Context, accountID string, transactions []domain.Transaction) error
	SaveLoans(ctx context.Context, accountID string, loans []domain.LoanRecord) error
}

// LedgerRepositoryFacade combines all ledger repository interfaces
type LedgerRepositoryFacade interface {
	LedgerReader
	LedgerWriter
}
