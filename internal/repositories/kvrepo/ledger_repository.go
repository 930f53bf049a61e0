package kvrepo

import (
	"context"
	"errors"

	"github.com/SscSPs/personal_ledger_app/internal/apperrors"
	"github.com/SscSPs/personal_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/personal_ledger_app/internal/core/ports/repositories"
)

// KVLedgerRepository keeps each account collection as one JSON array.
type KVLedgerRepository struct {
	BaseRepository
}

func newKVLedgerRepository(store portsrepo.KeyValueStore) *KVLedgerRepository {
	return &KVLedgerRepository{BaseRepository{Store: store}}
}

var _ portsrepo.LedgerRepositoryFacade = (*KVLedgerRepository)(nil)

func (r *KVLedgerRepository) FindTransactions(ctx context.Context, accountID string) ([]domain.Transaction, error) {
	transactions := []domain.Transaction{}
	if err := r.getJSON(ctx, portsrepo.TransactionsKey(accountID), &transactions); err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	if transactions == nil { // stored as null
		transactions = []domain.Transaction{}
	}
	return transactions, nil
}

func (r *KVLedgerRepository) SaveTransactions(ctx context.Context, accountID string, transactions []domain.Transaction) error {
	if transactions == nil {
		transactions = []domain.Transaction{}
	}
	return r.setJSON(ctx, portsrepo.TransactionsKey(accountID), transactions)
}

func (r *KVLedgerRepository) FindLoans(ctx context.Context, accountID string) ([]domain.LoanRecord, error) {
	loans := []domain.LoanRecord{}
	if err := r.getJSON(ctx, portsrepo.LoansKey(accountID), &loans); err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	if loans == nil {
		loans = []domain.LoanRecord{}
	}
	return loans, nil
}

func (r *KVLedgerRepository) SaveLoans(ctx context.Context, accountID string, loans []domain.LoanRecord) error {
	if loans == nil {
		loans = []domain.LoanRecord{}
	}
	return r.setJSON(ctx, portsrepo.LoansKey(accountID), loans)
}
