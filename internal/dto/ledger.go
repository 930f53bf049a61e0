package dto

import (
	"github.com/SscSPs/personal_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AddTransactionRequest defines the input for recording income or an expense.
type AddTransactionRequest struct {
	Amount      *decimal.Decimal       `json:"amount" validate:"required"`
	Category    string                 `json:"category" validate:"required"`
	Description string                 `json:"description"`
	Date        string                 `json:"date" validate:"omitempty,datetime=2006-01-02"` // Defaults to today
	Kind        domain.TransactionKind `json:"type" validate:"required,oneof=income expense"`
}

// AddLoanRequest defines the input for recording a loan.
type AddLoanRequest struct {
	Amount           *decimal.Decimal     `json:"amount" validate:"required"`
	CounterpartyName string               `json:"personName" validate:"required"`
	Description      string               `json:"description"`
	Date             string               `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Direction        domain.LoanDirection `json:"type" validate:"omitempty,oneof=lend borrow"` // Defaults to lend
}

// ListTransactionsResponse wraps the transactions of the active ledger.
type ListTransactionsResponse struct {
	Transactions []domain.Transaction `json:"transactions"`
}

// ListLoansResponse wraps the loans of the active ledger.
type ListLoansResponse struct {
	Loans []domain.LoanRecord `json:"loans"`
}
