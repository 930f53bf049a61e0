package domain

import "github.com/shopspring/decimal"

// TransactionKind indicates whether a transaction is money coming in or going out.
type TransactionKind string

const (
	Income  TransactionKind = "income"
	Expense TransactionKind = "expense"
)

// Valid reports whether k is a known kind.
func (k TransactionKind) Valid() bool {
	return k == Income || k == Expense
}

// Transaction is a single income or expense entry in a Ledger.
type Transaction struct {
	ID          string          `json:"id" validate:"required"`
	Amount      decimal.Decimal `json:"amount"` // Positive value
	Category    string          `json:"category" validate:"required"`
	Description string          `json:"description,omitempty"`
	Date        Date            `json:"date"`
	Kind        TransactionKind `json:"type" validate:"oneof=income expense"`
	CreatedAt   Timestamp       `json:"timestamp"`
}
