package domain

import "github.com/shopspring/decimal"

// LoanDirection tells whether money was lent to or borrowed from the counterparty.
type LoanDirection string

const (
	Lend   LoanDirection = "lend"
	Borrow LoanDirection = "borrow"
)

// Valid reports whether d is a known direction.
func (d LoanDirection) Valid() bool {
	return d == Lend || d == Borrow
}

// LoanStatus is the settlement state of a loan. It only moves from pending to paid.
type LoanStatus string

const (
	LoanPending LoanStatus = "pending"
	LoanPaid    LoanStatus = "paid"
)

// LoanRecord is a tracked IOU with a counterparty.
type LoanRecord struct {
	ID               string          `json:"id" validate:"required"`
	Amount           decimal.Decimal `json:"amount"`
	CounterpartyName string          `json:"personName" validate:"required"`
	Description      string          `json:"description,omitempty"`
	Date             Date            `json:"date"`
	Direction        LoanDirection   `json:"type" validate:"oneof=lend borrow"`
	Status           LoanStatus      `json:"status" validate:"oneof=pending paid"`
	CreatedAt        Timestamp       `json:"timestamp"`
}

// IsPending reports whether the loan is still open.
func (l LoanRecord) IsPending() bool {
	return l.Status == LoanPending
}
