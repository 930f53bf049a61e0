package domain

// Ledger is the full set of entries owned by one account, in insertion order.
type Ledger struct {
	AccountID    string        `json:"-"`
	Transactions []Transaction `json:"transactions"`
	Loans        []LoanRecord  `json:"loans"`
}

// NewLedger returns an empty ledger for accountID with non-nil collections.
func NewLedger(accountID string) *Ledger {
	return &Ledger{
		AccountID:    accountID,
		Transactions: []Transaction{},
		Loans:        []LoanRecord{},
	}
}

// Clone returns a copy whose slices do not alias l.
func (l *Ledger) Clone() *Ledger {
	c := &Ledger{
		AccountID:    l.AccountID,
		Transactions: make([]Transaction, len(l.Transactions)),
		Loans:        make([]LoanRecord, len(l.Loans)),
	}
	copy(c.Transactions, l.Transactions)
	copy(c.Loans, l.Loans)
	return c
}

// TransactionIndex returns the position of the transaction with id, or -1.
func (l *Ledger) TransactionIndex(id string) int {
	for i := range l.Transactions {
		if l.Transactions[i].ID == id {
			return i
		}
	}
	return -1
}

// LoanIndex returns the position of the loan with id, or -1.
func (l *Ledger) LoanIndex(id string) int {
	for i := range l.Loans {
		if l.Loans[i].ID == id {
			return i
		}
	}
	return -1
}
