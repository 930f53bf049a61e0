package domain

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Period selects which transactions a LedgerView covers.
type Period string

const (
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
	PeriodAll   Period = "all"
)

// ParsePeriod maps a user supplied string to a Period. An empty string means month.
func ParsePeriod(s string) (Period, error) {
	switch Period(s) {
	case "":
		return PeriodMonth, nil
	case PeriodMonth, PeriodYear, PeriodAll:
		return Period(s), nil
	}
	return "", fmt.Errorf("unknown period %q", s)
}

// Contains reports whether date falls in the period that includes now.
func (p Period) Contains(date Date, now time.Time) bool {
	switch p {
	case PeriodMonth:
		return date.Year() == now.Year() && date.Month() == now.Month()
	case PeriodYear:
		return date.Year() == now.Year()
	default:
		return true
	}
}

// RecentLimit is how many of the latest transactions a LedgerView carries.
const RecentLimit = 10

// CategoryTotal represents the expense total of one category.
type CategoryTotal struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

// LedgerView is a derived, never persisted, read of a Ledger.
type LedgerView struct {
	Period            Period          `json:"period"`
	Transactions      []Transaction   `json:"transactions"`
	Recent            []Transaction   `json:"recent"` // Newest first
	TotalIncome       decimal.Decimal `json:"totalIncome"`
	TotalExpense      decimal.Decimal `json:"totalExpense"`
	Balance           decimal.Decimal `json:"balance"`
	PendingToReceive  decimal.Decimal `json:"pendingToReceive"`
	PendingToPay      decimal.Decimal `json:"pendingToPay"`
	ExpenseByCategory []CategoryTotal `json:"expenseByCategory"`
	PendingLoans      []LoanRecord    `json:"pendingLoans"`
	PaidLoans         []LoanRecord    `json:"paidLoans"`
}

// Summarize builds the view of l for period as seen at now.
// Loan totals cover every pending loan regardless of period.
func Summarize(l *Ledger, period Period, now time.Time) LedgerView {
	view := LedgerView{
		Period:            period,
		Transactions:      []Transaction{},
		Recent:            []Transaction{},
		TotalIncome:       decimal.Zero,
		TotalExpense:      decimal.Zero,
		PendingToReceive:  decimal.Zero,
		PendingToPay:      decimal.Zero,
		ExpenseByCategory: []CategoryTotal{},
		PendingLoans:      []LoanRecord{},
		PaidLoans:         []LoanRecord{},
	}

	byCategory := make(map[string]decimal.Decimal)
	for _, t := range l.Transactions {
		if !period.Contains(t.Date, now) {
			continue
		}
		view.Transactions = append(view.Transactions, t)
		switch t.Kind {
		case Income:
			view.TotalIncome = view.TotalIncome.Add(t.Amount)
		case Expense:
			view.TotalExpense = view.TotalExpense.Add(t.Amount)
			byCategory[t.Category] = byCategory[t.Category].Add(t.Amount)
		}
	}
	view.Balance = view.TotalIncome.Sub(view.TotalExpense)

	for i := len(view.Transactions) - 1; i >= 0 && len(view.Recent) < RecentLimit; i-- {
		view.Recent = append(view.Recent, view.Transactions[i])
	}

	for category, amount := range byCategory {
		view.ExpenseByCategory = append(view.ExpenseByCategory, CategoryTotal{Category: category, Amount: amount})
	}
	sort.Slice(view.ExpenseByCategory, func(i, j int) bool {
		a, b := view.ExpenseByCategory[i], view.ExpenseByCategory[j]
		if c := a.Amount.Cmp(b.Amount); c != 0 {
			return c > 0
		}
		return a.Category < b.Category
	})

	for _, loan := range l.Loans {
		if !loan.IsPending() {
			view.PaidLoans = append(view.PaidLoans, loan)
			continue
		}
		view.PendingLoans = append(view.PendingLoans, loan)
		switch loan.Direction {
		case Lend:
			view.PendingToReceive = view.PendingToReceive.Add(loan.Amount)
		case Borrow:
			view.PendingToPay = view.PendingToPay.Add(loan.Amount)
		}
	}
	return view
}
