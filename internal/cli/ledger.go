package cli

import (
	"context"
	"flag"
	"fmt"
	"text/tabwriter"

	"github.com/SscSPs/personal_ledger_app/internal/core/domain"
	"github.com/SscSPs/personal_ledger_app/internal/dto"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

type addCmd struct {
	io          *ioEnv
	pin         string
	amount      string
	category    string
	description string
	date        string
	kind        string
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "record income or an expense" }
func (*addCmd) Usage() string {
	return `ledgerctl add -amount <amount> -category <category> [-type income|expense] [-d YYYY-MM-DD] [-desc <text>]
`
}

func (c *addCmd) SetFlags(f *flag.FlagSet) {
	pinFlag(f, &c.pin)
	f.StringVar(&c.amount, "amount", "", "positive amount")
	f.StringVar(&c.category, "category", "", "category name")
	f.StringVar(&c.description, "desc", "", "optional description")
	f.StringVar(&c.date, "d", "", "entry date (defaults to today)")
	f.StringVar(&c.kind, "type", string(domain.Expense), "income or expense")
}

func (c *addCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	amount, err := parseAmount(c.amount)
	if err != nil {
		return c.io.failf(subcommands.ExitUsageError, "%v", err)
	}
	a, err := c.io.open(ctx, c.pin)
	if err != nil {
		return c.io.failf(subcommands.ExitFailure, "%v", err)
	}
	defer a.close()

	txn, err := a.services.Ledger.AddTransaction(ctx, dto.AddTransactionRequest{
		Amount:      amount,
		Category:    c.category,
		Description: c.description,
		Date:        c.date,
		Kind:        domain.TransactionKind(c.kind),
	})
	if err != nil {
		return c.io.failf(subcommands.ExitFailure, "%v", err)
	}
	fmt.Fprintln(c.io.out, txn.ID)
	return subcommands.ExitSuccess
}

type loanCmd struct {
	io          *ioEnv
	pin         string
	amount      string
	person      string
	description string
	date        string
	direction   string
}

func (*loanCmd) Name() string     { return "loan" }
func (*loanCmd) Synopsis() string { return "record money lent or borrowed" }
func (*loanCmd) Usage() string {
	return `ledgerctl loan -amount <amount> -person <name> [-type lend|borrow] [-d YYYY-MM-DD] [-desc <text>]
`
}

func (c *loanCmd) SetFlags(f *flag.FlagSet) {
	pinFlag(f, &c.pin)
	f.StringVar(&c.amount, "amount", "", "positive amount")
	f.StringVar(&c.person, "person", "", "counterparty name")
	f.StringVar(&c.description, "desc", "", "optional description")
	f.StringVar(&c.date, "d", "", "loan date (defaults to today)")
	f.StringVar(&c.direction, "type", string(domain.Lend), "lend or borrow")
}

func (c *loanCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	amount, err := parseAmount(c.amount)
	if err != nil {
		return c.io.failf(subcommands.ExitUsageError, "%v", err)
	}
	a, err := c.io.open(ctx, c.pin)
	if err != nil {
		return c.io.failf(subcommands.ExitFailure, "%v", err)
	}
	defer a.close()

	loan, err := a.services.Ledger.AddLoan(ctx, dto.AddLoanRequest{
		Amount:           amount,
		CounterpartyName: c.person,
		Description:      c.description,
		Date:             c.date,
		Direction:        domain.LoanDirection(c.direction),
	})
	if err != nil {
		return c.io.failf(subcommands.ExitFailure, "%v", err)
	}
	fmt.Fprintln(c.io.out, loan.ID)
	return subcommands.ExitSuccess
}

type paidCmd struct {
	io  *ioEnv
	pin string
}

func (*paidCmd) Name() string     { return "paid" }
func (*paidCmd) Synopsis() string { return "mark loans as paid" }
func (*paidCmd) Usage() string {
	return `ledgerctl paid <loan-id>...
`
}
func (c *paidCmd) SetFlags(f *flag.FlagSet) { pinFlag(f, &c.pin) }

func (c *paidCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		return c.io.failf(subcommands.ExitUsageError, "at least one loan id is required")
	}
	a, err := c.io.open(ctx, c.pin)
	if err != nil {
		return c.io.failf(subcommands.ExitFailure, "%v", err)
	}
	defer a.close()

	for _, id := range f.Args() {
		if _, err := a.services.Ledger.MarkLoanPaid(ctx, id); err != nil {
			return c.io.failf(subcommands.ExitFailure, "%v", err)
		}
	}
	return subcommands.ExitSuccess
}

type deleteCmd struct {
	io   *ioEnv
	pin  string
	loan bool
}

func (*deleteCmd) Name() string     { return "delete" }
func (*deleteCmd) Synopsis() string { return "delete transactions or loans" }
func (*deleteCmd) Usage() string {
	return `ledgerctl delete [-loan] <id>...
`
}

func (c *deleteCmd) SetFlags(f *flag.FlagSet) {
	pinFlag(f, &c.pin)
	f.BoolVar(&c.loan, "loan", false, "ids are loans instead of transactions")
}

func (c *deleteCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		return c.io.failf(subcommands.ExitUsageError, "at least one id is required")
	}
	a, err := c.io.open(ctx, c.pin)
	if err != nil {
		return c.io.failf(subcommands.ExitFailure, "%v", err)
	}
	defer a.close()

	for _, id := range f.Args() {
		if c.loan {
			err = a.services.Ledger.DeleteLoan(ctx, id)
		} else {
			err = a.services.Ledger.DeleteTransaction(ctx, id)
		}
		if err != nil {
			return c.io.failf(subcommands.ExitFailure, "%v", err)
		}
	}
	return subcommands.ExitSuccess
}

type summaryCmd struct {
	io     *ioEnv
	pin    string
	period string
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "show totals, expenses by category and open loans" }
func (*summaryCmd) Usage() string {
	return `ledgerctl summary [-period month|year|all]
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	pinFlag(f, &c.pin)
	f.StringVar(&c.period, "period", string(domain.PeriodMonth), "month, year or all")
}

func (c *summaryCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	period, err := domain.ParsePeriod(c.period)
	if err != nil {
		return c.io.failf(subcommands.ExitUsageError, "%v", err)
	}
	a, err := c.io.open(ctx, c.pin)
	if err != nil {
		return c.io.failf(subcommands.ExitFailure, "%v", err)
	}
	defer a.close()

	view, err := a.services.Ledger.GetFiltered(ctx, period)
	if err != nil {
		return c.io.failf(subcommands.ExitFailure, "%v", err)
	}

	w := tabwriter.NewWriter(c.io.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Period\t%s\n", view.Period)
	fmt.Fprintf(w, "Income\t%s\n", view.TotalIncome.StringFixed(2))
	fmt.Fprintf(w, "Expenses\t%s\n", view.TotalExpense.StringFixed(2))
	fmt.Fprintf(w, "Balance\t%s\n", view.Balance.StringFixed(2))
	fmt.Fprintf(w, "To receive\t%s\n", view.PendingToReceive.StringFixed(2))
	fmt.Fprintf(w, "To pay\t%s\n", view.PendingToPay.StringFixed(2))
	if len(view.ExpenseByCategory) > 0 {
		fmt.Fprintln(w, "\nCategory\tSpent")
		for _, ct := range view.ExpenseByCategory {
			fmt.Fprintf(w, "%s\t%s\n", ct.Category, ct.Amount.StringFixed(2))
		}
	}
	return exitOnFlush(c.io, w)
}

func parseAmount(s string) (*decimal.Decimal, error) {
	if s == "" {
		return nil, fmt.Errorf("-amount is required")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q", s)
	}
	return &d, nil
}

func exitOnFlush(e *ioEnv, w *tabwriter.Writer) subcommands.ExitStatus {
	if err := w.Flush(); err != nil {
		return e.failf(subcommands.ExitFailure, "%v", err)
	}
	return subcommands.ExitSuccess
}
