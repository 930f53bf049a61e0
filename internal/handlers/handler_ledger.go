package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/personal_ledger_app/internal/core/domain"
	portssvc "github.com/SscSPs/personal_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/personal_ledger_app/internal/dto"
	"github.com/SscSPs/personal_ledger_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// ledgerHandler handles HTTP requests on the active account's ledger.
type ledgerHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

func newLedgerHandler(ls portssvc.LedgerSvcFacade) *ledgerHandler {
	return &ledgerHandler{ledgerService: ls}
}

// registerLedgerRoutes registers transaction, loan and summary routes.
func registerLedgerRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := newLedgerHandler(ledgerService)

	transactions := rg.Group("/transactions")
	{
		transactions.GET("", h.listTransactions)
		transactions.POST("", h.addTransaction)
		transactions.DELETE("/:id", h.deleteTransaction)
	}

	loans := rg.Group("/loans")
	{
		loans.GET("", h.listLoans)
		loans.POST("", h.addLoan)
		loans.POST("/:id/paid", h.markLoanPaid)
		loans.DELETE("/:id", h.deleteLoan)
	}

	rg.GET("/summary", h.getSummary)
}

// listTransactions godoc
// @Summary List transactions
// @Description Returns the active ledger's transactions, newest first
// @Tags ledger
// @Produce json
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 423 {object} ErrorResponse "Session is locked"
// @Failure 500 {object} ErrorResponse "Failed to list transactions"
// @Security BearerAuth
// @Router /transactions [get]
func (h *ledgerHandler) listTransactions(c *gin.Context) {
	ledger, err := h.ledgerService.Ledger(c.Request.Context())
	if err != nil {
		writeError(c, err, "list transactions")
		return
	}
	c.JSON(http.StatusOK, dto.ListTransactionsResponse{Transactions: ledger.Transactions})
}

// addTransaction godoc
// @Summary Record a transaction
// @Tags ledger
// @Accept json
// @Produce json
// @Param transaction body dto.AddTransactionRequest true "Transaction details"
// @Success 201 {object} domain.Transaction
// @Failure 400 {object} ErrorResponse "Invalid input format or validation error"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 423 {object} ErrorResponse "Session is locked"
// @Failure 500 {object} ErrorResponse "Failed to add transaction"
// @Security BearerAuth
// @Router /transactions [post]
func (h *ledgerHandler) addTransaction(c *gin.Context) {
	var req dto.AddTransactionRequest
	if !bindJSON(c, &req) {
		return
	}
	txn, err := h.ledgerService.AddTransaction(c.Request.Context(), req)
	if err != nil {
		writeError(c, err, "add transaction")
		return
	}
	c.JSON(http.StatusCreated, txn)
}

// deleteTransaction godoc
// @Summary Delete a transaction
// @Tags ledger
// @Param id path string true "Transaction ID"
// @Success 204 "No Content"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Transaction not found"
// @Failure 500 {object} ErrorResponse "Failed to delete transaction"
// @Security BearerAuth
// @Router /transactions/{id} [delete]
func (h *ledgerHandler) deleteTransaction(c *gin.Context) {
	if err := h.ledgerService.DeleteTransaction(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err, "delete transaction")
		return
	}
	c.Status(http.StatusNoContent)
}

// listLoans godoc
// @Summary List loans
// @Tags ledger
// @Produce json
// @Success 200 {object} dto.ListLoansResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to list loans"
// @Security BearerAuth
// @Router /loans [get]
func (h *ledgerHandler) listLoans(c *gin.Context) {
	ledger, err := h.ledgerService.Ledger(c.Request.Context())
	if err != nil {
		writeError(c, err, "list loans")
		return
	}
	c.JSON(http.StatusOK, dto.ListLoansResponse{Loans: ledger.Loans})
}

// addLoan godoc
// @Summary Record a loan
// @Description Records money lent to or borrowed from a person. New loans are pending.
// @Tags ledger
// @Accept json
// @Produce json
// @Param loan body dto.AddLoanRequest true "Loan details"
// @Success 201 {object} domain.LoanRecord
// @Failure 400 {object} ErrorResponse "Invalid input format or validation error"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to add loan"
// @Security BearerAuth
// @Router /loans [post]
func (h *ledgerHandler) addLoan(c *gin.Context) {
	var req dto.AddLoanRequest
	if !bindJSON(c, &req) {
		return
	}
	loan, err := h.ledgerService.AddLoan(c.Request.Context(), req)
	if err != nil {
		writeError(c, err, "add loan")
		return
	}
	c.JSON(http.StatusCreated, loan)
}

// markLoanPaid godoc
// @Summary Mark a loan as paid
// @Tags ledger
// @Produce json
// @Param id path string true "Loan ID"
// @Success 200 {object} domain.LoanRecord
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Loan not found"
// @Failure 500 {object} ErrorResponse "Failed to mark loan paid"
// @Security BearerAuth
// @Router /loans/{id}/paid [post]
func (h *ledgerHandler) markLoanPaid(c *gin.Context) {
	loan, err := h.ledgerService.MarkLoanPaid(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err, "mark loan paid")
		return
	}
	c.JSON(http.StatusOK, loan)
}

// deleteLoan godoc
// @Summary Delete a loan
// @Tags ledger
// @Param id path string true "Loan ID"
// @Success 204 "No Content"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Loan not found"
// @Failure 500 {object} ErrorResponse "Failed to delete loan"
// @Security BearerAuth
// @Router /loans/{id} [delete]
func (h *ledgerHandler) deleteLoan(c *gin.Context) {
	if err := h.ledgerService.DeleteLoan(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err, "delete loan")
		return
	}
	c.Status(http.StatusNoContent)
}

// getSummary godoc
// @Summary Summarize the ledger
// @Description Derives balance, income and expense totals for the chosen period
// @Tags ledger
// @Produce json
// @Param period query string false "month, year or all" default(month)
// @Success 200 {object} domain.LedgerView
// @Failure 400 {object} ErrorResponse "Invalid period"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to summarize ledger"
// @Security BearerAuth
// @Router /summary [get]
func (h *ledgerHandler) getSummary(c *gin.Context) {
	period, err := domain.ParsePeriod(c.Query("period"))
	if err != nil {
		middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Invalid period", slog.String("period", c.Query("period")))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	view, err := h.ledgerService.GetFiltered(c.Request.Context(), period)
	if err != nil {
		writeError(c, err, "summarize ledger")
		return
	}
	c.JSON(http.StatusOK, view)
}
