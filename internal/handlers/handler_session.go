package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/personal_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/personal_ledger_app/internal/dto"
	"github.com/gin-gonic/gin"
)

// sessionHandler exposes the session state and the PIN lock.
type sessionHandler struct {
	sessionService portssvc.SessionSvcFacade
	auth           *authHandler
}

func newSessionHandler(ss portssvc.SessionSvcFacade, auth *authHandler) *sessionHandler {
	return &sessionHandler{sessionService: ss, auth: auth}
}

// getStatus godoc
// @Summary Get the session state
// @Description Returns the session state and whether a PIN lock is set. The active account is not disclosed.
// @Tags session
// @Produce json
// @Success 200 {object} dto.SessionStatusResponse
// @Router /session [get]
func (h *sessionHandler) getStatus(c *gin.Context) {
	status := h.sessionService.Status()
	c.JSON(http.StatusOK, dto.SessionStatusResponse{State: status.State, Lock: status.Lock})
}

// verifyPin godoc
// @Summary Unlock a restored session
// @Description Checks the PIN of a session awaiting unlock and returns a fresh token for it
// @Tags session
// @Accept json
// @Produce json
// @Param pin body dto.VerifyPinRequest true "PIN candidate"
// @Success 200 {object} dto.AuthResponse
// @Failure 400 {object} ErrorResponse "Invalid request body"
// @Failure 401 {object} ErrorResponse "Wrong PIN or no stored account"
// @Failure 409 {object} ErrorResponse "Session is not locked"
// @Failure 500 {object} ErrorResponse "Failed to verify PIN"
// @Router /session/pin/verify [post]
func (h *sessionHandler) verifyPin(c *gin.Context) {
	var req dto.VerifyPinRequest
	if !bindJSON(c, &req) {
		return
	}
	ctx := c.Request.Context()
	if err := h.sessionService.VerifyPin(ctx, req); err != nil {
		writeError(c, err, "verify PIN")
		return
	}
	account, err := h.sessionService.ActiveAccount()
	if err != nil {
		writeError(c, err, "verify PIN")
		return
	}
	h.auth.issueToken(c, http.StatusOK, account)
}

// setPin godoc
// @Summary Set the device PIN
// @Description Registers a 4-digit PIN that locks the session from the next start
// @Tags session
// @Accept json
// @Produce json
// @Param pin body dto.SetPinRequest true "PIN and confirmation"
// @Success 200 {object} domain.SessionStatus
// @Failure 400 {object} ErrorResponse "Invalid PIN or confirmation mismatch"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 423 {object} ErrorResponse "Session is locked"
// @Failure 500 {object} ErrorResponse "Failed to set PIN"
// @Security BearerAuth
// @Router /session/pin [put]
func (h *sessionHandler) setPin(c *gin.Context) {
	var req dto.SetPinRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.sessionService.SetPin(c.Request.Context(), req); err != nil {
		writeError(c, err, "set PIN")
		return
	}
	c.JSON(http.StatusOK, h.sessionService.Status())
}

// removePin godoc
// @Summary Remove the device PIN
// @Tags session
// @Produce json
// @Success 200 {object} domain.SessionStatus
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to remove PIN"
// @Security BearerAuth
// @Router /session/pin [delete]
func (h *sessionHandler) removePin(c *gin.Context) {
	if err := h.sessionService.RemovePin(c.Request.Context()); err != nil {
		writeError(c, err, "remove PIN")
		return
	}
	c.JSON(http.StatusOK, h.sessionService.Status())
}
