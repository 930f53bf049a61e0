package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/personal_ledger_app/internal/core/domain"
	portssvc "github.com/SscSPs/personal_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/personal_ledger_app/internal/dto"
	"github.com/SscSPs/personal_ledger_app/internal/middleware"
	"github.com/SscSPs/personal_ledger_app/internal/utils"
	"github.com/gin-gonic/gin"
)

// TokenConfig holds the settings used to sign access tokens.
type TokenConfig struct {
	Secret string
	Expiry time.Duration
	Issuer string
}

// authHandler handles account registration, sign-in and sign-out.
type authHandler struct {
	credentialService portssvc.CredentialSvcFacade
	sessionService    portssvc.SessionSvcFacade
	tokens            TokenConfig
}

func newAuthHandler(cs portssvc.CredentialSvcFacade, ss portssvc.SessionSvcFacade, tokens TokenConfig) *authHandler {
	return &authHandler{credentialService: cs, sessionService: ss, tokens: tokens}
}

// issueToken answers with a token bound to account.
func (h *authHandler) issueToken(c *gin.Context, status int, account *domain.Account) {
	token, expiresAt, err := utils.GenerateJWT(account.Identifier, h.tokens.Secret, h.tokens.Expiry, h.tokens.Issuer)
	if err != nil {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Failed to sign JWT token", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to generate token"})
		return
	}
	c.JSON(status, dto.AuthResponse{Token: token, ExpiresAt: expiresAt, Account: *account})
}

// register godoc
// @Summary Register an account
// @Description Creates an account, makes it the active one and returns a token
// @Tags auth
// @Accept json
// @Produce json
// @Param account body dto.RegisterRequest true "Account details"
// @Success 201 {object} dto.AuthResponse
// @Failure 400 {object} ErrorResponse "Invalid input format or validation error"
// @Failure 409 {object} ErrorResponse "Account already exists or another account is active"
// @Failure 429 {object} ErrorResponse "Too many requests"
// @Failure 500 {object} ErrorResponse "Failed to register account"
// @Router /auth/register [post]
func (h *authHandler) register(c *gin.Context) {
	var req dto.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}
	account, err := h.credentialService.Register(c.Request.Context(), req)
	if err != nil {
		writeError(c, err, "register account")
		return
	}
	h.issueToken(c, http.StatusCreated, account)
}

// login godoc
// @Summary Log in
// @Description Authenticates an account with its password and returns a token
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.AuthResponse
// @Failure 400 {object} ErrorResponse "Invalid input format"
// @Failure 401 {object} ErrorResponse "Invalid credentials"
// @Failure 404 {object} ErrorResponse "Account not found"
// @Failure 429 {object} ErrorResponse "Too many requests"
// @Router /auth/login [post]
func (h *authHandler) login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindJSON(c, &req) {
		return
	}
	account, err := h.credentialService.Authenticate(c.Request.Context(), req)
	if err != nil {
		writeError(c, err, "log in")
		return
	}
	h.issueToken(c, http.StatusOK, account)
}

// socialLogin godoc
// @Summary Log in with a federated provider
// @Description Reserved. Always answers 501.
// @Tags auth
// @Produce json
// @Param provider path string true "Provider name"
// @Failure 501 {object} ErrorResponse "Not implemented"
// @Router /auth/social/{provider} [post]
func (h *authHandler) socialLogin(c *gin.Context) {
	_, err := h.credentialService.SocialLogin(c.Request.Context(), c.Param("provider"))
	writeError(c, err, "log in with provider")
}

// logout godoc
// @Summary Log out
// @Description Ends the active session and clears the device PIN
// @Tags auth
// @Success 204 "No Content"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to log out"
// @Security BearerAuth
// @Router /auth/logout [post]
func (h *authHandler) logout(c *gin.Context) {
	if err := h.sessionService.Logout(c.Request.Context()); err != nil {
		writeError(c, err, "log out")
		return
	}
	c.Status(http.StatusNoContent)
}
