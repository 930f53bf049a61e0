package handlers

import (
	"fmt"

	portssvc "github.com/SscSPs/personal_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/personal_ledger_app/internal/middleware"
	"github.com/SscSPs/personal_ledger_app/internal/platform/config"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) error {
	registerHomeRoutes(r)

	authLimiter, err := middleware.NewMemoryLimiter(cfg.AuthRateLimit)
	if err != nil {
		return fmt.Errorf("auth rate limit: %w", err)
	}
	limit := middleware.RateLimit(authLimiter)

	tokens := TokenConfig{Secret: cfg.JWTSecret, Expiry: cfg.JWTExpiryDuration, Issuer: cfg.JWTIssuer}
	auth := newAuthHandler(services.Credential, services.Session, tokens)
	session := newSessionHandler(services.Session, auth)

	// Public routes
	public := r.Group("/api/v1")
	{
		public.GET("/session", session.getStatus)
		public.POST("/session/pin/verify", limit, session.verifyPin)
		public.POST("/auth/register", limit, auth.register)
		public.POST("/auth/login", limit, auth.login)
		public.POST("/auth/social/:provider", auth.socialLogin)
	}

	// Setup API v1 routes with Auth Middleware
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret, services.Session))
	{
		v1.POST("/auth/logout", auth.logout)
		v1.PUT("/session/pin", session.setPin)
		v1.DELETE("/session/pin", session.removePin)
	}
	registerLedgerRoutes(v1, services.Ledger)
	registerBackupRoutes(v1, services.Backup)

	return nil
}
