package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/SscSPs/personal_ledger_app/internal/core/services"
	"github.com/SscSPs/personal_ledger_app/internal/handlers"
	"github.com/SscSPs/personal_ledger_app/internal/middleware"
	"github.com/SscSPs/personal_ledger_app/internal/platform/config"
	"github.com/SscSPs/personal_ledger_app/internal/platform/storage"
	"github.com/SscSPs/personal_ledger_app/internal/repositories/kvrepo"
	"github.com/SscSPs/personal_ledger_app/internal/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// @title Personal Ledger API
// @version 1.0
// @description Single-user ledger of income, expenses and loans with a device PIN lock.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := context.Background()

	store, closeStore, err := storage.OpenStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to open store", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeStore()

	backupArchive, err := storage.OpenArchive(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to open backup archive", slog.String("error", err.Error()))
		os.Exit(1)
	}

	container := services.NewServiceContainer(kvrepo.NewRepositoryProvider(store, backupArchive))

	status, err := container.Session.Restore(ctx)
	if err != nil {
		logger.Error("Failed to restore session", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("Session state", slog.String("state", string(status.State)), slog.String("lock", string(status.Lock)))

	posthogClient, err := utils.InitializePosthogClient(cfg.PosthogAPIKey, cfg.PosthogEndpoint, logger)
	if err != nil {
		logger.Error("Failed to initialize analytics", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer posthogClient.Close()

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, analytics, cors)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(middleware.AnalyticsMiddleware(posthogClient))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSAllowedOrigins
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	corsConfig.ExposeHeaders = []string{"Content-Disposition", "X-Request-ID"}
	r.Use(cors.New(corsConfig))

	err = r.SetTrustedProxies(nil)
	if err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := handlers.RegisterRoutes(r, cfg, container); err != nil {
		logger.Error("Failed to register routes", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
