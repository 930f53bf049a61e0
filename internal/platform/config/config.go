package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/personal_ledger_app/internal/utils"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Store drivers.
const (
	StoreMemory   = "memory"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
)

// Backup archive kinds.
const (
	ArchiveNone = "none"
	ArchiveFile = "file"
	ArchiveS3   = "s3"
)

// Config holds application configuration.
type Config struct {
	Port          string
	IsProduction  bool
	StoreDriver   string
	SQLitePath    string
	DatabaseURL   string
	EnableDBCheck bool

	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	AuthRateLimit      string // ulule/limiter format, e.g. "10-M"
	CORSAllowedOrigins []string

	BackupArchive string
	BackupDir     string
	S3            S3Config

	PosthogAPIKey   string // Analytics are off when empty
	PosthogEndpoint string
}

// S3Config locates the bucket used by the s3 backup archive.
type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	Prefix    string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("STORE_DRIVER", StoreSQLite)
	v.SetDefault("SQLITE_PATH", "ledger.db")
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("ENABLE_DB_CHECK", false)
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_EXPIRY_DURATION", "24h")
	v.SetDefault("JWT_ISSUER", "personal-ledger-app")
	v.SetDefault("AUTH_RATE_LIMIT", "10-M")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("BACKUP_ARCHIVE", ArchiveNone)
	v.SetDefault("BACKUP_DIR", "backups")
	v.SetDefault("S3_BUCKET", "")
	v.SetDefault("S3_REGION", "us-east-1")
	v.SetDefault("S3_ENDPOINT", "")
	v.SetDefault("S3_ACCESS_KEY", "")
	v.SetDefault("S3_SECRET_KEY", "")
	v.SetDefault("S3_PREFIX", "")
	v.SetDefault("POSTHOG_API_KEY", "")
	v.SetDefault("POSTHOG_ENDPOINT", "https://eu.i.posthog.com")

	// Environment variables override .env values, which override the defaults above.
	v.AutomaticEnv()

	cfg := &Config{
		Port:          v.GetString("PORT"),
		IsProduction:  v.GetBool("IS_PRODUCTION"),
		StoreDriver:   strings.ToLower(v.GetString("STORE_DRIVER")),
		SQLitePath:    v.GetString("SQLITE_PATH"),
		DatabaseURL:   v.GetString("PGSQL_URL"),
		EnableDBCheck: v.GetBool("ENABLE_DB_CHECK"),
		JWTIssuer:     v.GetString("JWT_ISSUER"),
		AuthRateLimit: v.GetString("AUTH_RATE_LIMIT"),
		BackupArchive: strings.ToLower(v.GetString("BACKUP_ARCHIVE")),
		BackupDir:     v.GetString("BACKUP_DIR"),
		S3: S3Config{
			Bucket:    v.GetString("S3_BUCKET"),
			Region:    v.GetString("S3_REGION"),
			Endpoint:  v.GetString("S3_ENDPOINT"),
			AccessKey: v.GetString("S3_ACCESS_KEY"),
			SecretKey: v.GetString("S3_SECRET_KEY"),
			Prefix:    v.GetString("S3_PREFIX"),
		},
		PosthogAPIKey:   v.GetString("POSTHOG_API_KEY"),
		PosthogEndpoint: v.GetString("POSTHOG_ENDPOINT"),
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
		slog.Warn("PORT not set, using default", slog.String("port", cfg.Port))
	}

	switch cfg.StoreDriver {
	case StoreMemory:
		slog.Warn("STORE_DRIVER is memory; nothing will survive a restart")
	case StoreSQLite:
		if cfg.SQLitePath == "" {
			return nil, fmt.Errorf("SQLITE_PATH must be set for the sqlite store")
		}
	case StorePostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("PGSQL_URL must be set for the postgres store")
		}
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}

	cfg.JWTSecret = v.GetString("JWT_SECRET")
	if cfg.JWTSecret == "" {
		if cfg.IsProduction {
			return nil, fmt.Errorf("JWT_SECRET must be set in production")
		}
		secret, err := utils.GenerateSecureRandomString(32)
		if err != nil {
			return nil, fmt.Errorf("failed to generate JWT secret: %w", err)
		}
		cfg.JWTSecret = secret
		slog.Warn("JWT_SECRET not set. Using a random secret; tokens will not survive a restart.")
	}

	// Load JWT Expiry Duration (e.g., "60m", "1h")
	jwtExpiryStr := v.GetString("JWT_EXPIRY_DURATION")
	jwtExpiryDuration, err := time.ParseDuration(jwtExpiryStr)
	if err != nil || jwtExpiryDuration <= 0 {
		jwtExpiryDuration = 24 * time.Hour
		slog.Warn("Invalid JWT_EXPIRY_DURATION, using default",
			slog.String("value", jwtExpiryStr),
			slog.String("default", jwtExpiryDuration.String()))
	}
	cfg.JWTExpiryDuration = jwtExpiryDuration

	if cfg.JWTIssuer == "" {
		cfg.JWTIssuer = "personal-ledger-app"
	}

	for _, origin := range strings.Split(v.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	switch cfg.BackupArchive {
	case ArchiveNone, "":
		cfg.BackupArchive = ArchiveNone
	case ArchiveFile:
		if cfg.BackupDir == "" {
			return nil, fmt.Errorf("BACKUP_DIR must be set for the file archive")
		}
	case ArchiveS3:
		if cfg.S3.Bucket == "" {
			return nil, fmt.Errorf("S3_BUCKET must be set for the s3 archive")
		}
	default:
		return nil, fmt.Errorf("unknown BACKUP_ARCHIVE %q", cfg.BackupArchive)
	}

	return cfg, nil
}
