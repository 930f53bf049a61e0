package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/SscSPs/personal_ledger_app/internal/middleware"
)

// BaseService provides common functionality for all services
type BaseService struct {
	now func() time.Time
}

// Now returns the service clock reading.
func (s *BaseService) Now() time.Time {
	if s.now == nil {
		return time.Now()
	}
	return s.now()
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.ErrorContext(ctx, msg, args...)
}

// LogWarn logs a warning message with consistent formatting
func (s *BaseService) LogWarn(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).WarnContext(ctx, msg, keyvals...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).InfoContext(ctx, msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).DebugContext(ctx, msg, keyvals...)
}

// Option configures the fields every service shares.
type Option func(*BaseService)

// WithClock replaces the wall clock, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *BaseService) {
		s.now = now
	}
}

func applyOptions(base *BaseService, options []Option) {
	for _, option := range options {
		option(base)
	}
}
