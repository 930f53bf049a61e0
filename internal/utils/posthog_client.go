// posthog_client.go wraps posthog.Client so callers can enqueue events whether or not analytics are configured.
package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"

	"github.com/posthog/posthog-go"
)

// PosthogClientWrapper forwards product analytics events to PostHog. The zero
// value is a disabled client that drops every event.
type PosthogClientWrapper struct {
	posthogClient posthog.Client
	logger        *slog.Logger
}

// InitializePosthogClient returns a disabled wrapper when apiKey is empty.
func InitializePosthogClient(apiKey, endpoint string, logger *slog.Logger) (*PosthogClientWrapper, error) {
	if apiKey == "" {
		logger.Info("Posthog API key is empty, analytics disabled")
		return &PosthogClientWrapper{}, nil
	}
	client, err := posthog.NewWithConfig(apiKey, posthog.Config{Endpoint: endpoint})
	if err != nil {
		return nil, fmt.Errorf("failed to create posthog client: %w", err)
	}
	logger.Info("Posthog client initialized", slog.String("endpoint", endpoint))
	return &PosthogClientWrapper{posthogClient: client, logger: logger}, nil
}

func (w *PosthogClientWrapper) IsInitialized() bool {
	return w != nil && w.posthogClient != nil
}

// Enqueue sends event for the account. The account identifier is pseudonymized
// before it leaves the process.
func (w *PosthogClientWrapper) Enqueue(accountID string, event string, properties map[string]any) {
	if !w.IsInitialized() {
		return
	}
	err := w.posthogClient.Enqueue(posthog.Capture{
		DistinctId: AnalyticsDistinctID(accountID),
		Event:      event,
		Properties: properties,
	})
	if err != nil && w.logger != nil {
		w.logger.Warn("Failed to enqueue analytics event", slog.String("event", event), slog.String("error", err.Error()))
	}
}

// Close flushes pending events.
func (w *PosthogClientWrapper) Close() {
	if !w.IsInitialized() {
		return
	}
	if err := w.posthogClient.Close(); err != nil && w.logger != nil {
		w.logger.Warn("Failed to close posthog client", slog.String("error", err.Error()))
	}
}

// AnalyticsDistinctID maps an account identifier to a stable opaque id.
func AnalyticsDistinctID(accountID string) string {
	sum := sha256.Sum256([]byte(accountID))
	return hex.EncodeToString(sum[:])
}
