package utils_test

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/SscSPs/personal_ledger_app/internal/utils"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hash, err := utils.HashPassword("secret123")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", hash)
	assert.True(t, utils.CheckPasswordHash("secret123", hash))
	assert.False(t, utils.CheckPasswordHash("secret124", hash))

	again, err := utils.HashPassword("secret123")
	require.NoError(t, err)
	assert.NotEqual(t, hash, again, "each hash should carry its own salt")
}

func TestJWTRoundTrip(t *testing.T) {
	token, expiresAt, err := utils.GenerateJWT("a@example.com", "test-secret", time.Hour, "ledger-test")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

	claims, err := utils.ParseAndValidateJWT(token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", claims.Subject)
	assert.Equal(t, "ledger-test", claims.Issuer)

	_, err = utils.ParseAndValidateJWT(token, "other-secret")
	assert.Error(t, err)
}

func TestJWTExpired(t *testing.T) {
	token, _, err := utils.GenerateJWT("a@example.com", "test-secret", -time.Minute, "ledger-test")
	require.NoError(t, err)

	_, err = utils.ParseAndValidateJWT(token, "test-secret")
	require.Error(t, err)
	assert.True(t, errors.Is(err, jwt.ErrTokenExpired))
}

func TestGenerateSecureRandomString(t *testing.T) {
	s, err := utils.GenerateSecureRandomString(16)
	require.NoError(t, err)
	assert.Len(t, s, 32)

	_, err = utils.GenerateSecureRandomString(0)
	assert.Error(t, err)
}

func TestPosthogClientDisabledWithoutKey(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client, err := utils.InitializePosthogClient("", "https://eu.i.posthog.com", logger)
	require.NoError(t, err)
	assert.False(t, client.IsInitialized())

	assert.NotPanics(t, func() {
		client.Enqueue("a@example.com", "api_v1_transactions", nil)
		client.Close()
	})
}

func TestAnalyticsDistinctID(t *testing.T) {
	id := utils.AnalyticsDistinctID("a@example.com")
	assert.Len(t, id, 64)
	assert.NotContains(t, id, "example")
	assert.Equal(t, id, utils.AnalyticsDistinctID("a@example.com"))
	assert.NotEqual(t, id, utils.AnalyticsDistinctID("b@example.com"))
}
