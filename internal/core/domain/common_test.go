package domain_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/SscSPs/personal_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate_JSON(t *testing.T) {
	b, err := json.Marshal(domain.NewDate(2026, time.February, 3))
	require.NoError(t, err)
	assert.Equal(t, `"2026-02-03"`, string(b))

	var d domain.Date
	require.NoError(t, json.Unmarshal([]byte(`"2025-12-31T22:10:00Z"`), &d))
	assert.Equal(t, "2025-12-31", d.String())

	assert.Error(t, json.Unmarshal([]byte(`"31/12/2025"`), &d))
}

func TestTimestamp_AcceptsMillisAndRFC3339(t *testing.T) {
	var ts domain.Timestamp
	require.NoError(t, json.Unmarshal([]byte(`1760000000123`), &ts))
	assert.Equal(t, int64(1760000000123), ts.UnixMilli())

	require.NoError(t, json.Unmarshal([]byte(`"2026-01-02T03:04:05Z"`), &ts))
	assert.True(t, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC).Equal(ts.Time))

	b, err := json.Marshal(domain.NewTimestamp(time.UnixMilli(42)))
	require.NoError(t, err)
	assert.Equal(t, "42", string(b))
}

func TestBackupFileName(t *testing.T) {
	assert.Equal(t, "finance-backup-1000.json", domain.BackupFileName(time.UnixMilli(1000)))
}

func TestAmount_JSONNumber(t *testing.T) {
	txn := domain.Transaction{Amount: decimal.RequireFromString("12.50")}
	b, err := json.Marshal(txn)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"amount":12.5`)

	var back domain.Transaction
	require.NoError(t, json.Unmarshal([]byte(`{"amount":"7.25"}`), &back))
	assert.Equal(t, "7.25", back.Amount.String())
	require.NoError(t, json.Unmarshal([]byte(`{"amount":7.25}`), &back))
	assert.Equal(t, "7.25", back.Amount.String())
}
