package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"
)

// BackupFormatVersion is the version written into every exported snapshot.
const BackupFormatVersion = "1.0"

// BackupSnapshot is a portable copy of one account's ledger.
type BackupSnapshot struct {
	Transactions    []Transaction  `json:"transactions"`
	Loans           []LoanRecord   `json:"loans"`
	Account         AccountSummary `json:"user"`
	BackupTimestamp time.Time      `json:"backupDate"`
	FormatVersion   string         `json:"version"`
}

// BackupFileName returns the conventional file name for a snapshot taken at t.
func BackupFileName(t time.Time) string {
	return "finance-backup-" + strconv.FormatInt(t.UnixMilli(), 10) + ".json"
}

// ArchiveScope returns the archive scope of an account. It is opaque so that
// archive paths and object keys never carry the identifier itself.
func ArchiveScope(identifier string) string {
	sum := sha256.Sum256([]byte(identifier))
	return hex.EncodeToString(sum[:])
}
