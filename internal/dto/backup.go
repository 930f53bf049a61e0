package dto

import (
	"github.com/SscSPs/personal_ledger_app/internal/core/ports/repositories"
)

// ImportResponse reports the size of the ledger after a restore.
type ImportResponse struct {
	Transactions int `json:"transactions"`
	Loans        int `json:"loans"`
}

// ArchiveResponse names a backup written to the archive.
type ArchiveResponse struct {
	Name string `json:"name"`
}

// ListArchivesResponse wraps the stored backups.
type ListArchivesResponse struct {
	Archives []repositories.ArchiveEntry `json:"archives"`
}
