package services

import (
	"context"
	"io"

	"github.com/SscSPs/personal_ledger_app/internal/core/domain"
	"github.com/SscSPs/personal_ledger_app/internal/core/ports/repositories"
)

// BackupCodecSvc converts snapshots to and from backup documents.
type BackupCodecSvc interface {
	Encode(snapshot *domain.BackupSnapshot, w io.Writer) error
	// Decode fails with apperrors.ErrInvalidFormat for malformed documents.
	Decode(r io.Reader) (*domain.BackupSnapshot, error)
}

// BackupTransferSvc exports and imports the active ledger.
type BackupTransferSvc interface {
	Export(ctx context.Context) (*domain.BackupSnapshot, error)
	// Import fully replaces the active ledger with the document's content.
	Import(ctx context.Context, r io.Reader) (*domain.Ledger, error)
}

// BackupArchiveSvc keeps exported documents in a BackupArchive, in a scope
// owned by the active account.
type BackupArchiveSvc interface {
	Archive(ctx context.Context) (string, error)
	ListArchives(ctx context.Context) ([]repositories.ArchiveEntry, error)
	// RestoreArchive fails with apperrors.ErrForeignBackup when the document
	// records another account.
	RestoreArchive(ctx context.Context, name string) (*domain.Ledger, error)
}

// BackupSvcFacade combines all backup service interfaces
type BackupSvcFacade interface {
	BackupCodecSvc
	BackupTransferSvc
	BackupArchiveSvc
}
