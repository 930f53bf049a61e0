package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"path"

	"github.com/SscSPs/personal_ledger_app/internal/apperrors"
	"github.com/SscSPs/personal_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/personal_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/personal_ledger_app/internal/core/ports/services"
)

// BackupService exports and restores the active ledger as JSON documents.
type BackupService struct {
	BaseService
	session portssvc.SessionReaderSvc
	ledger  portssvc.LedgerSvcFacade
	archive portsrepo.BackupArchive // nil when no archive is configured
}

// BackupServiceOption configures optional BackupService dependencies.
type BackupServiceOption func(*BackupService)

// WithArchive enables the archive operations.
func WithArchive(archive portsrepo.BackupArchive) BackupServiceOption {
	return func(s *BackupService) {
		s.archive = archive
	}
}

// WithBackupBaseOptions applies shared service options.
func WithBackupBaseOptions(options ...Option) BackupServiceOption {
	return func(s *BackupService) {
		applyOptions(&s.BaseService, options)
	}
}

// NewBackupService creates a BackupService working on the session's ledger.
func NewBackupService(session portssvc.SessionReaderSvc, ledger portssvc.LedgerSvcFacade, options ...BackupServiceOption) *BackupService {
	svc := &BackupService{session: session, ledger: ledger}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.BackupSvcFacade = (*BackupService)(nil)

// Encode writes snapshot as indented JSON.
func (s *BackupService) Encode(snapshot *domain.BackupSnapshot, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(snapshot); err != nil {
		return fmt.Errorf("failed to encode backup: %w", err)
	}
	return nil
}

// Decode parses a backup document. Both collections must be present; a
// document without a version is read as the current format.
func (s *BackupService) Decode(r io.Reader) (*domain.BackupSnapshot, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read backup: %w", err)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidFormat, err)
	}
	for _, name := range []string{"transactions", "loans"} {
		raw, ok := fields[name]
		if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			return nil, fmt.Errorf("%w: missing %s", apperrors.ErrInvalidFormat, name)
		}
	}

	var snapshot domain.BackupSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidFormat, err)
	}
	if snapshot.FormatVersion != "" && snapshot.FormatVersion != domain.BackupFormatVersion {
		return nil, fmt.Errorf("%w: %q", apperrors.ErrUnsupportedVersion, snapshot.FormatVersion)
	}

	for i := range snapshot.Transactions {
		if err := validateStruct(snapshot.Transactions[i]); err != nil {
			return nil, fmt.Errorf("%w: transaction %d: %v", apperrors.ErrInvalidFormat, i, err)
		}
	}
	for i := range snapshot.Loans {
		if err := validateStruct(snapshot.Loans[i]); err != nil {
			return nil, fmt.Errorf("%w: loan %d: %v", apperrors.ErrInvalidFormat, i, err)
		}
	}
	return &snapshot, nil
}

// Export snapshots the active ledger together with the account it belongs to.
func (s *BackupService) Export(ctx context.Context) (*domain.BackupSnapshot, error) {
	account, err := s.session.ActiveAccount()
	if err != nil {
		return nil, err
	}
	ledger, err := s.ledger.Ledger(ctx)
	if err != nil {
		return nil, err
	}

	snapshot := &domain.BackupSnapshot{
		Transactions:    ledger.Transactions,
		Loans:           ledger.Loans,
		Account:         account.Summary(),
		BackupTimestamp: s.Now().UTC(),
		FormatVersion:   domain.BackupFormatVersion,
	}
	s.LogInfo(ctx, "Backup exported",
		slog.String("account_id", account.Identifier),
		slog.Int("transactions", len(snapshot.Transactions)),
		slog.Int("loans", len(snapshot.Loans)))
	return snapshot, nil
}

// Import decodes r and replaces the active ledger with its content. For an
// uploaded file the account recorded in the document is informational only.
func (s *BackupService) Import(ctx context.Context, r io.Reader) (*domain.Ledger, error) {
	return s.importDocument(ctx, r, false)
}

// importDocument replaces the active ledger with the document in r. With
// ownedOnly set, a document recorded for another account is refused.
func (s *BackupService) importDocument(ctx context.Context, r io.Reader, ownedOnly bool) (*domain.Ledger, error) {
	account, err := s.session.ActiveAccount()
	if err != nil {
		return nil, err
	}
	snapshot, err := s.Decode(r)
	if err != nil {
		s.LogWarn(ctx, "Rejected backup document", slog.String("error", err.Error()))
		return nil, err
	}
	if snapshot.Account.Identifier != "" && snapshot.Account.Identifier != account.Identifier {
		if ownedOnly {
			s.LogWarn(ctx, "Refused archived backup of another account", slog.String("account_id", account.Identifier))
			return nil, apperrors.ErrForeignBackup
		}
		s.LogWarn(ctx, "Importing backup taken from another account",
			slog.String("account_id", account.Identifier),
			slog.String("backup_account_id", snapshot.Account.Identifier))
	}

	ledger, err := s.ledger.Replace(ctx, snapshot.Transactions, snapshot.Loans)
	if err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "Backup imported", slog.String("account_id", account.Identifier))
	return ledger, nil
}

// Archive exports the active ledger into the account's archive scope and
// returns its name.
func (s *BackupService) Archive(ctx context.Context) (string, error) {
	if err := s.requireArchive(); err != nil {
		return "", err
	}
	snapshot, err := s.Export(ctx)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := s.Encode(snapshot, &buf); err != nil {
		return "", err
	}
	name := domain.BackupFileName(snapshot.BackupTimestamp)
	scope := domain.ArchiveScope(snapshot.Account.Identifier)
	if err := s.archive.Put(ctx, scope, name, buf.Bytes()); err != nil {
		s.LogError(ctx, err, "Failed to archive backup", slog.String("name", name))
		return "", err
	}

	s.LogInfo(ctx, "Backup archived", slog.String("name", name), slog.Int("bytes", buf.Len()))
	return name, nil
}

// ListArchives returns the active account's archived documents.
func (s *BackupService) ListArchives(ctx context.Context) ([]portsrepo.ArchiveEntry, error) {
	if err := s.requireArchive(); err != nil {
		return nil, err
	}
	account, err := s.session.ActiveAccount()
	if err != nil {
		return nil, err
	}
	return s.archive.List(ctx, domain.ArchiveScope(account.Identifier))
}

// RestoreArchive imports the document called name from the active account's
// archive scope. A document recorded for another account is refused.
func (s *BackupService) RestoreArchive(ctx context.Context, name string) (*domain.Ledger, error) {
	if err := s.requireArchive(); err != nil {
		return nil, err
	}
	if name == "" || path.Base(name) != name || name == "." || name == ".." {
		return nil, fmt.Errorf("%w: archive name %q", apperrors.ErrValidation, name)
	}
	account, err := s.session.ActiveAccount()
	if err != nil {
		return nil, err
	}

	document, err := s.archive.Get(ctx, domain.ArchiveScope(account.Identifier), name)
	if err != nil {
		return nil, err
	}
	return s.importDocument(ctx, bytes.NewReader(document), true)
}

func (s *BackupService) requireArchive() error {
	if s.archive == nil {
		return fmt.Errorf("backup archive: %w", apperrors.ErrNotImplemented)
	}
	return nil
}
