package repositories

import (
	"context"
	"time"
)

// ArchiveEntry describes one stored backup document.
type ArchiveEntry struct {
	Name       string    `json:"name"`
	Size       int64     `json:"size"`
	ModifiedAt time.Time `json:"modifiedAt"`
}

// BackupArchive stores exported backup documents outside the key-value store.
// Documents live under a scope, one per account; a scope never sees the
// documents of another. Scopes and names are single path segments.
type BackupArchive interface {
	Put(ctx context.Context, scope, name string, document []byte) error
	// Get returns the document stored as name in scope, or apperrors.ErrNotFound.
	Get(ctx context.Context, scope, name string) ([]byte, error)
	// List returns the documents stored in scope, newest first.
	List(ctx context.Context, scope string) ([]ArchiveEntry, error)
}
