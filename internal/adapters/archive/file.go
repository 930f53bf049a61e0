package archive

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/SscSPs/personal_ledger_app/internal/apperrors"
	portsrepo "github.com/SscSPs/personal_ledger_app/internal/core/ports/repositories"
)

// DirArchive keeps backup documents as files, one subdirectory per scope.
type DirArchive struct {
	dir string
}

// NewDirArchive creates dir if needed.
func NewDirArchive(dir string) (*DirArchive, error) {
	if dir == "" {
		return nil, errors.New("archive directory cannot be empty")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create archive directory: %w", err)
	}
	return &DirArchive{dir: dir}, nil
}

var _ portsrepo.BackupArchive = (*DirArchive)(nil)

// Put writes document through a temporary file so a reader never sees a partial backup.
func (a *DirArchive) Put(_ context.Context, scope, name string, document []byte) error {
	target, err := a.path(scope, name)
	if err != nil {
		return err
	}
	scopeDir := filepath.Dir(target)
	if err := os.MkdirAll(scopeDir, 0o700); err != nil {
		return apperrors.Storage("archive "+name, err)
	}

	tmp, err := os.CreateTemp(scopeDir, ".tmp-"+name+"-*")
	if err != nil {
		return apperrors.Storage("archive "+name, err)
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	if _, err := tmp.Write(document); err != nil {
		tmp.Close()
		return apperrors.Storage("archive "+name, err)
	}
	if err := tmp.Close(); err != nil {
		return apperrors.Storage("archive "+name, err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return apperrors.Storage("archive "+name, err)
	}
	return nil
}

func (a *DirArchive) Get(_ context.Context, scope, name string) ([]byte, error) {
	target, err := a.path(scope, name)
	if err != nil {
		return nil, err
	}
	document, err := os.ReadFile(target)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("archive %s: %w", name, apperrors.ErrNotFound)
		}
		return nil, apperrors.Storage("read archive "+name, err)
	}
	return document, nil
}

func (a *DirArchive) List(_ context.Context, scope string) ([]portsrepo.ArchiveEntry, error) {
	if err := validSegment("archive scope", scope); err != nil {
		return nil, err
	}

	entries := []portsrepo.ArchiveEntry{}
	dirEntries, err := os.ReadDir(filepath.Join(a.dir, scope))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return entries, nil // nothing archived yet
		}
		return nil, apperrors.Storage("list archive", err)
	}

	for _, de := range dirEntries {
		if de.IsDir() || strings.HasPrefix(de.Name(), ".") || filepath.Ext(de.Name()) != ".json" {
			continue
		}
		info, err := de.Info()
		if err != nil {
			continue // removed since ReadDir
		}
		entries = append(entries, portsrepo.ArchiveEntry{
			Name:       de.Name(),
			Size:       info.Size(),
			ModifiedAt: info.ModTime().UTC(),
		})
	}
	sortNewestFirst(entries)
	return entries, nil
}

func (a *DirArchive) path(scope, name string) (string, error) {
	if err := validSegment("archive scope", scope); err != nil {
		return "", err
	}
	if err := validSegment("archive name", name); err != nil {
		return "", err
	}
	return filepath.Join(a.dir, scope, name), nil
}

// validSegment accepts a single visible path element.
func validSegment(what, s string) error {
	if s == "" || filepath.Base(s) != s || strings.HasPrefix(s, ".") || strings.ContainsAny(s, `/\`) {
		return fmt.Errorf("%w: %s %q", apperrors.ErrValidation, what, s)
	}
	return nil
}

// sortNewestFirst orders by modification time, then by name for equal times.
func sortNewestFirst(entries []portsrepo.ArchiveEntry) {
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].ModifiedAt.Equal(entries[j].ModifiedAt) {
			return entries[i].ModifiedAt.After(entries[j].ModifiedAt)
		}
		return entries[i].Name > entries[j].Name
	})
}
