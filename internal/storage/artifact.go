package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// ArtifactExt is the extension the dump step produces. Cleanup only ever
// considers files carrying it; anything else in the storage directory is
// left alone.
const ArtifactExt = ".sql"

// Artifact is a single backup file in the storage directory. Identity is the
// path; the directory listing is the source of truth, there is no manifest.
type Artifact struct {
	Path         string
	LastModified time.Time
	Size         int64
}

// Name returns the artifact's file name without its directory.
func (a Artifact) Name() string {
	return filepath.Base(a.Path)
}

// StorageError reports a storage directory that cannot be created or read.
type StorageError struct {
	Op    string
	Path  string
	Cause error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error [op=%s, path=%s]: %v", e.Op, e.Path, e.Cause)
}

func (e *StorageError) Unwrap() error {
	return e.Cause
}

// NewStorageError creates a new StorageError.
func NewStorageError(op, path string, cause error) *StorageError {
	return &StorageError{
		Op:    op,
		Path:  path,
		Cause: cause,
	}
}

// EnsureDir creates the storage directory, recursively if needed.
func EnsureDir(path string) error {
	if err := os.MkdirAll(path, 0750); err != nil {
		return NewStorageError("create", path, err)
	}
	return nil
}

// Scan lists the backup artifacts in dir. A nonexistent directory yields an
// empty set, not an error, so cleanup on a fresh path is a no-op.
func Scan(dir string) ([]Artifact, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, NewStorageError("list", dir, err)
	}

	var artifacts []Artifact
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ArtifactExt {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			// File vanished between listing and stat.
			continue
		}

		artifacts = append(artifacts, Artifact{
			Path:         filepath.Join(dir, entry.Name()),
			LastModified: info.ModTime(),
			Size:         info.Size(),
		})
	}

	return artifacts, nil
}

// Remove deletes a single artifact from disk.
func Remove(a Artifact) error {
	return os.Remove(a.Path)
}

// SortNewestFirst orders artifacts by last-modified time, most recent first.
// The sort is stable: artifacts with equal timestamps keep their directory
// listing order.
func SortNewestFirst(artifacts []Artifact) {
	sort.SliceStable(artifacts, func(i, j int) bool {
		return artifacts[i].LastModified.After(artifacts[j].LastModified)
	})
}

// TotalSize returns the cumulative size in bytes of the given artifacts.
func TotalSize(artifacts []Artifact) int64 {
	var total int64
	for _, a := range artifacts {
		total += a.Size
	}
	return total
}
