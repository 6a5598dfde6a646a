// Package retention bounds the set of backup artifacts kept on disk. Each
// Policy flavor scans the storage directory and deletes the artifacts it
// deems expendable, leaving everything else untouched.
package retention

import (
	"context"

	"github.com/EmadAlmahdi/Backup-Manager/internal/storage"
	"go.uber.org/zap"
)

// Kind names a retention policy flavor.
type Kind string

const (
	KindCount Kind = "count" // keep at most N artifacts
	KindAge   Kind = "age"   // keep artifacts newer than N days
	KindSize  Kind = "size"  // keep cumulative size under N megabytes
)

// Policy decides which backup artifacts are expendable and deletes them.
type Policy interface {
	// Kind reports the policy flavor.
	Kind() Kind

	// Cleanup scans dir and deletes the artifacts the policy rejects,
	// returning the number of artifacts actually deleted. A missing or
	// empty directory is a no-op. Individual deletion failures are logged
	// and skipped, not returned.
	Cleanup(ctx context.Context, dir string) (int, error)
}

// deleteArtifacts removes the given artifacts one by one. A file that fails
// to delete is logged and skipped so the rest of the pass still runs. The
// returned count covers successful deletions only.
func deleteArtifacts(ctx context.Context, logger *zap.Logger, artifacts []storage.Artifact) (int, error) {
	deleted := 0
	for _, artifact := range artifacts {
		if err := ctx.Err(); err != nil {
			return deleted, err
		}

		if err := storage.Remove(artifact); err != nil {
			logger.Warn("Failed to delete backup artifact",
				zap.String("path", artifact.Path),
				zap.Error(err),
			)
			continue
		}

		logger.Info("Deleted backup artifact",
			zap.String("path", artifact.Path),
			zap.Int64("size_bytes", artifact.Size),
		)
		deleted++
	}
	return deleted, nil
}
