package retention

import (
	"context"

	"github.com/EmadAlmahdi/Backup-Manager/internal/storage"
	"go.uber.org/zap"
)

const bytesPerMegabyte = 1024 * 1024

// SizePolicy caps the cumulative size of the stored artifacts.
type SizePolicy struct {
	megabytes int
	logger    *zap.Logger
}

// NewSizePolicy creates a policy that keeps the artifact set under
// megabytes megabytes in total.
func NewSizePolicy(megabytes int, logger *zap.Logger) *SizePolicy {
	return &SizePolicy{
		megabytes: megabytes,
		logger:    logger,
	}
}

// Kind reports the policy flavor.
func (p *SizePolicy) Kind() Kind {
	return KindSize
}

// Cleanup deletes artifacts oldest-first until the remaining set fits the
// size budget. The newest artifact is never deleted, even when it exceeds
// the budget on its own.
func (p *SizePolicy) Cleanup(ctx context.Context, dir string) (int, error) {
	artifacts, err := storage.Scan(dir)
	if err != nil {
		return 0, NewCleanupError(p.Kind(), dir, err)
	}

	storage.SortNewestFirst(artifacts)

	limit := int64(p.megabytes) * bytesPerMegabyte
	total := storage.TotalSize(artifacts)

	var overflow []storage.Artifact
	for i := len(artifacts) - 1; i >= 1 && total > limit; i-- {
		overflow = append(overflow, artifacts[i])
		total -= artifacts[i].Size
	}

	deleted, err := deleteArtifacts(ctx, p.logger, overflow)
	if err != nil {
		return deleted, NewCleanupError(p.Kind(), dir, err)
	}
	return deleted, nil
}
