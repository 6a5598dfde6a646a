package retention

import (
	"context"

	"github.com/EmadAlmahdi/Backup-Manager/internal/storage"
	"go.uber.org/zap"
)

// CountPolicy keeps the newest limit artifacts and deletes the rest.
type CountPolicy struct {
	limit  int
	logger *zap.Logger
}

// NewCountPolicy creates a policy that retains at most limit artifacts.
func NewCountPolicy(limit int, logger *zap.Logger) *CountPolicy {
	return &CountPolicy{
		limit:  limit,
		logger: logger,
	}
}

// Kind reports the policy flavor.
func (p *CountPolicy) Kind() Kind {
	return KindCount
}

// Cleanup deletes every artifact beyond the limit newest ones.
func (p *CountPolicy) Cleanup(ctx context.Context, dir string) (int, error) {
	artifacts, err := storage.Scan(dir)
	if err != nil {
		return 0, NewCleanupError(p.Kind(), dir, err)
	}

	if len(artifacts) <= p.limit {
		return 0, nil
	}

	storage.SortNewestFirst(artifacts)

	deleted, err := deleteArtifacts(ctx, p.logger, artifacts[p.limit:])
	if err != nil {
		return deleted, NewCleanupError(p.Kind(), dir, err)
	}
	return deleted, nil
}
