package retention

import (
	"context"
	"time"

	"github.com/EmadAlmahdi/Backup-Manager/internal/storage"
	"go.uber.org/zap"
)

// AgePolicy deletes artifacts older than a fixed number of days.
type AgePolicy struct {
	days   int
	logger *zap.Logger
	now    func() time.Time
}

// NewAgePolicy creates a policy that retains artifacts for the given
// number of days.
func NewAgePolicy(days int, logger *zap.Logger) *AgePolicy {
	return &AgePolicy{
		days:   days,
		logger: logger,
		now:    time.Now,
	}
}

// Kind reports the policy flavor.
func (p *AgePolicy) Kind() Kind {
	return KindAge
}

// Cleanup deletes every artifact whose last-modified time falls strictly
// before the cutoff. An artifact exactly days old is retained.
func (p *AgePolicy) Cleanup(ctx context.Context, dir string) (int, error) {
	artifacts, err := storage.Scan(dir)
	if err != nil {
		return 0, NewCleanupError(p.Kind(), dir, err)
	}

	cutoff := p.now().Add(-time.Duration(p.days) * 24 * time.Hour)

	var expired []storage.Artifact
	for _, artifact := range artifacts {
		if artifact.LastModified.Before(cutoff) {
			expired = append(expired, artifact)
		}
	}

	deleted, err := deleteArtifacts(ctx, p.logger, expired)
	if err != nil {
		return deleted, NewCleanupError(p.Kind(), dir, err)
	}
	return deleted, nil
}
