package retention

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSizePolicyDeletesOldestUntilUnderBudget(t *testing.T) {
	dir := t.TempDir()
	base := time.Now().Add(-time.Hour)

	writeBackup(t, dir, "first.sql", bytesPerMegabyte, base)
	writeBackup(t, dir, "second.sql", bytesPerMegabyte, base.Add(time.Minute))
	writeBackup(t, dir, "third.sql", bytesPerMegabyte, base.Add(2*time.Minute))

	policy := NewSizePolicy(2, zap.NewNop())
	deleted, err := policy.Cleanup(context.Background(), dir)

	require.NoError(t, err)
	assert.Equal(t, 1, deleted)
	assert.Equal(t, []string{"second.sql", "third.sql"}, remainingNames(t, dir))
}

func TestSizePolicyUnderBudget(t *testing.T) {
	dir := t.TempDir()
	base := time.Now().Add(-time.Hour)

	writeBackup(t, dir, "a.sql", bytesPerMegabyte/2, base)
	writeBackup(t, dir, "b.sql", bytesPerMegabyte/2, base.Add(time.Minute))

	policy := NewSizePolicy(2, zap.NewNop())
	deleted, err := policy.Cleanup(context.Background(), dir)

	require.NoError(t, err)
	assert.Equal(t, 0, deleted)
	assert.Len(t, remainingNames(t, dir), 2)
}

func TestSizePolicyRemovesOversizedOldArtifact(t *testing.T) {
	dir := t.TempDir()
	base := time.Now().Add(-time.Hour)

	writeBackup(t, dir, "big.sql", 3*bytesPerMegabyte, base)
	writeBackup(t, dir, "tiny.sql", 64, base.Add(time.Minute))

	policy := NewSizePolicy(2, zap.NewNop())
	deleted, err := policy.Cleanup(context.Background(), dir)

	require.NoError(t, err)
	assert.Equal(t, 1, deleted)
	assert.Equal(t, []string{"tiny.sql"}, remainingNames(t, dir))
}

func TestSizePolicyKeepsNewestEvenOverBudget(t *testing.T) {
	dir := t.TempDir()
	base := time.Now().Add(-time.Hour)

	writeBackup(t, dir, "old.sql", bytesPerMegabyte, base)
	writeBackup(t, dir, "huge.sql", 3*bytesPerMegabyte, base.Add(time.Minute))

	policy := NewSizePolicy(2, zap.NewNop())
	deleted, err := policy.Cleanup(context.Background(), dir)

	require.NoError(t, err)
	assert.Equal(t, 1, deleted)
	assert.Equal(t, []string{"huge.sql"}, remainingNames(t, dir))
}

func TestSizePolicyLoneOversizedArtifact(t *testing.T) {
	dir := t.TempDir()

	writeBackup(t, dir, "only.sql", 3*bytesPerMegabyte, time.Now())

	policy := NewSizePolicy(1, zap.NewNop())
	deleted, err := policy.Cleanup(context.Background(), dir)

	require.NoError(t, err)
	assert.Equal(t, 0, deleted)
	assert.Equal(t, []string{"only.sql"}, remainingNames(t, dir))
}

func TestSizePolicyEmptyDirectory(t *testing.T) {
	policy := NewSizePolicy(2, zap.NewNop())
	deleted, err := policy.Cleanup(context.Background(), t.TempDir())

	require.NoError(t, err)
	assert.Equal(t, 0, deleted)
}

func TestSizePolicyIdempotent(t *testing.T) {
	dir := t.TempDir()
	base := time.Now().Add(-time.Hour)

	writeBackup(t, dir, "first.sql", bytesPerMegabyte, base)
	writeBackup(t, dir, "second.sql", 2*bytesPerMegabyte, base.Add(time.Minute))
	writeBackup(t, dir, "third.sql", 2*bytesPerMegabyte, base.Add(2*time.Minute))

	policy := NewSizePolicy(4, zap.NewNop())

	deleted, err := policy.Cleanup(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)

	deleted, err = policy.Cleanup(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, 0, deleted)
	assert.Equal(t, []string{"second.sql", "third.sql"}, remainingNames(t, dir))
}
