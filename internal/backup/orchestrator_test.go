package backup

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/EmadAlmahdi/Backup-Manager/internal/dump"
	"github.com/EmadAlmahdi/Backup-Manager/internal/mysql"
	"github.com/EmadAlmahdi/Backup-Manager/internal/retention"
	"github.com/EmadAlmahdi/Backup-Manager/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testCreds = mysql.Credentials{
	Host:     "127.0.0.1",
	Port:     3306,
	User:     "backup",
	Password: "secret",
}

func newTestOrchestrator(t *testing.T, dir string, verifier mysql.Verifier, runner dump.Runner, policy retention.Policy) *Orchestrator {
	t.Helper()

	orchestrator, err := NewOrchestrator(dir, verifier, runner, policy, zap.NewNop())
	require.NoError(t, err)
	return orchestrator
}

// writeDumpFile makes a MockRunner expectation produce a real artifact, the
// way the actual runner would.
func writeDumpFile(t *testing.T, content string) func(args mock.Arguments) {
	t.Helper()

	return func(args mock.Arguments) {
		path := args.String(4)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
}

func TestNewOrchestratorCreatesStorageDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "backups", "mysql")

	orchestrator, err := NewOrchestrator(dir, &MockVerifier{}, &MockRunner{}, nil, zap.NewNop())

	require.NoError(t, err)
	require.NotNil(t, orchestrator)
	assert.DirExists(t, dir)
}

func TestNewOrchestratorUnusablePath(t *testing.T) {
	occupied := filepath.Join(t.TempDir(), "occupied")
	require.NoError(t, os.WriteFile(occupied, []byte("not a directory"), 0o600))

	orchestrator, err := NewOrchestrator(occupied, &MockVerifier{}, &MockRunner{}, nil, zap.NewNop())

	require.Error(t, err)
	assert.Nil(t, orchestrator)

	var storageErr *storage.StorageError
	assert.True(t, errors.As(err, &storageErr))
}

func TestRunSuccessfulBackup(t *testing.T) {
	dir := t.TempDir()

	verifier := &MockVerifier{}
	runner := &MockRunner{}
	policy := &MockPolicy{}

	verifier.On("Verify", mock.Anything, testCreds, "app").Return(nil)
	runner.On("Dump", mock.Anything, testCreds, "app", mock.Anything, mock.AnythingOfType("string")).
		Run(writeDumpFile(t, "-- dump")).
		Return(nil)
	policy.On("Kind").Return(retention.KindCount)
	policy.On("Cleanup", mock.Anything, dir).Return(1, nil)

	orchestrator := newTestOrchestrator(t, dir, verifier, runner, policy)

	result, err := orchestrator.Run(context.Background(), testCreds, "app", nil)
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, "app", result.Database)
	assert.Equal(t, int64(7), result.Size)
	assert.Equal(t, 1, result.Deleted)
	assert.Equal(t, 1, result.Artifacts)
	assert.Equal(t, int64(7), result.StorageBytes)
	assert.FileExists(t, result.ArtifactPath)
	assert.Regexp(t, `^app__\d{4}-\d{2}-\d{2}_\d{2}-\d{2}-\d{2}\.sql$`, filepath.Base(result.ArtifactPath))

	verifier.AssertExpectations(t)
	runner.AssertExpectations(t)
	policy.AssertExpectations(t)
}

func TestRunArtifactNameUsesStartTime(t *testing.T) {
	dir := t.TempDir()

	verifier := &MockVerifier{}
	runner := &MockRunner{}

	verifier.On("Verify", mock.Anything, testCreds, "app").Return(nil)
	runner.On("Dump", mock.Anything, testCreds, "app", mock.Anything, mock.AnythingOfType("string")).
		Run(writeDumpFile(t, "-- dump")).
		Return(nil)

	orchestrator := newTestOrchestrator(t, dir, verifier, runner, nil)
	orchestrator.now = func() time.Time {
		return time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	}

	result, err := orchestrator.Run(context.Background(), testCreds, "app", nil)
	require.NoError(t, err)

	assert.Equal(t, "app__2024-03-15_10-30-00.sql", filepath.Base(result.ArtifactPath))
}

func TestRunRefusesToOverwriteExistingArtifact(t *testing.T) {
	dir := t.TempDir()

	verifier := &MockVerifier{}
	runner := &MockRunner{}

	verifier.On("Verify", mock.Anything, testCreds, "app").Return(nil)

	orchestrator := newTestOrchestrator(t, dir, verifier, runner, nil)
	orchestrator.now = func() time.Time {
		return time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	}

	existing := filepath.Join(dir, "app__2024-03-15_10-30-00.sql")
	require.NoError(t, os.WriteFile(existing, []byte("-- earlier run"), 0o600))

	result, err := orchestrator.Run(context.Background(), testCreds, "app", nil)

	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "already exists")

	runner.AssertNotCalled(t, "Dump", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)

	content, readErr := os.ReadFile(existing)
	require.NoError(t, readErr)
	assert.Equal(t, "-- earlier run", string(content))
}

func TestRunVerifyFailureSkipsDump(t *testing.T) {
	dir := t.TempDir()

	verifier := &MockVerifier{}
	runner := &MockRunner{}

	connErr := mysql.NewConnectionError("127.0.0.1:3306", "backup", errors.New("access denied"))
	verifier.On("Verify", mock.Anything, testCreds, "app").Return(connErr)

	orchestrator := newTestOrchestrator(t, dir, verifier, runner, nil)

	result, err := orchestrator.Run(context.Background(), testCreds, "app", nil)

	require.Error(t, err)
	assert.Nil(t, result)

	var ce *mysql.ConnectionError
	assert.True(t, errors.As(err, &ce))

	runner.AssertNotCalled(t, "Dump", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)

	entries, readErr := os.ReadDir(dir)
	require.NoError(t, readErr)
	assert.Empty(t, entries)
}

func TestRunDumpFailureSkipsCleanup(t *testing.T) {
	dir := t.TempDir()

	verifier := &MockVerifier{}
	runner := &MockRunner{}
	policy := &MockPolicy{}

	verifier.On("Verify", mock.Anything, testCreds, "app").Return(nil)
	dumpErr := dump.NewBackupError("app", "Access denied", errors.New("exit status 2"))
	runner.On("Dump", mock.Anything, testCreds, "app", mock.Anything, mock.AnythingOfType("string")).Return(dumpErr)

	orchestrator := newTestOrchestrator(t, dir, verifier, runner, policy)

	result, err := orchestrator.Run(context.Background(), testCreds, "app", nil)

	require.Error(t, err)
	assert.Nil(t, result)

	var be *dump.BackupError
	assert.True(t, errors.As(err, &be))

	policy.AssertNotCalled(t, "Cleanup", mock.Anything, mock.Anything)
}

func TestRunCleanupFailureDoesNotFailRun(t *testing.T) {
	dir := t.TempDir()

	verifier := &MockVerifier{}
	runner := &MockRunner{}
	policy := &MockPolicy{}

	verifier.On("Verify", mock.Anything, testCreds, "app").Return(nil)
	runner.On("Dump", mock.Anything, testCreds, "app", mock.Anything, mock.AnythingOfType("string")).
		Run(writeDumpFile(t, "-- dump")).
		Return(nil)

	cleanupErr := retention.NewCleanupError(retention.KindSize, dir, errors.New("scan failed"))
	policy.On("Kind").Return(retention.KindSize)
	policy.On("Cleanup", mock.Anything, dir).Return(2, cleanupErr)

	orchestrator := newTestOrchestrator(t, dir, verifier, runner, policy)

	result, err := orchestrator.Run(context.Background(), testCreds, "app", nil)

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, 2, result.Deleted)
	assert.FileExists(t, result.ArtifactPath)

	policy.AssertExpectations(t)
}

func TestRunWithoutRetentionPolicy(t *testing.T) {
	dir := t.TempDir()

	verifier := &MockVerifier{}
	runner := &MockRunner{}

	verifier.On("Verify", mock.Anything, testCreds, "app").Return(nil)
	runner.On("Dump", mock.Anything, testCreds, "app", mock.Anything, mock.AnythingOfType("string")).
		Run(writeDumpFile(t, "-- dump")).
		Return(nil)

	orchestrator := newTestOrchestrator(t, dir, verifier, runner, nil)

	result, err := orchestrator.Run(context.Background(), testCreds, "app", nil)

	require.NoError(t, err)
	assert.Equal(t, 0, result.Deleted)
	assert.Equal(t, 1, result.Artifacts)
}

func TestRunPassesDumpOptions(t *testing.T) {
	dir := t.TempDir()

	verifier := &MockVerifier{}
	runner := &MockRunner{}

	options := []string{"--single-transaction", "--routines"}

	verifier.On("Verify", mock.Anything, testCreds, "app").Return(nil)
	runner.On("Dump", mock.Anything, testCreds, "app", options, mock.AnythingOfType("string")).
		Run(writeDumpFile(t, "-- dump")).
		Return(nil)

	orchestrator := newTestOrchestrator(t, dir, verifier, runner, nil)

	_, err := orchestrator.Run(context.Background(), testCreds, "app", options)

	require.NoError(t, err)
	runner.AssertExpectations(t)
}

func TestRunRejectsInvalidDatabaseName(t *testing.T) {
	tests := []struct {
		name     string
		database string
	}{
		{"empty", ""},
		{"embedded space", "my db"},
		{"path traversal", "../etc"},
		{"shell metacharacter", "app;drop"},
		{"null byte", "app\x00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verifier := &MockVerifier{}
			runner := &MockRunner{}

			orchestrator := newTestOrchestrator(t, t.TempDir(), verifier, runner, nil)

			result, err := orchestrator.Run(context.Background(), testCreds, tt.database, nil)

			require.Error(t, err)
			assert.Nil(t, result)
			verifier.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestArtifactName(t *testing.T) {
	ts := time.Date(2024, 3, 15, 9, 5, 2, 0, time.UTC)

	assert.Equal(t, "app__2024-03-15_09-05-02.sql", ArtifactName("app", ts))
}
