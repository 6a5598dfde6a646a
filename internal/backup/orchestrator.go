package backup

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/EmadAlmahdi/Backup-Manager/internal/dump"
	"github.com/EmadAlmahdi/Backup-Manager/internal/mysql"
	"github.com/EmadAlmahdi/Backup-Manager/internal/retention"
	"github.com/EmadAlmahdi/Backup-Manager/internal/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// timestampLayout shapes the artifact timestamp. Hyphens keep the name
// filesystem-safe on every platform.
const timestampLayout = "2006-01-02_15-04-05"

// databaseNamePattern restricts database names to characters that are safe
// inside a file name. The name ends up in the artifact path and in the
// mysqldump argument vector.
var databaseNamePattern = regexp.MustCompile(`^[A-Za-z0-9$_-]+$`)

// ArtifactName builds the canonical artifact file name for a database and
// timestamp, <database>__<YYYY-MM-DD_HH-mm-ss>.sql.
func ArtifactName(database string, ts time.Time) string {
	return database + "__" + ts.Format(timestampLayout) + storage.ArtifactExt
}

// Result summarizes a completed backup run.
type Result struct {
	RunID        string
	Database     string
	ArtifactPath string
	Size         int64
	Duration     time.Duration
	Deleted      int
	Artifacts    int
	StorageBytes int64
}

// Orchestrator drives one backup run end to end: verify credentials, dump
// the database into the storage directory, then apply retention.
type Orchestrator struct {
	storageDir string
	verifier   mysql.Verifier
	runner     dump.Runner
	policy     retention.Policy // nil disables retention
	logger     *zap.Logger
	now        func() time.Time
}

// NewOrchestrator creates an orchestrator writing into storageDir. The
// directory is created right away, recursively if needed, so a misconfigured
// path fails here instead of halfway through a backup.
func NewOrchestrator(storageDir string, verifier mysql.Verifier, runner dump.Runner, policy retention.Policy, logger *zap.Logger) (*Orchestrator, error) {
	if err := storage.EnsureDir(storageDir); err != nil {
		return nil, err
	}

	return &Orchestrator{
		storageDir: storageDir,
		verifier:   verifier,
		runner:     runner,
		policy:     policy,
		logger:     logger,
		now:        time.Now,
	}, nil
}

// Run performs a single backup of database and reports what happened. Once
// the dump artifact exists the run counts as successful; a failing
// retention pass afterwards is logged, not returned.
func (o *Orchestrator) Run(ctx context.Context, creds mysql.Credentials, database string, options []string) (*Result, error) {
	start := o.now()

	runID := uuid.New().String()
	logger := o.logger.With(
		zap.String("run_id", runID),
		zap.String("database", database),
	)

	if err := validateDatabaseName(database); err != nil {
		return nil, err
	}

	logger.Info("Starting backup run",
		zap.String("storage_dir", o.storageDir),
	)

	if err := o.verifier.Verify(ctx, creds, database); err != nil {
		return nil, err
	}

	artifactPath := filepath.Join(o.storageDir, ArtifactName(database, start))

	// Timestamps have second resolution, so two runs in the same second
	// would land on the same name. Refuse rather than overwrite.
	if _, err := os.Stat(artifactPath); err == nil {
		return nil, fmt.Errorf("artifact %s already exists, refusing to overwrite it", artifactPath)
	}

	if err := o.runner.Dump(ctx, creds, database, options, artifactPath); err != nil {
		return nil, err
	}

	result := &Result{
		RunID:        runID,
		Database:     database,
		ArtifactPath: artifactPath,
	}
	if info, err := os.Stat(artifactPath); err == nil {
		result.Size = info.Size()
	}

	logger.Info("Backup completed successfully",
		zap.String("artifact", artifactPath),
		zap.Int64("size_bytes", result.Size),
	)

	if o.policy != nil {
		deleted, err := o.policy.Cleanup(ctx, o.storageDir)
		result.Deleted = deleted
		if err != nil {
			// The artifact already exists, so a bounded-but-dirty storage
			// directory must not turn the run into a failure.
			logger.Warn("Retention cleanup failed",
				zap.String("policy", string(o.policy.Kind())),
				zap.Error(err),
			)
		} else if deleted > 0 {
			logger.Info("Retention cleanup finished",
				zap.String("policy", string(o.policy.Kind())),
				zap.Int("deleted", deleted),
			)
		}
	}

	if artifacts, err := storage.Scan(o.storageDir); err == nil {
		result.Artifacts = len(artifacts)
		result.StorageBytes = storage.TotalSize(artifacts)
	}

	result.Duration = o.now().Sub(start)

	return result, nil
}

func validateDatabaseName(database string) error {
	if database == "" {
		return fmt.Errorf("database name is required")
	}
	if !databaseNamePattern.MatchString(database) {
		return fmt.Errorf("invalid database name %q: only letters, digits, '$', '_' and '-' are allowed", database)
	}
	return nil
}
