package dump

import (
	"context"
	"fmt"

	"github.com/EmadAlmahdi/Backup-Manager/internal/mysql"
)

// Runner produces a database dump at a caller-chosen path.
type Runner interface {
	// Dump writes a full dump of database to outPath. The file appears at
	// outPath only if the dump succeeded; a failed run leaves nothing
	// behind. Extra options are passed to the dump tool verbatim.
	Dump(ctx context.Context, creds mysql.Credentials, database string, options []string, outPath string) error
}

// BackupError occurs when the dump utility fails to produce a usable dump.
type BackupError struct {
	Database string
	Output   string
	Cause    error
}

func (e *BackupError) Error() string {
	if e.Output == "" {
		return fmt.Sprintf("dump of database %q failed: %v", e.Database, e.Cause)
	}
	return fmt.Sprintf("dump of database %q failed: %v: %s", e.Database, e.Cause, e.Output)
}

func (e *BackupError) Unwrap() error {
	return e.Cause
}

// NewBackupError creates a new BackupError.
func NewBackupError(database, output string, cause error) *BackupError {
	return &BackupError{
		Database: database,
		Output:   output,
		Cause:    cause,
	}
}
