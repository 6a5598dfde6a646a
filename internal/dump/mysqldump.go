package dump

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/EmadAlmahdi/Backup-Manager/internal/mysql"
	"go.uber.org/zap"
)

// DefaultBinary is the dump tool used when none is configured.
const DefaultBinary = "mysqldump"

// partialSuffix marks an in-progress dump. Partial files never carry the
// artifact extension, so a crashed run is invisible to retention.
const partialSuffix = ".partial"

// Mysqldump runs the mysqldump client as a child process. The password
// travels through MYSQL_PWD in the child environment and never appears in
// the argument vector, so it cannot leak through the process table.
type Mysqldump struct {
	binary string
	logger *zap.Logger
}

// NewMysqldump creates a runner that invokes the given mysqldump binary.
// An empty binary falls back to DefaultBinary.
func NewMysqldump(binary string, logger *zap.Logger) *Mysqldump {
	if binary == "" {
		binary = DefaultBinary
	}
	return &Mysqldump{
		binary: binary,
		logger: logger,
	}
}

// Dump streams mysqldump's stdout into a temporary file next to outPath and
// renames it into place once the tool exits cleanly.
func (m *Mysqldump) Dump(ctx context.Context, creds mysql.Credentials, database string, options []string, outPath string) error {
	tmpPath := outPath + partialSuffix

	out, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return NewBackupError(database, "", err)
	}

	var stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, m.binary, m.args(creds, database, options)...)
	cmd.Stdout = out
	cmd.Stderr = &stderr
	cmd.Env = append(os.Environ(), "MYSQL_PWD="+creds.Password)

	m.logger.Info("Running dump utility",
		zap.String("binary", m.binary),
		zap.String("database", database),
		zap.String("output", outPath),
	)

	runErr := cmd.Run()
	closeErr := out.Close()

	if runErr != nil {
		os.Remove(tmpPath)
		return NewBackupError(database, excerpt(stderr.String()), runErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return NewBackupError(database, "", closeErr)
	}

	if err := os.Rename(tmpPath, outPath); err != nil {
		os.Remove(tmpPath)
		return NewBackupError(database, "", err)
	}

	return nil
}

// args assembles the mysqldump argument vector. The password is deliberately
// absent from it. --databases makes mysqldump emit CREATE DATABASE and USE
// statements, so the artifact restores into the right schema on its own.
func (m *Mysqldump) args(creds mysql.Credentials, database string, options []string) []string {
	args := []string{
		"-h", creds.Host,
		"-P", strconv.Itoa(creds.Port),
		"-u", creds.User,
	}
	args = append(args, options...)
	args = append(args, "--databases", database)
	return args
}

func excerpt(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 1000 {
		// Truncate very long error messages, backing up so a multibyte
		// rune is never split.
		cut := 1000
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		s = s[:cut] + "..."
	}
	return s
}
