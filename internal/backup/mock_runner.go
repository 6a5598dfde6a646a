package backup

import (
	"context"

	"github.com/EmadAlmahdi/Backup-Manager/internal/dump"
	"github.com/EmadAlmahdi/Backup-Manager/internal/mysql"
	"github.com/stretchr/testify/mock"
)

var _ dump.Runner = (*MockRunner)(nil) // Ensure MockRunner implements dump.Runner interface

type MockRunner struct {
	mock.Mock
}

func (m *MockRunner) Dump(ctx context.Context, creds mysql.Credentials, database string, options []string, outPath string) error {
	args := m.Called(ctx, creds, database, options, outPath)
	return args.Error(0)
}
