package backup

import (
	"context"

	"github.com/EmadAlmahdi/Backup-Manager/internal/mysql"
	"github.com/stretchr/testify/mock"
)

var _ mysql.Verifier = (*MockVerifier)(nil) // Ensure MockVerifier implements mysql.Verifier interface

type MockVerifier struct {
	mock.Mock
}

func (m *MockVerifier) Verify(ctx context.Context, creds mysql.Credentials, database string) error {
	args := m.Called(ctx, creds, database)
	return args.Error(0)
}
