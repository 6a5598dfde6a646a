package backup

import (
	"context"

	"github.com/EmadAlmahdi/Backup-Manager/internal/retention"
	"github.com/stretchr/testify/mock"
)

var _ retention.Policy = (*MockPolicy)(nil) // Ensure MockPolicy implements retention.Policy interface

type MockPolicy struct {
	mock.Mock
}

func (m *MockPolicy) Kind() retention.Kind {
	args := m.Called()
	return args.Get(0).(retention.Kind)
}

func (m *MockPolicy) Cleanup(ctx context.Context, dir string) (int, error) {
	args := m.Called(ctx, dir)
	return args.Int(0), args.Error(1)
}
