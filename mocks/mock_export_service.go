package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"
)

// MockExportService is a mock implementation of service.ExportService.
type MockExportService struct {
	mock.Mock
}

func (m *MockExportService) Export(ctx context.Context, format string, w io.Writer) error {
	args := m.Called(ctx, format, w)
	return args.Error(0)
}
