package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockDocumentSource is a mock implementation of port.DocumentSource.
type MockDocumentSource struct {
	mock.Mock
}

func (m *MockDocumentSource) ReadText(ctx context.Context, docID string) (string, error) {
	args := m.Called(ctx, docID)
	return args.String(0), args.Error(1)
}

func (m *MockDocumentSource) List(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
