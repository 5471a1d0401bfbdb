package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"labeler/internal/domain"
)

// MockRecordStore is a mock implementation of port.RecordStore.
type MockRecordStore struct {
	mock.Mock
}

func (m *MockRecordStore) Load(ctx context.Context, docID string) (*domain.Record, error) {
	args := m.Called(ctx, docID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Record), args.Error(1)
}

func (m *MockRecordStore) SaveField(ctx context.Context, docID string, field domain.FieldName, value domain.FieldValue) error {
	args := m.Called(ctx, docID, field, value)
	return args.Error(0)
}

func (m *MockRecordStore) List(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
