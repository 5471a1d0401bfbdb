package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"labeler/internal/service"
)

// MockLabelingService is a mock implementation of service.LabelingService.
type MockLabelingService struct {
	mock.Mock
}

func (m *MockLabelingService) ListDocuments(ctx context.Context) ([]service.DocumentSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.DocumentSummary), args.Error(1)
}

func (m *MockLabelingService) View(ctx context.Context, docID, field string) (*service.View, error) {
	args := m.Called(ctx, docID, field)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.View), args.Error(1)
}

func (m *MockLabelingService) Save(ctx context.Context, input *service.SaveFieldInput) (*service.SaveResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SaveResult), args.Error(1)
}

func (m *MockLabelingService) Summary(ctx context.Context, docID string) (*service.Summary, error) {
	args := m.Called(ctx, docID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Summary), args.Error(1)
}
