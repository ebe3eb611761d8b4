package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"stockdesk/internal/domain"
	"stockdesk/internal/service"
)

// MockAdjustmentService is a mock implementation of service.AdjustmentService.
type MockAdjustmentService struct {
	mock.Mock
}

func (m *MockAdjustmentService) List(ctx context.Context, input service.AdjustmentListInput) (*domain.Result[service.AdjustmentView, domain.AdjustmentSummary], error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Result[service.AdjustmentView, domain.AdjustmentSummary]), args.Error(1)
}

func (m *MockAdjustmentService) Get(ctx context.Context, id int64) (*service.AdjustmentView, error) {
	return m.view(m.Called(ctx, id))
}

func (m *MockAdjustmentService) Activities(ctx context.Context, id int64) ([]domain.AdjustmentActivity, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AdjustmentActivity), args.Error(1)
}

func (m *MockAdjustmentService) Create(ctx context.Context, input domain.AdjustmentInput) (*service.AdjustmentView, error) {
	return m.view(m.Called(ctx, input))
}

func (m *MockAdjustmentService) Update(ctx context.Context, id int64, input domain.AdjustmentInput) (*service.AdjustmentView, error) {
	return m.view(m.Called(ctx, id, input))
}

func (m *MockAdjustmentService) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAdjustmentService) Submit(ctx context.Context, id int64) (*service.AdjustmentView, error) {
	return m.view(m.Called(ctx, id))
}

func (m *MockAdjustmentService) Approve(ctx context.Context, id int64) (*service.AdjustmentView, error) {
	return m.view(m.Called(ctx, id))
}

func (m *MockAdjustmentService) Reject(ctx context.Context, id int64, reason string) (*service.AdjustmentView, error) {
	return m.view(m.Called(ctx, id, reason))
}

func (m *MockAdjustmentService) Apply(ctx context.Context, id int64) (*service.AdjustmentView, error) {
	return m.view(m.Called(ctx, id))
}

func (m *MockAdjustmentService) view(args mock.Arguments) (*service.AdjustmentView, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AdjustmentView), args.Error(1)
}
