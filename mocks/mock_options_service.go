package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"stockdesk/internal/service"
)

// MockOptionsService is a mock implementation of service.OptionsService.
type MockOptionsService struct {
	mock.Mock
}

func (m *MockOptionsService) AdjustmentForm(ctx context.Context) (*service.FormOptions, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.FormOptions), args.Error(1)
}
