package mocks

import (
	"context"
	"net/url"

	"github.com/stretchr/testify/mock"

	"stockdesk/internal/apiclient"
)

// MockInventoryAPI is a mock implementation of port.InventoryAPI.
type MockInventoryAPI struct {
	mock.Mock
}

func (m *MockInventoryAPI) Do(ctx context.Context, method, path string, query url.Values, body any) (*apiclient.Response, error) {
	args := m.Called(ctx, method, path, query, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*apiclient.Response), args.Error(1)
}

func (m *MockInventoryAPI) Get(ctx context.Context, path string, query url.Values, out any) error {
	args := m.Called(ctx, path, query, out)
	return args.Error(0)
}

func (m *MockInventoryAPI) Post(ctx context.Context, path string, body, out any) error {
	args := m.Called(ctx, path, body, out)
	return args.Error(0)
}

func (m *MockInventoryAPI) Patch(ctx context.Context, path string, body, out any) error {
	args := m.Called(ctx, path, body, out)
	return args.Error(0)
}

func (m *MockInventoryAPI) Delete(ctx context.Context, path string) error {
	args := m.Called(ctx, path)
	return args.Error(0)
}

func (m *MockInventoryAPI) Download(ctx context.Context, path string, query url.Values) (*apiclient.Download, error) {
	args := m.Called(ctx, path, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*apiclient.Download), args.Error(1)
}
