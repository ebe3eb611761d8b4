package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"stockdesk/internal/apiclient"
	"stockdesk/internal/domain"
	"stockdesk/internal/report"
)

// MockReportService is a mock implementation of service.ReportService.
type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) List() []report.Info {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]report.Info)
}

func (m *MockReportService) Lookup(domainName, name string) (report.Definition, error) {
	args := m.Called(domainName, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(report.Definition), args.Error(1)
}

func (m *MockReportService) Render(ctx context.Context, domainName, name string, f domain.ReportFilter, p report.Params) (*report.View, error) {
	args := m.Called(ctx, domainName, name, f, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.View), args.Error(1)
}

func (m *MockReportService) RenderAll(ctx context.Context, domainName, name string, f domain.ReportFilter, p report.Params) (*report.View, error) {
	args := m.Called(ctx, domainName, name, f, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.View), args.Error(1)
}

func (m *MockReportService) Export(ctx context.Context, domainName, name string, f domain.ReportFilter) (*apiclient.Download, report.Info, error) {
	args := m.Called(ctx, domainName, name, f)
	info, _ := args.Get(1).(report.Info)
	if args.Get(0) == nil {
		return nil, info, args.Error(2)
	}
	return args.Get(0).(*apiclient.Download), info, args.Error(2)
}

func (m *MockReportService) NewSession(key string, f domain.ReportFilter) (report.Session, error) {
	args := m.Called(key, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(report.Session), args.Error(1)
}
