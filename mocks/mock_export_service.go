package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"stockdesk/internal/domain"
	"stockdesk/internal/export"
	"stockdesk/internal/report"
	"stockdesk/internal/service"
)

// MockExportService is a mock implementation of service.ExportService.
type MockExportService struct {
	mock.Mock
}

func (m *MockExportService) Stream(ctx context.Context, domainName, name string, f domain.ReportFilter, w io.Writer) (*service.ExportResult, error) {
	return m.result(m.Called(ctx, domainName, name, f, w))
}

func (m *MockExportService) SaveFile(ctx context.Context, domainName, name string, f domain.ReportFilter, dest string) (*service.ExportResult, error) {
	return m.result(m.Called(ctx, domainName, name, f, dest))
}

func (m *MockExportService) Archive(ctx context.Context, domainName, name string, f domain.ReportFilter) (*service.ExportResult, error) {
	return m.result(m.Called(ctx, domainName, name, f))
}

func (m *MockExportService) Table(ctx context.Context, domainName, name string, f domain.ReportFilter, p report.Params, format export.Format, w io.Writer) (*service.ExportResult, error) {
	return m.result(m.Called(ctx, domainName, name, f, p, format, w))
}

func (m *MockExportService) result(args mock.Arguments) (*service.ExportResult, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ExportResult), args.Error(1)
}
