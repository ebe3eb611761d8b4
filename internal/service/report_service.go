package service

import (
	"context"

	"stockdesk/internal/apiclient"
	"stockdesk/internal/domain"
	"stockdesk/internal/port"
	"stockdesk/internal/report"
)

// ReportService renders catalog reports against the inventory API.
type ReportService interface {
	List() []report.Info
	Lookup(domainName, name string) (report.Definition, error)
	Render(ctx context.Context, domainName, name string, f domain.ReportFilter, p report.Params) (*report.View, error)
	// RenderAll renders every filtered row, ignoring the page. Exports use it.
	RenderAll(ctx context.Context, domainName, name string, f domain.ReportFilter, p report.Params) (*report.View, error)
	// Export opens the backend CSV stream for a report. The caller must close it.
	Export(ctx context.Context, domainName, name string, f domain.ReportFilter) (*apiclient.Download, report.Info, error)
	NewSession(key string, f domain.ReportFilter) (report.Session, error)
}

type reportService struct {
	catalog *report.Catalog
	api     port.InventoryAPI
}

// NewReportService creates a new ReportService.
func NewReportService(catalog *report.Catalog, api port.InventoryAPI) ReportService {
	return &reportService{catalog: catalog, api: api}
}

func (s *reportService) List() []report.Info {
	return s.catalog.List()
}

func (s *reportService) Lookup(domainName, name string) (report.Definition, error) {
	return s.catalog.Lookup(domainName, name)
}

func (s *reportService) Render(ctx context.Context, domainName, name string, f domain.ReportFilter, p report.Params) (*report.View, error) {
	return s.render(ctx, domainName, name, f, p, false)
}

func (s *reportService) RenderAll(ctx context.Context, domainName, name string, f domain.ReportFilter, p report.Params) (*report.View, error) {
	return s.render(ctx, domainName, name, f, p, true)
}

func (s *reportService) render(ctx context.Context, domainName, name string, f domain.ReportFilter, p report.Params, all bool) (*report.View, error) {
	def, err := s.catalog.Lookup(domainName, name)
	if err != nil {
		return nil, err
	}
	return def.Render(ctx, s.api, f, p, all)
}

func (s *reportService) Export(ctx context.Context, domainName, name string, f domain.ReportFilter) (*apiclient.Download, report.Info, error) {
	def, err := s.catalog.Lookup(domainName, name)
	if err != nil {
		return nil, report.Info{}, err
	}
	if err := f.Validate(); err != nil {
		return nil, report.Info{}, err
	}
	info := def.Info()
	// The export covers the whole filtered range, not the page on screen.
	f.Page, f.PerPage = 0, 0
	d, err := s.api.Download(ctx, info.ExportPath, f.Query())
	if err != nil {
		return nil, info, err
	}
	return d, info, nil
}

func (s *reportService) NewSession(key string, f domain.ReportFilter) (report.Session, error) {
	def, err := s.catalog.LookupKey(key)
	if err != nil {
		return nil, err
	}
	return def.NewSession(s.api, f)
}
