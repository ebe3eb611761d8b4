package report

import (
	"context"
	"fmt"
	"net/http"

	"stockdesk/internal/apiclient"
	"stockdesk/internal/chart"
	"stockdesk/internal/domain"
	"stockdesk/internal/port"
	"stockdesk/internal/table"
)

// ChartKind is how a report's chart is drawn.
type ChartKind string

const (
	ChartPie  ChartKind = "pie"
	ChartBar  ChartKind = "bar"
	ChartLine ChartKind = "line"
	ChartArea ChartKind = "area"
)

// ChartView is chart-ready data. Pie charts fill Slices, the others Series.
type ChartView struct {
	Kind   ChartKind     `json:"kind"`
	Title  string        `json:"title,omitempty"`
	Slices []chart.Slice `json:"slices,omitempty"`
	Series *chart.Series `json:"series,omitempty"`
}

// ColumnInfo describes a column in the catalog.
type ColumnInfo struct {
	ID       string `json:"id"`
	Header   string `json:"header"`
	Sortable bool   `json:"sortable"`
	Hideable bool   `json:"hideable"`
}

// Info describes a report in the catalog.
type Info struct {
	Key              string       `json:"key"`
	Domain           string       `json:"domain"`
	Name             string       `json:"name"`
	Title            string       `json:"title"`
	Path             string       `json:"path"`
	ExportPath       string       `json:"export_path"`
	SearchColumn     string       `json:"search_column,omitempty"`
	ServerPagination bool         `json:"server_pagination"`
	Chart            ChartKind    `json:"chart,omitempty"`
	Columns          []ColumnInfo `json:"columns"`
}

// Params are the table display settings for one render.
type Params struct {
	Sort     table.Sort
	Search   table.Search
	Hidden   []string
	Page     int
	PageSize int
}

// View is a rendered report: table, chart and summary.
type View struct {
	Report     Info                `json:"report"`
	Filter     domain.ReportFilter `json:"filter"`
	Table      table.View          `json:"table"`
	Chart      *ChartView          `json:"chart,omitempty"`
	Summary    any                 `json:"summary,omitempty"`
	Meta       domain.Meta         `json:"meta"`
	Pagination *domain.Pagination  `json:"pagination,omitempty"`
	// Error is set when the latest load failed; the data shown is from the
	// last successful load.
	Error     string `json:"error,omitempty"`
	Exporting bool   `json:"exporting,omitempty"`
}

// Definition is a report the catalog can render without knowing its row type.
type Definition interface {
	Info() Info
	// Render fetches once and renders a view. With all set, every row is
	// rendered regardless of the page.
	Render(ctx context.Context, api port.InventoryAPI, f domain.ReportFilter, p Params, all bool) (*View, error)
	// NewSession starts a long-lived report instance with its own coordinator.
	NewSession(api port.InventoryAPI, f domain.ReportFilter) (Session, error)
}

// Report binds an endpoint to a row type, its columns and its chart.
type Report[T, S any] struct {
	Domain           string
	Name             string
	Title            string
	Path             string
	Columns          []table.Column[T]
	SearchColumn     string
	ServerPagination bool
	EmptyMessage     string
	ChartKind        ChartKind
	Chart            func(rows []T, f domain.ReportFilter) *ChartView
}

// Key is "<domain>/<name>".
func (r *Report[T, S]) Key() string {
	return r.Domain + "/" + r.Name
}

func (r *Report[T, S]) Info() Info {
	cols := make([]ColumnInfo, len(r.Columns))
	for i, c := range r.Columns {
		cols[i] = ColumnInfo{ID: c.ID, Header: c.Header, Sortable: c.Sortable, Hideable: c.Hideable}
	}
	return Info{
		Key:              r.Key(),
		Domain:           r.Domain,
		Name:             r.Name,
		Title:            r.Title,
		Path:             r.Path,
		ExportPath:       r.Path + "/export",
		SearchColumn:     r.SearchColumn,
		ServerPagination: r.ServerPagination,
		Chart:            r.ChartKind,
		Columns:          cols,
	}
}

// Fetch loads the report for f.
func (r *Report[T, S]) Fetch(ctx context.Context, api port.InventoryAPI, f domain.ReportFilter) (*domain.Result[T, S], error) {
	resp, err := api.Do(ctx, http.MethodGet, r.Path, f.Query(), nil)
	if err != nil {
		return nil, err
	}
	return apiclient.DecodeResult[T, S](resp)
}

func (r *Report[T, S]) Render(ctx context.Context, api port.InventoryAPI, f domain.ReportFilter, p Params, all bool) (*View, error) {
	if r.ServerPagination {
		f = pagedFilter(f, p)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	tbl, err := r.newTable(nil)
	if err != nil {
		return nil, err
	}
	if err := applyParams(tbl, p, !r.ServerPagination); err != nil {
		return nil, err
	}

	res, err := r.Fetch(ctx, api, f)
	if err != nil {
		return nil, err
	}
	tbl.SetData(res.Data)
	if res.Pagination != nil {
		tbl.SetServerPage(*res.Pagination)
	}
	if !r.ServerPagination && p.Page > 0 {
		tbl.GoToPage(p.Page)
	}
	return r.view(tbl, f, res, all), nil
}

func (r *Report[T, S]) newTable(onPageChange func(int)) (*table.Table[T], error) {
	return table.New(r.Columns, table.Options{
		ServerPagination: r.ServerPagination,
		OnPageChange:     onPageChange,
		SearchColumn:     r.SearchColumn,
		EmptyMessage:     r.EmptyMessage,
	})
}

func (r *Report[T, S]) view(tbl *table.Table[T], f domain.ReportFilter, res *domain.Result[T, S], all bool) *View {
	v := &View{Report: r.Info(), Filter: f}
	if all {
		v.Table = tbl.FullView()
	} else {
		v.Table = tbl.View()
	}
	if res == nil {
		return v
	}
	v.Meta = res.Meta
	v.Pagination = res.Pagination
	if res.Summary != nil {
		v.Summary = res.Summary
	}
	if r.Chart != nil {
		v.Chart = r.Chart(res.Data, f)
	}
	return v
}

// pagedFilter moves table paging into the query for server-paginated reports.
func pagedFilter(f domain.ReportFilter, p Params) domain.ReportFilter {
	if p.Page > 0 {
		f.Page = p.Page
	}
	if p.PageSize > 0 {
		f.PerPage = p.PageSize
	}
	return f
}

func applyParams[T any](tbl *table.Table[T], p Params, clientPaging bool) error {
	if p.Sort.Column != "" {
		if err := tbl.SetSort(p.Sort.Column, p.Sort.Direction); err != nil {
			return fmt.Errorf("%w: %w", domain.ErrInvalidFilter, err)
		}
	}
	if p.Search.Value != "" {
		if err := tbl.SetSearch(p.Search.Column, p.Search.Value); err != nil {
			return fmt.Errorf("%w: %w", domain.ErrInvalidFilter, err)
		}
	}
	for _, col := range p.Hidden {
		if err := tbl.SetColumnVisible(col, false); err != nil {
			return fmt.Errorf("%w: %w", domain.ErrInvalidFilter, err)
		}
	}
	if clientPaging && p.PageSize > 0 {
		if err := tbl.SetPageSize(p.PageSize); err != nil {
			return err
		}
	}
	return nil
}
