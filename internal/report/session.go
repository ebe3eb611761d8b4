package report

import (
	"context"

	"stockdesk/internal/domain"
	"stockdesk/internal/port"
	"stockdesk/internal/table"
)

// Session is a long-lived report instance: a coordinator plus the table
// display state the user builds up between loads. It is not safe for
// concurrent use.
type Session interface {
	Info() Info
	Filter() domain.ReportFilter
	Mount(ctx context.Context) error
	Refresh(ctx context.Context) error
	SetFilter(ctx context.Context, f domain.ReportFilter) error
	GoToPage(ctx context.Context, page int) error
	NextPage(ctx context.Context) error
	PreviousPage(ctx context.Context) error
	SetPageSize(ctx context.Context, size int) error
	ToggleSort(column string) error
	SetSearch(column, value string) error
	SetColumnVisible(column string, visible bool) error
	Export(ctx context.Context, fn ExportFunc) error
	View() *View
	FullView() *View
	Close()
}

type session[T, S any] struct {
	report  *Report[T, S]
	coord   *Coordinator[T, S]
	tbl     *table.Table[T]
	pending int
}

func (r *Report[T, S]) NewSession(api port.InventoryAPI, f domain.ReportFilter) (Session, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	s := &session[T, S]{report: r}
	tbl, err := r.newTable(func(page int) { s.pending = page })
	if err != nil {
		return nil, err
	}
	s.tbl = tbl
	s.coord = NewCoordinator(func(ctx context.Context, f domain.ReportFilter) (*domain.Result[T, S], error) {
		return r.Fetch(ctx, api, f)
	}, f, nil)
	return s, nil
}

func (s *session[T, S]) Info() Info {
	return s.report.Info()
}

func (s *session[T, S]) Filter() domain.ReportFilter {
	return s.coord.State().Filter
}

func (s *session[T, S]) Mount(ctx context.Context) error {
	return s.coord.Mount(ctx)
}

func (s *session[T, S]) Refresh(ctx context.Context) error {
	return s.coord.Refresh(ctx)
}

func (s *session[T, S]) SetFilter(ctx context.Context, f domain.ReportFilter) error {
	if s.report.ServerPagination && f.PerPage == 0 {
		f.PerPage = s.Filter().PerPage
	}
	return s.coord.SetFilter(ctx, f)
}

// GoToPage pages the table. Server-paginated reports refetch the page the
// table asked for.
func (s *session[T, S]) GoToPage(ctx context.Context, page int) error {
	s.sync()
	s.pending = 0
	s.tbl.GoToPage(page)
	if s.pending > 0 {
		return s.coord.SetPage(ctx, s.pending)
	}
	return nil
}

func (s *session[T, S]) NextPage(ctx context.Context) error {
	return s.GoToPage(ctx, s.currentPage()+1)
}

func (s *session[T, S]) PreviousPage(ctx context.Context) error {
	return s.GoToPage(ctx, s.currentPage()-1)
}

func (s *session[T, S]) currentPage() int {
	s.sync()
	return s.tbl.View().Page.Page
}

// SetPageSize changes the client page size, or the per_page query for
// server-paginated reports.
func (s *session[T, S]) SetPageSize(ctx context.Context, size int) error {
	if !s.report.ServerPagination {
		return s.tbl.SetPageSize(size)
	}
	if size <= 0 {
		return domain.ErrInvalidPageSize
	}
	f := s.Filter()
	f.PerPage = size
	f.Page = 1
	return s.coord.SetFilter(ctx, f)
}

func (s *session[T, S]) ToggleSort(column string) error {
	return s.tbl.ToggleSort(column)
}

func (s *session[T, S]) SetSearch(column, value string) error {
	return s.tbl.SetSearch(column, value)
}

func (s *session[T, S]) SetColumnVisible(column string, visible bool) error {
	return s.tbl.SetColumnVisible(column, visible)
}

func (s *session[T, S]) Export(ctx context.Context, fn ExportFunc) error {
	return s.coord.Export(ctx, fn)
}

func (s *session[T, S]) View() *View {
	return s.render(false)
}

func (s *session[T, S]) FullView() *View {
	return s.render(true)
}

func (s *session[T, S]) Close() {
	s.coord.Close()
}

func (s *session[T, S]) render(all bool) *View {
	st := s.sync()
	v := s.report.view(s.tbl, st.Filter, st.Result, all)
	if st.Err != nil {
		v.Error = st.Err.Error()
	}
	v.Exporting = st.Exporting
	return v
}

// sync copies the coordinator's latest state into the table.
func (s *session[T, S]) sync() State[T, S] {
	st := s.coord.State()
	s.tbl.SetLoading(st.Loading)
	if st.Result != nil {
		s.tbl.SetData(st.Result.Data)
		if st.Result.Pagination != nil {
			s.tbl.SetServerPage(*st.Result.Pagination)
		}
	}
	return st
}
