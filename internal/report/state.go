// Package report owns the fetch lifecycle of a report: filter, data, loading
// and error state, plus the catalog of report definitions that bind an
// endpoint to a typed row, a column set and a chart.
package report

import "stockdesk/internal/domain"

// State is everything a report view needs to render.
type State[T, S any] struct {
	Filter domain.ReportFilter
	// Result is the last successful response. It survives later failures.
	Result *domain.Result[T, S]
	// ResultFilter is the filter that produced Result.
	ResultFilter  domain.ReportFilter
	Loading       bool
	Err           error
	LatestRequest uint64

	Exporting bool
	ExportErr error
}

// EventKind names a state transition.
type EventKind int

const (
	FilterChanged EventKind = iota + 1
	PageChanged
	FetchStarted
	FetchSucceeded
	FetchFailed
	ExportStarted
	ExportFinished
)

func (k EventKind) String() string {
	switch k {
	case FilterChanged:
		return "filter_changed"
	case PageChanged:
		return "page_changed"
	case FetchStarted:
		return "fetch_started"
	case FetchSucceeded:
		return "fetch_succeeded"
	case FetchFailed:
		return "fetch_failed"
	case ExportStarted:
		return "export_started"
	case ExportFinished:
		return "export_finished"
	default:
		return "unknown"
	}
}

// Event is one input to Reduce. Only the fields relevant to Kind are read.
type Event[T, S any] struct {
	Kind      EventKind
	RequestID uint64
	Filter    domain.ReportFilter
	Page      int
	Result    *domain.Result[T, S]
	Err       error
}

// Reduce returns the state after e. It never mutates s or its Result.
//
// Fetch outcomes only land when they carry the latest request id. A failure
// keeps the previous Result. A success without a summary keeps the previous
// summary when only the page differs.
func Reduce[T, S any](s State[T, S], e Event[T, S]) State[T, S] {
	switch e.Kind {
	case FilterChanged:
		s.Filter = e.Filter
	case PageChanged:
		page := e.Page
		if s.Result != nil && s.Result.Pagination != nil && sameQuery(s.ResultFilter, s.Filter) {
			page = s.Result.Pagination.ClampPage(page)
		} else if page < 1 {
			page = 1
		}
		s.Filter.Page = page
	case FetchStarted:
		s.LatestRequest = e.RequestID
		s.Loading = true
	case FetchSucceeded:
		if e.RequestID != s.LatestRequest {
			return s
		}
		res := e.Result
		if res != nil && res.Summary == nil && s.Result != nil && s.Result.Summary != nil && sameQuery(s.ResultFilter, e.Filter) {
			merged := *res
			merged.Summary = s.Result.Summary
			res = &merged
		}
		s.Result = res
		s.ResultFilter = e.Filter
		s.Err = nil
		s.Loading = false
	case FetchFailed:
		if e.RequestID != s.LatestRequest {
			return s
		}
		s.Err = e.Err
		s.Loading = false
	case ExportStarted:
		s.Exporting = true
		s.ExportErr = nil
	case ExportFinished:
		s.Exporting = false
		s.ExportErr = e.Err
	}
	return s
}

// sameQuery reports whether a and b select the same rows, ignoring the page.
func sameQuery(a, b domain.ReportFilter) bool {
	a.Page, b.Page = 0, 0
	return a == b
}
