// Package filterbar turns filter interactions into ReportFilter changes.
// It never fetches; owners subscribe through the change callback.
package filterbar

import (
	"fmt"
	"time"

	"stockdesk/internal/domain"
)

// ChangeFunc receives every new filter synchronously.
type ChangeFunc func(domain.ReportFilter)

// Bar holds the active filter and notifies on each change.
type Bar struct {
	filter   domain.ReportFilter
	onChange ChangeFunc
}

// New creates a Bar starting from the default filter.
func New(onChange ChangeFunc) *Bar {
	return &Bar{filter: domain.DefaultReportFilter(), onChange: onChange}
}

// NewWithFilter creates a Bar starting from f.
func NewWithFilter(f domain.ReportFilter, onChange ChangeFunc) *Bar {
	return &Bar{filter: f, onChange: onChange}
}

// Filter returns the active filter.
func (b *Bar) Filter() domain.ReportFilter {
	return b.filter
}

// SelectPeriod activates a quick-period preset and clears any date range.
func (b *Bar) SelectPeriod(p domain.Period) error {
	if !p.Valid() {
		return fmt.Errorf("%w: unknown period %q", domain.ErrInvalidFilter, p)
	}
	f := b.filter
	f.Period = p
	f.StartDate, f.EndDate = "", ""
	b.emit(f)
	return nil
}

// SelectRange activates an explicit date range and clears the period.
// Dates are truncated to calendar days; a reversed pair is swapped.
func (b *Bar) SelectRange(start, end time.Time) {
	if end.Before(start) {
		start, end = end, start
	}
	f := b.filter
	f.Period = ""
	f.StartDate = start.Format(domain.DateLayout)
	f.EndDate = end.Format(domain.DateLayout)
	b.emit(f)
}

// SelectStore scopes the report to one store. An empty id removes the scope.
func (b *Bar) SelectStore(storeID string) {
	f := b.filter
	f.StoreID = storeID
	b.emit(f)
}

// SelectGroupBy sets the time bucket. An empty value removes it.
func (b *Bar) SelectGroupBy(g domain.GroupBy) error {
	if g != "" && !g.Valid() {
		return fmt.Errorf("%w: unknown group_by %q", domain.ErrInvalidFilter, g)
	}
	f := b.filter
	f.GroupBy = g
	b.emit(f)
	return nil
}

// Clear restores the default filter: this month, nothing else set.
func (b *Bar) Clear() {
	b.emit(domain.DefaultReportFilter())
}

// emit resets paging to the first page, stores f and notifies.
func (b *Bar) emit(f domain.ReportFilter) {
	if f.Page > 0 {
		f.Page = 1
	}
	b.filter = f
	if b.onChange != nil {
		b.onChange(f)
	}
}
