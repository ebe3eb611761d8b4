package domain

import (
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// DateLayout is the wire format for explicit report dates.
const DateLayout = "2006-01-02"

// ReportFilter is the query state shared by every report page.
// Exactly one of Period or the StartDate/EndDate pair is active at a time.
type ReportFilter struct {
	Period    Period  `json:"period,omitempty"`
	StartDate string  `json:"start_date,omitempty"`
	EndDate   string  `json:"end_date,omitempty"`
	StoreID   string  `json:"store_id,omitempty"`
	GroupBy   GroupBy `json:"group_by,omitempty"`
	Page      int     `json:"page,omitempty"`
	PerPage   int     `json:"per_page,omitempty"`
}

// DefaultReportFilter returns the filter a report page mounts with.
func DefaultReportFilter() ReportFilter {
	return ReportFilter{Period: DefaultPeriod}
}

// HasRange reports whether an explicit date range is active.
func (f ReportFilter) HasRange() bool {
	return f.StartDate != "" || f.EndDate != ""
}

// Validate checks enum membership, date formats and range exclusivity.
func (f ReportFilter) Validate() error {
	if f.Period != "" && f.HasRange() {
		return fmt.Errorf("%w: period and date range are mutually exclusive", ErrInvalidFilter)
	}
	if f.Period != "" && !f.Period.Valid() {
		return fmt.Errorf("%w: unknown period %q", ErrInvalidFilter, f.Period)
	}
	if f.GroupBy != "" && !f.GroupBy.Valid() {
		return fmt.Errorf("%w: unknown group_by %q", ErrInvalidFilter, f.GroupBy)
	}
	if f.HasRange() {
		if f.StartDate == "" || f.EndDate == "" {
			return fmt.Errorf("%w: start_date and end_date must be set together", ErrInvalidFilter)
		}
		start, err := time.Parse(DateLayout, f.StartDate)
		if err != nil {
			return fmt.Errorf("%w: invalid start_date: must be YYYY-MM-DD", ErrInvalidFilter)
		}
		end, err := time.Parse(DateLayout, f.EndDate)
		if err != nil {
			return fmt.Errorf("%w: invalid end_date: must be YYYY-MM-DD", ErrInvalidFilter)
		}
		if end.Before(start) {
			return fmt.Errorf("%w: end_date before start_date", ErrInvalidFilter)
		}
	}
	if f.Page < 0 || f.PerPage < 0 {
		return fmt.Errorf("%w: page and per_page must be positive", ErrInvalidFilter)
	}
	return nil
}

// Query encodes the filter as API query parameters. Unset fields are omitted.
func (f ReportFilter) Query() url.Values {
	q := url.Values{}
	if f.Period != "" {
		q.Set("period", string(f.Period))
	}
	if f.StartDate != "" {
		q.Set("start_date", f.StartDate)
	}
	if f.EndDate != "" {
		q.Set("end_date", f.EndDate)
	}
	if f.StoreID != "" {
		q.Set("store_id", f.StoreID)
	}
	if f.GroupBy != "" {
		q.Set("group_by", string(f.GroupBy))
	}
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if f.PerPage > 0 {
		q.Set("per_page", strconv.Itoa(f.PerPage))
	}
	return q
}

// ParseReportFilter extracts a filter from query parameters. A supplied date
// range takes precedence over a period. With neither, the default period applies.
func ParseReportFilter(q url.Values) (ReportFilter, error) {
	f := ReportFilter{
		Period:    Period(q.Get("period")),
		StartDate: q.Get("start_date"),
		EndDate:   q.Get("end_date"),
		StoreID:   q.Get("store_id"),
		GroupBy:   GroupBy(q.Get("group_by")),
	}
	if f.HasRange() {
		f.Period = ""
	} else if f.Period == "" {
		f.Period = DefaultPeriod
	}

	var err error
	if f.Page, err = parsePositive(q.Get("page"), "page"); err != nil {
		return ReportFilter{}, err
	}
	if f.PerPage, err = parsePositive(q.Get("per_page"), "per_page"); err != nil {
		return ReportFilter{}, err
	}

	if err := f.Validate(); err != nil {
		return ReportFilter{}, err
	}
	return f, nil
}

func parsePositive(raw, name string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: invalid '%s': must be a positive integer", ErrInvalidFilter, name)
	}
	return n, nil
}
