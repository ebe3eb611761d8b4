package cli

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/pflag"

	"stockdesk/internal/domain"
	"stockdesk/internal/report"
	"stockdesk/internal/table"
)

// filterFlags are the filter bar as command-line flags.
type filterFlags struct {
	period  string
	start   string
	end     string
	store   string
	groupBy string
}

func (ff *filterFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&ff.period, "period", "", "quick period, e.g. this_month, last_7_days")
	fs.StringVar(&ff.start, "start", "", "range start date (YYYY-MM-DD)")
	fs.StringVar(&ff.end, "end", "", "range end date (YYYY-MM-DD)")
	fs.StringVar(&ff.store, "store", "", "store id")
	fs.StringVar(&ff.groupBy, "group-by", "", "time bucket: hour, day, week, month, quarter, year")
}

// filter builds the report filter the same way the HTTP query does.
func (ff *filterFlags) filter() (domain.ReportFilter, error) {
	q := url.Values{}
	for k, v := range map[string]string{
		"period":     ff.period,
		"start_date": ff.start,
		"end_date":   ff.end,
		"store_id":   ff.store,
		"group_by":   ff.groupBy,
	} {
		if v != "" {
			q.Set(k, v)
		}
	}
	return domain.ParseReportFilter(q)
}

// tableFlags are the table display settings.
type tableFlags struct {
	sort    string
	search  string
	hide    []string
	page    int
	perPage int
}

func (tf *tableFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&tf.sort, "sort", "", "sort column, optionally with direction: col:asc or col:desc")
	fs.StringVar(&tf.search, "search", "", "search text, optionally scoped: col=text")
	fs.StringSliceVar(&tf.hide, "hide", nil, "columns to hide")
	fs.IntVar(&tf.page, "page", 0, "page number")
	fs.IntVar(&tf.perPage, "per-page", 0, "rows per page")
}

func (tf *tableFlags) params() (report.Params, error) {
	if tf.page < 0 || tf.perPage < 0 {
		return report.Params{}, fmt.Errorf("%w: page and per-page must be positive", domain.ErrInvalidFilter)
	}
	p := report.Params{Page: tf.page, PageSize: tf.perPage, Hidden: tf.hide}
	if tf.sort != "" {
		col, dir, _ := strings.Cut(tf.sort, ":")
		if dir == "" {
			dir = string(table.SortAsc)
		}
		d := table.SortDirection(strings.ToLower(dir))
		if d != table.SortAsc && d != table.SortDesc {
			return report.Params{}, fmt.Errorf("%w: sort direction must be asc or desc", domain.ErrInvalidFilter)
		}
		p.Sort = table.Sort{Column: col, Direction: d}
	}
	if tf.search != "" {
		if col, text, ok := strings.Cut(tf.search, "="); ok {
			p.Search = table.Search{Column: col, Value: text}
		} else {
			p.Search = table.Search{Value: tf.search}
		}
	}
	return p, nil
}

// splitKey splits "<domain>/<name>".
func splitKey(key string) (string, string, error) {
	d, n, ok := strings.Cut(key, "/")
	if !ok || d == "" || n == "" {
		return "", "", fmt.Errorf("%w: report key must look like domain/name, got %q", ErrUsage, key)
	}
	return d, n, nil
}
