package cli_test

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"stockdesk/internal/apiclient"
	"stockdesk/internal/cli"
	"stockdesk/internal/domain"
	"stockdesk/internal/policy"
	"stockdesk/internal/report"
	"stockdesk/internal/service"
	"stockdesk/internal/table"
	"stockdesk/mocks"
)

type fixture struct {
	app     *cli.App
	out     *bytes.Buffer
	reports *mocks.MockReportService
	exports *mocks.MockExportService
	adjs    *mocks.MockAdjustmentService
	opts    *mocks.MockOptionsService
}

func newFixture() *fixture {
	f := &fixture{
		out:     &bytes.Buffer{},
		reports: new(mocks.MockReportService),
		exports: new(mocks.MockExportService),
		adjs:    new(mocks.MockAdjustmentService),
		opts:    new(mocks.MockOptionsService),
	}
	f.app = &cli.App{Reports: f.reports, Exports: f.exports, Adjustments: f.adjs, Options: f.opts, Out: f.out}
	return f
}

func TestRun_Usage(t *testing.T) {
	f := newFixture()
	assert.ErrorIs(t, f.app.Run(context.Background(), nil), cli.ErrUsage)
	assert.Contains(t, f.out.String(), "Usage: stockctl")

	assert.ErrorIs(t, f.app.Run(context.Background(), []string{"frobnicate"}), cli.ErrUsage)
	assert.ErrorIs(t, f.app.Run(context.Background(), []string{"report", "no-slash"}), cli.ErrUsage)
}

func TestRun_Reports(t *testing.T) {
	f := newFixture()
	f.reports.On("List").Return(report.DefaultCatalog().List())

	require.NoError(t, f.app.Run(context.Background(), []string{"reports"}))
	assert.Contains(t, f.out.String(), "dispatch/summary")
	assert.Contains(t, f.out.String(), "stock-adjustments/list")
}

func TestRun_Report(t *testing.T) {
	f := newFixture()
	view := &report.View{
		Report: report.Info{Key: "dispatch/summary", Title: "Dispatch Summary"},
		Table: table.View{
			Columns: []table.Header{{ID: "dispatch_no", Label: "Dispatch #"}, {ID: "total_value", Label: "Value", Sort: table.SortDesc}},
			Rows:    [][]string{{"D-002", "250.00"}, {"D-001", "100.00"}},
			Page:    table.PageInfo{Page: 1, PageCount: 1, PageSize: 10, TotalRows: 2},
		},
		Summary: &domain.DispatchSummary{TotalDispatches: 2},
	}
	f.reports.On("Render", mock.Anything, "dispatch", "summary",
		domain.ReportFilter{StartDate: "2025-03-01", EndDate: "2025-03-31", StoreID: "4"},
		report.Params{
			Sort:   table.Sort{Column: "total_value", Direction: table.SortDesc},
			Search: table.Search{Column: "dispatch_no", Value: "D-00"},
			Hidden: []string{"from_store", "to_store"},
		}).Return(view, nil)

	err := f.app.Run(context.Background(), []string{
		"report", "dispatch/summary",
		"--start", "2025-03-01", "--end", "2025-03-31", "--store", "4",
		"--sort", "total_value:desc", "--search", "dispatch_no=D-00", "--hide", "from_store,to_store",
	})
	require.NoError(t, err)

	out := f.out.String()
	assert.Contains(t, out, "Dispatch Summary (dispatch/summary)")
	assert.Contains(t, out, "Value v")
	assert.Less(t, strings.Index(out, "D-002"), strings.Index(out, "D-001"))
	assert.Contains(t, out, "Page 1 of 1 (2 rows, 10 per page)")
	assert.Contains(t, out, `"total_dispatches": 2`)
	f.reports.AssertExpectations(t)
}

func TestRun_ReportRejectsBadFlags(t *testing.T) {
	tests := [][]string{
		{"report", "dispatch/summary", "--period", "fortnight"},
		{"report", "dispatch/summary", "--sort", "total_value:sideways"},
		{"report", "dispatch/summary", "--start", "2025-03-01"},
		{"report", "dispatch/summary", "--page", "-1"},
	}
	for _, args := range tests {
		f := newFixture()
		err := f.app.Run(context.Background(), args)
		assert.ErrorIs(t, err, domain.ErrInvalidFilter, strings.Join(args, " "))
		f.reports.AssertNotCalled(t, "Render", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	}
}

func TestRun_Export(t *testing.T) {
	t.Run("needs exactly one destination", func(t *testing.T) {
		f := newFixture()
		assert.ErrorIs(t, f.app.Run(context.Background(), []string{"export", "dispatch/summary"}), cli.ErrUsage)
		assert.ErrorIs(t, f.app.Run(context.Background(), []string{"export", "dispatch/summary", "--out", "a.csv", "--s3"}), cli.ErrUsage)
	})

	t.Run("file", func(t *testing.T) {
		f := newFixture()
		f.exports.On("SaveFile", mock.Anything, "dispatch", "summary", domain.ReportFilter{Period: domain.PeriodLastMonth}, "march.csv").
			Return(&service.ExportResult{Filename: "march.csv", Bytes: 42}, nil)

		require.NoError(t, f.app.Run(context.Background(), []string{"export", "dispatch/summary", "--period", "last_month", "--out", "march.csv"}))
		assert.Equal(t, "Saved march.csv (42 bytes)\n", f.out.String())
	})

	t.Run("s3", func(t *testing.T) {
		f := newFixture()
		f.exports.On("Archive", mock.Anything, "dispatch", "summary", domain.DefaultReportFilter()).
			Return(&service.ExportResult{Key: "exports/dispatch/summary/x/d.csv", Bytes: 10, URL: "https://example.com/d.csv"}, nil)

		require.NoError(t, f.app.Run(context.Background(), []string{"export", "dispatch/summary", "--s3"}))
		assert.Contains(t, f.out.String(), "https://example.com/d.csv")
	})

	t.Run("storage disabled", func(t *testing.T) {
		f := newFixture()
		f.exports.On("Archive", mock.Anything, "dispatch", "summary", mock.Anything).Return(nil, domain.ErrStorageDisabled)

		err := f.app.Run(context.Background(), []string{"export", "dispatch/summary", "--s3"})
		assert.ErrorIs(t, err, domain.ErrStorageDisabled)
	})

	t.Run("unsupported format", func(t *testing.T) {
		f := newFixture()
		err := f.app.Run(context.Background(), []string{"export", "dispatch/summary", "--out", "-", "--format", "pdf"})
		assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
	})
}

func adjustment(id int64, status domain.AdjustmentStatus) *service.AdjustmentView {
	return &service.AdjustmentView{
		StockAdjustment: domain.StockAdjustment{ID: id, ReferenceNo: fmt.Sprintf("ADJ-%03d", id), Status: status, StoreName: "Main"},
		Actions:         policy.AllowedActions(status),
	}
}

func TestRun_Adjustment(t *testing.T) {
	f := newFixture()
	f.adjs.On("Approve", mock.Anything, int64(4)).Return(adjustment(4, domain.AdjustmentApproved), nil)
	f.adjs.On("Reject", mock.Anything, int64(5), "Wrong counts").Return(adjustment(5, domain.AdjustmentRejected), nil)
	f.adjs.On("Delete", mock.Anything, int64(6)).Return(nil)

	require.NoError(t, f.app.Run(context.Background(), []string{"adjustment", "approve", "4"}))
	assert.Contains(t, f.out.String(), "ADJ-004  #4  approved")
	assert.Contains(t, f.out.String(), "Actions: apply")

	require.NoError(t, f.app.Run(context.Background(), []string{"adj", "reject", "5", "--reason", "Wrong counts"}))
	assert.Contains(t, f.out.String(), "Actions: none")

	require.NoError(t, f.app.Run(context.Background(), []string{"adjustment", "delete", "6"}))
	assert.Contains(t, f.out.String(), "Deleted adjustment 6")

	assert.ErrorIs(t, f.app.Run(context.Background(), []string{"adjustment", "approve", "x"}), cli.ErrUsage)
	assert.ErrorIs(t, f.app.Run(context.Background(), []string{"adjustment", "archive", "4"}), cli.ErrUsage)
	f.adjs.AssertExpectations(t)
}

func TestRun_AdjustmentList(t *testing.T) {
	f := newFixture()
	f.adjs.On("List", mock.Anything, service.AdjustmentListInput{
		Filter: domain.ReportFilter{Period: domain.PeriodThisMonth, Page: 2},
		Status: domain.AdjustmentPending,
	}).Return(&domain.Result[service.AdjustmentView, domain.AdjustmentSummary]{
		Data:       []service.AdjustmentView{*adjustment(21, domain.AdjustmentPending)},
		Pagination: &domain.Pagination{Total: 21, CurrentPage: 2, PerPage: 20, LastPage: 2},
	}, nil)

	require.NoError(t, f.app.Run(context.Background(), []string{"adjustment", "list", "--status", "pending", "--page", "2"}))
	assert.Contains(t, f.out.String(), "ADJ-021")
	assert.Contains(t, f.out.String(), "approve,reject")
	assert.Contains(t, f.out.String(), "Page 2 of 2 (21 adjustments)")

	assert.ErrorIs(t, f.app.Run(context.Background(), []string{"adjustment", "list", "--status", "lost"}), cli.ErrUsage)
}

func TestRun_Options(t *testing.T) {
	f := newFixture()
	f.opts.On("AdjustmentForm", mock.Anything).Return(&service.FormOptions{
		Products: []domain.Product{{ID: 1, Name: "Widget", SKU: "W-1"}},
		Warnings: []string{"Stores could not be loaded: Network or API call failed"},
	}, nil)

	require.NoError(t, f.app.Run(context.Background(), []string{"options"}))
	assert.Contains(t, f.out.String(), "! Stores could not be loaded")
	assert.Contains(t, f.out.String(), "1 Widget")
}

// dispatchAPI serves the dispatch summary and records each query.
type dispatchAPI struct {
	mu      sync.Mutex
	queries []string
}

func (d *dispatchAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	d.mu.Lock()
	d.queries = append(d.queries, r.URL.RawQuery)
	d.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	_, _ = fmt.Fprint(w, `{"success":true,"data":[
		{"id":1,"dispatch_no":"D-001","from_store":"Main","to_store":"North","status":"delivered","total_items":2,"total_quantity":"10","total_value":"100.00","dispatched_at":"2025-03-03T10:00:00Z"},
		{"id":2,"dispatch_no":"D-002","from_store":"Main","to_store":"South","status":"in_transit","total_items":1,"total_quantity":"4","total_value":"250.00","dispatched_at":"2025-03-04T10:00:00Z"}
	],"summary":{"total_dispatches":2,"total_value":"350.00"}}`)
}

func (d *dispatchAPI) seen() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.queries...)
}

func TestShell(t *testing.T) {
	backend := &dispatchAPI{}
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)
	reports := service.NewReportService(report.DefaultCatalog(), apiclient.NewWithEndpoint(srv.URL, 0, nil))
	exports := new(mocks.MockExportService)
	exports.On("SaveFile", mock.Anything, "dispatch", "summary",
		mock.MatchedBy(func(f domain.ReportFilter) bool { return f.Period == domain.PeriodLastMonth && f.StoreID == "3" }),
		"dispatch.csv").Return(&service.ExportResult{Filename: "dispatch.csv", Bytes: 99}, nil)

	out := &bytes.Buffer{}
	app := &cli.App{
		Reports: reports,
		Exports: exports,
		In: strings.NewReader(strings.Join([]string{
			"period last_month",
			"store 3",
			"sort total_value",
			"sort total_value",
			"hide from_store",
			"period fortnight",
			"bogus",
			"export dispatch.csv",
			"quit",
			"period this_year",
		}, "\n")),
		Out: out,
	}
	ctx := apiclient.WithToken(context.Background(), "tok")
	require.NoError(t, app.Run(ctx, []string{"shell", "dispatch/summary"}))

	queries := backend.seen()
	require.Len(t, queries, 3, "mount plus one load per accepted filter change")
	assert.Equal(t, "period=this_month", queries[0])
	assert.Equal(t, "period=last_month", queries[1])
	assert.Equal(t, "period=last_month&store_id=3", queries[2])

	text := out.String()
	assert.Contains(t, text, "Dispatch Summary (dispatch/summary)")
	assert.Contains(t, text, "Value v")
	assert.Contains(t, text, `error: invalid report filter: unknown period "fortnight"`)
	assert.Contains(t, text, `unknown command "bogus"`)
	assert.Contains(t, text, "Saved dispatch.csv (99 bytes)")
	exports.AssertExpectations(t)
}
