package service_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"stockdesk/internal/apiclient"
	"stockdesk/internal/domain"
	"stockdesk/internal/policy"
	"stockdesk/internal/service"
	"stockdesk/mocks"
)

func authed() context.Context {
	return apiclient.WithToken(context.Background(), "test-token")
}

// adjustmentBackend is an in-memory inventory API for one adjustment.
type adjustmentBackend struct {
	mu       sync.Mutex
	status   domain.AdjustmentStatus
	requests []string
	failNext bool
}

func (b *adjustmentBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.requests = append(b.requests, r.Method+" "+r.URL.Path)
	w.Header().Set("Content-Type", "application/json")

	if b.failNext && r.Method != http.MethodGet {
		b.failNext = false
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = fmt.Fprint(w, `{"status":"failed","errors":{"items":["Insufficient stock for Widget"]}}`)
		return
	}

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/stock-adjustments/7":
	case r.Method == http.MethodPost && r.URL.Path == "/stock-adjustments/7/approve":
		b.status = domain.AdjustmentApproved
	case r.Method == http.MethodPost && r.URL.Path == "/stock-adjustments/7/apply":
		b.status = domain.AdjustmentCompleted
	case r.Method == http.MethodPost && r.URL.Path == "/stock-adjustments/7/reject":
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["reason"] == "" {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = fmt.Fprint(w, `{"message":"reason is required"}`)
			return
		}
		b.status = domain.AdjustmentRejected
	case r.Method == http.MethodPatch && r.URL.Path == "/stock-adjustments/7":
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if s := body["status"]; s != "" {
			b.status = domain.AdjustmentStatus(s)
		}
	case r.Method == http.MethodDelete && r.URL.Path == "/stock-adjustments/7":
		w.WriteHeader(http.StatusNoContent)
		return
	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = fmt.Fprint(w, `{"message":"Not found"}`)
		return
	}
	_, _ = fmt.Fprintf(w, `{"success":true,"data":{"id":7,"reference_no":"ADJ-007","status":%q,"total_value":"120.00"}}`, b.status)
}

func (b *adjustmentBackend) mutations() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []string
	for _, r := range b.requests {
		if !strings.HasPrefix(r, http.MethodGet) {
			out = append(out, r)
		}
	}
	return out
}

func newAdjustmentService(t *testing.T, status domain.AdjustmentStatus) (*adjustmentBackend, service.AdjustmentService) {
	t.Helper()
	b := &adjustmentBackend{status: status}
	srv := httptest.NewServer(b)
	t.Cleanup(srv.Close)
	return b, service.NewAdjustmentService(apiclient.NewWithEndpoint(srv.URL, 0, nil), nil)
}

func TestAdjustmentService_ApproveThenRefetch(t *testing.T) {
	_, svc := newAdjustmentService(t, domain.AdjustmentPending)
	ctx := authed()

	before, err := svc.Get(ctx, 7)
	require.NoError(t, err)
	assert.Contains(t, before.Actions, policy.ActionApprove)

	after, err := svc.Approve(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, domain.AdjustmentApproved, after.Status)
	assert.NotContains(t, after.Actions, policy.ActionApprove)
	assert.Equal(t, []policy.Action{policy.ActionApply}, after.Actions)

	again, err := svc.Get(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, domain.AdjustmentApproved, again.Status)
}

func TestAdjustmentService_GateBlocksWithoutCallingAPI(t *testing.T) {
	tests := []struct {
		name   string
		status domain.AdjustmentStatus
		call   func(svc service.AdjustmentService) error
	}{
		{"approve draft", domain.AdjustmentDraft, func(svc service.AdjustmentService) error {
			_, err := svc.Approve(authed(), 7)
			return err
		}},
		{"apply pending", domain.AdjustmentPending, func(svc service.AdjustmentService) error {
			_, err := svc.Apply(authed(), 7)
			return err
		}},
		{"submit approved", domain.AdjustmentApproved, func(svc service.AdjustmentService) error {
			_, err := svc.Submit(authed(), 7)
			return err
		}},
		{"delete pending", domain.AdjustmentPending, func(svc service.AdjustmentService) error {
			return svc.Delete(authed(), 7)
		}},
		{"edit completed", domain.AdjustmentCompleted, func(svc service.AdjustmentService) error {
			_, err := svc.Update(authed(), 7, domain.AdjustmentInput{})
			return err
		}},
		{"reject rejected", domain.AdjustmentRejected, func(svc service.AdjustmentService) error {
			_, err := svc.Reject(authed(), 7, "duplicate")
			return err
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, svc := newAdjustmentService(t, tt.status)
			err := tt.call(svc)
			assert.ErrorIs(t, err, domain.ErrActionNotAllowed)
			assert.Empty(t, b.mutations())
		})
	}
}

func TestAdjustmentService_Lifecycle(t *testing.T) {
	b, svc := newAdjustmentService(t, domain.AdjustmentDraft)
	ctx := authed()

	v, err := svc.Submit(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, domain.AdjustmentPending, v.Status)

	v, err = svc.Approve(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, domain.AdjustmentApproved, v.Status)

	v, err = svc.Apply(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, domain.AdjustmentCompleted, v.Status)
	assert.Empty(t, v.Actions)

	assert.Equal(t, []string{
		"PATCH /stock-adjustments/7",
		"POST /stock-adjustments/7/approve",
		"POST /stock-adjustments/7/apply",
	}, b.mutations())
}

func TestAdjustmentService_RejectNeedsReason(t *testing.T) {
	b, svc := newAdjustmentService(t, domain.AdjustmentPending)

	_, err := svc.Reject(authed(), 7, "   ")
	assert.ErrorIs(t, err, domain.ErrReasonRequired)
	assert.Empty(t, b.mutations())

	v, err := svc.Reject(authed(), 7, "count was wrong")
	require.NoError(t, err)
	assert.Equal(t, domain.AdjustmentRejected, v.Status)
}

func TestAdjustmentService_FailedMutationKeepsState(t *testing.T) {
	b, svc := newAdjustmentService(t, domain.AdjustmentApproved)
	b.mu.Lock()
	b.failNext = true
	b.mu.Unlock()

	_, err := svc.Apply(authed(), 7)
	require.Error(t, err)
	assert.Equal(t, "Insufficient stock for Widget", err.Error())

	v, err := svc.Get(authed(), 7)
	require.NoError(t, err)
	assert.Equal(t, domain.AdjustmentApproved, v.Status)
}

func TestAdjustmentService_DeleteDraft(t *testing.T) {
	b, svc := newAdjustmentService(t, domain.AdjustmentDraft)
	require.NoError(t, svc.Delete(authed(), 7))
	assert.Equal(t, []string{"DELETE /stock-adjustments/7"}, b.mutations())
}

func TestAdjustmentService_NotFound(t *testing.T) {
	_, svc := newAdjustmentService(t, domain.AdjustmentDraft)
	_, err := svc.Get(authed(), 8)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAdjustmentService_List(t *testing.T) {
	api := new(mocks.MockInventoryAPI)
	svc := service.NewAdjustmentService(api, nil)

	resp := &apiclient.Response{
		StatusCode: http.StatusOK,
		Data:       json.RawMessage(`[{"id":1,"status":"draft"},{"id":2,"status":"pending"}]`),
		Summary:    json.RawMessage(`{"total_adjustments":2,"draft":1,"pending":1}`),
	}
	api.On("Do", mock.Anything, http.MethodGet, "/stock-adjustments", mock.MatchedBy(func(q url.Values) bool {
		return q.Get("status") == "pending" && q.Get("period") == "this_month"
	}), nil).Return(resp, nil)

	res, err := svc.List(context.Background(), service.AdjustmentListInput{
		Filter: domain.DefaultReportFilter(),
		Status: domain.AdjustmentPending,
	})
	require.NoError(t, err)
	require.Len(t, res.Data, 2)
	assert.Equal(t, []policy.Action{policy.ActionEdit, policy.ActionSubmit, policy.ActionDelete}, res.Data[0].Actions)
	assert.Equal(t, []policy.Action{policy.ActionApprove, policy.ActionReject}, res.Data[1].Actions)
	assert.Equal(t, 2, res.Summary.TotalAdjustments)
	api.AssertExpectations(t)
}

func TestAdjustmentService_ListRejectsBadFilter(t *testing.T) {
	api := new(mocks.MockInventoryAPI)
	svc := service.NewAdjustmentService(api, nil)

	_, err := svc.List(context.Background(), service.AdjustmentListInput{
		Filter: domain.ReportFilter{Period: domain.PeriodToday, StartDate: "2025-01-01", EndDate: "2025-01-31"},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidFilter)
	api.AssertNotCalled(t, "Do", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAdjustmentService_Activities(t *testing.T) {
	api := new(mocks.MockInventoryAPI)
	svc := service.NewAdjustmentService(api, nil)

	api.On("Get", mock.Anything, "/stock-adjustments/3/activities", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			out := args.Get(3).(*[]domain.AdjustmentActivity)
			*out = []domain.AdjustmentActivity{{ID: 1, Action: "created"}}
		}).Return(nil)

	acts, err := svc.Activities(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, acts, 1)
	assert.Equal(t, "created", acts[0].Action)
}
