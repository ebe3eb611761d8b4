package apiclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockdesk/internal/domain"
)

func authed() context.Context {
	return WithToken(context.Background(), "opaque-token")
}

func jsonServer(t *testing.T, status int, body string, check func(r *http.Request)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			check(r)
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func requireKind(t *testing.T, err error, kind Kind) *Error {
	t.Helper()
	apiErr, ok := AsError(err)
	require.True(t, ok, "expected *apiclient.Error, got %T: %v", err, err)
	require.Equal(t, kind, apiErr.Kind)
	return apiErr
}

func TestGet_SendsBearerAndDecodesData(t *testing.T) {
	srv := jsonServer(t, http.StatusOK, `{"success":true,"data":{"id":7,"status":"draft"}}`, func(r *http.Request) {
		assert.Equal(t, "Bearer opaque-token", r.Header.Get("Authorization"))
		assert.Equal(t, "/stock-adjustments/7", r.URL.Path)
	})
	c := NewWithEndpoint(srv.URL, 0, nil)

	var adj domain.StockAdjustment
	require.NoError(t, c.Get(authed(), "/stock-adjustments/7", nil, &adj))
	assert.Equal(t, int64(7), adj.ID)
	assert.Equal(t, domain.AdjustmentDraft, adj.Status)
}

func TestMissingToken_FailsBeforeNetwork(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer srv.Close()
	c := NewWithEndpoint(srv.URL, 0, nil)

	err := c.Get(context.Background(), "/dispatch/summary", nil, nil)
	apiErr := requireKind(t, err, KindAuth)
	assert.ErrorIs(t, err, ErrNoToken)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Zero(t, atomic.LoadInt32(&hits))
}

func TestExpiredJWT_FailsBeforeNetwork(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"success":true,"data":null}`)
	}))
	defer srv.Close()
	c := NewWithEndpoint(srv.URL, 0, nil)
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	sign := func(exp time.Time) string {
		tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
		}).SignedString([]byte("test-secret"))
		require.NoError(t, err)
		return tok
	}

	err := c.Get(WithToken(context.Background(), sign(now.Add(-time.Minute))), "/x", nil, nil)
	requireKind(t, err, KindAuth)
	assert.ErrorIs(t, err, ErrTokenExpired)
	assert.Zero(t, atomic.LoadInt32(&hits))

	require.NoError(t, c.Get(WithToken(context.Background(), sign(now.Add(time.Hour))), "/x", nil, nil))
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()
	c := NewWithEndpoint(srv.URL, time.Second, nil)

	err := c.Get(authed(), "/inventory/summary", nil, nil)
	apiErr := requireKind(t, err, KindTransport)
	assert.True(t, strings.HasPrefix(apiErr.Message, "Network or API call failed: "))
}

func TestProtocolError_NonJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = io.WriteString(w, "<html><body>Login required</body></html>")
	}))
	defer srv.Close()
	c := NewWithEndpoint(srv.URL, 0, nil)

	err := c.Get(authed(), "/dispatch/summary", nil, nil)
	apiErr := requireKind(t, err, KindProtocol)
	assert.Contains(t, apiErr.Snippet, "Login required")
	assert.Contains(t, apiErr.Message, "non-JSON")
}

func TestApplicationErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{"status failed on 200", 200, `{"status":"failed","message":"Store is closed"}`, "Store is closed"},
		{"success false", 200, `{"success":false,"message":"Nope"}`, "Nope"},
		{"field map keeps order", 422, `{"message":{"store_id":["Store is required"],"items":["At least one item","Quantity must be positive"]}}`, "Store is required, At least one item, Quantity must be positive"},
		{"errors fallback", 422, `{"message":"","errors":{"reason":["Reason is invalid"]}}`, "Reason is invalid"},
		{"error string fallback", 500, `{"error":"boom"}`, "boom"},
		{"no message", 404, `{"success":false}`, "Request failed with status 404"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := jsonServer(t, tt.status, tt.body, nil)
			c := NewWithEndpoint(srv.URL, 0, nil)
			err := c.Post(authed(), "/stock-adjustments", map[string]any{"x": 1}, nil)
			apiErr := requireKind(t, err, KindApplication)
			assert.Equal(t, tt.message, apiErr.Message)
			assert.Equal(t, tt.status, apiErr.Status)
		})
	}
}

func TestApplicationError_MapsToDomainSentinels(t *testing.T) {
	srv := jsonServer(t, http.StatusNotFound, `{"message":"Adjustment not found"}`, nil)
	c := NewWithEndpoint(srv.URL, 0, nil)
	err := c.Get(authed(), "/stock-adjustments/99", nil, nil)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.False(t, errors.Is(err, domain.ErrUnauthorized))
}

type testSummary struct {
	TotalValue decimal.Decimal `json:"total_value"`
}

func TestGetResult_DecodesEnvelope(t *testing.T) {
	body := `{
		"success": true,
		"data": [{"id":1,"dispatch_no":"D-1"},{"id":2,"dispatch_no":"D-2"}],
		"summary": {"total_value": "150.50"},
		"meta": {"generated_at": "2025-03-01 10:00:00", "period": "this_month", "total": 45, "per_page": 20, "current_page": 2}
	}`
	srv := jsonServer(t, http.StatusOK, body, func(r *http.Request) {
		assert.Equal(t, "2", r.URL.Query().Get("page"))
	})
	c := NewWithEndpoint(srv.URL, 0, nil)

	res, err := GetResult[domain.DispatchRow, testSummary](authed(), c, "/dispatch/summary", url.Values{"page": {"2"}})
	require.NoError(t, err)
	require.Len(t, res.Data, 2)
	assert.Equal(t, "D-2", res.Data[1].DispatchNo)
	require.NotNil(t, res.Summary)
	assert.True(t, decimal.RequireFromString("150.5").Equal(res.Summary.TotalValue))
	assert.Equal(t, "this_month", res.Meta.Period)
	assert.Equal(t, 2025, res.Meta.GeneratedAt.Year())
	require.NotNil(t, res.Pagination)
	assert.Equal(t, domain.Pagination{Total: 45, CurrentPage: 2, PerPage: 20, LastPage: 3}, *res.Pagination)
}

func TestGetResult_NoSummary(t *testing.T) {
	srv := jsonServer(t, http.StatusOK, `{"success":true,"data":[]}`, nil)
	c := NewWithEndpoint(srv.URL, 0, nil)
	res, err := GetResult[domain.DispatchRow, testSummary](authed(), c, "/dispatch/summary", nil)
	require.NoError(t, err)
	assert.Nil(t, res.Summary)
	assert.Empty(t, res.Data)
	assert.Nil(t, res.Pagination)
}

func TestDelete_NoContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()
	c := NewWithEndpoint(srv.URL, 0, nil)
	assert.NoError(t, c.Delete(authed(), "/stock-adjustments/3"))
}

func TestDownload_StreamsCSV(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="dispatch.csv"`)
		_, _ = io.WriteString(w, "id,no\n1,D-1\n")
	}))
	defer srv.Close()
	c := NewWithEndpoint(srv.URL, 0, nil)

	dl, err := c.Download(authed(), "/dispatch/export", nil)
	require.NoError(t, err)
	defer dl.Body.Close()
	assert.Equal(t, "dispatch.csv", dl.Filename)
	b, err := io.ReadAll(dl.Body)
	require.NoError(t, err)
	assert.Equal(t, "id,no\n1,D-1\n", string(b))
}

func TestDownload_JSONFailureIsApplicationError(t *testing.T) {
	srv := jsonServer(t, http.StatusOK, `{"status":"failed","message":"Export quota exceeded"}`, nil)
	c := NewWithEndpoint(srv.URL, 0, nil)
	_, err := c.Download(authed(), "/dispatch/export", nil)
	apiErr := requireKind(t, err, KindApplication)
	assert.Equal(t, "Export quota exceeded", apiErr.Message)
}

func TestCheckedBody_ShortReadIsTransportError(t *testing.T) {
	b := &checkedBody{rc: io.NopCloser(strings.NewReader("abc")), remaining: 10}
	_, err := io.ReadAll(b)
	requireKind(t, err, KindTransport)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)

	b = &checkedBody{rc: io.NopCloser(strings.NewReader("abc")), remaining: -1}
	got, err := io.ReadAll(b)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}

func TestPing(t *testing.T) {
	var gotAuth atomic.Value
	var status atomic.Int32
	status.Store(http.StatusNotFound)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth.Store(r.Header.Get("Authorization"))
		w.WriteHeader(int(status.Load()))
	}))
	defer srv.Close()
	c := NewWithEndpoint(srv.URL, 0, nil)

	require.NoError(t, c.Ping(context.Background()))
	assert.Equal(t, "", gotAuth.Load())

	status.Store(http.StatusBadGateway)
	err := c.Ping(context.Background())
	require.Error(t, err)
	apiErr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
}
