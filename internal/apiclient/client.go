// Package apiclient talks to the upstream inventory REST API. Every call
// carries the caller's bearer token and every failure comes back as an
// *Error classified by Kind.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"stockdesk/internal/config"
	"stockdesk/internal/domain"
)

// Client is a thin JSON client for the inventory API.
type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger
	now     func() time.Time
}

// New creates a client from the API config. A zero timeout keeps the
// transport default.
func New(cfg config.APIConfig, log *zap.Logger) *Client {
	return NewWithEndpoint(cfg.BaseURL, cfg.Timeout, log)
}

// NewWithEndpoint creates a client pointing at a custom base URL (for testing).
func NewWithEndpoint(baseURL string, timeout time.Duration, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     log,
		now:     time.Now,
	}
}

// Response is a decoded success envelope.
type Response struct {
	StatusCode int
	Data       json.RawMessage
	Summary    json.RawMessage
	Meta       domain.Meta
	Pagination *domain.Pagination
}

type envelope struct {
	Success    *bool              `json:"success"`
	Status     string             `json:"status"`
	Data       json.RawMessage    `json:"data"`
	Summary    json.RawMessage    `json:"summary"`
	Meta       json.RawMessage    `json:"meta"`
	Pagination *domain.Pagination `json:"pagination"`
}

func (e *envelope) failed() bool {
	return e.Status == "failed" || (e.Success != nil && !*e.Success)
}

// wireMeta accepts both RFC 3339 and "2006-01-02 15:04:05" timestamps and
// page fields placed directly in meta.
type wireMeta struct {
	GeneratedAt string `json:"generated_at"`
	Period      string `json:"period"`
	Total       *int   `json:"total"`
	CurrentPage *int   `json:"current_page"`
	PerPage     *int   `json:"per_page"`
	LastPage    *int   `json:"last_page"`
}

// Get issues a GET and decodes the envelope's data into out (if non-nil).
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	resp, err := c.Do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	return decodeData(resp, out)
}

// Post sends body as JSON and decodes the envelope's data into out.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	resp, err := c.Do(ctx, http.MethodPost, path, nil, body)
	if err != nil {
		return err
	}
	return decodeData(resp, out)
}

// Patch sends body as JSON and decodes the envelope's data into out.
func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	resp, err := c.Do(ctx, http.MethodPatch, path, nil, body)
	if err != nil {
		return err
	}
	return decodeData(resp, out)
}

// Delete issues a DELETE.
func (c *Client) Delete(ctx context.Context, path string) error {
	_, err := c.Do(ctx, http.MethodDelete, path, nil, nil)
	return err
}

// Do performs one JSON call and returns the success envelope.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body any) (*Response, error) {
	resp, err := c.send(ctx, method, path, query, body, "application/json")
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportError(fmt.Errorf("reading response: %w", err))
	}
	return c.parse(resp, raw)
}

// GetResult fetches a report endpoint into a typed result.
func GetResult[T, S any](ctx context.Context, c *Client, path string, query url.Values) (*domain.Result[T, S], error) {
	resp, err := c.Do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return nil, err
	}
	return DecodeResult[T, S](resp)
}

// DecodeResult decodes a success envelope into a typed report result.
func DecodeResult[T, S any](resp *Response) (*domain.Result[T, S], error) {
	res := &domain.Result[T, S]{Meta: resp.Meta, Pagination: resp.Pagination}
	if err := decodeData(resp, &res.Data); err != nil {
		return nil, err
	}
	if res.Data == nil {
		res.Data = []T{}
	}
	if hasValue(resp.Summary) {
		var s S
		if err := json.Unmarshal(resp.Summary, &s); err != nil {
			return nil, &Error{Kind: KindProtocol, Status: resp.StatusCode, Message: "Malformed report summary", Err: err}
		}
		res.Summary = &s
	}
	return res, nil
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, body any, accept string) (*http.Response, error) {
	token, ok := TokenFrom(ctx)
	if !ok {
		return nil, authError(ErrNoToken)
	}
	if err := checkToken(token, c.now()); err != nil {
		return nil, authError(err)
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path, query), reader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", accept)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := c.now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug("api call failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return nil, transportError(err)
	}
	c.log.Debug("api call",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", c.now().Sub(start)),
	)
	return resp, nil
}

func (c *Client) parse(resp *http.Response, raw []byte) (*Response, error) {
	ok := resp.StatusCode >= 200 && resp.StatusCode < 300
	if ok && len(bytes.TrimSpace(raw)) == 0 {
		return &Response{StatusCode: resp.StatusCode}, nil
	}
	ct := resp.Header.Get("Content-Type")
	if !isJSON(ct) {
		return nil, protocolError(resp.StatusCode, ct, raw)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		if !ok {
			return nil, applicationError(resp.StatusCode, fmt.Sprintf("Request failed with status %d", resp.StatusCode))
		}
		return nil, &Error{Kind: KindProtocol, Status: resp.StatusCode, Message: "Malformed JSON response", Snippet: truncate(string(raw), 200), Err: err}
	}
	if !ok || env.failed() {
		return nil, applicationError(resp.StatusCode, ExtractMessage(raw, resp.StatusCode))
	}

	out := &Response{
		StatusCode: resp.StatusCode,
		Data:       env.Data,
		Summary:    env.Summary,
		Pagination: env.Pagination,
	}
	if hasValue(env.Meta) {
		var m wireMeta
		if err := json.Unmarshal(env.Meta, &m); err == nil {
			out.Meta = domain.Meta{GeneratedAt: parseTimestamp(m.GeneratedAt), Period: m.Period}
			if out.Pagination == nil && m.CurrentPage != nil {
				out.Pagination = &domain.Pagination{
					CurrentPage: *m.CurrentPage,
					Total:       deref(m.Total),
					PerPage:     deref(m.PerPage),
					LastPage:    deref(m.LastPage),
				}
			}
		}
	}
	if out.Pagination != nil {
		p := out.Pagination.Normalize()
		out.Pagination = &p
	}
	return out, nil
}

func (c *Client) url(path string, query url.Values) string {
	u := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func decodeData(resp *Response, out any) error {
	if out == nil || !hasValue(resp.Data) {
		return nil
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return &Error{Kind: KindProtocol, Status: resp.StatusCode, Message: "Malformed response data", Err: err}
	}
	return nil
}

func hasValue(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	return len(t) > 0 && !bytes.Equal(t, []byte("null"))
}

func isJSON(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mt == "application/json" || strings.HasSuffix(mt, "+json")
}

func parseTimestamp(s string) time.Time {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05", domain.DateLayout} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func deref(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
