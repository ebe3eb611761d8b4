package apiclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// Ping checks that the API base URL answers. It sends no token; any
// response below 500 counts as reachable.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return transportError(err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))

	if resp.StatusCode >= 500 {
		return applicationError(resp.StatusCode, fmt.Sprintf("Request failed with status %d", resp.StatusCode))
	}
	return nil
}
