package port

import (
	"context"
	"net/url"

	"stockdesk/internal/apiclient"
)

// InventoryAPI is the upstream REST API as seen by services.
type InventoryAPI interface {
	Do(ctx context.Context, method, path string, query url.Values, body any) (*apiclient.Response, error)
	Get(ctx context.Context, path string, query url.Values, out any) error
	Post(ctx context.Context, path string, body, out any) error
	Patch(ctx context.Context, path string, body, out any) error
	Delete(ctx context.Context, path string) error
	Download(ctx context.Context, path string, query url.Values) (*apiclient.Download, error)
}
