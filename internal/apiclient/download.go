package apiclient

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime"
	"net/http"
	"net/url"
)

const maxErrorBody = 1 << 20

// Download is a streamed export body. The caller must close Body.
type Download struct {
	Body        io.ReadCloser
	ContentType string
	// Filename is taken from Content-Disposition when the API sends one.
	Filename string
	// Size is -1 when unknown.
	Size int64
}

// Download fetches a CSV (or other file) export. JSON bodies on this path are
// treated as envelopes so a failure payload becomes an application error.
// When the server announces a length, a body that ends early fails with a
// transport error instead of yielding a truncated file.
func (c *Client) Download(ctx context.Context, path string, query url.Values) (*Download, error) {
	resp, err := c.send(ctx, http.MethodGet, path, query, nil, "text/csv, application/octet-stream, application/json")
	if err != nil {
		return nil, err
	}

	ok := resp.StatusCode >= 200 && resp.StatusCode < 300
	ct := resp.Header.Get("Content-Type")
	if !ok || isJSON(ct) {
		defer func() { _ = resp.Body.Close() }()
		raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		if err != nil {
			return nil, transportError(err)
		}
		if _, err := c.parse(resp, raw); err != nil {
			return nil, err
		}
		return &Download{Body: io.NopCloser(bytes.NewReader(raw)), ContentType: ct, Size: int64(len(raw))}, nil
	}

	return &Download{
		Body:        &checkedBody{rc: resp.Body, remaining: resp.ContentLength},
		ContentType: ct,
		Filename:    dispositionFilename(resp.Header.Get("Content-Disposition")),
		Size:        resp.ContentLength,
	}, nil
}

func dispositionFilename(header string) string {
	if header == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(header)
	if err != nil {
		return ""
	}
	return params["filename"]
}

// checkedBody turns an early EOF into a transport error when the expected
// length is known.
type checkedBody struct {
	rc        io.ReadCloser
	remaining int64
}

func (b *checkedBody) Read(p []byte) (int, error) {
	n, err := b.rc.Read(p)
	if b.remaining >= 0 {
		b.remaining -= int64(n)
	}
	if err == nil {
		return n, nil
	}
	if errors.Is(err, io.EOF) {
		if b.remaining > 0 {
			return n, transportError(io.ErrUnexpectedEOF)
		}
		return n, io.EOF
	}
	return n, transportError(err)
}

func (b *checkedBody) Close() error {
	return b.rc.Close()
}
