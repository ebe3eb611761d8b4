package apiclient

import (
	"errors"
	"fmt"
	"net/http"

	"stockdesk/internal/domain"
)

// Kind classifies a failed API call.
type Kind int

const (
	// KindAuth means no usable token; the request was never sent.
	KindAuth Kind = iota + 1
	// KindTransport means the request did not complete.
	KindTransport
	// KindProtocol means the response was not JSON.
	KindProtocol
	// KindApplication means the API answered with a failure payload.
	KindApplication
)

func (k Kind) String() string {
	switch k {
	case KindAuth:
		return "auth"
	case KindTransport:
		return "transport"
	case KindProtocol:
		return "protocol"
	case KindApplication:
		return "application"
	default:
		return "unknown"
	}
}

// Error is returned for every failed call. Message is safe to show to a user.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	// Snippet holds the start of a non-JSON body.
	Snippet string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is lets callers match upstream failures against domain sentinels.
func (e *Error) Is(target error) bool {
	switch target {
	case domain.ErrUnauthorized:
		return e.Kind == KindAuth || e.Status == http.StatusUnauthorized
	case domain.ErrForbidden:
		return e.Kind == KindApplication && e.Status == http.StatusForbidden
	case domain.ErrNotFound:
		return e.Kind == KindApplication && e.Status == http.StatusNotFound
	}
	return false
}

// ErrNoToken is wrapped by auth errors raised before a request is built.
var ErrNoToken = errors.New("no authentication token")

// ErrTokenExpired is wrapped when a JWT token's exp claim has passed.
var ErrTokenExpired = errors.New("authentication token expired")

func authError(err error) *Error {
	return &Error{Kind: KindAuth, Status: http.StatusUnauthorized, Message: "Authentication required", Err: err}
}

func transportError(err error) *Error {
	return &Error{
		Kind:    KindTransport,
		Message: fmt.Sprintf("Network or API call failed: %v", err),
		Err:     err,
	}
}

func protocolError(status int, contentType string, body []byte) *Error {
	snippet := truncate(string(body), 200)
	return &Error{
		Kind:    KindProtocol,
		Status:  status,
		Message: fmt.Sprintf("Received non-JSON response (status %d, content-type %q)", status, contentType),
		Snippet: snippet,
	}
}

func applicationError(status int, message string) *Error {
	return &Error{Kind: KindApplication, Status: status, Message: message}
}

// AsError unwraps err to an *Error.
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
