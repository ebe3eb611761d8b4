package domain

import "errors"

var (
	ErrNotFound          = errors.New("resource not found")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidFilter     = errors.New("invalid report filter")
	ErrUnknownReport     = errors.New("unknown report")
	ErrActionNotAllowed  = errors.New("action not allowed for current status")
	ErrInvalidPageSize   = errors.New("invalid page size")
	ErrUnknownColumn     = errors.New("unknown column")
	ErrUnsupportedFormat = errors.New("unsupported export format")
	ErrReasonRequired    = errors.New("a rejection reason is required")
	ErrStorageDisabled   = errors.New("export archive storage is not configured")
)
