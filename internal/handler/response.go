package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"stockdesk/internal/apiclient"
	"stockdesk/internal/domain"
	"stockdesk/internal/middleware"
	"stockdesk/internal/report"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *PagMeta    `json:"meta,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PagMeta holds pagination metadata.
type PagMeta struct {
	Total       int `json:"total"`
	CurrentPage int `json:"current_page"`
	PerPage     int `json:"per_page"`
	LastPage    int `json:"last_page"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondCreated sends a 201 success response.
func RespondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data})
}

// RespondPaginated sends a 200 success response with pagination metadata.
func RespondPaginated(c *gin.Context, data interface{}, p *domain.Pagination) {
	resp := APIResponse{Success: true, Data: data}
	if p != nil {
		resp.Meta = &PagMeta{Total: p.Total, CurrentPage: p.CurrentPage, PerPage: p.PerPage, LastPage: p.LastPage}
	}
	c.JSON(http.StatusOK, resp)
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain and upstream errors to HTTP status codes
// and error codes.
func MapDomainError(err error) (status int, code, msg string) {
	if apiErr, ok := apiclient.AsError(err); ok {
		return mapUpstreamError(apiErr)
	}
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", "resource not found"
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "FORBIDDEN", "forbidden"
	case errors.Is(err, domain.ErrUnknownReport):
		return http.StatusNotFound, "UNKNOWN_REPORT", "report not found"
	case errors.Is(err, domain.ErrInvalidPageSize):
		return http.StatusBadRequest, "INVALID_PAGE_SIZE", err.Error()
	case errors.Is(err, domain.ErrInvalidFilter):
		return http.StatusBadRequest, "INVALID_FILTER", err.Error()
	case errors.Is(err, domain.ErrUnknownColumn):
		return http.StatusBadRequest, "UNKNOWN_COLUMN", err.Error()
	case errors.Is(err, domain.ErrActionNotAllowed):
		return http.StatusConflict, "ACTION_NOT_ALLOWED", err.Error()
	case errors.Is(err, domain.ErrReasonRequired):
		return http.StatusBadRequest, "REASON_REQUIRED", "a rejection reason is required"
	case errors.Is(err, domain.ErrUnsupportedFormat):
		return http.StatusBadRequest, "UNSUPPORTED_FORMAT", "unsupported export format; allowed: csv, xlsx"
	case errors.Is(err, domain.ErrStorageDisabled):
		return http.StatusServiceUnavailable, "STORAGE_DISABLED", "export archive storage is not configured"
	case errors.Is(err, report.ErrExportInProgress):
		return http.StatusConflict, "EXPORT_IN_PROGRESS", "an export is already running"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// mapUpstreamError keeps the inventory API's message, which is already
// written for users.
func mapUpstreamError(e *apiclient.Error) (status int, code, msg string) {
	switch e.Kind {
	case apiclient.KindAuth:
		return http.StatusUnauthorized, "UNAUTHORIZED", e.Message
	case apiclient.KindApplication:
		switch {
		case e.Status == http.StatusUnauthorized:
			return e.Status, "UNAUTHORIZED", e.Message
		case e.Status == http.StatusForbidden:
			return e.Status, "FORBIDDEN", e.Message
		case e.Status == http.StatusNotFound:
			return e.Status, "NOT_FOUND", e.Message
		case e.Status >= 400 && e.Status < 500:
			return e.Status, "UPSTREAM_REJECTED", e.Message
		default:
			return http.StatusBadGateway, "UPSTREAM_FAILED", e.Message
		}
	case apiclient.KindProtocol:
		return http.StatusBadGateway, "UPSTREAM_NON_JSON", e.Message
	default:
		return http.StatusBadGateway, "UPSTREAM_UNAVAILABLE", e.Message
	}
}

// HandleError maps an error and sends the appropriate error response.
func HandleError(c *gin.Context, log *zap.Logger, err error) {
	status, code, msg := MapDomainError(err)
	if status >= 500 {
		log.Error("request failed",
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.String("code", code),
			zap.Error(err),
		)
	}
	_ = c.Error(err)
	RespondError(c, status, code, msg)
}
