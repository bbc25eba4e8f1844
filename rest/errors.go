package rest

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel categories for API failures, matchable with errors.Is.
var (
	ErrBadRequest       = errors.New("malformed request")
	ErrUnauthorized     = errors.New("invalid or missing token")
	ErrForbidden        = errors.New("insufficient permissions")
	ErrNotFound         = errors.New("resource not found")
	ErrMethodNotAllowed = errors.New("method not allowed")
	ErrRateLimited      = errors.New("rate limited")
	ErrServer           = errors.New("server error")
)

// APIError is a non-2xx response from the platform API.
type APIError struct {
	Status    int    // HTTP status code
	Code      int    // platform-specific error code, 0 when absent
	Message   string // platform-provided message, empty when absent
	RequestID string // the X-Request-ID this client stamped on the request
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("rest: api responded %d", e.Status)
	if e.Code != 0 {
		msg += fmt.Sprintf(" (code %d)", e.Code)
	}

	if e.Message != "" {
		msg += ": " + e.Message
	}

	return msg
}

// Is maps the response status onto the matching sentinel category.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrBadRequest:
		return e.Status == http.StatusBadRequest
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case ErrForbidden:
		return e.Status == http.StatusForbidden
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	case ErrMethodNotAllowed:
		return e.Status == http.StatusMethodNotAllowed
	case ErrRateLimited:
		return e.Status == http.StatusTooManyRequests
	case ErrServer:
		return e.Status >= 500
	default:
		return false
	}
}
