package model

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for the storefront's failure classes. The provider
// client and gateways match against these with errors.Is; handlers render
// the carrying APIError.
var (
	ErrNotFound       = errors.New("no such resource")
	ErrInvalidRequest = errors.New("invalid request")
	ErrUnauthorized   = errors.New("missing or invalid credentials")
	ErrPaymentFailed  = errors.New("payment not accepted")
	ErrUpstreamError  = errors.New("provider unavailable")
	ErrRateLimited    = errors.New("provider throttled the request")
)

// APIError is the storefront's structured error: a stable machine code,
// a client-safe message, and the HTTP status the catalog gateways write.
// The wrapped cause stays in server logs and never reaches responses;
// the order gateway goes further and replaces the whole thing with its
// generic failure body.
type APIError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Err        error  `json:"-"`
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// NewNotFoundError reports a catalog miss: the provider has no such
// product or sku.
func NewNotFoundError(resource string) *APIError {
	return &APIError{
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("no such %s", resource),
		StatusCode: http.StatusNotFound,
		Err:        ErrNotFound,
	}
}

// NewValidationError rejects a malformed storefront request before it
// reaches the provider.
func NewValidationError(field, reason string) *APIError {
	return &APIError{
		Code:       "VALIDATION_ERROR",
		Message:    fmt.Sprintf("invalid %s: %s", field, reason),
		StatusCode: http.StatusBadRequest,
		Err:        ErrInvalidRequest,
	}
}

// NewUnauthorizedError reports a rejected API key.
func NewUnauthorizedError(reason string) *APIError {
	return &APIError{
		Code:       "UNAUTHORIZED",
		Message:    reason,
		StatusCode: http.StatusUnauthorized,
		Err:        ErrUnauthorized,
	}
}

// NewUpstreamError reports a provider call that failed for reasons other
// than the request itself. The cause is kept for logs.
func NewUpstreamError(service string, err error) *APIError {
	return &APIError{
		Code:       "UPSTREAM_ERROR",
		Message:    fmt.Sprintf("%s is unavailable", service),
		StatusCode: http.StatusBadGateway,
		Err:        fmt.Errorf("%w: %v", ErrUpstreamError, err),
	}
}

// NewPaymentError reports a declined or otherwise failed charge. The
// reason is the provider's card message; the order gateway logs it but
// responds with its generic failure body.
func NewPaymentError(reason string) *APIError {
	return &APIError{
		Code:       "PAYMENT_ERROR",
		Message:    reason,
		StatusCode: http.StatusPaymentRequired,
		Err:        ErrPaymentFailed,
	}
}

// NewInternalError covers failures the storefront cannot attribute to the
// request or the provider.
func NewInternalError(err error) *APIError {
	return &APIError{
		Code:       "INTERNAL_ERROR",
		Message:    "an internal error occurred",
		StatusCode: http.StatusInternalServerError,
		Err:        err,
	}
}

// NewRateLimitError reports provider throttling so callers can back off.
func NewRateLimitError(service string) *APIError {
	return &APIError{
		Code:       "RATE_LIMITED",
		Message:    fmt.Sprintf("%s rate limit exceeded, retry later", service),
		StatusCode: http.StatusTooManyRequests,
		Err:        ErrRateLimited,
	}
}
