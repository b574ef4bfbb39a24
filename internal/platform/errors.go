package platform

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError represents an error returned by the arbitrage platform,
// either as a non-zero envelope code or a non-2xx HTTP response.
type APIError struct {
	Code       int    `json:"code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"httpStatus,omitempty"`
	Endpoint   string `json:"endpoint,omitempty"`
}

func (e *APIError) Error() string {
	if e.Endpoint != "" {
		return fmt.Sprintf("platform API error %d: %s (%s)", e.Code, e.Message, e.Endpoint)
	}
	return fmt.Sprintf("platform API error %d: %s", e.Code, e.Message)
}

// Envelope error codes used by the platform API.
const (
	ErrCodeUnauthorized        = 10001
	ErrCodeTokenExpired        = 10002
	ErrCodeRateLimitExceeded   = 10003
	ErrCodeInvalidRequest      = 10004
	ErrCodeOpportunityNotFound = 20001
	ErrCodeOpportunityExpired  = 20002
	ErrCodeExecutionNotFound   = 20003
	ErrCodeExecutionNotRunning = 20004
	ErrCodeInsufficientFunds   = 20005
)

// ErrCircuitOpen is returned while the client circuit breaker is open.
var ErrCircuitOpen = errors.New("platform circuit breaker is open")

// IsRetryableError reports whether a request that produced err is worth
// retrying. Rate limiting and upstream 5xx responses qualify; everything
// else is treated as permanent.
func IsRetryableError(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	if apiErr.Code == ErrCodeRateLimitExceeded {
		return true
	}
	switch apiErr.HTTPStatus {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// IsAuthError reports whether err indicates a bad or expired API key.
func IsAuthError(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Code == ErrCodeUnauthorized ||
		apiErr.Code == ErrCodeTokenExpired ||
		apiErr.HTTPStatus == http.StatusUnauthorized ||
		apiErr.HTTPStatus == http.StatusForbidden
}

// IsRateLimitError reports whether err was caused by request throttling.
func IsRateLimitError(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Code == ErrCodeRateLimitExceeded || apiErr.HTTPStatus == http.StatusTooManyRequests
}

// IsNotFoundError reports whether err refers to a missing opportunity or
// execution.
func IsNotFoundError(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Code == ErrCodeOpportunityNotFound ||
		apiErr.Code == ErrCodeExecutionNotFound ||
		apiErr.HTTPStatus == http.StatusNotFound
}

// NewAPIError creates an APIError from an envelope code and message.
func NewAPIError(code int, message string) *APIError {
	return &APIError{Code: code, Message: message}
}

// ParseEnvelopeError converts a response envelope into an error, or nil
// when the envelope signals success.
func ParseEnvelopeError(code int, message, endpoint string) error {
	if code == 0 {
		return nil
	}
	return &APIError{Code: code, Message: message, Endpoint: endpoint}
}

// errorDescriptions maps envelope codes to human-readable messages for
// display when the platform omits one.
var errorDescriptions = map[int]string{
	ErrCodeUnauthorized:        "invalid API key",
	ErrCodeTokenExpired:        "API key expired",
	ErrCodeRateLimitExceeded:   "rate limit exceeded",
	ErrCodeInvalidRequest:      "invalid request",
	ErrCodeOpportunityNotFound: "opportunity not found",
	ErrCodeOpportunityExpired:  "opportunity no longer available",
	ErrCodeExecutionNotFound:   "execution not found",
	ErrCodeExecutionNotRunning: "execution is not running",
	ErrCodeInsufficientFunds:   "insufficient platform balance",
}

// ErrorDescription returns a human-readable description for a platform
// error code.
func ErrorDescription(code int) string {
	if desc, ok := errorDescriptions[code]; ok {
		return desc
	}
	return fmt.Sprintf("unknown error code: %d", code)
}
