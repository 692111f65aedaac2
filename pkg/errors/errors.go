package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// ErrorType represents different types of errors that can occur
type ErrorType string

const (
	ErrorTypeNetwork            ErrorType = "network"
	ErrorTypeRateLimit          ErrorType = "rate_limit"
	ErrorTypeAuth               ErrorType = "auth"
	ErrorTypeParsing            ErrorType = "parsing"
	ErrorTypeNotFound           ErrorType = "not_found"
	ErrorTypeServerError        ErrorType = "server_error"
	ErrorTypeProfileUnavailable ErrorType = "profile_unavailable"
	ErrorTypeUnknown            ErrorType = "unknown"
)

// Error represents an API error with type information
type Error struct {
	Type    ErrorType
	Message string
	// Code is the HTTP status code, 0 for transport failures
	Code int
	// Username is set when the error concerns a specific account handle
	Username string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s error (code %d): %s", e.Type, e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// FromStatus classifies a non-2xx HTTP status code
func FromStatus(statusCode int, url string) *Error {
	e := &Error{Code: statusCode}
	switch {
	case statusCode == http.StatusNotFound:
		e.Type = ErrorTypeNotFound
		e.Message = "resource not found: " + url
	case statusCode == http.StatusTooManyRequests:
		e.Type = ErrorTypeRateLimit
		e.Message = "rate limit exceeded"
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		e.Type = ErrorTypeAuth
		e.Message = fmt.Sprintf("access denied (status %d)", statusCode)
	case statusCode >= 500:
		e.Type = ErrorTypeServerError
		e.Message = fmt.Sprintf("server returned status %d", statusCode)
	default:
		e.Type = ErrorTypeUnknown
		e.Message = fmt.Sprintf("unexpected status code: %d", statusCode)
	}
	return e
}

// NewNetworkError wraps a transport-level failure
func NewNetworkError(err error) *Error {
	return &Error{
		Type:    ErrorTypeNetwork,
		Message: fmt.Sprintf("network error: %v", err),
		Err:     err,
	}
}

// NewUserNotFound reports a handle that could not be resolved to an account
func NewUserNotFound(username string) *Error {
	return &Error{
		Type:     ErrorTypeNotFound,
		Message:  fmt.Sprintf("user %q not found in search results", "@"+username),
		Code:     http.StatusNotFound,
		Username: username,
	}
}

// NewProfileUnavailable reports an info response without a user payload
func NewProfileUnavailable(userID string) *Error {
	return &Error{
		Type:    ErrorTypeProfileUnavailable,
		Message: fmt.Sprintf("could not fetch profile info for user ID %s", userID),
	}
}

// NewParsingError wraps a response body that failed to decode
func NewParsingError(err error, statusCode int) *Error {
	return &Error{
		Type:    ErrorTypeParsing,
		Message: fmt.Sprintf("failed to parse JSON: %v", err),
		Code:    statusCode,
		Err:     err,
	}
}

// StatusCode returns the HTTP status attached to err, or 0
func StatusCode(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return 0
}

// IsType reports whether err is an *Error of the given type
func IsType(err error, t ErrorType) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Type == t
}

// IsRetryable reports whether the request executor may try err again.
// A 404 is structural and never retried; cancellation is final. A request
// timeout is a network failure like any other, so finality under a caller
// deadline is decided by the executor from its own context.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}

	var apiErr *Error
	if errors.As(err, &apiErr) {
		if apiErr.Code == http.StatusNotFound {
			return false
		}
		switch apiErr.Type {
		case ErrorTypeParsing, ErrorTypeProfileUnavailable:
			return false
		}
	}
	return true
}

// UserMessage turns a final failure into the text shown to an operator
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	switch StatusCode(err) {
	case http.StatusNotFound:
		return "User not found. Check the username and try again."
	case http.StatusTooManyRequests:
		return "Rate limited by Instagram. Wait a few minutes and try again."
	case http.StatusUnauthorized, http.StatusForbidden:
		return "Access denied. Instagram may have blocked this request."
	}
	return err.Error()
}
