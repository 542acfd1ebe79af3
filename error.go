package ccdocs

import (
	"errors"
	"fmt"
	"time"
)

// Application error codes.
const (
	EINTERNAL    = "internal"
	EINVALID     = "invalid"
	ENOTFOUND    = "not_found"
	ERATELIMIT   = "rate_limited"
	EUNAVAILABLE = "unavailable"
)

// Error represents an application-specific error. Err, when set, is the
// underlying cause and is reachable through errors.Is and errors.As.
type Error struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error { return e.Err }

// Errorf is a helper function to return an Error with a given code and
// formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// WrapErrorf is like Errorf but records err as the underlying cause.
func WrapErrorf(err error, code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors always return EINTERNAL.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors always return "Internal error".
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error"
}

// RateLimitError reports an HTTP 429 response. RetryAfter is the wait the
// server asked for, or the configured default when it gave none.
type RateLimitError struct {
	URL        string
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limited by %s (retry after %s)", e.URL, e.RetryAfter)
}

// IsRetryable reports whether a failed fetch may succeed on another attempt.
// Content validation failures never do.
func IsRetryable(err error) bool {
	return err != nil && ErrorCode(err) != EINVALID
}
