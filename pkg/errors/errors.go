package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType represents the failure classes a run can hit
type ErrorType string

const (
	ErrorTypeNavigationTimeout  ErrorType = "navigation_timeout"
	ErrorTypeExtractionMismatch ErrorType = "extraction_mismatch"
	ErrorTypeDownloadFailure    ErrorType = "download_failure"
	ErrorTypeNetwork            ErrorType = "network"
	ErrorTypeUnknown            ErrorType = "unknown"
)

// Error carries the failure class plus whatever context the failing step had
type Error struct {
	Type    ErrorType
	Message string
	URL     string
	Code    int
	Err     error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s error: %s", e.Type, e.Message)
	if e.Code != 0 {
		msg = fmt.Sprintf("%s error (code %d): %s", e.Type, e.Code, e.Message)
	}
	if e.URL != "" {
		msg += " [" + e.URL + "]"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NavigationTimeout reports a content marker that never showed up
func NavigationTimeout(url, selector string, err error) *Error {
	return &Error{
		Type:    ErrorTypeNavigationTimeout,
		Message: fmt.Sprintf("marker %q did not appear", selector),
		URL:     url,
		Err:     err,
	}
}

// ExtractionMismatch reports metadata that was absent or malformed
func ExtractionMismatch(url, message string) *Error {
	return &Error{
		Type:    ErrorTypeExtractionMismatch,
		Message: message,
		URL:     url,
	}
}

// DownloadFailure reports a failed fetch or write of a single image
func DownloadFailure(url string, code int, err error) *Error {
	msg := "download failed"
	if code != 0 {
		msg = fmt.Sprintf("server returned status %d", code)
	}
	return &Error{
		Type:    ErrorTypeDownloadFailure,
		Message: msg,
		URL:     url,
		Code:    code,
		Err:     err,
	}
}

// Is reports whether err is an *Error of the given type
func Is(err error, t ErrorType) bool {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Type == t
	}
	return false
}

// IsRetryable checks if an error should be retried
func IsRetryable(err error) bool {
	var e *Error
	if !stderrors.As(err, &e) {
		return false
	}
	switch e.Type {
	case ErrorTypeNetwork:
		return true
	case ErrorTypeDownloadFailure:
		// no status means the request never got an answer we can act on
		// (bad scheme, TLS, local write); another attempt fails the same way
		return e.Code != 0 && IsRetryableStatusCode(e.Code)
	default:
		return false
	}
}

// IsRetryableStatusCode checks if an HTTP status code indicates a retryable error
func IsRetryableStatusCode(statusCode int) bool {
	switch statusCode {
	case 429: // Too Many Requests
		return true
	case 401, 403, 404: // Client errors that won't change
		return false
	default:
		return statusCode >= 500
	}
}
