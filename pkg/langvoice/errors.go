package langvoice

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors categorising API failures by HTTP status. Use [errors.Is]
// to test for a category and [errors.As] with [*Error] to inspect the
// status code and server message.
var (
	// ErrAuthentication indicates an invalid or missing API key (401).
	ErrAuthentication = errors.New("langvoice: authentication failed")

	// ErrRateLimited indicates the account's rate limit was exceeded (429).
	ErrRateLimited = errors.New("langvoice: rate limit exceeded")

	// ErrValidation indicates the request was rejected as malformed (400).
	ErrValidation = errors.New("langvoice: request validation failed")

	// ErrNotFound indicates an unknown resource or endpoint (404).
	ErrNotFound = errors.New("langvoice: not found")

	// ErrServer indicates a server-side failure (5xx).
	ErrServer = errors.New("langvoice: server error")
)

// Error is the concrete API error type. It carries the HTTP status code and
// the server-provided message, and unwraps to the matching sentinel so that
// errors.Is(err, ErrRateLimited) etc. work.
type Error struct {
	// StatusCode is the HTTP status the API responded with.
	StatusCode int

	// Message is the server-provided error message, or the raw response
	// body when no structured message was present.
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("langvoice: API error (status %d)", e.StatusCode)
	}
	return fmt.Sprintf("langvoice: API error (status %d): %s", e.StatusCode, e.Message)
}

// Unwrap maps the status code onto the sentinel taxonomy.
func (e *Error) Unwrap() error {
	switch {
	case e.StatusCode == http.StatusUnauthorized:
		return ErrAuthentication
	case e.StatusCode == http.StatusTooManyRequests:
		return ErrRateLimited
	case e.StatusCode == http.StatusBadRequest:
		return ErrValidation
	case e.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case e.StatusCode >= 500:
		return ErrServer
	}
	return nil
}
