package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Error classes returned by the client. Use errors.Is to test for them.
var (
	ErrAuthRequired = errors.New("authentication required")
	ErrNotFound     = errors.New("not found")
	ErrNetwork      = errors.New("network error")
)

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Status    int
	Message   string
	RequestID string
	Err       error // ErrAuthRequired, ErrNotFound or ErrNetwork
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("API error %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("API error %d: %s", e.Status, http.StatusText(e.Status))
}

func (e *StatusError) Unwrap() error {
	return e.Err
}

// Retryable reports whether the request may succeed if sent again.
func (e *StatusError) Retryable() bool {
	return e.Status >= 500
}

func classify(status int) error {
	switch status {
	case http.StatusUnauthorized:
		return ErrAuthRequired
	case http.StatusNotFound:
		return ErrNotFound
	default:
		return ErrNetwork
	}
}

// IsAuthRequired reports whether err means the session must sign in again.
func IsAuthRequired(err error) bool {
	return errors.Is(err, ErrAuthRequired)
}
