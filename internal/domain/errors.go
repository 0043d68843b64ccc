package domain

import (
	"errors"
	"fmt"
)

// Submission guard rejections. Both are silently ignorable by callers.
var (
	ErrEmptyInput = errors.New("empty input")
	ErrInFlight   = errors.New("submission already in flight")
)

// Session manager failures.
var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrMessageNotFound  = errors.New("message not found")
	ErrNoCurrentSession = errors.New("no current session")
)

// ErrMalformedResponse marks a 2xx reply whose body did not parse.
var ErrMalformedResponse = errors.New("malformed response body")

// StatusError is a non-2xx reply from a remote service.
type StatusError struct {
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server error: %d", e.Status)
}
