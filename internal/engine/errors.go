package engine

import (
	"errors"
	"fmt"
)

// fallbackMessage is shown when the engine gives no error text.
const fallbackMessage = "engine request failed"

// RequestError is any failed engine call: transport failure, non-success
// status, or a body that cannot be decoded or breaks state invariants.
// Session state is never updated from a failed call.
type RequestError struct {
	Op      string // initialize, set-secret, guess, end-round, new-round, state
	Status  int    // HTTP status, 0 on transport failure
	Message string // engine "error" text, surfaced verbatim
	Err     error  // underlying cause, if any
}

// Error returns the engine's message verbatim, or a generic fallback.
func (e *RequestError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fallbackMessage
}

func (e *RequestError) Unwrap() error { return e.Err }

// Detail is the log-friendly form with op, status and cause.
func (e *RequestError) Detail() string {
	s := fmt.Sprintf("%s: status=%d", e.Op, e.Status)
	if e.Message != "" {
		s += " error=" + e.Message
	}
	if e.Err != nil {
		s += " cause=" + e.Err.Error()
	}
	return s
}

// IsRequestError reports whether err is (or wraps) a RequestError.
func IsRequestError(err error) bool {
	var r *RequestError
	return errors.As(err, &r)
}
