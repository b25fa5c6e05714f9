package session

import "errors"

// Controller guard errors. None of them touch session state.
var (
	ErrBusy         = errors.New("another operation is in progress")
	ErrInvalidPhase = errors.New("invalid action for current phase")
	ErrNoSession    = errors.New("no active session")
)
