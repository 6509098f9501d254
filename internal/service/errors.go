package service

import "errors"

var (
	// ErrLocked means a transition guard refused the change: the board
	// has finalized, a decision is final, or a grace window has expired.
	ErrLocked = errors.New("status is locked")

	// ErrQuotaExceeded means the per-field change quota is exhausted.
	ErrQuotaExceeded = errors.New("status change limit reached")

	// ErrUnchanged means a same-value transition was requested. It is a
	// no-op, not a failure: no log row, no side effects.
	ErrUnchanged = errors.New("status unchanged")

	// ErrValidation means a command carried malformed or missing input.
	ErrValidation = errors.New("invalid input")
)
