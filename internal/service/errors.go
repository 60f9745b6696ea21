package service

import "errors"

var (
	// ErrValidation wraps payload validation failures; the message after the
	// sentinel is safe to surface to the caller.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidTransition marks a status change that does not follow the
	// entity's forward-only lifecycle.
	ErrInvalidTransition = errors.New("invalid status transition")
)
