package services

import "errors"

// Authentication outcomes. ErrMisconfigured is deliberately distinct from
// the two client-caused failures: an empty stored hash means a deployment
// secret is missing, which is an operator problem, not a bad passcode.
var (
	ErrUnknownUser       = errors.New("unknown user")
	ErrInvalidCredential = errors.New("invalid credential")
	ErrMisconfigured     = errors.New("credential not configured")
)

// Validation and authorization outcomes for event operations.
var (
	ErrOutOfRange   = errors.New("day outside the allowed range")
	ErrEmptyTitle   = errors.New("title must not be empty")
	ErrInvalidTime  = errors.New("time must be HH:MM")
	ErrInvalidRange = errors.New("from must not be after to")
	ErrForbidden    = errors.New("not the owner of this event")
)
