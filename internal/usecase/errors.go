package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrNotFound              = errors.New("resource not found")
	ErrPreconditionFailed    = errors.New("precondition failed")
	ErrAlreadyAssigned       = errors.New("board numbers already assigned")
	ErrDataIntegrity         = errors.New("data integrity violation")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)
