package services

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means no user record matches the given id.
	ErrNotFound = errors.New("user not found")

	// ErrValidation covers malformed input. No mutation is performed.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidStat means a manual stat edit referenced a non-canonical
	// stat name.
	ErrInvalidStat = errors.New("invalid stat")

	// ErrSetupAlreadyCompleted means the one-time assessment gate was hit a
	// second time.
	ErrSetupAlreadyCompleted = errors.New("setup already completed")

	// ErrUpstreamUnavailable means the AI collaborator failed or timed out.
	// Retryable; no state was changed.
	ErrUpstreamUnavailable = errors.New("upstream AI service unavailable")
)

// MissingResponseError names the stat whose assessment answer was absent.
type MissingResponseError struct {
	Stat string
}

func (e *MissingResponseError) Error() string {
	return fmt.Sprintf("missing response for %s", e.Stat)
}

func (e *MissingResponseError) Unwrap() error { return ErrValidation }
