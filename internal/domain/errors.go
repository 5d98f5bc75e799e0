package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used across all layers.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrValidation    = errors.New("validation error")
	ErrForbidden     = errors.New("forbidden")
	ErrConflict      = errors.New("conflict")

	// ErrQuotaExceeded is returned when a non-editor has used up the daily
	// poll-creation allowance. Terminal for the day.
	ErrQuotaExceeded = errors.New("daily poll quota exceeded")

	// ErrPollArchived is returned when an operation requires an active poll
	// (new votes, new comments). Distinct from ErrNotFound: the poll exists.
	ErrPollArchived = errors.New("poll archived")

	// ErrAlreadyVoted is returned when a second vote is cast for the same
	// (user, poll) pair. The unique constraint is the enforcement mechanism.
	ErrAlreadyVoted = errors.New("already voted")

	// ErrNoExistingVote is returned by change/retract when the user has no
	// vote on the poll.
	ErrNoExistingVote = errors.New("no existing vote")
)

// FieldError describes a validation error for a specific field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError contains a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation: %s: %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	return fmt.Sprintf("validation: %d errors", len(e.Errors))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Errors: []FieldError{{Field: field, Message: message}},
	}
}

// NewValidationErrors creates a ValidationError from multiple field errors.
func NewValidationErrors(errs []FieldError) *ValidationError {
	return &ValidationError{Errors: errs}
}
