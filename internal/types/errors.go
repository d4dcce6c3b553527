package types

import (
	"errors"
	"fmt"

	"github.com/adpulse/adpulse/internal/db/models"
)

// Sentinel errors for the lifecycle operations. Handlers map these onto
// stable HTTP status codes; no internal detail leaks into response bodies.
var (
	// ErrNotFound indicates the targeted job, ad, or queue entry does not exist
	ErrNotFound = errors.New("not found")
	// ErrValidation indicates missing or malformed required input
	ErrValidation = errors.New("validation failed")
	// ErrPersistence indicates an underlying store failure
	ErrPersistence = errors.New("persistence failure")
)

// InvalidStateError reports an operation that is not legal for the job's
// current status. The current status is carried so callers can explain the
// refusal to a user.
type InvalidStateError struct {
	JobID   string
	Current models.GenerationStatus
}

// Error implements the error interface
func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("job %s cannot be disposed in status %q", e.JobID, e.Current)
}

// NewInvalidStateError builds an InvalidStateError for the given job
func NewInvalidStateError(jobID string, current models.GenerationStatus) *InvalidStateError {
	return &InvalidStateError{JobID: jobID, Current: current}
}

// IsInvalidState reports whether err is an InvalidStateError and returns it
func IsInvalidState(err error) (*InvalidStateError, bool) {
	var ise *InvalidStateError
	if errors.As(err, &ise) {
		return ise, true
	}
	return nil, false
}

// ValidationError wraps ErrValidation with a field-level message
func ValidationError(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}

// NotFoundError wraps ErrNotFound with the entity and id that missed
func NotFoundError(entity, id string) error {
	return fmt.Errorf("%w: %s %s", ErrNotFound, entity, id)
}
