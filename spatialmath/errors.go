package spatialmath

import "fmt"

// InvalidTransformError is returned when a 4x4 matrix fails one of the
// rigid-body transform checks. Reason names the failed check.
type InvalidTransformError struct {
	Reason string
}

// NewInvalidTransformError returns an InvalidTransformError for the given failed check.
func NewInvalidTransformError(reason string) error {
	return &InvalidTransformError{Reason: reason}
}

func (e *InvalidTransformError) Error() string {
	return fmt.Sprintf("invalid rigid transform: %s", e.Reason)
}

// InvalidInputError is returned when a numeric input is malformed, e.g. a
// zero-norm quaternion or a joint vector of the wrong length.
type InvalidInputError struct {
	Reason string
}

// NewInvalidInputError returns an InvalidInputError with the given reason.
func NewInvalidInputError(reason string) error {
	return &InvalidInputError{Reason: reason}
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s", e.Reason)
}
