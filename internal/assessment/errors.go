package assessment

import (
	"errors"
	"fmt"
)

// Session errors.
var (
	// ErrInvalidPhaseTransition is returned when an operation is called in a
	// phase that does not allow it.
	ErrInvalidPhaseTransition = errors.New("invalid phase transition")

	// ErrEmptySelection is returned by StartAnswering when no indicator is selected.
	ErrEmptySelection = errors.New("no indicator selected")

	// ErrUnknownIndicator is returned when an indicator id is not part of the
	// taxonomy.
	ErrUnknownIndicator = errors.New("unknown indicator")

	// ErrUnknownQuestion is returned when an answer targets an indicator that
	// is not selected or a question that does not belong to the indicator.
	ErrUnknownQuestion = errors.New("unknown question")

	// ErrInvalidAnswer is returned when the answer is not one of the four
	// categories.
	ErrInvalidAnswer = errors.New("invalid answer")
)

// TransitionError describes a rejected session operation.
type TransitionError struct {
	// Op is the rejected operation, e.g. "toggle" or "record".
	Op string

	// Phase is the phase the session was in.
	Phase Phase

	// Detail adds context such as the offending ids.
	Detail string

	// Err is one of the sentinel errors of this package.
	Err error
}

// Error implements the error interface.
func (e *TransitionError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s in phase %s: %v: %s", e.Op, e.Phase, e.Err, e.Detail)
	}
	return fmt.Sprintf("%s in phase %s: %v", e.Op, e.Phase, e.Err)
}

// Unwrap returns the sentinel error.
func (e *TransitionError) Unwrap() error {
	return e.Err
}
