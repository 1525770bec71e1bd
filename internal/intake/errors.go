package intake

import "errors"

var (
	// ErrNotReviewStep is returned when Submit is invoked before the wizard
	// reaches the review step.
	ErrNotReviewStep = errors.New("submit is only allowed from the review step")

	// ErrAlreadySubmitted is returned when a completed wizard submits again.
	ErrAlreadySubmitted = errors.New("intake already submitted")

	// ErrIntakeNotFound is returned when an intake record is not found.
	ErrIntakeNotFound = errors.New("intake not found")
)

// ValidationError describes client-correctable input problems.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// StorageError wraps a persistence failure; detail is logged, not surfaced.
type StorageError struct {
	Err error
}

func (e *StorageError) Error() string {
	return "intake: storage failure: " + e.Err.Error()
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
