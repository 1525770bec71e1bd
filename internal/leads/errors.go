package leads

import "errors"

var (
	// ErrRateLimited is returned when an IP exhausts its submission window.
	ErrRateLimited = errors.New("too many submissions")

	// ErrSecurityCheck is returned for any captcha failure. The caller-visible
	// message stays generic so bots learn nothing about which check tripped.
	ErrSecurityCheck = errors.New("security verification failed")

	// ErrLeadNotFound is returned when a lead is not found
	ErrLeadNotFound = errors.New("lead not found")
)

// ValidationError describes client-correctable input problems. Message is safe
// to surface verbatim.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// StorageError wraps a persistence failure. The wrapped error is logged, never
// shown to the client.
type StorageError struct {
	Err error
}

func (e *StorageError) Error() string {
	return "leads: storage failure: " + e.Err.Error()
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
