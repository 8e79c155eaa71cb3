package scheduling

import "errors"

// The four error kinds every operation in this package resolves to.
// Callers classify with errors.Is; the HTTP layer maps them to status codes.
var (
	// ErrValidation covers malformed or past-dated input.
	ErrValidation = errors.New("validation error")

	// ErrNotFound covers unknown providers, days, slots and patients.
	ErrNotFound = errors.New("not found")

	// ErrConflict means one or more requested slots are already claimed;
	// expected under concurrent booking.
	ErrConflict = errors.New("conflict")

	// ErrStorage means the underlying store could not be read or written.
	ErrStorage = errors.New("storage error")
)
