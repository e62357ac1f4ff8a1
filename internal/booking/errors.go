package booking

import "errors"

// Every core operation fails with exactly one of these kinds. The HTTP
// layer maps them to status codes; nothing in here is transport-aware.
var (
	// ErrUnauthorized: caller identity missing, or the caller has no
	// permission over the target venue or booking.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound: the referenced venue or booking does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput: required fields missing or malformed.
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict: a booking already exists for the targeted venue and date.
	// Terminal for the caller; pick another date.
	ErrConflict = errors.New("date already booked or blocked")

	// ErrIllegalTransition: the requested status change is not permitted
	// from the booking's current state.
	ErrIllegalTransition = errors.New("illegal status transition")

	// ErrUnavailable: the store could not be reached. Transient; the
	// calling layer may retry.
	ErrUnavailable = errors.New("store unavailable")
)
