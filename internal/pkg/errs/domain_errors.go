package errs

import "errors"

// Sentinel errors shared across the command and query layers. Handlers map
// these to the wire-level reason codes.
var (
	// Lock acquisition
	ErrSeatBooked = errors.New("seat already booked")
	ErrSeatLocked = errors.New("seat locked by another owner")

	// Release / conversion
	ErrNotOwner      = errors.New("caller does not own the hold")
	ErrHoldExpired   = errors.New("hold expired")
	ErrNoActiveHolds = errors.New("no active holds for owner")

	// Request validation
	ErrValidation = errors.New("validation error")

	// Operation errors
	ErrStoreOperationFailed = errors.New("store operation failed")
)
