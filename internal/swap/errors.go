package swap

import "errors"

// Error kinds reported by the coordinator and the stores behind it.
// Callers match them with errors.Is; the wrapped message carries the details.
var (
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("forbidden")
	ErrInvalidState    = errors.New("invalid state")
	ErrSelfSwap        = errors.New("cannot swap with yourself")
	ErrAlreadyResolved = errors.New("swap request already resolved")
	ErrStaleState      = errors.New("slots changed before the swap could be completed")
	ErrValidation      = errors.New("validation error")

	// ErrConflict is returned by a store when a concurrent writer touched the same record.
	ErrConflict = errors.New("concurrent update conflict")
)

// Retriable reports whether repeating the same call may succeed without any
// other party acting first.
func Retriable(err error) bool {
	return errors.Is(err, ErrStaleState) || errors.Is(err, ErrConflict)
}

// Kind returns the short machine-readable name of the error kind, or "internal".
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	case errors.Is(err, ErrSelfSwap):
		return "self_swap"
	case errors.Is(err, ErrAlreadyResolved):
		return "already_resolved"
	case errors.Is(err, ErrStaleState):
		return "stale_state"
	case errors.Is(err, ErrInvalidState):
		return "invalid_state"
	case errors.Is(err, ErrValidation):
		return "validation_error"
	case errors.Is(err, ErrConflict):
		return "conflict"
	default:
		return "internal"
	}
}
