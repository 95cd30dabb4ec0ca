package service

import "errors"

// Client-error kinds surfaced by the services. Callers classify with
// errors.Is; the message text carries the specific sub-condition.
var (
	// ErrNotFound: a referenced user, item, request or booking does not exist.
	ErrNotFound = errors.New("not found")

	// ErrIncorrectDateTime: booking start/end violate temporal ordering or
	// are not strictly in the future.
	ErrIncorrectDateTime = errors.New("incorrect booking date or time")

	// ErrOwnerSelfBooking: the booker owns the item.
	ErrOwnerSelfBooking = errors.New("owner cannot book own item")

	// ErrItemUnavailable: the item's availability flag is off.
	ErrItemUnavailable = errors.New("item is not available")

	// ErrForbidden: the caller is neither the authorized owner nor the
	// booker for the requested operation.
	ErrForbidden = errors.New("forbidden")

	// ErrConflict: the operation clashes with current state, e.g. a second
	// approval of an already approved booking, or a lost decision race.
	ErrConflict = errors.New("conflict")

	// ErrUnsupportedState: unrecognized state filter string.
	ErrUnsupportedState = errors.New("unsupported state")

	// ErrValidation: malformed input that never reaches storage, such as a
	// blank request description or a comment without a completed booking.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidPagination: negative offset or non-positive page size.
	ErrInvalidPagination = errors.New("invalid pagination parameters")
)
