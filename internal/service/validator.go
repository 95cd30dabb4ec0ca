package service

import (
	"fmt"
	"time"

	"shareit/internal/models"
)

// validateBooking is the pure creation rule check. Check order is fixed:
// temporal checks first, then self-booking, then availability, so the
// earliest failing check decides the error.
func validateBooking(start, end time.Time, bookerID int64, item *models.Item, now time.Time) error {
	if !end.After(now) {
		return fmt.Errorf("%w: end is in the past or present", ErrIncorrectDateTime)
	}
	if !end.After(start) {
		return fmt.Errorf("%w: end is before or equal to start", ErrIncorrectDateTime)
	}
	if !start.After(now) {
		return fmt.Errorf("%w: start is in the past or present", ErrIncorrectDateTime)
	}
	if item.OwnerID == bookerID {
		return fmt.Errorf("%w: item %d belongs to user %d", ErrOwnerSelfBooking, item.ID, bookerID)
	}
	if !item.Available {
		return fmt.Errorf("%w: item %d", ErrItemUnavailable, item.ID)
	}
	return nil
}
