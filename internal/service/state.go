package service

import "fmt"

// StateFilter selects a subset of a party's bookings relative to the
// current instant or status.
type StateFilter string

const (
	StateAll      StateFilter = "ALL"
	StateCurrent  StateFilter = "CURRENT"
	StatePast     StateFilter = "PAST"
	StateFuture   StateFilter = "FUTURE"
	StateWaiting  StateFilter = "WAITING"
	StateRejected StateFilter = "REJECTED"
)

// ParseStateFilter resolves a raw state name. Matching is case-sensitive
// and exact; anything unrecognized is rejected before storage is touched.
func ParseStateFilter(raw string) (StateFilter, error) {
	switch StateFilter(raw) {
	case StateAll, StateCurrent, StatePast, StateFuture, StateWaiting, StateRejected:
		return StateFilter(raw), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedState, raw)
	}
}
