package models

import "time"

// Booking is a time-bounded reservation of an item, subject to owner approval.
// Start/End and the item/booker references are immutable after creation;
// only Status changes, guarded by Version.
type Booking struct {
	ID         int64     `json:"id"`
	ItemID     int64     `json:"item_id"`
	ItemName   string    `json:"item_name"`
	BookerID   int64     `json:"booker_id"`
	BookerName string    `json:"booker_name"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	Status     string    `json:"status"` // WAITING, APPROVED, REJECTED
	Version    int64     `json:"version"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ItemBookingsView is the cached per-item projection of the nearest
// bookings around the current instant, shown to the item owner.
type ItemBookingsView struct {
	ItemID   int64     `json:"item_id"`
	Last     *Booking  `json:"last,omitempty"`
	Next     *Booking  `json:"next,omitempty"`
	CachedAt time.Time `json:"cached_at"`
}
