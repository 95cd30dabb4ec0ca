package models

import "time"

// Request is a renter's ask for an item that does not exist yet.
// Owners answer it by creating items linked via Item.RequestID.
type Request struct {
	ID          int64     `json:"id"`
	Description string    `json:"description"`
	RequesterID int64     `json:"requester_id"`
	CreatedAt   time.Time `json:"created_at"`
	Items       []*Item   `json:"items,omitempty"`
}
