package domain

import (
	"context"
	"time"

	"shareit/internal/models"
)

// Clock supplies the current instant; every temporal comparison in the
// booking engine is relative to it.
type Clock interface {
	Now() time.Time
}

// BookingStore is the persistence capability for bookings: insert,
// point fetch, versioned status update, and the filtered list queries.
// Offsets are absolute row offsets.
type BookingStore interface {
	CreateBooking(ctx context.Context, booking *models.Booking) error
	GetBooking(ctx context.Context, id int64) (*models.Booking, error)
	UpdateBookingStatusWithVersion(ctx context.Context, id, fromVersion int64, status string) error

	GetBookingsByBooker(ctx context.Context, bookerID int64, offset, size int) ([]*models.Booking, error)
	GetCurrentBookingsByBooker(ctx context.Context, bookerID int64, now time.Time, offset, size int) ([]*models.Booking, error)
	GetPastBookingsByBooker(ctx context.Context, bookerID int64, now time.Time, offset, size int) ([]*models.Booking, error)
	GetFutureBookingsByBooker(ctx context.Context, bookerID int64, now time.Time, offset, size int) ([]*models.Booking, error)
	GetBookingsByBookerAndStatus(ctx context.Context, bookerID int64, status string, offset, size int) ([]*models.Booking, error)

	GetBookingsByOwner(ctx context.Context, ownerID int64, offset, size int) ([]*models.Booking, error)
	GetCurrentBookingsByOwner(ctx context.Context, ownerID int64, now time.Time, offset, size int) ([]*models.Booking, error)
	GetPastBookingsByOwner(ctx context.Context, ownerID int64, now time.Time, offset, size int) ([]*models.Booking, error)
	GetFutureBookingsByOwner(ctx context.Context, ownerID int64, now time.Time, offset, size int) ([]*models.Booking, error)
	GetBookingsByOwnerAndStatus(ctx context.Context, ownerID int64, status string, offset, size int) ([]*models.Booking, error)

	FindLastBooking(ctx context.Context, itemID int64, now time.Time) (*models.Booking, error)
	FindNextBooking(ctx context.Context, itemID int64, now time.Time) (*models.Booking, error)
	FindCompletedBookings(ctx context.Context, bookerID, itemID int64, now time.Time) ([]*models.Booking, error)
	GetAllBookings(ctx context.Context) ([]*models.Booking, error)
}

type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	GetAllUsers(ctx context.Context) ([]*models.User, error)
	DeleteUser(ctx context.Context, id int64) error
}

type ItemStore interface {
	CreateItem(ctx context.Context, item *models.Item) error
	GetItemByID(ctx context.Context, id int64) (*models.Item, error)
	UpdateItem(ctx context.Context, item *models.Item) error
	GetItemsByOwner(ctx context.Context, ownerID int64, offset, size int) ([]*models.Item, error)
	SearchItems(ctx context.Context, text string, offset, size int) ([]*models.Item, error)
	GetItemsByRequestID(ctx context.Context, requestID int64) ([]*models.Item, error)
	DeleteItem(ctx context.Context, id int64) error
}

type RequestStore interface {
	CreateRequest(ctx context.Context, request *models.Request) error
	GetRequestByID(ctx context.Context, id int64) (*models.Request, error)
	GetRequestsByRequester(ctx context.Context, requesterID int64) ([]*models.Request, error)
	GetRequestsFromOthers(ctx context.Context, requesterID int64, offset, size int) ([]*models.Request, error)
}

type CommentStore interface {
	CreateComment(ctx context.Context, comment *models.Comment) error
	GetCommentsByItem(ctx context.Context, itemID int64) ([]*models.Comment, error)
}

// BookingViews are the derived per-item reads the item collaborator
// consumes: nearest bookings around now, and the completed-booking fact
// that authorizes comments.
type BookingViews interface {
	LastCompletedBooking(ctx context.Context, itemID int64, now time.Time) (*models.Booking, error)
	NextUpcomingBooking(ctx context.Context, itemID int64, now time.Time) (*models.Booking, error)
	HasCompletedBooking(ctx context.Context, bookerID, itemID int64, now time.Time) (bool, error)
}

// ViewCache caches ItemBookingsView projections and keeps a rate limit
// counter for the HTTP layer. Implementations may be Redis-backed,
// in-memory, or a failover composition of both.
type ViewCache interface {
	GetView(ctx context.Context, itemID int64) (*models.ItemBookingsView, error)
	SetView(ctx context.Context, view *models.ItemBookingsView) error
	InvalidateView(ctx context.Context, itemID int64) error
	CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// EventPublisher fans booking lifecycle events out to in-process
// subscribers.
type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// ExportQueue accepts export tasks for the async report worker.
type ExportQueue interface {
	EnqueueTask(ctx context.Context, taskType string, booking *models.Booking) error
}

// SheetsWriter mirrors bookings into an external spreadsheet.
type SheetsWriter interface {
	UpsertBooking(ctx context.Context, booking *models.Booking) error
	UpdateBookingStatus(ctx context.Context, bookingID int64, status string) error
}
