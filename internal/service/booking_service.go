package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shareit/internal/database"
	"shareit/internal/domain"
	"shareit/internal/events"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

// BookingService is the booking lifecycle engine: it creates bookings in
// WAITING, advances them on the owner's decision, and answers point and
// collection queries with authorization checks. It holds no state of its
// own; everything durable lives in the store.
type BookingService struct {
	store    domain.BookingStore
	users    domain.UserStore
	items    domain.ItemStore
	clock    domain.Clock
	eventBus domain.EventPublisher
	exporter domain.ExportQueue
	cache    domain.ViewCache
	logger   *zerolog.Logger
}

func NewBookingService(
	store domain.BookingStore,
	users domain.UserStore,
	items domain.ItemStore,
	clock domain.Clock,
	eventBus domain.EventPublisher,
	exporter domain.ExportQueue,
	cache domain.ViewCache,
	logger *zerolog.Logger,
) *BookingService {
	if clock == nil {
		clock = SystemClock{}
	}
	return &BookingService{
		store:    store,
		users:    users,
		items:    items,
		clock:    clock,
		eventBus: eventBus,
		exporter: exporter,
		cache:    cache,
		logger:   logger,
	}
}

// Create validates and persists a new booking in WAITING status.
func (s *BookingService) Create(ctx context.Context, bookerID, itemID int64, start, end time.Time) (*models.Booking, error) {
	booker, err := s.users.GetUserByID(ctx, bookerID)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	item, err := s.items.GetItemByID(ctx, itemID)
	if err != nil {
		return nil, mapStoreErr(err)
	}

	if err := validateBooking(start, end, booker.ID, item, s.clock.Now()); err != nil {
		return nil, err
	}

	booking := &models.Booking{
		ItemID:     item.ID,
		ItemName:   item.Name,
		BookerID:   booker.ID,
		BookerName: booker.Name,
		Start:      start,
		End:        end,
		Status:     models.StatusWaiting,
	}
	if err := s.store.CreateBooking(ctx, booking); err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("booking_id", booking.ID).
		Int64("item_id", item.ID).
		Int64("booker_id", booker.ID).
		Msg("booking created")

	s.publishEvent(events.EventBookingCreated, booking)
	s.invalidateView(ctx, item.ID)
	s.enqueueExport(ctx, models.TaskUpsert, booking)

	return booking, nil
}

// Decide applies the owner's approval or rejection. Only WAITING →
// APPROVED and WAITING → REJECTED transitions exist; a second approval of
// an APPROVED booking is a conflict. Re-rejection is deliberately not
// guarded: the original system only checks the double-approve case.
func (s *BookingService) Decide(ctx context.Context, deciderID, bookingID int64, approve bool) (*models.Booking, error) {
	booking, err := s.store.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	if _, err := s.users.GetUserByID(ctx, deciderID); err != nil {
		return nil, mapStoreErr(err)
	}
	item, err := s.items.GetItemByID(ctx, booking.ItemID)
	if err != nil {
		return nil, mapStoreErr(err)
	}

	if item.OwnerID != deciderID {
		return nil, fmt.Errorf("%w: not the owner of the item", ErrForbidden)
	}
	if approve && booking.Status == models.StatusApproved {
		return nil, fmt.Errorf("%w: booking %d is already approved", ErrConflict, bookingID)
	}

	status := models.StatusRejected
	eventType := events.EventBookingRejected
	if approve {
		status = models.StatusApproved
		eventType = events.EventBookingApproved
	}

	// The version check turns a lost decision race into a conflict instead
	// of a silent last-writer-wins overwrite.
	if err := s.store.UpdateBookingStatusWithVersion(ctx, booking.ID, booking.Version, status); err != nil {
		if errors.Is(err, database.ErrConcurrentModification) {
			return nil, fmt.Errorf("%w: booking %d was decided concurrently", ErrConflict, bookingID)
		}
		return nil, err
	}

	updated, err := s.store.GetBooking(ctx, booking.ID)
	if err != nil {
		return nil, mapStoreErr(err)
	}

	s.logger.Info().
		Int64("booking_id", booking.ID).
		Int64("decider_id", deciderID).
		Str("status", status).
		Msg("booking decided")

	s.publishEvent(eventType, updated)
	s.invalidateView(ctx, booking.ItemID)
	s.enqueueExport(ctx, models.TaskUpdateStatus, updated)

	return updated, nil
}

// Get returns the booking to its booker or the item's owner; anyone else
// is refused.
func (s *BookingService) Get(ctx context.Context, requesterID, bookingID int64) (*models.Booking, error) {
	if _, err := s.users.GetUserByID(ctx, requesterID); err != nil {
		return nil, mapStoreErr(err)
	}
	booking, err := s.store.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	item, err := s.items.GetItemByID(ctx, booking.ItemID)
	if err != nil {
		return nil, mapStoreErr(err)
	}

	if requesterID != item.OwnerID && requesterID != booking.BookerID {
		return nil, fmt.Errorf("%w: must be owner or booker", ErrForbidden)
	}

	// Re-fetch so the caller always sees the freshest row.
	fresh, err := s.store.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return fresh, nil
}

// ListForBooker returns the user's own bookings filtered by state.
func (s *BookingService) ListForBooker(ctx context.Context, userID int64, state string, offset, size int) ([]*models.Booking, error) {
	return s.list(ctx, userID, state, offset, size, bookerQueries{s.store})
}

// ListForOwner returns bookings of items the user owns, filtered by state.
func (s *BookingService) ListForOwner(ctx context.Context, userID int64, state string, offset, size int) ([]*models.Booking, error) {
	return s.list(ctx, userID, state, offset, size, ownerQueries{s.store})
}

// partyQueries routes a state filter to the store query for one side of
// the booking relationship.
type partyQueries interface {
	all(ctx context.Context, userID int64, offset, size int) ([]*models.Booking, error)
	current(ctx context.Context, userID int64, now time.Time, offset, size int) ([]*models.Booking, error)
	past(ctx context.Context, userID int64, now time.Time, offset, size int) ([]*models.Booking, error)
	future(ctx context.Context, userID int64, now time.Time, offset, size int) ([]*models.Booking, error)
	byStatus(ctx context.Context, userID int64, status string, offset, size int) ([]*models.Booking, error)
}

type bookerQueries struct{ store domain.BookingStore }

func (q bookerQueries) all(ctx context.Context, id int64, offset, size int) ([]*models.Booking, error) {
	return q.store.GetBookingsByBooker(ctx, id, offset, size)
}
func (q bookerQueries) current(ctx context.Context, id int64, now time.Time, offset, size int) ([]*models.Booking, error) {
	return q.store.GetCurrentBookingsByBooker(ctx, id, now, offset, size)
}
func (q bookerQueries) past(ctx context.Context, id int64, now time.Time, offset, size int) ([]*models.Booking, error) {
	return q.store.GetPastBookingsByBooker(ctx, id, now, offset, size)
}
func (q bookerQueries) future(ctx context.Context, id int64, now time.Time, offset, size int) ([]*models.Booking, error) {
	return q.store.GetFutureBookingsByBooker(ctx, id, now, offset, size)
}
func (q bookerQueries) byStatus(ctx context.Context, id int64, status string, offset, size int) ([]*models.Booking, error) {
	return q.store.GetBookingsByBookerAndStatus(ctx, id, status, offset, size)
}

type ownerQueries struct{ store domain.BookingStore }

func (q ownerQueries) all(ctx context.Context, id int64, offset, size int) ([]*models.Booking, error) {
	return q.store.GetBookingsByOwner(ctx, id, offset, size)
}
func (q ownerQueries) current(ctx context.Context, id int64, now time.Time, offset, size int) ([]*models.Booking, error) {
	return q.store.GetCurrentBookingsByOwner(ctx, id, now, offset, size)
}
func (q ownerQueries) past(ctx context.Context, id int64, now time.Time, offset, size int) ([]*models.Booking, error) {
	return q.store.GetPastBookingsByOwner(ctx, id, now, offset, size)
}
func (q ownerQueries) future(ctx context.Context, id int64, now time.Time, offset, size int) ([]*models.Booking, error) {
	return q.store.GetFutureBookingsByOwner(ctx, id, now, offset, size)
}
func (q ownerQueries) byStatus(ctx context.Context, id int64, status string, offset, size int) ([]*models.Booking, error) {
	return q.store.GetBookingsByOwnerAndStatus(ctx, id, status, offset, size)
}

func (s *BookingService) list(ctx context.Context, userID int64, state string, offset, size int, queries partyQueries) ([]*models.Booking, error) {
	if offset < 0 || size <= 0 {
		return nil, fmt.Errorf("%w: offset=%d size=%d", ErrInvalidPagination, offset, size)
	}
	if _, err := s.users.GetUserByID(ctx, userID); err != nil {
		return nil, mapStoreErr(err)
	}
	filter, err := ParseStateFilter(state)
	if err != nil {
		return nil, err
	}

	// now is captured once per call, not per row.
	now := s.clock.Now()

	switch filter {
	case StateAll:
		return queries.all(ctx, userID, offset, size)
	case StateCurrent:
		return queries.current(ctx, userID, now, offset, size)
	case StatePast:
		return queries.past(ctx, userID, now, offset, size)
	case StateFuture:
		return queries.future(ctx, userID, now, offset, size)
	case StateWaiting:
		return queries.byStatus(ctx, userID, models.StatusWaiting, offset, size)
	case StateRejected:
		return queries.byStatus(ctx, userID, models.StatusRejected, offset, size)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedState, state)
	}
}

// LastCompletedBooking is the most recent booking of the item that ended
// before now, or nil.
func (s *BookingService) LastCompletedBooking(ctx context.Context, itemID int64, now time.Time) (*models.Booking, error) {
	return s.store.FindLastBooking(ctx, itemID, now)
}

// NextUpcomingBooking is the earliest booking of the item starting after
// now, or nil.
func (s *BookingService) NextUpcomingBooking(ctx context.Context, itemID int64, now time.Time) (*models.Booking, error) {
	return s.store.FindNextBooking(ctx, itemID, now)
}

// HasCompletedBooking reports whether the booker has at least one booking
// of the item that already ended.
func (s *BookingService) HasCompletedBooking(ctx context.Context, bookerID, itemID int64, now time.Time) (bool, error) {
	completed, err := s.store.FindCompletedBookings(ctx, bookerID, itemID, now)
	if err != nil {
		return false, err
	}
	return len(completed) > 0, nil
}

// ExportAll returns every booking for the report exporter.
func (s *BookingService) ExportAll(ctx context.Context) ([]*models.Booking, error) {
	return s.store.GetAllBookings(ctx)
}

func (s *BookingService) publishEvent(eventType string, booking *models.Booking) {
	if s.eventBus == nil {
		return
	}
	payload := events.BookingEventPayload{
		BookingID:  booking.ID,
		ItemID:     booking.ItemID,
		ItemName:   booking.ItemName,
		BookerID:   booking.BookerID,
		BookerName: booking.BookerName,
		Status:     booking.Status,
		Start:      booking.Start,
		End:        booking.End,
	}
	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Warn().Err(err).Str("event", eventType).Msg("failed to publish booking event")
	}
}

func (s *BookingService) invalidateView(ctx context.Context, itemID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateView(ctx, itemID); err != nil {
		s.logger.Warn().Err(err).Int64("item_id", itemID).Msg("failed to invalidate bookings view")
	}
}

func (s *BookingService) enqueueExport(ctx context.Context, taskType string, booking *models.Booking) {
	if s.exporter == nil {
		return
	}
	if err := s.exporter.EnqueueTask(ctx, taskType, booking); err != nil {
		s.logger.Warn().Err(err).Int64("booking_id", booking.ID).Msg("failed to enqueue export task")
	}
}

// mapStoreErr converts storage not-found sentinels into the service-level
// kind; everything else passes through as an internal failure.
func mapStoreErr(err error) error {
	if errors.Is(err, database.ErrNotFound) {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	return err
}
