package service

import (
	"context"
	"io"
	"testing"
	"time"

	"shareit/internal/database"
	"shareit/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestBookingService(store *mockStore) *BookingService {
	logger := zerolog.New(io.Discard)
	return NewBookingService(store, store, store, mockClock{now: fixedNow}, nil, nil, nil, &logger)
}

func TestBookingCreate(t *testing.T) {
	ctx := context.Background()

	booker := &models.User{ID: 1, Name: "Booker"}
	owner := &models.User{ID: 2, Name: "Owner"}
	item := &models.Item{ID: 10, Name: "Drill", OwnerID: owner.ID, Available: true}

	t.Run("success creates waiting booking", func(t *testing.T) {
		store := new(mockStore)
		svc := newTestBookingService(store)

		store.On("GetUserByID", ctx, booker.ID).Return(booker, nil)
		store.On("GetItemByID", ctx, item.ID).Return(item, nil)
		store.On("CreateBooking", ctx, mock.AnythingOfType("*models.Booking")).
			Run(func(args mock.Arguments) {
				b := args.Get(1).(*models.Booking)
				b.ID = 100
				b.Version = 1
			}).
			Return(nil)

		booking, err := svc.Create(ctx, booker.ID, item.ID, fixedNow.Add(time.Hour), fixedNow.Add(2*time.Hour))
		require.NoError(t, err)
		assert.Equal(t, int64(100), booking.ID)
		assert.Equal(t, models.StatusWaiting, booking.Status)
		assert.Equal(t, "Drill", booking.ItemName)
		assert.Equal(t, "Booker", booking.BookerName)
		store.AssertExpectations(t)
	})

	t.Run("unknown booker", func(t *testing.T) {
		store := new(mockStore)
		svc := newTestBookingService(store)

		store.On("GetUserByID", ctx, int64(404)).Return(nil, database.ErrNotFound)

		_, err := svc.Create(ctx, 404, item.ID, fixedNow.Add(time.Hour), fixedNow.Add(2*time.Hour))
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("unknown item", func(t *testing.T) {
		store := new(mockStore)
		svc := newTestBookingService(store)

		store.On("GetUserByID", ctx, booker.ID).Return(booker, nil)
		store.On("GetItemByID", ctx, int64(404)).Return(nil, database.ErrNotFound)

		_, err := svc.Create(ctx, booker.ID, 404, fixedNow.Add(time.Hour), fixedNow.Add(2*time.Hour))
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("owner booking own item", func(t *testing.T) {
		store := new(mockStore)
		svc := newTestBookingService(store)

		store.On("GetUserByID", ctx, owner.ID).Return(owner, nil)
		store.On("GetItemByID", ctx, item.ID).Return(item, nil)

		_, err := svc.Create(ctx, owner.ID, item.ID, fixedNow.Add(time.Hour), fixedNow.Add(2*time.Hour))
		assert.ErrorIs(t, err, ErrOwnerSelfBooking)
		store.AssertNotCalled(t, "CreateBooking", mock.Anything, mock.Anything)
	})

	t.Run("self booking wins over unavailability", func(t *testing.T) {
		store := new(mockStore)
		svc := newTestBookingService(store)

		broken := &models.Item{ID: 11, Name: "Saw", OwnerID: owner.ID, Available: false}
		store.On("GetUserByID", ctx, owner.ID).Return(owner, nil)
		store.On("GetItemByID", ctx, broken.ID).Return(broken, nil)

		_, err := svc.Create(ctx, owner.ID, broken.ID, fixedNow.Add(time.Hour), fixedNow.Add(2*time.Hour))
		assert.ErrorIs(t, err, ErrOwnerSelfBooking)
	})

	t.Run("unavailable item", func(t *testing.T) {
		store := new(mockStore)
		svc := newTestBookingService(store)

		broken := &models.Item{ID: 11, Name: "Saw", OwnerID: owner.ID, Available: false}
		store.On("GetUserByID", ctx, booker.ID).Return(booker, nil)
		store.On("GetItemByID", ctx, broken.ID).Return(broken, nil)

		_, err := svc.Create(ctx, booker.ID, broken.ID, fixedNow.Add(time.Hour), fixedNow.Add(2*time.Hour))
		assert.ErrorIs(t, err, ErrItemUnavailable)
	})
}

func TestBookingCreateTemporalValidation(t *testing.T) {
	ctx := context.Background()

	booker := &models.User{ID: 1, Name: "Booker"}
	item := &models.Item{ID: 10, Name: "Drill", OwnerID: 2, Available: true}

	cases := []struct {
		name  string
		start time.Time
		end   time.Time
	}{
		{"end in the past", fixedNow.Add(-3 * time.Hour), fixedNow.Add(-time.Hour)},
		{"end equals now", fixedNow.Add(-time.Hour), fixedNow},
		{"end before start", fixedNow.Add(2 * time.Hour), fixedNow.Add(time.Hour)},
		{"end equals start", fixedNow.Add(time.Hour), fixedNow.Add(time.Hour)},
		{"start in the past", fixedNow.Add(-time.Hour), fixedNow.Add(time.Hour)},
		{"start equals now", fixedNow, fixedNow.Add(time.Hour)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := new(mockStore)
			svc := newTestBookingService(store)

			store.On("GetUserByID", ctx, booker.ID).Return(booker, nil)
			store.On("GetItemByID", ctx, item.ID).Return(item, nil)

			_, err := svc.Create(ctx, booker.ID, item.ID, tc.start, tc.end)
			assert.ErrorIs(t, err, ErrIncorrectDateTime)
			store.AssertNotCalled(t, "CreateBooking", mock.Anything, mock.Anything)
		})
	}
}

func TestBookingDecide(t *testing.T) {
	ctx := context.Background()

	ownerID := int64(2)
	owner := &models.User{ID: ownerID, Name: "Owner"}
	item := &models.Item{ID: 10, Name: "Drill", OwnerID: ownerID, Available: true}

	waiting := func() *models.Booking {
		return &models.Booking{
			ID: 100, ItemID: item.ID, BookerID: 1,
			Status: models.StatusWaiting, Version: 1,
		}
	}

	t.Run("approve", func(t *testing.T) {
		store := new(mockStore)
		svc := newTestBookingService(store)

		booking := waiting()
		approved := waiting()
		approved.Status = models.StatusApproved
		approved.Version = 2

		store.On("GetBooking", ctx, booking.ID).Return(booking, nil).Once()
		store.On("GetUserByID", ctx, ownerID).Return(owner, nil)
		store.On("GetItemByID", ctx, item.ID).Return(item, nil)
		store.On("UpdateBookingStatusWithVersion", ctx, booking.ID, int64(1), models.StatusApproved).Return(nil)
		store.On("GetBooking", ctx, booking.ID).Return(approved, nil).Once()

		got, err := svc.Decide(ctx, ownerID, booking.ID, true)
		require.NoError(t, err)
		assert.Equal(t, models.StatusApproved, got.Status)
		store.AssertExpectations(t)
	})

	t.Run("reject", func(t *testing.T) {
		store := new(mockStore)
		svc := newTestBookingService(store)

		booking := waiting()
		rejected := waiting()
		rejected.Status = models.StatusRejected
		rejected.Version = 2

		store.On("GetBooking", ctx, booking.ID).Return(booking, nil).Once()
		store.On("GetUserByID", ctx, ownerID).Return(owner, nil)
		store.On("GetItemByID", ctx, item.ID).Return(item, nil)
		store.On("UpdateBookingStatusWithVersion", ctx, booking.ID, int64(1), models.StatusRejected).Return(nil)
		store.On("GetBooking", ctx, booking.ID).Return(rejected, nil).Once()

		got, err := svc.Decide(ctx, ownerID, booking.ID, false)
		require.NoError(t, err)
		assert.Equal(t, models.StatusRejected, got.Status)
	})

	t.Run("not the owner", func(t *testing.T) {
		store := new(mockStore)
		svc := newTestBookingService(store)

		booking := waiting()
		stranger := &models.User{ID: 3, Name: "Stranger"}
		store.On("GetBooking", ctx, booking.ID).Return(booking, nil)
		store.On("GetUserByID", ctx, stranger.ID).Return(stranger, nil)
		store.On("GetItemByID", ctx, item.ID).Return(item, nil)

		_, err := svc.Decide(ctx, stranger.ID, booking.ID, true)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("booker cannot decide own booking", func(t *testing.T) {
		store := new(mockStore)
		svc := newTestBookingService(store)

		booking := waiting()
		booker := &models.User{ID: 1, Name: "Booker"}
		store.On("GetBooking", ctx, booking.ID).Return(booking, nil)
		store.On("GetUserByID", ctx, booker.ID).Return(booker, nil)
		store.On("GetItemByID", ctx, item.ID).Return(item, nil)

		_, err := svc.Decide(ctx, booker.ID, booking.ID, true)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("double approve conflicts", func(t *testing.T) {
		store := new(mockStore)
		svc := newTestBookingService(store)

		booking := waiting()
		booking.Status = models.StatusApproved
		booking.Version = 2

		store.On("GetBooking", ctx, booking.ID).Return(booking, nil)
		store.On("GetUserByID", ctx, ownerID).Return(owner, nil)
		store.On("GetItemByID", ctx, item.ID).Return(item, nil)

		_, err := svc.Decide(ctx, ownerID, booking.ID, true)
		assert.ErrorIs(t, err, ErrConflict)
		store.AssertNotCalled(t, "UpdateBookingStatusWithVersion", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("repeated reject passes", func(t *testing.T) {
		store := new(mockStore)
		svc := newTestBookingService(store)

		booking := waiting()
		booking.Status = models.StatusRejected
		booking.Version = 2

		again := waiting()
		again.Status = models.StatusRejected
		again.Version = 3

		store.On("GetBooking", ctx, booking.ID).Return(booking, nil).Once()
		store.On("GetUserByID", ctx, ownerID).Return(owner, nil)
		store.On("GetItemByID", ctx, item.ID).Return(item, nil)
		store.On("UpdateBookingStatusWithVersion", ctx, booking.ID, int64(2), models.StatusRejected).Return(nil)
		store.On("GetBooking", ctx, booking.ID).Return(again, nil).Once()

		got, err := svc.Decide(ctx, ownerID, booking.ID, false)
		require.NoError(t, err)
		assert.Equal(t, models.StatusRejected, got.Status)
	})

	t.Run("lost decision race conflicts", func(t *testing.T) {
		store := new(mockStore)
		svc := newTestBookingService(store)

		booking := waiting()
		store.On("GetBooking", ctx, booking.ID).Return(booking, nil)
		store.On("GetUserByID", ctx, ownerID).Return(owner, nil)
		store.On("GetItemByID", ctx, item.ID).Return(item, nil)
		store.On("UpdateBookingStatusWithVersion", ctx, booking.ID, int64(1), models.StatusApproved).
			Return(database.ErrConcurrentModification)

		_, err := svc.Decide(ctx, ownerID, booking.ID, true)
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("unknown booking", func(t *testing.T) {
		store := new(mockStore)
		svc := newTestBookingService(store)

		store.On("GetBooking", ctx, int64(404)).Return(nil, database.ErrNotFound)

		_, err := svc.Decide(ctx, ownerID, 404, true)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestBookingGet(t *testing.T) {
	ctx := context.Background()

	owner := &models.User{ID: 2, Name: "Owner"}
	booker := &models.User{ID: 1, Name: "Booker"}
	stranger := &models.User{ID: 3, Name: "Stranger"}
	item := &models.Item{ID: 10, OwnerID: owner.ID, Available: true}
	booking := &models.Booking{ID: 100, ItemID: item.ID, BookerID: booker.ID, Status: models.StatusWaiting}

	t.Run("booker sees own booking", func(t *testing.T) {
		store := new(mockStore)
		svc := newTestBookingService(store)

		store.On("GetUserByID", ctx, booker.ID).Return(booker, nil)
		store.On("GetBooking", ctx, booking.ID).Return(booking, nil)
		store.On("GetItemByID", ctx, item.ID).Return(item, nil)

		got, err := svc.Get(ctx, booker.ID, booking.ID)
		require.NoError(t, err)
		assert.Equal(t, booking.ID, got.ID)
	})

	t.Run("owner sees booking of own item", func(t *testing.T) {
		store := new(mockStore)
		svc := newTestBookingService(store)

		store.On("GetUserByID", ctx, owner.ID).Return(owner, nil)
		store.On("GetBooking", ctx, booking.ID).Return(booking, nil)
		store.On("GetItemByID", ctx, item.ID).Return(item, nil)

		_, err := svc.Get(ctx, owner.ID, booking.ID)
		require.NoError(t, err)
	})

	t.Run("stranger is refused", func(t *testing.T) {
		store := new(mockStore)
		svc := newTestBookingService(store)

		store.On("GetUserByID", ctx, stranger.ID).Return(stranger, nil)
		store.On("GetBooking", ctx, booking.ID).Return(booking, nil)
		store.On("GetItemByID", ctx, item.ID).Return(item, nil)

		_, err := svc.Get(ctx, stranger.ID, booking.ID)
		assert.ErrorIs(t, err, ErrForbidden)
	})
}

func TestBookingLists(t *testing.T) {
	ctx := context.Background()
	user := &models.User{ID: 1, Name: "User"}
	result := []*models.Booking{{ID: 100}}

	t.Run("negative offset", func(t *testing.T) {
		store := new(mockStore)
		svc := newTestBookingService(store)

		_, err := svc.ListForBooker(ctx, user.ID, "ALL", -1, 10)
		assert.ErrorIs(t, err, ErrInvalidPagination)
	})

	t.Run("zero size", func(t *testing.T) {
		store := new(mockStore)
		svc := newTestBookingService(store)

		_, err := svc.ListForOwner(ctx, user.ID, "ALL", 0, 0)
		assert.ErrorIs(t, err, ErrInvalidPagination)
	})

	t.Run("unknown user", func(t *testing.T) {
		store := new(mockStore)
		svc := newTestBookingService(store)

		store.On("GetUserByID", ctx, int64(404)).Return(nil, database.ErrNotFound)

		_, err := svc.ListForBooker(ctx, 404, "ALL", 0, 10)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("unsupported state", func(t *testing.T) {
		store := new(mockStore)
		svc := newTestBookingService(store)

		store.On("GetUserByID", ctx, user.ID).Return(user, nil)

		_, err := svc.ListForBooker(ctx, user.ID, "BOGUS", 0, 10)
		assert.ErrorIs(t, err, ErrUnsupportedState)
	})

	t.Run("state matching is case sensitive", func(t *testing.T) {
		store := new(mockStore)
		svc := newTestBookingService(store)

		store.On("GetUserByID", ctx, user.ID).Return(user, nil)

		_, err := svc.ListForBooker(ctx, user.ID, "waiting", 0, 10)
		assert.ErrorIs(t, err, ErrUnsupportedState)
	})

	t.Run("ALL routes to the plain booker query", func(t *testing.T) {
		store := new(mockStore)
		svc := newTestBookingService(store)

		store.On("GetUserByID", ctx, user.ID).Return(user, nil)
		store.On("GetBookingsByBooker", ctx, user.ID, 2, 5).Return(result, nil)

		got, err := svc.ListForBooker(ctx, user.ID, "ALL", 2, 5)
		require.NoError(t, err)
		assert.Equal(t, result, got)
		store.AssertExpectations(t)
	})

	t.Run("CURRENT passes a single now", func(t *testing.T) {
		store := new(mockStore)
		svc := newTestBookingService(store)

		store.On("GetUserByID", ctx, user.ID).Return(user, nil)
		store.On("GetCurrentBookingsByBooker", ctx, user.ID, fixedNow, 0, 10).Return(result, nil)

		got, err := svc.ListForBooker(ctx, user.ID, "CURRENT", 0, 10)
		require.NoError(t, err)
		assert.Equal(t, result, got)
	})

	t.Run("PAST for owner", func(t *testing.T) {
		store := new(mockStore)
		svc := newTestBookingService(store)

		store.On("GetUserByID", ctx, user.ID).Return(user, nil)
		store.On("GetPastBookingsByOwner", ctx, user.ID, fixedNow, 0, 10).Return(result, nil)

		_, err := svc.ListForOwner(ctx, user.ID, "PAST", 0, 10)
		require.NoError(t, err)
		store.AssertExpectations(t)
	})

	t.Run("FUTURE for owner", func(t *testing.T) {
		store := new(mockStore)
		svc := newTestBookingService(store)

		store.On("GetUserByID", ctx, user.ID).Return(user, nil)
		store.On("GetFutureBookingsByOwner", ctx, user.ID, fixedNow, 0, 10).Return(result, nil)

		_, err := svc.ListForOwner(ctx, user.ID, "FUTURE", 0, 10)
		require.NoError(t, err)
	})

	t.Run("WAITING filters by status", func(t *testing.T) {
		store := new(mockStore)
		svc := newTestBookingService(store)

		store.On("GetUserByID", ctx, user.ID).Return(user, nil)
		store.On("GetBookingsByBookerAndStatus", ctx, user.ID, models.StatusWaiting, 0, 10).Return(result, nil)

		_, err := svc.ListForBooker(ctx, user.ID, "WAITING", 0, 10)
		require.NoError(t, err)
	})

	t.Run("REJECTED filters by status for owner", func(t *testing.T) {
		store := new(mockStore)
		svc := newTestBookingService(store)

		store.On("GetUserByID", ctx, user.ID).Return(user, nil)
		store.On("GetBookingsByOwnerAndStatus", ctx, user.ID, models.StatusRejected, 0, 10).Return(result, nil)

		_, err := svc.ListForOwner(ctx, user.ID, "REJECTED", 0, 10)
		require.NoError(t, err)
	})
}

func TestBookingViews(t *testing.T) {
	ctx := context.Background()

	t.Run("has completed booking", func(t *testing.T) {
		store := new(mockStore)
		svc := newTestBookingService(store)

		store.On("FindCompletedBookings", ctx, int64(1), int64(10), fixedNow).
			Return([]*models.Booking{{ID: 100}}, nil)

		ok, err := svc.HasCompletedBooking(ctx, 1, 10, fixedNow)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("no completed bookings", func(t *testing.T) {
		store := new(mockStore)
		svc := newTestBookingService(store)

		store.On("FindCompletedBookings", ctx, int64(1), int64(10), fixedNow).
			Return([]*models.Booking{}, nil)

		ok, err := svc.HasCompletedBooking(ctx, 1, 10, fixedNow)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("last and next pass through", func(t *testing.T) {
		store := new(mockStore)
		svc := newTestBookingService(store)

		last := &models.Booking{ID: 100}
		store.On("FindLastBooking", ctx, int64(10), fixedNow).Return(last, nil)
		store.On("FindNextBooking", ctx, int64(10), fixedNow).Return(nil, nil)

		got, err := svc.LastCompletedBooking(ctx, 10, fixedNow)
		require.NoError(t, err)
		assert.Equal(t, last, got)

		next, err := svc.NextUpcomingBooking(ctx, 10, fixedNow)
		require.NoError(t, err)
		assert.Nil(t, next)
	})
}
