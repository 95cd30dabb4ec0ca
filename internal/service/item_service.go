package service

import (
	"context"
	"fmt"
	"strings"

	"shareit/internal/domain"
	"shareit/internal/events"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

// ItemDetails is an item together with its comments and, for the owner,
// the nearest bookings around now.
type ItemDetails struct {
	*models.Item
	LastBooking *models.Booking   `json:"last_booking,omitempty"`
	NextBooking *models.Booking   `json:"next_booking,omitempty"`
	Comments    []*models.Comment `json:"comments"`
}

type ItemService struct {
	items    domain.ItemStore
	users    domain.UserStore
	requests domain.RequestStore
	comments domain.CommentStore
	views    domain.BookingViews
	cache    domain.ViewCache
	clock    domain.Clock
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
}

func NewItemService(
	items domain.ItemStore,
	users domain.UserStore,
	requests domain.RequestStore,
	comments domain.CommentStore,
	views domain.BookingViews,
	cache domain.ViewCache,
	clock domain.Clock,
	eventBus domain.EventPublisher,
	logger *zerolog.Logger,
) *ItemService {
	if clock == nil {
		clock = SystemClock{}
	}
	return &ItemService{
		items:    items,
		users:    users,
		requests: requests,
		comments: comments,
		views:    views,
		cache:    cache,
		clock:    clock,
		eventBus: eventBus,
		logger:   logger,
	}
}

func (s *ItemService) Create(ctx context.Context, ownerID int64, item *models.Item) (*models.Item, error) {
	if strings.TrimSpace(item.Name) == "" {
		return nil, fmt.Errorf("%w: item name is required", ErrValidation)
	}
	if _, err := s.users.GetUserByID(ctx, ownerID); err != nil {
		return nil, mapStoreErr(err)
	}
	if item.RequestID != 0 {
		if _, err := s.requests.GetRequestByID(ctx, item.RequestID); err != nil {
			return nil, mapStoreErr(err)
		}
	}

	item.OwnerID = ownerID
	if err := s.items.CreateItem(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("item_id", item.ID).Int64("owner_id", ownerID).Msg("item created")
	if s.eventBus != nil {
		_ = s.eventBus.PublishJSON(events.EventItemCreated, item)
	}
	return item, nil
}

// Update applies a partial patch; only the item's owner may change it.
func (s *ItemService) Update(ctx context.Context, ownerID, itemID int64, patch models.ItemPatch) (*models.Item, error) {
	if _, err := s.users.GetUserByID(ctx, ownerID); err != nil {
		return nil, mapStoreErr(err)
	}
	item, err := s.items.GetItemByID(ctx, itemID)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	if item.OwnerID != ownerID {
		return nil, fmt.Errorf("%w: only the owner can update item %d", ErrForbidden, itemID)
	}

	if patch.Name != nil {
		item.Name = *patch.Name
	}
	if patch.Description != nil {
		item.Description = *patch.Description
	}
	if patch.Available != nil {
		item.Available = *patch.Available
	}

	if err := s.items.UpdateItem(ctx, item); err != nil {
		return nil, mapStoreErr(err)
	}
	return item, nil
}

// Get returns the item with its comments; the owner also sees the last
// completed and next upcoming bookings.
func (s *ItemService) Get(ctx context.Context, requesterID, itemID int64) (*ItemDetails, error) {
	if _, err := s.users.GetUserByID(ctx, requesterID); err != nil {
		return nil, mapStoreErr(err)
	}
	item, err := s.items.GetItemByID(ctx, itemID)
	if err != nil {
		return nil, mapStoreErr(err)
	}

	comments, err := s.comments.GetCommentsByItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	details := &ItemDetails{Item: item, Comments: comments}
	if item.OwnerID == requesterID {
		view, err := s.bookingsView(ctx, itemID)
		if err != nil {
			return nil, err
		}
		details.LastBooking = view.Last
		details.NextBooking = view.Next
	}
	return details, nil
}

// ListByOwner returns the owner's items, each with its nearest bookings.
func (s *ItemService) ListByOwner(ctx context.Context, ownerID int64, offset, size int) ([]*ItemDetails, error) {
	if offset < 0 || size <= 0 {
		return nil, fmt.Errorf("%w: offset=%d size=%d", ErrInvalidPagination, offset, size)
	}
	if _, err := s.users.GetUserByID(ctx, ownerID); err != nil {
		return nil, mapStoreErr(err)
	}

	items, err := s.items.GetItemsByOwner(ctx, ownerID, offset, size)
	if err != nil {
		return nil, err
	}

	details := make([]*ItemDetails, 0, len(items))
	for _, item := range items {
		view, err := s.bookingsView(ctx, item.ID)
		if err != nil {
			return nil, err
		}
		comments, err := s.comments.GetCommentsByItem(ctx, item.ID)
		if err != nil {
			return nil, err
		}
		details = append(details, &ItemDetails{
			Item:        item,
			LastBooking: view.Last,
			NextBooking: view.Next,
			Comments:    comments,
		})
	}
	return details, nil
}

// Search matches available items against a free-text query. A blank query
// returns an empty result without touching storage.
func (s *ItemService) Search(ctx context.Context, text string, offset, size int) ([]*models.Item, error) {
	if offset < 0 || size <= 0 {
		return nil, fmt.Errorf("%w: offset=%d size=%d", ErrInvalidPagination, offset, size)
	}
	if strings.TrimSpace(text) == "" {
		return []*models.Item{}, nil
	}
	return s.items.SearchItems(ctx, text, offset, size)
}

func (s *ItemService) Delete(ctx context.Context, ownerID, itemID int64) error {
	item, err := s.items.GetItemByID(ctx, itemID)
	if err != nil {
		return mapStoreErr(err)
	}
	if item.OwnerID != ownerID {
		return fmt.Errorf("%w: only the owner can delete item %d", ErrForbidden, itemID)
	}
	return mapStoreErr(s.items.DeleteItem(ctx, itemID))
}

// AddComment lets a renter comment on an item, but only after a booking
// of that item has actually completed.
func (s *ItemService) AddComment(ctx context.Context, authorID, itemID int64, text string) (*models.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: comment text is required", ErrValidation)
	}
	author, err := s.users.GetUserByID(ctx, authorID)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	if _, err := s.items.GetItemByID(ctx, itemID); err != nil {
		return nil, mapStoreErr(err)
	}

	ok, err := s.views.HasCompletedBooking(ctx, authorID, itemID, s.clock.Now())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: booking not made", ErrValidation)
	}

	comment := &models.Comment{
		ItemID:     itemID,
		AuthorID:   authorID,
		AuthorName: author.Name,
		Text:       text,
	}
	if err := s.comments.CreateComment(ctx, comment); err != nil {
		return nil, err
	}

	if s.eventBus != nil {
		_ = s.eventBus.PublishJSON(events.EventCommentAdded, comment)
	}
	return comment, nil
}

// bookingsView reads the per-item projection through the cache when one
// is configured, falling back to the store on a miss.
func (s *ItemService) bookingsView(ctx context.Context, itemID int64) (*models.ItemBookingsView, error) {
	now := s.clock.Now()

	if s.cache != nil {
		view, err := s.cache.GetView(ctx, itemID)
		if err != nil {
			s.logger.Warn().Err(err).Int64("item_id", itemID).Msg("bookings view cache read failed")
		} else if view != nil {
			return view, nil
		}
	}

	last, err := s.views.LastCompletedBooking(ctx, itemID, now)
	if err != nil {
		return nil, err
	}
	next, err := s.views.NextUpcomingBooking(ctx, itemID, now)
	if err != nil {
		return nil, err
	}

	view := &models.ItemBookingsView{ItemID: itemID, Last: last, Next: next, CachedAt: now}
	if s.cache != nil {
		if err := s.cache.SetView(ctx, view); err != nil {
			s.logger.Warn().Err(err).Int64("item_id", itemID).Msg("bookings view cache write failed")
		}
	}
	return view, nil
}
