package service

import (
	"context"
	"fmt"
	"strings"

	"shareit/internal/domain"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

type RequestService struct {
	requests domain.RequestStore
	users    domain.UserStore
	items    domain.ItemStore
	logger   *zerolog.Logger
}

func NewRequestService(requests domain.RequestStore, users domain.UserStore, items domain.ItemStore, logger *zerolog.Logger) *RequestService {
	return &RequestService{requests: requests, users: users, items: items, logger: logger}
}

func (s *RequestService) Create(ctx context.Context, requesterID int64, description string) (*models.Request, error) {
	if strings.TrimSpace(description) == "" {
		return nil, fmt.Errorf("%w: request description is required", ErrValidation)
	}
	if _, err := s.users.GetUserByID(ctx, requesterID); err != nil {
		return nil, mapStoreErr(err)
	}

	request := &models.Request{Description: description, RequesterID: requesterID}
	if err := s.requests.CreateRequest(ctx, request); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("request_id", request.ID).Int64("requester_id", requesterID).Msg("request created")
	return request, nil
}

// ListOwn returns the user's requests, newest first, each with the items
// created in answer to it.
func (s *RequestService) ListOwn(ctx context.Context, requesterID int64) ([]*models.Request, error) {
	if _, err := s.users.GetUserByID(ctx, requesterID); err != nil {
		return nil, mapStoreErr(err)
	}

	requests, err := s.requests.GetRequestsByRequester(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	return s.attachItems(ctx, requests)
}

// ListOthers returns requests made by other users, paginated.
func (s *RequestService) ListOthers(ctx context.Context, userID int64, offset, size int) ([]*models.Request, error) {
	if offset < 0 || size <= 0 {
		return nil, fmt.Errorf("%w: offset=%d size=%d", ErrInvalidPagination, offset, size)
	}
	if _, err := s.users.GetUserByID(ctx, userID); err != nil {
		return nil, mapStoreErr(err)
	}

	requests, err := s.requests.GetRequestsFromOthers(ctx, userID, offset, size)
	if err != nil {
		return nil, err
	}
	return s.attachItems(ctx, requests)
}

func (s *RequestService) Get(ctx context.Context, userID, requestID int64) (*models.Request, error) {
	if _, err := s.users.GetUserByID(ctx, userID); err != nil {
		return nil, mapStoreErr(err)
	}
	request, err := s.requests.GetRequestByID(ctx, requestID)
	if err != nil {
		return nil, mapStoreErr(err)
	}

	attached, err := s.attachItems(ctx, []*models.Request{request})
	if err != nil {
		return nil, err
	}
	return attached[0], nil
}

func (s *RequestService) attachItems(ctx context.Context, requests []*models.Request) ([]*models.Request, error) {
	for _, request := range requests {
		items, err := s.items.GetItemsByRequestID(ctx, request.ID)
		if err != nil {
			return nil, err
		}
		request.Items = items
	}
	return requests, nil
}
