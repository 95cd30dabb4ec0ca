package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"shareit/internal/database"
	"shareit/internal/domain"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

type UserService struct {
	users  domain.UserStore
	logger *zerolog.Logger
}

func NewUserService(users domain.UserStore, logger *zerolog.Logger) *UserService {
	return &UserService{users: users, logger: logger}
}

func (s *UserService) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if strings.TrimSpace(user.Name) == "" {
		return nil, fmt.Errorf("%w: user name is required", ErrValidation)
	}
	if !strings.Contains(user.Email, "@") {
		return nil, fmt.Errorf("%w: invalid email %q", ErrValidation, user.Email)
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, database.ErrDuplicateEmail) {
			return nil, fmt.Errorf("%w: %v", ErrConflict, err)
		}
		return nil, err
	}

	s.logger.Info().Int64("user_id", user.ID).Msg("user created")
	return user, nil
}

// Update applies a partial update: blank fields keep their current value.
func (s *UserService) Update(ctx context.Context, id int64, name, email string) (*models.User, error) {
	if email != "" && !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: invalid email %q", ErrValidation, email)
	}

	patch := &models.User{ID: id, Name: name, Email: email}
	if err := s.users.UpdateUser(ctx, patch); err != nil {
		if errors.Is(err, database.ErrDuplicateEmail) {
			return nil, fmt.Errorf("%w: %v", ErrConflict, err)
		}
		return nil, mapStoreErr(err)
	}
	return s.Get(ctx, id)
}

func (s *UserService) Get(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return user, nil
}

func (s *UserService) List(ctx context.Context) ([]*models.User, error) {
	return s.users.GetAllUsers(ctx)
}

func (s *UserService) Delete(ctx context.Context, id int64) error {
	return mapStoreErr(s.users.DeleteUser(ctx, id))
}
