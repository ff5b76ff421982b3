package service

import (
	"context"
	"strings"

	"github.com/plantlife/plantlife-backend/internal/apperrors"
	"github.com/plantlife/plantlife-backend/internal/models"
)

// RegisterUser creates a new account. Phone and username conflicts surface
// as apperrors.Conflict from the store.
func (s *Service) RegisterUser(ctx context.Context, user *models.User) (*models.User, error) {
	if !user.AccountType.Valid() {
		return nil, apperrors.Validation("invalid account type %q", user.AccountType)
	}
	user.Username = strings.ToLower(strings.TrimSpace(user.Username))
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetUserByID returns a user profile by id.
func (s *Service) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.store.GetUser(ctx, id)
}

// GetUserByUsername returns a user profile by username.
func (s *Service) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.store.GetUserByUsername(ctx, strings.ToLower(strings.TrimSpace(username)))
}

// UpdateProfile applies the non-empty fields of req to the user's own profile.
func (s *Service) UpdateProfile(ctx context.Context, userID string, req models.UpdateProfileRequest) (*models.User, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.FirstName != "" {
		user.FirstName = req.FirstName
	}
	if req.LastName != "" {
		user.LastName = req.LastName
	}
	if req.Bio != "" {
		user.Bio = req.Bio
	}
	if req.Location != "" {
		user.Location = req.Location
	}
	if req.Website != "" {
		user.Website = req.Website
	}

	if err := s.store.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// SearchUsers finds users whose username or name matches the query.
func (s *Service) SearchUsers(ctx context.Context, query string) ([]models.User, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.User{}, nil
	}
	return s.store.SearchUsers(ctx, query, s.opts.SearchPageSize)
}
