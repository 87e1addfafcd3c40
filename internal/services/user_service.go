package services

import (
	"context"
	"log/slog"

	"gadgetstore/internal/models"
	"gadgetstore/internal/repositories"
)

// UserService lets administrators browse accounts and assign roles.
type UserService struct {
	store  repositories.Store
	logger *slog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(store repositories.Store, logger *slog.Logger) *UserService {
	return &UserService{store: store, logger: logger}
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.store.Users().List(ctx)
}

// SetRole assigns the role named roleName to a user.
func (s *UserService) SetRole(ctx context.Context, userID, roleName string) (*models.User, error) {
	role, err := s.store.Roles().GetByName(ctx, roleName)
	if err != nil {
		return nil, err
	}
	if err := s.store.Users().SetRole(ctx, userID, role.ID); err != nil {
		return nil, err
	}
	s.logger.Info("user role changed", "user_id", userID, "role", role.Name)
	return s.store.Users().GetByID(ctx, userID)
}
