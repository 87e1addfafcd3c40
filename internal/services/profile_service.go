package services

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"gadgetstore/internal/apperrors"
	"gadgetstore/internal/models"
	"gadgetstore/internal/repositories"
)

// ProfileUpdate holds the profile fields a user may change. Nil fields keep
// their current value.
type ProfileUpdate struct {
	Username  *string
	Email     *string
	FirstName *string
	LastName  *string
	Phone     *string
}

// ProfileService lets users read and edit their own account.
type ProfileService struct {
	users repositories.UserRepository
	auth  *AuthService
}

// NewProfileService creates a new ProfileService.
func NewProfileService(users repositories.UserRepository, auth *AuthService) *ProfileService {
	return &ProfileService{users: users, auth: auth}
}

// Get returns the account of userID.
func (s *ProfileService) Get(ctx context.Context, userID string) (*models.User, error) {
	return s.users.GetByID(ctx, userID)
}

// Update applies the non-nil fields of in to the account.
func (s *ProfileService) Update(ctx context.Context, userID string, in ProfileUpdate) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if in.Username != nil {
		user.Username = *in.Username
	}
	if in.Email != nil {
		user.Email = normalizeEmail(*in.Email)
	}
	if in.FirstName != nil {
		user.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		user.LastName = *in.LastName
	}
	if in.Phone != nil {
		user.Phone = *in.Phone
	}

	if err := s.auth.ensureFree(ctx, user.Username, user.Email, user.ID); err != nil {
		return nil, err
	}
	if err := s.users.Update(ctx, user); err != nil {
		if apperrors.IsUniqueViolation(err) {
			return nil, apperrors.ErrConflict.WithDetails("username or email already registered")
		}
		return nil, err
	}
	return user, nil
}

// ChangePassword replaces the password after checking the current one.
func (s *ProfileService) ChangePassword(ctx context.Context, userID, current, next string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(current)); err != nil {
		return apperrors.ErrWrongPassword
	}

	hashed, err := hashPassword(next)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, user.ID, hashed)
}
