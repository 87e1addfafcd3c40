package repositories

import (
	"context"

	"gadgetstore/internal/models"
)

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, user *models.User) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	SetRole(ctx context.Context, id, roleID string) error
}

// VerificationCodeRepository stores password recovery codes.
type VerificationCodeRepository interface {
	Create(ctx context.Context, code *models.VerificationCode) error
	GetLatest(ctx context.Context, email string) (*models.VerificationCode, error)
	DeleteByEmail(ctx context.Context, email string) error
}
