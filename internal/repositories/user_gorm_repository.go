package repositories

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"gadgetstore/internal/apperrors"
	"gadgetstore/internal/models"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{db: db}
}

// Create creates a new user in the database.
func (r *GORMUserRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(user).Error; err != nil {
		return errors.Wrap(err, "failed to create user")
	}
	return nil
}

// GetByUsername retrieves a user by their username.
func (r *GORMUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.first(ctx, "username = ?", username)
}

// GetByEmail retrieves a user by their email.
func (r *GORMUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.first(ctx, "email = ?", email)
}

// GetByID retrieves a user by their ID.
func (r *GORMUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *GORMUserRepository) first(ctx context.Context, query string, arg any) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Preload("Role").First(&user, query, arg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, errors.Wrap(err, "failed to get user")
	}
	return &user, nil
}

// List returns every user ordered by registration date.
func (r *GORMUserRepository) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).Preload("Role").Order("created_at").Find(&users).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list users")
	}
	return users, nil
}

// Update saves the profile fields of a user.
func (r *GORMUserRepository) Update(ctx context.Context, user *models.User) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", user.ID).Updates(map[string]any{
		"username":   user.Username,
		"email":      user.Email,
		"first_name": user.FirstName,
		"last_name":  user.LastName,
		"phone":      user.Phone,
	})
	return rowsOrNotFound(res, apperrors.ErrUserNotFound, "failed to update user")
}

// UpdatePassword replaces the stored password hash.
func (r *GORMUserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("password", passwordHash)
	return rowsOrNotFound(res, apperrors.ErrUserNotFound, "failed to update password")
}

// SetRole assigns a role to a user.
func (r *GORMUserRepository) SetRole(ctx context.Context, id, roleID string) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("role_id", roleID)
	return rowsOrNotFound(res, apperrors.ErrUserNotFound, "failed to set user role")
}

// GORMVerificationCodeRepository is a GORM implementation of VerificationCodeRepository.
type GORMVerificationCodeRepository struct {
	db *gorm.DB
}

// NewGORMVerificationCodeRepository creates a new GORMVerificationCodeRepository.
func NewGORMVerificationCodeRepository(db *gorm.DB) *GORMVerificationCodeRepository {
	return &GORMVerificationCodeRepository{db: db}
}

func (r *GORMVerificationCodeRepository) Create(ctx context.Context, code *models.VerificationCode) error {
	if err := r.db.WithContext(ctx).Create(code).Error; err != nil {
		return errors.Wrap(err, "failed to store verification code")
	}
	return nil
}

// GetLatest returns the most recent code issued for email.
func (r *GORMVerificationCodeRepository) GetLatest(ctx context.Context, email string) (*models.VerificationCode, error) {
	var code models.VerificationCode
	err := r.db.WithContext(ctx).Where("email = ?", email).Order("created_at DESC").First(&code).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidCode
		}
		return nil, errors.Wrap(err, "failed to get verification code")
	}
	return &code, nil
}

func (r *GORMVerificationCodeRepository) DeleteByEmail(ctx context.Context, email string) error {
	if err := r.db.WithContext(ctx).Where("email = ?", email).Delete(&models.VerificationCode{}).Error; err != nil {
		return errors.Wrap(err, "failed to delete verification codes")
	}
	return nil
}

// rowsOrNotFound turns a write result into notFound when nothing matched.
func rowsOrNotFound(res *gorm.DB, notFound error, msg string) error {
	if res.Error != nil {
		return errors.Wrap(res.Error, msg)
	}
	if res.RowsAffected == 0 {
		return notFound
	}
	return nil
}
