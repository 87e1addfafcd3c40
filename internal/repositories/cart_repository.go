package repositories

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"gadgetstore/internal/apperrors"
	"gadgetstore/internal/models"
)

// CartRepository defines the interface for cart data access.
type CartRepository interface {
	ListByUser(ctx context.Context, userID string) ([]models.CartItem, error)
	Get(ctx context.Context, userID, productID string) (*models.CartItem, error)
	Create(ctx context.Context, item *models.CartItem) error
	UpdateQuantity(ctx context.Context, userID, productID string, qty int) error
	Delete(ctx context.Context, userID, productID string) error
	Clear(ctx context.Context, userID string) error
}

// GORMCartRepository is a GORM implementation of CartRepository.
type GORMCartRepository struct {
	db *gorm.DB
}

// NewGORMCartRepository creates a new GORMCartRepository.
func NewGORMCartRepository(db *gorm.DB) *GORMCartRepository {
	return &GORMCartRepository{db: db}
}

// ListByUser returns the user's cart lines with their products.
func (r *GORMCartRepository) ListByUser(ctx context.Context, userID string) ([]models.CartItem, error) {
	var items []models.CartItem
	err := r.db.WithContext(ctx).Preload("Product").Where("user_id = ?", userID).Order("created_at").Find(&items).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list cart")
	}
	return items, nil
}

func (r *GORMCartRepository) Get(ctx context.Context, userID, productID string) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.WithContext(ctx).Where("user_id = ? AND product_id = ?", userID, productID).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCartItemNotFound
		}
		return nil, errors.Wrap(err, "failed to get cart item")
	}
	return &item, nil
}

func (r *GORMCartRepository) Create(ctx context.Context, item *models.CartItem) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(item).Error; err != nil {
		return errors.Wrap(err, "failed to add cart item")
	}
	return nil
}

func (r *GORMCartRepository) UpdateQuantity(ctx context.Context, userID, productID string, qty int) error {
	res := r.db.WithContext(ctx).Model(&models.CartItem{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Update("quantity", qty)
	return rowsOrNotFound(res, apperrors.ErrCartItemNotFound, "failed to update cart item")
}

func (r *GORMCartRepository) Delete(ctx context.Context, userID, productID string) error {
	res := r.db.WithContext(ctx).Where("user_id = ? AND product_id = ?", userID, productID).Delete(&models.CartItem{})
	return rowsOrNotFound(res, apperrors.ErrCartItemNotFound, "failed to remove cart item")
}

// Clear removes every line of the user's cart.
func (r *GORMCartRepository) Clear(ctx context.Context, userID string) error {
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.CartItem{}).Error; err != nil {
		return errors.Wrap(err, "failed to clear cart")
	}
	return nil
}
