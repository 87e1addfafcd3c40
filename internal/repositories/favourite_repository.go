package repositories

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"gadgetstore/internal/models"
)

// FavouriteRepository defines the interface for favourites data access.
type FavouriteRepository interface {
	// Find returns nil without error when the pair is not stored.
	Find(ctx context.Context, userID, productID string) (*models.Favourite, error)
	Create(ctx context.Context, favourite *models.Favourite) error
	Delete(ctx context.Context, id string) error
	ListByUser(ctx context.Context, userID string) ([]models.Favourite, error)
	ProductIDsByUser(ctx context.Context, userID string) ([]string, error)
	ExistsForProduct(ctx context.Context, productID string) (bool, error)
}

// GORMFavouriteRepository is a GORM implementation of FavouriteRepository.
type GORMFavouriteRepository struct {
	db *gorm.DB
}

// NewGORMFavouriteRepository creates a new GORMFavouriteRepository.
func NewGORMFavouriteRepository(db *gorm.DB) *GORMFavouriteRepository {
	return &GORMFavouriteRepository{db: db}
}

func (r *GORMFavouriteRepository) Find(ctx context.Context, userID, productID string) (*models.Favourite, error) {
	var favourites []models.Favourite
	err := r.db.WithContext(ctx).Where("user_id = ? AND product_id = ?", userID, productID).Limit(1).Find(&favourites).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to find favourite")
	}
	if len(favourites) == 0 {
		return nil, nil
	}
	return &favourites[0], nil
}

func (r *GORMFavouriteRepository) Create(ctx context.Context, favourite *models.Favourite) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(favourite).Error; err != nil {
		return errors.Wrap(err, "failed to add favourite")
	}
	return nil
}

func (r *GORMFavouriteRepository) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Delete(&models.Favourite{}, "id = ?", id).Error; err != nil {
		return errors.Wrap(err, "failed to remove favourite")
	}
	return nil
}

func (r *GORMFavouriteRepository) ListByUser(ctx context.Context, userID string) ([]models.Favourite, error) {
	var favourites []models.Favourite
	err := r.db.WithContext(ctx).Preload("Product").Where("user_id = ?", userID).Order("created_at DESC").Find(&favourites).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list favourites")
	}
	return favourites, nil
}

func (r *GORMFavouriteRepository) ProductIDsByUser(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&models.Favourite{}).Where("user_id = ?", userID).Pluck("product_id", &ids).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list favourite products")
	}
	return ids, nil
}

func (r *GORMFavouriteRepository) ExistsForProduct(ctx context.Context, productID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Favourite{}).Where("product_id = ?", productID).Count(&count).Error
	if err != nil {
		return false, errors.Wrap(err, "failed to count favourites")
	}
	return count > 0, nil
}
