package repositories

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"gadgetstore/internal/apperrors"
	"gadgetstore/internal/models"
)

// PromotionRepository defines the interface for promotion data access.
type PromotionRepository interface {
	List(ctx context.Context, activeOnly bool) ([]models.Promotion, error)
	GetByID(ctx context.Context, id string) (*models.Promotion, error)
	Create(ctx context.Context, promotion *models.Promotion) error
	Update(ctx context.Context, promotion *models.Promotion) error
	Delete(ctx context.Context, id string) error
	// ProductIDs returns every product the promotion covers, directly or
	// through one of its categories.
	ProductIDs(ctx context.Context, promotionID string) ([]string, error)
	// BestActivePercentage returns the highest percentage among active
	// promotions other than excludeID that cover the product.
	BestActivePercentage(ctx context.Context, productID, excludeID string) (float64, bool, error)
	SetRemainingTime(ctx context.Context, id string, remaining int64) error
	Expire(ctx context.Context, id, expiredStatusID string) error
	// ListDue returns the scheduled days promotions whose start date has
	// passed.
	ListDue(ctx context.Context, inactiveStatusID string, now time.Time) ([]models.Promotion, error)
	Activate(ctx context.Context, id, activeStatusID string, remaining int64) error
}

// GORMPromotionRepository is a GORM implementation of PromotionRepository.
type GORMPromotionRepository struct {
	db *gorm.DB
}

// NewGORMPromotionRepository creates a new GORMPromotionRepository.
func NewGORMPromotionRepository(db *gorm.DB) *GORMPromotionRepository {
	return &GORMPromotionRepository{db: db}
}

func (r *GORMPromotionRepository) List(ctx context.Context, activeOnly bool) ([]models.Promotion, error) {
	query := r.db.WithContext(ctx).Preload("Status").Preload("Products").Preload("Categories").Order("created_at DESC")
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	var promotions []models.Promotion
	if err := query.Find(&promotions).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list promotions")
	}
	return promotions, nil
}

func (r *GORMPromotionRepository) GetByID(ctx context.Context, id string) (*models.Promotion, error) {
	var promotion models.Promotion
	err := r.db.WithContext(ctx).
		Preload("Status").Preload("Products").Preload("Categories").
		First(&promotion, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPromotionNotFound
		}
		return nil, errors.Wrapf(err, "failed to get promotion %s", id)
	}
	return &promotion, nil
}

// Create inserts the promotion and links its products and categories.
func (r *GORMPromotionRepository) Create(ctx context.Context, promotion *models.Promotion) error {
	products, categories := promotion.Products, promotion.Categories
	db := r.db.WithContext(ctx)
	if err := db.Omit(clause.Associations).Create(promotion).Error; err != nil {
		return errors.Wrap(err, "failed to create promotion")
	}
	return r.replaceLinks(db, promotion, products, categories)
}

// Update saves the promotion columns and replaces its links.
func (r *GORMPromotionRepository) Update(ctx context.Context, promotion *models.Promotion) error {
	db := r.db.WithContext(ctx)
	res := db.Model(&models.Promotion{}).Where("id = ?", promotion.ID).Updates(map[string]any{
		"name":           promotion.Name,
		"description":    promotion.Description,
		"percentage":     promotion.Percentage,
		"duration_type":  promotion.DurationType,
		"start_date":     promotion.StartDate,
		"end_date":       promotion.EndDate,
		"start_hour":     promotion.StartHour,
		"end_hour":       promotion.EndHour,
		"start_minute":   promotion.StartMinute,
		"end_minute":     promotion.EndMinute,
		"start_second":   promotion.StartSecond,
		"end_second":     promotion.EndSecond,
		"remaining_time": promotion.RemainingTime,
		"status_id":      promotion.StatusID,
		"active":         promotion.Active,
	})
	if err := rowsOrNotFound(res, apperrors.ErrPromotionNotFound, "failed to update promotion"); err != nil {
		return err
	}
	return r.replaceLinks(db, promotion, promotion.Products, promotion.Categories)
}

func (r *GORMPromotionRepository) replaceLinks(db *gorm.DB, promotion *models.Promotion, products []models.Product, categories []models.Category) error {
	if err := replaceAssociation(db, promotion, "Products", products); err != nil {
		return errors.Wrap(err, "failed to link promotion products")
	}
	if err := replaceAssociation(db, promotion, "Categories", categories); err != nil {
		return errors.Wrap(err, "failed to link promotion categories")
	}
	return nil
}

// Delete removes the promotion and its links.
func (r *GORMPromotionRepository) Delete(ctx context.Context, id string) error {
	db := r.db.WithContext(ctx)
	promotion := &models.Promotion{Base: models.Base{ID: id}}
	if err := db.Model(promotion).Association("Products").Clear(); err != nil {
		return errors.Wrap(err, "failed to unlink promotion products")
	}
	if err := db.Model(promotion).Association("Categories").Clear(); err != nil {
		return errors.Wrap(err, "failed to unlink promotion categories")
	}
	res := db.Delete(&models.Promotion{}, "id = ?", id)
	return rowsOrNotFound(res, apperrors.ErrPromotionNotFound, "failed to delete promotion")
}

func (r *GORMPromotionRepository) ProductIDs(ctx context.Context, promotionID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Raw(`
		SELECT product_id FROM promotion_products WHERE promotion_id = ?
		UNION
		SELECT p.id FROM products p
		JOIN promotion_categories pc ON pc.category_id = p.category_id
		WHERE pc.promotion_id = ?`, promotionID, promotionID).
		Scan(&ids).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to get promotion products")
	}
	return ids, nil
}

func (r *GORMPromotionRepository) BestActivePercentage(ctx context.Context, productID, excludeID string) (float64, bool, error) {
	var row struct {
		Best  *float64
		Count int64
	}
	err := r.db.WithContext(ctx).Raw(`
		SELECT MAX(pr.percentage) AS best, COUNT(pr.id) AS count FROM promotions pr
		WHERE pr.active = ? AND pr.id <> ? AND (
			pr.id IN (SELECT promotion_id FROM promotion_products WHERE product_id = ?)
			OR pr.id IN (
				SELECT pc.promotion_id FROM promotion_categories pc
				JOIN products p ON p.category_id = pc.category_id
				WHERE p.id = ?))`,
		true, excludeID, productID, productID).
		Scan(&row).Error
	if err != nil {
		return 0, false, errors.Wrap(err, "failed to look up covering promotions")
	}
	if row.Count == 0 || row.Best == nil {
		return 0, false, nil
	}
	return *row.Best, true, nil
}

func (r *GORMPromotionRepository) SetRemainingTime(ctx context.Context, id string, remaining int64) error {
	res := r.db.WithContext(ctx).Model(&models.Promotion{}).Where("id = ?", id).Update("remaining_time", remaining)
	return rowsOrNotFound(res, apperrors.ErrPromotionNotFound, "failed to update remaining time")
}

// Expire marks the promotion as finished.
func (r *GORMPromotionRepository) Expire(ctx context.Context, id, expiredStatusID string) error {
	res := r.db.WithContext(ctx).Model(&models.Promotion{}).Where("id = ?", id).Updates(map[string]any{
		"remaining_time": 0,
		"status_id":      expiredStatusID,
		"active":         false,
	})
	return rowsOrNotFound(res, apperrors.ErrPromotionNotFound, "failed to expire promotion")
}

func (r *GORMPromotionRepository) ListDue(ctx context.Context, inactiveStatusID string, now time.Time) ([]models.Promotion, error) {
	var scheduled []models.Promotion
	err := r.db.WithContext(ctx).
		Where("active = ? AND status_id = ? AND duration_type = ?", false, inactiveStatusID, models.DurationDays).
		Order("start_date").
		Find(&scheduled).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list scheduled promotions")
	}
	// Compared here since SQLite keeps timestamps as text.
	due := scheduled[:0]
	for _, promotion := range scheduled {
		if promotion.StartDate != nil && !promotion.StartDate.After(now) {
			due = append(due, promotion)
		}
	}
	return due, nil
}

// Activate starts a scheduled promotion's countdown.
func (r *GORMPromotionRepository) Activate(ctx context.Context, id, activeStatusID string, remaining int64) error {
	res := r.db.WithContext(ctx).Model(&models.Promotion{}).Where("id = ?", id).Updates(map[string]any{
		"remaining_time": remaining,
		"status_id":      activeStatusID,
		"active":         true,
	})
	return rowsOrNotFound(res, apperrors.ErrPromotionNotFound, "failed to activate promotion")
}
