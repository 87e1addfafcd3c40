package repositories

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"gadgetstore/internal/apperrors"
	"gadgetstore/internal/models"
)

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	CreateDeliveryInfo(ctx context.Context, info *models.DeliveryInfo) error
	GetByID(ctx context.Context, id string) (*models.Order, error)
	ListByUser(ctx context.Context, userID string) ([]models.Order, error)
	List(ctx context.Context, statusID string) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id, statusID string) error
}

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{db: db}
}

func (r *GORMOrderRepository) withRelations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Product").Preload("Status").Preload("DeliveryInfo")
}

func (r *GORMOrderRepository) Create(ctx context.Context, order *models.Order) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(order).Error; err != nil {
		return errors.Wrap(err, "failed to create order")
	}
	return nil
}

func (r *GORMOrderRepository) CreateDeliveryInfo(ctx context.Context, info *models.DeliveryInfo) error {
	if err := r.db.WithContext(ctx).Create(info).Error; err != nil {
		return errors.Wrap(err, "failed to create delivery info")
	}
	return nil
}

func (r *GORMOrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	if err := r.withRelations(ctx).First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrOrderNotFound
		}
		return nil, errors.Wrapf(err, "failed to get order %s", id)
	}
	return &order, nil
}

func (r *GORMOrderRepository) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	var orders []models.Order
	err := r.withRelations(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&orders).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list user orders")
	}
	return orders, nil
}

// List returns all orders, optionally restricted to one status.
func (r *GORMOrderRepository) List(ctx context.Context, statusID string) ([]models.Order, error) {
	query := r.withRelations(ctx).Preload("User").Order("created_at DESC")
	if statusID != "" {
		query = query.Where("status_id = ?", statusID)
	}
	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list orders")
	}
	return orders, nil
}

func (r *GORMOrderRepository) UpdateStatus(ctx context.Context, id, statusID string) error {
	res := r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Update("status_id", statusID)
	return rowsOrNotFound(res, apperrors.ErrOrderNotFound, "failed to update order status")
}
