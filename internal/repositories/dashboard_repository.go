package repositories

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"gadgetstore/internal/models"
)

// StatusCount is the number of orders in one status.
type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// ProductSales is the number of units sold of one product.
type ProductSales struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Sold      int64   `json:"sold"`
	Revenue   float64 `json:"revenue"`
}

// DashboardRepository runs the aggregate queries behind the admin dashboard.
type DashboardRepository interface {
	Count(ctx context.Context, model any) (int64, error)
	CountActivePromotions(ctx context.Context) (int64, error)
	Revenue(ctx context.Context, excludeStatusID string) (float64, error)
	OrdersByStatus(ctx context.Context) ([]StatusCount, error)
	TopProducts(ctx context.Context, excludeStatusID string, limit int) ([]ProductSales, error)
	LowStock(ctx context.Context, threshold int) ([]models.Product, error)
}

// GORMDashboardRepository is a GORM implementation of DashboardRepository.
type GORMDashboardRepository struct {
	db *gorm.DB
}

// NewGORMDashboardRepository creates a new GORMDashboardRepository.
func NewGORMDashboardRepository(db *gorm.DB) *GORMDashboardRepository {
	return &GORMDashboardRepository{db: db}
}

func (r *GORMDashboardRepository) Count(ctx context.Context, model any) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(model).Count(&count).Error; err != nil {
		return 0, errors.Wrap(err, "failed to count")
	}
	return count, nil
}

func (r *GORMDashboardRepository) CountActivePromotions(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Promotion{}).Where("active = ?", true).Count(&count).Error; err != nil {
		return 0, errors.Wrap(err, "failed to count active promotions")
	}
	return count, nil
}

// Revenue sums the paid amount of every order not in excludeStatusID.
func (r *GORMDashboardRepository) Revenue(ctx context.Context, excludeStatusID string) (float64, error) {
	var revenue float64
	err := r.db.WithContext(ctx).Model(&models.Order{}).
		Select("COALESCE(SUM(unit_price * quantity), 0)").
		Where("status_id <> ?", excludeStatusID).
		Scan(&revenue).Error
	if err != nil {
		return 0, errors.Wrap(err, "failed to sum revenue")
	}
	return revenue, nil
}

func (r *GORMDashboardRepository) OrdersByStatus(ctx context.Context) ([]StatusCount, error) {
	var rows []StatusCount
	err := r.db.WithContext(ctx).Table("orders").
		Select("statuses.name AS status, COUNT(orders.id) AS count").
		Joins("JOIN statuses ON statuses.id = orders.status_id").
		Group("statuses.name").
		Order("statuses.name").
		Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to count orders by status")
	}
	return rows, nil
}

func (r *GORMDashboardRepository) TopProducts(ctx context.Context, excludeStatusID string, limit int) ([]ProductSales, error) {
	var rows []ProductSales
	err := r.db.WithContext(ctx).Table("orders").
		Select("orders.product_id AS product_id, products.name AS name, " +
			"SUM(orders.quantity) AS sold, SUM(orders.quantity * orders.unit_price) AS revenue").
		Joins("JOIN products ON products.id = orders.product_id").
		Where("orders.status_id <> ?", excludeStatusID).
		Group("orders.product_id, products.name").
		Order("sold DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to rank products")
	}
	return rows, nil
}

func (r *GORMDashboardRepository) LowStock(ctx context.Context, threshold int) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).Where("quantity < ?", threshold).Order("quantity ASC").Find(&products).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list low stock products")
	}
	return products, nil
}
