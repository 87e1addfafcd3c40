package repositories

import (
	"context"

	"gadgetstore/internal/models"
)

// Product sort orders.
const (
	SortNewest    = "newest"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortName      = "name"
)

// ProductFilter narrows a product listing.
type ProductFilter struct {
	Search         string
	CategoryID     string
	BrandID        string
	AttributeIDs   []string
	MinPrice       *float64
	MaxPrice       *float64
	DiscountedOnly bool
	ActiveOnly     bool
	Sort           string
	Offset         int
	Limit          int
}

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	List(ctx context.Context, filter ProductFilter) ([]models.Product, int64, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	GetByIDs(ctx context.Context, ids []string) ([]models.Product, error)
	IDsByCategories(ctx context.Context, categoryIDs []string) ([]string, error)
	CountByCategory(ctx context.Context, categoryID string) (int64, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id string) error
	SetActive(ctx context.Context, id string, active bool) error
	SetFavourite(ctx context.Context, id string, favourite bool) error
	SetPriceWithDiscount(ctx context.Context, id string, price *float64) error
	// DecrementStock fails with ErrInsufficientStock when fewer than qty units remain.
	DecrementStock(ctx context.Context, id string, qty int) error
	IncrementStock(ctx context.Context, id string, qty int) error
}
