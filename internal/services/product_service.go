package services

import (
	"context"
	"log/slog"
	"time"

	"gadgetstore/internal/apperrors"
	"gadgetstore/internal/models"
	"gadgetstore/internal/repositories"
	"gadgetstore/pkg/cache"
)

// Pagination bounds for product listings.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ProductInput carries the editable fields of a product.
type ProductInput struct {
	Name         string
	Description  string
	ImageURL     string
	Price        float64
	Quantity     int
	CategoryID   string
	BrandID      *string
	AttributeIDs []string
	Active       bool
}

// ProductPage is one page of a product listing.
type ProductPage struct {
	Items []models.Product `json:"items"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}

// ProductService handles business logic related to products.
type ProductService struct {
	store    repositories.Store
	cache    cache.Cache
	cacheTTL time.Duration
	logger   *slog.Logger
}

// NewProductService creates a new ProductService.
func NewProductService(store repositories.Store, c cache.Cache, cacheTTL time.Duration, logger *slog.Logger) *ProductService {
	return &ProductService{
		store:    store,
		cache:    c,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

// List returns a page of products. When userID is set, the Favourite flag of
// each item tells whether that user keeps it in favourites.
func (s *ProductService) List(ctx context.Context, filter repositories.ProductFilter, page, limit int, userID string) (*ProductPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	filter.Limit = limit
	filter.Offset = (page - 1) * limit

	products, total, err := s.store.Products().List(ctx, filter)
	if err != nil {
		return nil, err
	}

	if userID != "" {
		if err := s.markFavourites(ctx, userID, products); err != nil {
			return nil, err
		}
	}

	return &ProductPage{Items: products, Total: total, Page: page, Limit: limit}, nil
}

func (s *ProductService) markFavourites(ctx context.Context, userID string, products []models.Product) error {
	ids, err := s.store.Favourites().ProductIDsByUser(ctx, userID)
	if err != nil {
		return err
	}
	liked := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		liked[id] = struct{}{}
	}
	for i := range products {
		_, products[i].Favourite = liked[products[i].ID]
	}
	return nil
}

// Get returns a product by ID, reading through the cache.
func (s *ProductService) Get(ctx context.Context, id string) (*models.Product, error) {
	var cached models.Product
	hit, err := s.cache.Get(ctx, cache.ProductKey(id), &cached)
	if err != nil {
		s.logger.Warn("product cache read failed", "product_id", id, "error", err)
	}
	if hit {
		return &cached, nil
	}

	product, err := s.store.Products().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, cache.ProductKey(id), product, s.cacheTTL); err != nil {
		s.logger.Warn("product cache write failed", "product_id", id, "error", err)
	}
	return product, nil
}

// GetForCustomer hides inactive products and marks the caller's favourite.
func (s *ProductService) GetForCustomer(ctx context.Context, id, userID string) (*models.Product, error) {
	product, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !product.Active {
		return nil, apperrors.ErrProductNotFound
	}
	if userID != "" {
		fav, err := s.store.Favourites().Find(ctx, userID, id)
		if err != nil {
			return nil, err
		}
		product.Favourite = fav != nil
	}
	return product, nil
}

// Create creates a new product. A product added to a category under an
// active promotion is discounted right away.
func (s *ProductService) Create(ctx context.Context, in ProductInput) (*models.Product, error) {
	product := &models.Product{}
	err := s.store.Execute(ctx, func(repos repositories.Repositories) error {
		if err := s.apply(ctx, repos, product, in); err != nil {
			return err
		}
		if err := repos.Products().Create(ctx, product); err != nil {
			return apperrors.TranslateWrite(err, "product")
		}
		return repriceProduct(ctx, repos, product.ID, product.Price, "")
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, product.ID)
	s.logger.Info("product created", "product_id", product.ID)
	return s.store.Products().GetByID(ctx, product.ID)
}

// Update replaces the editable fields of a product.
func (s *ProductService) Update(ctx context.Context, id string, in ProductInput) (*models.Product, error) {
	err := s.store.Execute(ctx, func(repos repositories.Repositories) error {
		product, err := repos.Products().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := s.apply(ctx, repos, product, in); err != nil {
			return err
		}
		if err := repos.Products().Update(ctx, product); err != nil {
			return apperrors.TranslateWrite(err, "product")
		}
		return repriceProduct(ctx, repos, product.ID, product.Price, "")
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, id)
	return s.store.Products().GetByID(ctx, id)
}

// apply copies in onto product after checking that every referenced row exists.
func (s *ProductService) apply(ctx context.Context, repos repositories.Repositories, product *models.Product, in ProductInput) error {
	if _, err := repos.Categories().GetByID(ctx, in.CategoryID); err != nil {
		return err
	}
	if in.BrandID != nil && *in.BrandID != "" {
		if _, err := repos.Brands().GetByID(ctx, *in.BrandID); err != nil {
			return err
		}
	} else {
		in.BrandID = nil
	}

	attributes := make([]models.Attribute, 0, len(in.AttributeIDs))
	for _, attrID := range in.AttributeIDs {
		attr, err := repos.Attributes().GetByID(ctx, attrID)
		if err != nil {
			return err
		}
		attributes = append(attributes, *attr)
	}

	statusName := models.StatusInactive
	if in.Active {
		statusName = models.StatusActive
	}
	status, err := repos.Statuses().GetByName(ctx, statusName)
	if err != nil {
		return err
	}

	product.Name = in.Name
	product.Description = in.Description
	product.ImageURL = in.ImageURL
	product.Price = in.Price
	product.Quantity = in.Quantity
	product.CategoryID = in.CategoryID
	product.BrandID = in.BrandID
	product.Attributes = attributes
	product.Active = in.Active
	product.StatusID = status.ID
	return nil
}

// Delete deletes a product. Products that appear in orders are kept and
// reported as in use.
func (s *ProductService) Delete(ctx context.Context, id string) error {
	if err := apperrors.TranslateWrite(s.store.Products().Delete(ctx, id), "product"); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	s.logger.Info("product deleted", "product_id", id)
	return nil
}

// SetActive shows or hides a product in the storefront.
func (s *ProductService) SetActive(ctx context.Context, id string, active bool) (*models.Product, error) {
	err := s.store.Execute(ctx, func(repos repositories.Repositories) error {
		statusName := models.StatusInactive
		if active {
			statusName = models.StatusActive
		}
		status, err := repos.Statuses().GetByName(ctx, statusName)
		if err != nil {
			return err
		}
		product, err := repos.Products().GetByID(ctx, id)
		if err != nil {
			return err
		}
		product.Active = active
		product.StatusID = status.ID
		return repos.Products().Update(ctx, product)
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, id)
	return s.store.Products().GetByID(ctx, id)
}

// invalidate drops cached copies of the given products and the dashboard
// counters they feed.
func (s *ProductService) invalidate(ctx context.Context, ids ...string) {
	invalidateProducts(ctx, s.cache, s.logger, ids...)
	if err := s.cache.Delete(ctx, cache.DashboardKey); err != nil {
		s.logger.Warn("dashboard cache invalidation failed", "error", err)
	}
}

func invalidateProducts(ctx context.Context, c cache.Cache, logger *slog.Logger, ids ...string) {
	if len(ids) == 0 {
		return
	}
	if err := c.Delete(ctx, cache.ProductKeys(ids)...); err != nil {
		logger.Warn("product cache invalidation failed", "count", len(ids), "error", err)
	}
}
