package repositories

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"gadgetstore/internal/apperrors"
	"gadgetstore/internal/models"
)

// effectivePriceExpr is the price a customer pays, used for filters and sorting.
const effectivePriceExpr = "COALESCE(products.price_with_discount, products.price)"

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{db: db}
}

func (r *GORMProductRepository) withRelations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Category").
		Preload("Brand").
		Preload("Attributes").
		Preload("Status")
}

// List retrieves a filtered page of products and the total number of matches.
func (r *GORMProductRepository) List(ctx context.Context, filter ProductFilter) ([]models.Product, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Product{})

	if s := strings.TrimSpace(filter.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		query = query.Where("(LOWER(products.name) LIKE ? OR LOWER(products.description) LIKE ?)", like, like)
	}
	if filter.CategoryID != "" {
		query = query.Where("products.category_id = ?", filter.CategoryID)
	}
	if filter.BrandID != "" {
		query = query.Where("products.brand_id = ?", filter.BrandID)
	}
	if len(filter.AttributeIDs) > 0 {
		sub := r.db.Table("product_attributes").
			Select("product_id").
			Where("attribute_id IN ?", filter.AttributeIDs).
			Group("product_id").
			Having("COUNT(DISTINCT attribute_id) = ?", len(filter.AttributeIDs))
		query = query.Where("products.id IN (?)", sub)
	}
	if filter.MinPrice != nil {
		query = query.Where(effectivePriceExpr+" >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where(effectivePriceExpr+" <= ?", *filter.MaxPrice)
	}
	if filter.DiscountedOnly {
		query = query.Where("products.price_with_discount IS NOT NULL")
	}
	if filter.ActiveOnly {
		query = query.Where("products.active = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to count products")
	}

	switch filter.Sort {
	case SortPriceAsc:
		query = query.Order(effectivePriceExpr + " ASC")
	case SortPriceDesc:
		query = query.Order(effectivePriceExpr + " DESC")
	case SortName:
		query = query.Order("products.name ASC")
	default:
		query = query.Order("products.created_at DESC")
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit).Offset(filter.Offset)
	}

	var products []models.Product
	err := query.Preload("Category").Preload("Brand").Preload("Attributes").Preload("Status").
		Find(&products).Error
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to list products")
	}
	return products, total, nil
}

// GetByID retrieves a single product with its relations.
func (r *GORMProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := r.withRelations(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProductNotFound
		}
		return nil, errors.Wrapf(err, "failed to get product by ID %s", id)
	}
	return &product, nil
}

// GetByIDs retrieves the products with the given IDs; missing IDs are skipped.
func (r *GORMProductRepository) GetByIDs(ctx context.Context, ids []string) ([]models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var products []models.Product
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, errors.Wrap(err, "failed to get products")
	}
	return products, nil
}

// IDsByCategories returns the IDs of all products in the given categories.
func (r *GORMProductRepository) IDsByCategories(ctx context.Context, categoryIDs []string) ([]string, error) {
	if len(categoryIDs) == 0 {
		return nil, nil
	}
	var ids []string
	err := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("category_id IN ?", categoryIDs).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to get products by category")
	}
	return ids, nil
}

// CountByCategory counts the products of a category.
func (r *GORMProductRepository) CountByCategory(ctx context.Context, categoryID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Product{}).Where("category_id = ?", categoryID).Count(&count).Error
	if err != nil {
		return 0, errors.Wrap(err, "failed to count products")
	}
	return count, nil
}

// Create creates a new product together with its attribute links.
func (r *GORMProductRepository) Create(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		attrs := product.Attributes
		if err := tx.Omit(clause.Associations).Create(product).Error; err != nil {
			return errors.Wrap(err, "failed to create product")
		}
		if len(attrs) > 0 {
			if err := tx.Model(product).Association("Attributes").Replace(attrs); err != nil {
				return errors.Wrap(err, "failed to link product attributes")
			}
		}
		return nil
	})
}

// Update saves the product columns and replaces its attribute links.
func (r *GORMProductRepository) Update(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Product{}).Where("id = ?", product.ID).Updates(map[string]any{
			"name":        product.Name,
			"description": product.Description,
			"image_url":   product.ImageURL,
			"price":       product.Price,
			"quantity":    product.Quantity,
			"category_id": product.CategoryID,
			"brand_id":    product.BrandID,
			"status_id":   product.StatusID,
			"active":      product.Active,
		})
		if err := rowsOrNotFound(res, apperrors.ErrProductNotFound, "failed to update product"); err != nil {
			return err
		}
		if err := replaceAssociation(tx, product, "Attributes", product.Attributes); err != nil {
			return errors.Wrap(err, "failed to link product attributes")
		}
		return nil
	})
}

// Delete deletes a product together with its links, cart lines and
// favourites. Products referenced by orders cannot be deleted.
func (r *GORMProductRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		product := &models.Product{Base: models.Base{ID: id}}
		if err := tx.Model(product).Association("Attributes").Clear(); err != nil {
			return errors.Wrap(err, "failed to unlink product attributes")
		}
		if err := tx.Exec("DELETE FROM promotion_products WHERE product_id = ?", id).Error; err != nil {
			return errors.Wrap(err, "failed to unlink product promotions")
		}
		if err := tx.Where("product_id = ?", id).Delete(&models.CartItem{}).Error; err != nil {
			return errors.Wrap(err, "failed to delete cart lines")
		}
		if err := tx.Where("product_id = ?", id).Delete(&models.Favourite{}).Error; err != nil {
			return errors.Wrap(err, "failed to delete favourites")
		}
		res := tx.Delete(&models.Product{}, "id = ?", id)
		return rowsOrNotFound(res, apperrors.ErrProductNotFound, "failed to delete product")
	})
}

func (r *GORMProductRepository) SetActive(ctx context.Context, id string, active bool) error {
	return r.updateColumn(ctx, id, "active", active)
}

func (r *GORMProductRepository) SetFavourite(ctx context.Context, id string, favourite bool) error {
	return r.updateColumn(ctx, id, "favourite", favourite)
}

// SetPriceWithDiscount stores the discounted price; nil clears it.
func (r *GORMProductRepository) SetPriceWithDiscount(ctx context.Context, id string, price *float64) error {
	return r.updateColumn(ctx, id, "price_with_discount", price)
}

func (r *GORMProductRepository) updateColumn(ctx context.Context, id, column string, value any) error {
	res := r.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Update(column, value)
	return rowsOrNotFound(res, apperrors.ErrProductNotFound, "failed to update product "+column)
}

// DecrementStock removes qty units in a single conditional UPDATE.
func (r *GORMProductRepository) DecrementStock(ctx context.Context, id string, qty int) error {
	res := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("id = ? AND quantity >= ?", id, qty).
		Update("quantity", gorm.Expr("quantity - ?", qty))
	if res.Error != nil {
		return errors.Wrap(res.Error, "failed to decrement stock")
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrInsufficientStock.WithDetails(id)
	}
	return nil
}

// IncrementStock returns qty units to stock.
func (r *GORMProductRepository) IncrementStock(ctx context.Context, id string, qty int) error {
	res := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("id = ?", id).
		Update("quantity", gorm.Expr("quantity + ?", qty))
	return rowsOrNotFound(res, apperrors.ErrProductNotFound, "failed to increment stock")
}

// replaceAssociation replaces a many2many link set, clearing it when items is empty.
func replaceAssociation[T any](db *gorm.DB, owner any, name string, items []T) error {
	assoc := db.Model(owner).Association(name)
	if len(items) == 0 {
		return assoc.Clear()
	}
	return assoc.Replace(items)
}
