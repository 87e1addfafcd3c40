package repositories

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"gadgetstore/internal/models"
)

// Dictionary is the set of small lookup entities managed through plain CRUD.
type Dictionary interface {
	models.Role | models.Status | models.Category | models.Brand | models.Attribute
}

// DictionaryRepository defines data access for a lookup entity.
type DictionaryRepository[T Dictionary] interface {
	List(ctx context.Context) ([]T, error)
	GetByID(ctx context.Context, id string) (*T, error)
	GetByName(ctx context.Context, name string) (*T, error)
	Create(ctx context.Context, item *T) error
	Update(ctx context.Context, id string, item *T) error
	Delete(ctx context.Context, id string) error
}

// GORMDictionaryRepository is the GORM implementation shared by every
// dictionary entity.
type GORMDictionaryRepository[T Dictionary] struct {
	db         *gorm.DB
	nameColumn string
	orderBy    string
	notFound   error
}

// NewGORMDictionaryRepository creates a repository that looks entities up by
// nameColumn and reports notFound for missing rows.
func NewGORMDictionaryRepository[T Dictionary](db *gorm.DB, nameColumn, orderBy string, notFound error) *GORMDictionaryRepository[T] {
	return &GORMDictionaryRepository[T]{
		db:         db,
		nameColumn: nameColumn,
		orderBy:    orderBy,
		notFound:   notFound,
	}
}

// List returns every row.
func (r *GORMDictionaryRepository[T]) List(ctx context.Context) ([]T, error) {
	var items []T
	if err := r.db.WithContext(ctx).Order(r.orderBy).Find(&items).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list")
	}
	return items, nil
}

// GetByID retrieves a row by its ID.
func (r *GORMDictionaryRepository[T]) GetByID(ctx context.Context, id string) (*T, error) {
	return r.first(ctx, "id = ?", id)
}

// GetByName retrieves a row by its name column.
func (r *GORMDictionaryRepository[T]) GetByName(ctx context.Context, name string) (*T, error) {
	return r.first(ctx, r.nameColumn+" = ?", name)
}

func (r *GORMDictionaryRepository[T]) first(ctx context.Context, query string, arg any) (*T, error) {
	var item T
	if err := r.db.WithContext(ctx).First(&item, query, arg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, r.notFound
		}
		return nil, errors.Wrap(err, "failed to get")
	}
	return &item, nil
}

// Create inserts a new row.
func (r *GORMDictionaryRepository[T]) Create(ctx context.Context, item *T) error {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return errors.Wrap(err, "failed to create")
	}
	return nil
}

// Update overwrites the editable columns of the row identified by id.
func (r *GORMDictionaryRepository[T]) Update(ctx context.Context, id string, item *T) error {
	var zero T
	res := r.db.WithContext(ctx).Model(&zero).Where("id = ?", id).
		Select("*").Omit("id", "created_at").Updates(item)
	return rowsOrNotFound(res, r.notFound, "failed to update")
}

// Delete removes the row identified by id.
func (r *GORMDictionaryRepository[T]) Delete(ctx context.Context, id string) error {
	var zero T
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&zero)
	return rowsOrNotFound(res, r.notFound, "failed to delete")
}
