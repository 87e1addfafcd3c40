package services

import (
	"context"

	"gadgetstore/internal/apperrors"
	"gadgetstore/internal/models"
	"gadgetstore/internal/repositories"
)

// DictionaryService provides CRUD for the lookup entities of the catalog:
// categories, brands, attributes, roles and statuses.
type DictionaryService[T repositories.Dictionary] struct {
	repo   repositories.DictionaryRepository[T]
	entity string

	validate     func(item *T) error
	beforeDelete func(ctx context.Context, id string) error
}

// NewDictionaryService creates a service for entity, the name used in
// conflict messages.
func NewDictionaryService[T repositories.Dictionary](repo repositories.DictionaryRepository[T], entity string) *DictionaryService[T] {
	return &DictionaryService[T]{repo: repo, entity: entity}
}

// NewCategoryService refuses to delete categories that still have products.
func NewCategoryService(store repositories.Repositories) *DictionaryService[models.Category] {
	svc := NewDictionaryService(store.Categories(), "category")
	svc.beforeDelete = func(ctx context.Context, id string) error {
		count, err := store.Products().CountByCategory(ctx, id)
		if err != nil {
			return err
		}
		if count > 0 {
			return apperrors.ErrCategoryInUse
		}
		return nil
	}
	return svc
}

// NewAttributeService only accepts the known attribute kinds.
func NewAttributeService(store repositories.Repositories) *DictionaryService[models.Attribute] {
	svc := NewDictionaryService(store.Attributes(), "attribute")
	svc.validate = func(item *models.Attribute) error {
		if !models.IsAttributeKind(item.Kind) {
			return apperrors.ErrValidation.WithDetails("unknown attribute kind " + item.Kind)
		}
		return nil
	}
	return svc
}

func (s *DictionaryService[T]) List(ctx context.Context) ([]T, error) {
	return s.repo.List(ctx)
}

func (s *DictionaryService[T]) Get(ctx context.Context, id string) (*T, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *DictionaryService[T]) Create(ctx context.Context, item *T) error {
	if s.validate != nil {
		if err := s.validate(item); err != nil {
			return err
		}
	}
	return apperrors.TranslateWrite(s.repo.Create(ctx, item), s.entity)
}

// Update overwrites the row identified by id and returns the stored value.
func (s *DictionaryService[T]) Update(ctx context.Context, id string, item *T) (*T, error) {
	if s.validate != nil {
		if err := s.validate(item); err != nil {
			return nil, err
		}
	}
	if err := apperrors.TranslateWrite(s.repo.Update(ctx, id, item), s.entity); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *DictionaryService[T]) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	if s.beforeDelete != nil {
		if err := s.beforeDelete(ctx, id); err != nil {
			return err
		}
	}
	return apperrors.TranslateWrite(s.repo.Delete(ctx, id), s.entity)
}
