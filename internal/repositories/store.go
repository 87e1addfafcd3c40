package repositories

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"gadgetstore/internal/apperrors"
	"gadgetstore/internal/models"
)

// Repositories gives access to every repository bound to the same database
// handle. Inside Store.Execute that handle is the transaction.
type Repositories interface {
	Users() UserRepository
	VerificationCodes() VerificationCodeRepository
	Roles() DictionaryRepository[models.Role]
	Statuses() DictionaryRepository[models.Status]
	Categories() DictionaryRepository[models.Category]
	Brands() DictionaryRepository[models.Brand]
	Attributes() DictionaryRepository[models.Attribute]
	Products() ProductRepository
	Promotions() PromotionRepository
	Orders() OrderRepository
	Cart() CartRepository
	Favourites() FavouriteRepository
	Dashboard() DashboardRepository
}

// Store is the entry point of the persistence layer.
type Store interface {
	Repositories
	// Execute runs fn within a single database transaction. If fn returns an
	// error the transaction is rolled back, otherwise it is committed.
	Execute(ctx context.Context, fn func(repos Repositories) error) error
}

// GORMStore implements Store on top of a *gorm.DB.
type GORMStore struct {
	db *gorm.DB
}

// NewGORMStore creates a store bound to db.
func NewGORMStore(db *gorm.DB) *GORMStore {
	return &GORMStore{db: db}
}

// DB exposes the underlying handle for migrations and health checks.
func (s *GORMStore) DB() *gorm.DB { return s.db }

func (s *GORMStore) Users() UserRepository { return NewGORMUserRepository(s.db) }

func (s *GORMStore) VerificationCodes() VerificationCodeRepository {
	return NewGORMVerificationCodeRepository(s.db)
}

func (s *GORMStore) Roles() DictionaryRepository[models.Role] {
	return NewGORMDictionaryRepository[models.Role](s.db, "name", "name", apperrors.ErrRoleNotFound)
}

func (s *GORMStore) Statuses() DictionaryRepository[models.Status] {
	return NewGORMDictionaryRepository[models.Status](s.db, "name", "name", apperrors.ErrStatusNotFound)
}

func (s *GORMStore) Categories() DictionaryRepository[models.Category] {
	return NewGORMDictionaryRepository[models.Category](s.db, "name", "name", apperrors.ErrCategoryNotFound)
}

func (s *GORMStore) Brands() DictionaryRepository[models.Brand] {
	return NewGORMDictionaryRepository[models.Brand](s.db, "name", "name",
		apperrors.ErrNotFound.WithDetails("brand"))
}

func (s *GORMStore) Attributes() DictionaryRepository[models.Attribute] {
	return NewGORMDictionaryRepository[models.Attribute](s.db, "value", "kind, value",
		apperrors.ErrNotFound.WithDetails("attribute"))
}

func (s *GORMStore) Products() ProductRepository { return NewGORMProductRepository(s.db) }

func (s *GORMStore) Promotions() PromotionRepository { return NewGORMPromotionRepository(s.db) }

func (s *GORMStore) Orders() OrderRepository { return NewGORMOrderRepository(s.db) }

func (s *GORMStore) Cart() CartRepository { return NewGORMCartRepository(s.db) }

func (s *GORMStore) Favourites() FavouriteRepository { return NewGORMFavouriteRepository(s.db) }

func (s *GORMStore) Dashboard() DashboardRepository { return NewGORMDashboardRepository(s.db) }

// Execute runs fn within a single database transaction.
func (s *GORMStore) Execute(ctx context.Context, fn func(repos Repositories) error) error {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return errors.Wrap(tx.Error, "failed to begin transaction")
	}

	// Roll back on panic, then let it propagate.
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(&GORMStore{db: tx}); err != nil {
		if rbErr := tx.Rollback().Error; rbErr != nil {
			return errors.Wrapf(err, "transaction rollback failed: %v", rbErr)
		}
		return err
	}

	if err := tx.Commit().Error; err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}
	return nil
}
