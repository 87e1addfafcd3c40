package services

import (
	"context"
	"log/slog"

	"gadgetstore/internal/models"
	"gadgetstore/internal/repositories"
	"gadgetstore/pkg/cache"
)

// FavouriteService manages the products users keep in favourites.
type FavouriteService struct {
	store  repositories.Store
	cache  cache.Cache
	logger *slog.Logger
}

// NewFavouriteService creates a new FavouriteService.
func NewFavouriteService(store repositories.Store, c cache.Cache, logger *slog.Logger) *FavouriteService {
	return &FavouriteService{store: store, cache: c, logger: logger}
}

// Toggle adds the product to the user's favourites or removes it when it is
// already there, and returns whether it is a favourite afterwards. The
// product's favourite flag follows whether any user still likes it.
func (s *FavouriteService) Toggle(ctx context.Context, userID, productID string) (bool, error) {
	var favourite bool
	err := s.store.Execute(ctx, func(repos repositories.Repositories) error {
		if _, err := repos.Products().GetByID(ctx, productID); err != nil {
			return err
		}

		existing, err := repos.Favourites().Find(ctx, userID, productID)
		if err != nil {
			return err
		}
		if existing != nil {
			if err := repos.Favourites().Delete(ctx, existing.ID); err != nil {
				return err
			}
		} else {
			if err := repos.Favourites().Create(ctx, &models.Favourite{UserID: userID, ProductID: productID}); err != nil {
				return err
			}
		}
		favourite = existing == nil

		anyLeft, err := repos.Favourites().ExistsForProduct(ctx, productID)
		if err != nil {
			return err
		}
		return repos.Products().SetFavourite(ctx, productID, anyLeft)
	})
	if err != nil {
		return false, err
	}

	invalidateProducts(ctx, s.cache, s.logger, productID)
	return favourite, nil
}

// List returns the user's favourite products, most recent first.
func (s *FavouriteService) List(ctx context.Context, userID string) ([]models.Product, error) {
	favourites, err := s.store.Favourites().ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	products := make([]models.Product, 0, len(favourites))
	for _, f := range favourites {
		if f.Product == nil {
			continue
		}
		p := *f.Product
		p.Favourite = true
		products = append(products, p)
	}
	return products, nil
}
