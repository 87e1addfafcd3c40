package services

import (
	"context"

	"github.com/pkg/errors"

	"gadgetstore/internal/apperrors"
	"gadgetstore/internal/models"
	"gadgetstore/internal/repositories"
)

// CartLine is a cart item priced at the current effective price.
type CartLine struct {
	ProductID string          `json:"product_id"`
	Product   *models.Product `json:"product"`
	Quantity  int             `json:"quantity"`
	UnitPrice float64         `json:"unit_price"`
	Subtotal  float64         `json:"subtotal"`
}

// CartView is the content of a user's cart.
type CartView struct {
	Items      []CartLine `json:"items"`
	TotalItems int        `json:"total_items"`
	Total      float64    `json:"total"`
}

// CartService manages shopping carts.
type CartService struct {
	store repositories.Store
}

// NewCartService creates a new CartService.
func NewCartService(store repositories.Store) *CartService {
	return &CartService{store: store}
}

// List returns the cart of userID with line and cart totals.
func (s *CartService) List(ctx context.Context, userID string) (*CartView, error) {
	items, err := s.store.Cart().ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	view := &CartView{Items: make([]CartLine, 0, len(items))}
	var total float64
	for _, item := range items {
		if item.Product == nil {
			continue
		}
		unit := item.Product.EffectivePrice()
		line := CartLine{
			ProductID: item.ProductID,
			Product:   item.Product,
			Quantity:  item.Quantity,
			UnitPrice: unit,
			Subtotal:  roundMoney(unit * float64(item.Quantity)),
		}
		view.Items = append(view.Items, line)
		view.TotalItems += item.Quantity
		total += line.Subtotal
	}
	view.Total = roundMoney(total)
	return view, nil
}

// Add puts qty units of a product in the cart, merging with an existing line.
func (s *CartService) Add(ctx context.Context, userID, productID string, qty int) (*CartView, error) {
	if qty < 1 {
		return nil, apperrors.ErrValidation.WithDetails("quantity must be at least 1")
	}

	err := s.store.Execute(ctx, func(repos repositories.Repositories) error {
		product, err := purchasable(ctx, repos, productID)
		if err != nil {
			return err
		}

		existing, err := repos.Cart().Get(ctx, userID, productID)
		if err != nil && !errors.Is(err, apperrors.ErrCartItemNotFound) {
			return err
		}

		total := qty
		if existing != nil {
			total += existing.Quantity
		}
		if total > product.Quantity {
			return apperrors.ErrInsufficientStock.WithDetails(product.Name)
		}

		if existing != nil {
			return repos.Cart().UpdateQuantity(ctx, userID, productID, total)
		}
		return repos.Cart().Create(ctx, &models.CartItem{UserID: userID, ProductID: productID, Quantity: qty})
	})
	if err != nil {
		return nil, err
	}
	return s.List(ctx, userID)
}

// UpdateQuantity sets the quantity of a cart line; zero removes the line.
func (s *CartService) UpdateQuantity(ctx context.Context, userID, productID string, qty int) (*CartView, error) {
	if qty < 0 {
		return nil, apperrors.ErrValidation.WithDetails("quantity cannot be negative")
	}

	err := s.store.Execute(ctx, func(repos repositories.Repositories) error {
		if _, err := repos.Cart().Get(ctx, userID, productID); err != nil {
			return err
		}
		if qty == 0 {
			return repos.Cart().Delete(ctx, userID, productID)
		}

		product, err := purchasable(ctx, repos, productID)
		if err != nil {
			return err
		}
		if qty > product.Quantity {
			return apperrors.ErrInsufficientStock.WithDetails(product.Name)
		}
		return repos.Cart().UpdateQuantity(ctx, userID, productID, qty)
	})
	if err != nil {
		return nil, err
	}
	return s.List(ctx, userID)
}

// Remove deletes a line from the cart.
func (s *CartService) Remove(ctx context.Context, userID, productID string) (*CartView, error) {
	if err := s.store.Cart().Delete(ctx, userID, productID); err != nil {
		return nil, err
	}
	return s.List(ctx, userID)
}

// Clear empties the cart.
func (s *CartService) Clear(ctx context.Context, userID string) error {
	return s.store.Cart().Clear(ctx, userID)
}

// purchasable loads a product that customers may buy.
func purchasable(ctx context.Context, repos repositories.Repositories, productID string) (*models.Product, error) {
	product, err := repos.Products().GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !product.Active {
		return nil, apperrors.ErrProductInactive.WithDetails(product.Name)
	}
	return product, nil
}
