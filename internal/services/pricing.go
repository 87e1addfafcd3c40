package services

import (
	"context"

	"github.com/shopspring/decimal"

	"gadgetstore/internal/repositories"
)

var hundred = decimal.NewFromInt(100)

// DiscountedPrice applies a percentage discount and rounds to cents.
func DiscountedPrice(price, percentage float64) float64 {
	return decimal.NewFromFloat(price).
		Mul(hundred.Sub(decimal.NewFromFloat(percentage))).
		Div(hundred).
		Round(2).
		InexactFloat64()
}

// roundMoney rounds an amount to cents.
func roundMoney(amount float64) float64 {
	return decimal.NewFromFloat(amount).Round(2).InexactFloat64()
}

// repriceProduct sets the discounted price of a product from the best active
// promotion covering it, ignoring excludePromotionID, or clears it when none
// does.
func repriceProduct(ctx context.Context, repos repositories.Repositories, productID string, price float64, excludePromotionID string) error {
	best, ok, err := repos.Promotions().BestActivePercentage(ctx, productID, excludePromotionID)
	if err != nil {
		return err
	}
	if !ok {
		return repos.Products().SetPriceWithDiscount(ctx, productID, nil)
	}
	discounted := DiscountedPrice(price, best)
	return repos.Products().SetPriceWithDiscount(ctx, productID, &discounted)
}
