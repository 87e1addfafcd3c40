package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gadgetstore/internal/apperrors"
	"gadgetstore/internal/services"
)

func TestCartService_AddMergesAndTotals(t *testing.T) {
	f := newFixture(t)
	svc := services.NewCartService(f.store)
	phones := f.category("Phones")
	phone := f.product("Pixel 9", phones.ID, 100, 5)
	discounted := f.product("Galaxy S24", phones.ID, 200, 5)
	require.NoError(t, f.store.Products().SetPriceWithDiscount(f.ctx, discounted.ID, ptr(150.5)))
	user := f.user("ana")

	_, err := svc.Add(f.ctx, user.ID, phone.ID, 1)
	require.NoError(t, err)
	_, err = svc.Add(f.ctx, user.ID, phone.ID, 2)
	require.NoError(t, err)
	view, err := svc.Add(f.ctx, user.ID, discounted.ID, 2)
	require.NoError(t, err)

	require.Len(t, view.Items, 2)
	assert.Equal(t, 5, view.TotalItems)
	assert.Equal(t, 601.0, view.Total)

	for _, line := range view.Items {
		if line.ProductID == phone.ID {
			assert.Equal(t, 3, line.Quantity)
			assert.Equal(t, 300.0, line.Subtotal)
		} else {
			assert.Equal(t, 150.5, line.UnitPrice)
		}
	}
}

func TestCartService_StockLimits(t *testing.T) {
	f := newFixture(t)
	svc := services.NewCartService(f.store)
	product := f.product("Pixel 9", f.category("Phones").ID, 100, 3)
	user := f.user("ana")

	_, err := svc.Add(f.ctx, user.ID, product.ID, 2)
	require.NoError(t, err)

	_, err = svc.Add(f.ctx, user.ID, product.ID, 2)
	assert.ErrorIs(t, err, apperrors.ErrInsufficientStock)

	_, err = svc.UpdateQuantity(f.ctx, user.ID, product.ID, 4)
	assert.ErrorIs(t, err, apperrors.ErrInsufficientStock)

	view, err := svc.UpdateQuantity(f.ctx, user.ID, product.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, view.TotalItems)

	_, err = svc.Add(f.ctx, user.ID, product.ID, 0)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestCartService_ZeroQuantityRemoves(t *testing.T) {
	f := newFixture(t)
	svc := services.NewCartService(f.store)
	product := f.product("Pixel 9", f.category("Phones").ID, 100, 3)
	user := f.user("ana")

	_, err := svc.Add(f.ctx, user.ID, product.ID, 1)
	require.NoError(t, err)

	view, err := svc.UpdateQuantity(f.ctx, user.ID, product.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, view.Items)

	_, err = svc.UpdateQuantity(f.ctx, user.ID, product.ID, 1)
	assert.ErrorIs(t, err, apperrors.ErrCartItemNotFound)

	_, err = svc.Remove(f.ctx, user.ID, product.ID)
	assert.ErrorIs(t, err, apperrors.ErrCartItemNotFound)
}

func TestCartService_InactiveProduct(t *testing.T) {
	f := newFixture(t)
	svc := services.NewCartService(f.store)
	product := f.product("Pixel 9", f.category("Phones").ID, 100, 3)
	require.NoError(t, f.store.Products().SetActive(f.ctx, product.ID, false))
	user := f.user("ana")

	_, err := svc.Add(f.ctx, user.ID, product.ID, 1)
	assert.ErrorIs(t, err, apperrors.ErrProductInactive)
}

func TestCartService_Clear(t *testing.T) {
	f := newFixture(t)
	svc := services.NewCartService(f.store)
	product := f.product("Pixel 9", f.category("Phones").ID, 100, 3)
	user := f.user("ana")

	_, err := svc.Add(f.ctx, user.ID, product.ID, 1)
	require.NoError(t, err)
	require.NoError(t, svc.Clear(f.ctx, user.ID))

	view, err := svc.List(f.ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, view.Items)
	assert.Zero(t, view.Total)
}
