package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gadgetstore/internal/apperrors"
	"gadgetstore/internal/logs"
	"gadgetstore/internal/models"
	"gadgetstore/internal/repositories"
	"gadgetstore/internal/services"
	"gadgetstore/pkg/cache"
)

func newProductService(f *fixture) *services.ProductService {
	return services.NewProductService(f.store, f.cache, time.Minute, logs.Discard())
}

func TestProductService_CreateAndGet(t *testing.T) {
	f := newFixture(t)
	svc := newProductService(f)
	phones := f.category("Phones")
	brand := &models.Brand{Name: "Google"}
	require.NoError(t, f.db.Create(brand).Error)
	ram := &models.Attribute{Kind: models.AttributeRAM, Value: "12 GB"}
	require.NoError(t, f.db.Create(ram).Error)

	created, err := svc.Create(f.ctx, services.ProductInput{
		Name:         "Pixel 9",
		Description:  "Android phone",
		Price:        799,
		Quantity:     10,
		CategoryID:   phones.ID,
		BrandID:      &brand.ID,
		AttributeIDs: []string{ram.ID},
		Active:       true,
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, created.Status.Name)
	require.Len(t, created.Attributes, 1)
	assert.Equal(t, "12 GB", created.Attributes[0].Value)
	assert.Equal(t, "Google", created.Brand.Name)

	got, err := svc.Get(f.ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Name, got.Name)

	var cached models.Product
	hit, err := f.cache.Get(f.ctx, cache.ProductKey(created.ID), &cached)
	require.NoError(t, err)
	assert.True(t, hit)

	_, err = svc.Create(f.ctx, services.ProductInput{Name: "Pixel 9", Price: 1, CategoryID: phones.ID})
	appErr, ok := apperrors.From(err)
	require.True(t, ok)
	assert.Equal(t, "DUPLICATE_PRODUCT", appErr.ErrorCode())

	_, err = svc.Create(f.ctx, services.ProductInput{Name: "Nope", Price: 1, CategoryID: "missing"})
	assert.ErrorIs(t, err, apperrors.ErrCategoryNotFound)
}

func TestProductService_CreateUnderCategoryPromotion(t *testing.T) {
	f := newFixture(t)
	svc := newProductService(f)
	promotions := newPromotionService(f)
	phones := f.category("Phones")
	existing := f.product("Galaxy S24", phones.ID, 900, 5)

	_, err := promotions.Create(f.ctx, secondsPromotion("Phones week", 10, 0, 50, nil, []string{phones.ID}))
	require.NoError(t, err)
	requireDiscount(t, f, existing.ID, 810)

	created, err := svc.Create(f.ctx, services.ProductInput{Name: "Pixel 9", Price: 800, Quantity: 1, CategoryID: phones.ID, Active: true})
	require.NoError(t, err)
	require.NotNil(t, created.PriceWithDiscount)
	assert.Equal(t, 720.0, *created.PriceWithDiscount)
}

func TestProductService_UpdateInvalidatesCache(t *testing.T) {
	f := newFixture(t)
	svc := newProductService(f)
	phones := f.category("Phones")
	product := f.product("Pixel 9", phones.ID, 799, 5)

	_, err := svc.Get(f.ctx, product.ID)
	require.NoError(t, err)

	updated, err := svc.Update(f.ctx, product.ID, services.ProductInput{
		Name: "Pixel 9 Pro", Price: 999, Quantity: 7, CategoryID: phones.ID, Active: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "Pixel 9 Pro", updated.Name)

	got, err := svc.Get(f.ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 999.0, got.Price)
	assert.Equal(t, 7, got.Quantity)
}

func TestProductService_SetActiveHidesFromCustomers(t *testing.T) {
	f := newFixture(t)
	svc := newProductService(f)
	product := f.product("Pixel 9", f.category("Phones").ID, 799, 5)

	hidden, err := svc.SetActive(f.ctx, product.ID, false)
	require.NoError(t, err)
	assert.False(t, hidden.Active)
	assert.Equal(t, models.StatusInactive, hidden.Status.Name)

	_, err = svc.GetForCustomer(f.ctx, product.ID, "")
	assert.ErrorIs(t, err, apperrors.ErrProductNotFound)

	page, err := svc.List(f.ctx, repositories.ProductFilter{ActiveOnly: true}, 1, 10, "")
	require.NoError(t, err)
	assert.Zero(t, page.Total)
}

func TestProductService_ListFiltersAndFavourites(t *testing.T) {
	f := newFixture(t)
	svc := newProductService(f)
	favourites := services.NewFavouriteService(f.store, f.cache, logs.Discard())
	phones := f.category("Phones")
	laptops := f.category("Laptops")
	cheap := f.product("Budget Phone", phones.ID, 150, 5)
	f.product("Flagship Phone", phones.ID, 1100, 5)
	laptop := f.product("Work Laptop", laptops.ID, 900, 5)
	require.NoError(t, f.store.Products().SetPriceWithDiscount(f.ctx, laptop.ID, ptr(450.0)))
	ana := f.user("ana")
	bob := f.user("bob")

	_, err := favourites.Toggle(f.ctx, bob.ID, cheap.ID)
	require.NoError(t, err)

	page, err := svc.List(f.ctx, repositories.ProductFilter{CategoryID: phones.ID, Sort: repositories.SortPriceAsc}, 1, 10, ana.ID)
	require.NoError(t, err)
	require.Equal(t, int64(2), page.Total)
	assert.Equal(t, "Budget Phone", page.Items[0].Name)
	assert.False(t, page.Items[0].Favourite, "favourite of another user")

	page, err = svc.List(f.ctx, repositories.ProductFilter{Search: "PHONE"}, 1, 10, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)

	maxPrice := 500.0
	page, err = svc.List(f.ctx, repositories.ProductFilter{MaxPrice: &maxPrice, Sort: repositories.SortName}, 1, 10, bob.ID)
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "Budget Phone", page.Items[0].Name)
	assert.True(t, page.Items[0].Favourite)
	assert.Equal(t, "Work Laptop", page.Items[1].Name)

	page, err = svc.List(f.ctx, repositories.ProductFilter{DiscountedOnly: true}, 1, 10, "")
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, laptop.ID, page.Items[0].ID)

	page, err = svc.List(f.ctx, repositories.ProductFilter{}, 2, 2, "")
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	assert.Len(t, page.Items, 1)

	page, err = svc.List(f.ctx, repositories.ProductFilter{}, 0, 1000, "")
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, services.MaxPageSize, page.Limit)
}

func TestProductService_AttributeFilterRequiresAll(t *testing.T) {
	f := newFixture(t)
	svc := newProductService(f)
	phones := f.category("Phones")
	black := &models.Attribute{Kind: models.AttributeColor, Value: "Black"}
	ram := &models.Attribute{Kind: models.AttributeRAM, Value: "8 GB"}
	require.NoError(t, f.db.Create(black).Error)
	require.NoError(t, f.db.Create(ram).Error)

	both, err := svc.Create(f.ctx, services.ProductInput{Name: "Both", Price: 1, CategoryID: phones.ID, AttributeIDs: []string{black.ID, ram.ID}, Active: true})
	require.NoError(t, err)
	_, err = svc.Create(f.ctx, services.ProductInput{Name: "Only black", Price: 1, CategoryID: phones.ID, AttributeIDs: []string{black.ID}, Active: true})
	require.NoError(t, err)

	page, err := svc.List(f.ctx, repositories.ProductFilter{AttributeIDs: []string{black.ID, ram.ID}}, 1, 10, "")
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, both.ID, page.Items[0].ID)

	page, err = svc.List(f.ctx, repositories.ProductFilter{AttributeIDs: []string{black.ID}}, 1, 10, "")
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
}

func TestProductService_Delete(t *testing.T) {
	f := newFixture(t)
	svc := newProductService(f)
	product := f.product("Pixel 9", f.category("Phones").ID, 799, 5)

	require.NoError(t, svc.Delete(f.ctx, product.ID))
	_, err := svc.Get(f.ctx, product.ID)
	assert.ErrorIs(t, err, apperrors.ErrProductNotFound)
	assert.ErrorIs(t, svc.Delete(f.ctx, product.ID), apperrors.ErrProductNotFound)
}

func TestProductService_DeleteOrderedProductIsInUse(t *testing.T) {
	f := newFixture(t)
	svc := newProductService(f)
	orders, cart := newOrderService(f, nil)
	_, product := placeSingleOrder(t, f, orders, cart, 1)

	err := svc.Delete(f.ctx, product.ID)
	assert.ErrorIs(t, err, apperrors.ErrInUse)
	f.reload(product.ID)
}
