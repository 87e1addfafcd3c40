package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gadgetstore/internal/apperrors"
	"gadgetstore/internal/logs"
	"gadgetstore/internal/models"
	"gadgetstore/internal/services"
)

func TestDashboardService_Stats(t *testing.T) {
	f := newFixture(t)
	orders, cart := newOrderService(f, nil)
	dashboard := services.NewDashboardService(f.store, f.cache, time.Minute, 5, logs.Discard())

	phones := f.category("Phones")
	popular := f.product("Pixel 9", phones.ID, 100, 20)
	scarce := f.product("Galaxy S24", phones.ID, 50, 3)
	ana := f.user("ana")
	bob := f.user("bob")

	_, err := cart.Add(f.ctx, ana.ID, popular.ID, 4)
	require.NoError(t, err)
	_, err = cart.Add(f.ctx, ana.ID, scarce.ID, 1)
	require.NoError(t, err)
	_, err = orders.PlaceOrder(f.ctx, ana.ID, testDelivery)
	require.NoError(t, err)

	_, err = cart.Add(f.ctx, bob.ID, popular.ID, 2)
	require.NoError(t, err)
	placed, err := orders.PlaceOrder(f.ctx, bob.ID, testDelivery)
	require.NoError(t, err)
	_, err = orders.UpdateStatus(f.ctx, placed[0].ID, models.StatusCancelled)
	require.NoError(t, err)

	stats, err := dashboard.Stats(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Users)
	assert.Equal(t, int64(2), stats.Products)
	assert.Equal(t, int64(3), stats.Orders)
	assert.Equal(t, 450.0, stats.Revenue)
	require.NotEmpty(t, stats.TopProducts)
	assert.Equal(t, popular.ID, stats.TopProducts[0].ProductID)
	assert.Equal(t, int64(4), stats.TopProducts[0].Sold)
	require.Len(t, stats.LowStock, 1)
	assert.Equal(t, scarce.ID, stats.LowStock[0].ID)

	byStatus := map[string]int64{}
	for _, row := range stats.OrdersByStatus {
		byStatus[row.Status] = row.Count
	}
	assert.Equal(t, int64(2), byStatus[models.StatusPending])
	assert.Equal(t, int64(1), byStatus[models.StatusCancelled])

	// Served from cache until an order changes.
	f.user("carol")
	cached, err := dashboard.Stats(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), cached.Users)
}

func TestUserService_SetRole(t *testing.T) {
	f := newFixture(t)
	svc := services.NewUserService(f.store, logs.Discard())
	user := f.user("ana")

	updated, err := svc.SetRole(f.ctx, user.ID, models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, updated.Role.Name)

	_, err = svc.SetRole(f.ctx, user.ID, "Owner")
	assert.ErrorIs(t, err, apperrors.ErrRoleNotFound)

	_, err = svc.SetRole(f.ctx, "missing", models.RoleUser)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

	users, err := svc.List(f.ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestDashboardService_ProductWritesRefreshCounts(t *testing.T) {
	f := newFixture(t)
	products := newProductService(f)
	dashboard := services.NewDashboardService(f.store, f.cache, time.Minute, 5, logs.Discard())
	phones := f.category("Phones")
	f.product("Pixel 9", phones.ID, 100, 20)

	stats, err := dashboard.Stats(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Products)
	assert.Empty(t, stats.LowStock)

	created, err := products.Create(f.ctx, services.ProductInput{
		Name: "Galaxy S24", Price: 50, Quantity: 2, CategoryID: phones.ID, Active: true,
	})
	require.NoError(t, err)

	stats, err = dashboard.Stats(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Products)
	require.Len(t, stats.LowStock, 1)
	assert.Equal(t, created.ID, stats.LowStock[0].ID)

	require.NoError(t, products.Delete(f.ctx, created.ID))

	stats, err = dashboard.Stats(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Products)
	assert.Empty(t, stats.LowStock)
}
