package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gadgetstore/internal/apperrors"
	"gadgetstore/internal/logs"
	"gadgetstore/internal/services"
)

func TestFavouriteService_ToggleTwiceRestoresState(t *testing.T) {
	f := newFixture(t)
	svc := services.NewFavouriteService(f.store, f.cache, logs.Discard())
	product := f.product("Pixel 9", f.category("Phones").ID, 799, 5)
	user := f.user("ana")

	on, err := svc.Toggle(f.ctx, user.ID, product.ID)
	require.NoError(t, err)
	assert.True(t, on)
	assert.True(t, f.reload(product.ID).Favourite)

	list, err := svc.List(f.ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, product.ID, list[0].ID)

	off, err := svc.Toggle(f.ctx, user.ID, product.ID)
	require.NoError(t, err)
	assert.False(t, off)
	assert.False(t, f.reload(product.ID).Favourite)

	list, err = svc.List(f.ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestFavouriteService_FlagFollowsAnyUser(t *testing.T) {
	f := newFixture(t)
	svc := services.NewFavouriteService(f.store, f.cache, logs.Discard())
	product := f.product("Pixel 9", f.category("Phones").ID, 799, 5)
	ana := f.user("ana")
	bob := f.user("bob")

	_, err := svc.Toggle(f.ctx, ana.ID, product.ID)
	require.NoError(t, err)
	_, err = svc.Toggle(f.ctx, bob.ID, product.ID)
	require.NoError(t, err)

	_, err = svc.Toggle(f.ctx, ana.ID, product.ID)
	require.NoError(t, err)
	assert.True(t, f.reload(product.ID).Favourite, "bob still likes it")

	_, err = svc.Toggle(f.ctx, bob.ID, product.ID)
	require.NoError(t, err)
	assert.False(t, f.reload(product.ID).Favourite)
}

func TestFavouriteService_UnknownProduct(t *testing.T) {
	f := newFixture(t)
	svc := services.NewFavouriteService(f.store, f.cache, logs.Discard())
	user := f.user("ana")

	_, err := svc.Toggle(f.ctx, user.ID, "missing")
	assert.ErrorIs(t, err, apperrors.ErrProductNotFound)
}
