package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedProduct struct {
	ID    string  `json:"id"`
	Price float64 `json:"price"`
}

func TestMemoryCache_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	var got cachedProduct
	hit, err := c.Get(ctx, ProductKey("p-1"), &got)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, c.Set(ctx, ProductKey("p-1"), cachedProduct{ID: "p-1", Price: 999}, time.Minute))

	hit, err = c.Get(ctx, ProductKey("p-1"), &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, cachedProduct{ID: "p-1", Price: 999}, got)

	require.NoError(t, c.Delete(ctx, ProductKeys([]string{"p-1", "p-2"})...))
	hit, err = c.Get(ctx, ProductKey("p-1"), &got)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestMemoryCache_Expiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, DashboardKey, map[string]int{"orders": 3}, time.Minute))

	now = now.Add(59 * time.Second)
	var got map[string]int
	hit, err := c.Get(ctx, DashboardKey, &got)
	require.NoError(t, err)
	assert.True(t, hit)

	now = now.Add(2 * time.Second)
	hit, err = c.Get(ctx, DashboardKey, &got)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestProductKey(t *testing.T) {
	assert.Equal(t, "product:abc", ProductKey("abc"))
	assert.Equal(t, []string{"product:a", "product:b"}, ProductKeys([]string{"a", "b"}))
}
