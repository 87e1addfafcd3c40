package services_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"gadgetstore/internal/config"
	"gadgetstore/internal/database"
	"gadgetstore/internal/logs"
	"gadgetstore/internal/models"
	"gadgetstore/internal/repositories"
	"gadgetstore/pkg/cache"
)

// fixture is an in-memory SQLite store seeded with roles and statuses.
type fixture struct {
	t     *testing.T
	ctx   context.Context
	db    *gorm.DB
	store *repositories.GORMStore
	cache *cache.MemoryCache
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := database.Open(config.DBConfig{Driver: "sqlite", DSN: dsn}, logs.Discard())
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	require.NoError(t, database.SeedDefaults(context.Background(), db))
	t.Cleanup(func() { _ = database.Close(db) })

	return &fixture{
		t:     t,
		ctx:   context.Background(),
		db:    db,
		store: repositories.NewGORMStore(db),
		cache: cache.NewMemoryCache(),
	}
}

func (f *fixture) status(name string) *models.Status {
	f.t.Helper()
	status, err := f.store.Statuses().GetByName(f.ctx, name)
	require.NoError(f.t, err)
	return status
}

func (f *fixture) category(name string) *models.Category {
	f.t.Helper()
	category := &models.Category{Name: name}
	require.NoError(f.t, f.db.Create(category).Error)
	return category
}

func (f *fixture) product(name, categoryID string, price float64, quantity int) *models.Product {
	f.t.Helper()
	product := &models.Product{
		Name:       name,
		Price:      price,
		Quantity:   quantity,
		CategoryID: categoryID,
		StatusID:   f.status(models.StatusActive).ID,
		Active:     true,
	}
	require.NoError(f.t, f.db.Create(product).Error)
	return product
}

func (f *fixture) user(username string) *models.User {
	f.t.Helper()
	role, err := f.store.Roles().GetByName(f.ctx, models.RoleUser)
	require.NoError(f.t, err)
	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "x",
		RoleID:   role.ID,
	}
	require.NoError(f.t, f.db.Create(user).Error)
	return user
}

func (f *fixture) reload(productID string) *models.Product {
	f.t.Helper()
	product, err := f.store.Products().GetByID(f.ctx, productID)
	require.NoError(f.t, err)
	return product
}

// recordingPublisher keeps every published event.
type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

type publishedEvent struct {
	RoutingKey string
	Payload    any
}

func (p *recordingPublisher) Publish(_ context.Context, routingKey string, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{RoutingKey: routingKey, Payload: payload})
	return nil
}

func (p *recordingPublisher) keys() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	keys := make([]string, len(p.events))
	for i, e := range p.events {
		keys[i] = e.RoutingKey
	}
	return keys
}

func ptr[T any](v T) *T { return &v }
