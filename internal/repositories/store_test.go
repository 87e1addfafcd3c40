package repositories_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gadgetstore/internal/config"
	"gadgetstore/internal/database"
	"gadgetstore/internal/logs"
	"gadgetstore/internal/models"
	"gadgetstore/internal/repositories"
)

func newStore(t *testing.T) *repositories.GORMStore {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := database.Open(config.DBConfig{Driver: "sqlite", DSN: dsn}, logs.Discard())
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { _ = database.Close(db) })
	return repositories.NewGORMStore(db)
}

func TestGORMStore_ExecuteRollsBack(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	failure := pkgerrors.New("boom")

	err := store.Execute(ctx, func(repos repositories.Repositories) error {
		require.NoError(t, repos.Categories().Create(ctx, &models.Category{Name: "Phones"}))
		return failure
	})
	assert.ErrorIs(t, err, failure)

	categories, err := store.Categories().List(ctx)
	require.NoError(t, err)
	assert.Empty(t, categories)
}

func TestGORMStore_ExecuteBeginFailureCarriesStack(t *testing.T) {
	store := newStore(t)
	sqlDB, err := store.DB().DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	err = store.Execute(context.Background(), func(repositories.Repositories) error { return nil })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to begin transaction")
	assert.Contains(t, fmt.Sprintf("%+v", err), "repositories.(*GORMStore).Execute")
}
