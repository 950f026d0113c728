package database_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipe-catalog/config"
	"github.com/pageza/recipe-catalog/internal/database"
	"github.com/pageza/recipe-catalog/internal/model"
	"github.com/pageza/recipe-catalog/internal/testhelpers"
)

func TestDatabase(t *testing.T) {
	cfg := &config.Config{
		DBDriver: "sqlite",
		DBDSN:    filepath.Join(t.TempDir(), "catalog.db"),
	}

	db, err := database.New(cfg, testhelpers.NullLogger())
	require.NoError(t, err)
	require.NoError(t, database.HealthCheck(db))

	require.NoError(t, database.RunMigrations(db))
	assert.True(t, db.Migrator().HasTable(&model.RecipeRecord{}))

	// migrations are idempotent
	require.NoError(t, database.RunMigrations(db))
}

func TestDatabaseUnsupportedDriver(t *testing.T) {
	_, err := database.New(&config.Config{DBDriver: "mysql"}, testhelpers.NullLogger())
	assert.Error(t, err)
}

func TestNewRedisClient(t *testing.T) {
	ctx := context.Background()
	log := testhelpers.NullLogger()

	client, err := database.NewRedisClient(ctx, &config.Config{}, log)
	require.NoError(t, err)
	assert.Nil(t, client)

	mr := miniredis.RunT(t)
	client, err = database.NewRedisClient(ctx, &config.Config{RedisURL: fmt.Sprintf("redis://%s/0", mr.Addr())}, log)
	require.NoError(t, err)
	require.NotNil(t, client)
	defer client.Close()
	assert.NoError(t, client.Set(ctx, "k", "v", 0).Err())

	_, err = database.NewRedisClient(ctx, &config.Config{RedisURL: "not a url"}, log)
	assert.Error(t, err)
}
