//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Apurer/rocketshoes-cart/internal/domains/inventory/domain"
	"github.com/Apurer/rocketshoes-cart/internal/domains/inventory/ports"
	"github.com/Apurer/rocketshoes-cart/internal/platform/migrations"
)

func setupInventoryPostgresContainer(t *testing.T) (*gorm.DB, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcpostgres.WithDatabase("rocketshoes_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	err = migrations.Run(db)
	require.NoError(t, err)

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		pgContainer.Terminate(ctx)
	}

	return db, cleanup
}

func TestRepository_ProductRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupInventoryPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	product, err := domain.NewProduct(1, "Tênis de Caminhada", decimal.RequireFromString("179.90"), "a.jpg")
	require.NoError(t, err)

	saved, err := repo.SaveProduct(ctx, product)
	require.NoError(t, err)
	assert.True(t, product.Price.Equal(saved.Price))

	product.Title = "Tênis VR Caminhada"
	_, err = repo.SaveProduct(ctx, product)
	require.NoError(t, err)

	list, err := repo.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Tênis VR Caminhada", list[0].Title)

	_, err = repo.GetProduct(ctx, 2)
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestRepository_StockUpsert(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupInventoryPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	_, err := repo.SaveStock(ctx, &domain.Stock{ID: 1, Amount: 3})
	require.NoError(t, err)
	updated, err := repo.SaveStock(ctx, &domain.Stock{ID: 1, Amount: 0})
	require.NoError(t, err)
	assert.Equal(t, 0, updated.Amount)

	levels, err := repo.ListStock(ctx)
	require.NoError(t, err)
	assert.Len(t, levels, 1)

	_, err = repo.GetStock(ctx, 9)
	assert.ErrorIs(t, err, ports.ErrNotFound)
}
