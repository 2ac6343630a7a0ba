package migrations

import (
	"context"
	"path/filepath"
	"testing"

	"coffee-shop/internal/entity"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestAutoMigrateAndSeed(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "migrate.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, AutoMigrate(0, db))
	for _, m := range Models {
		assert.True(t, db.Migrator().HasTable(m), "missing table for %T", m)
	}

	ctx := context.Background()
	require.NoError(t, SeedLoyaltyProgram(ctx, db, "Coffee Stamps"))
	require.NoError(t, SeedLoyaltyProgram(ctx, db, "Coffee Stamps"))

	var programs []entity.LoyaltyProgram
	require.NoError(t, db.Preload("Tiers").Find(&programs).Error)
	require.Len(t, programs, 1)
	assert.Len(t, programs[0].Tiers, 2)
}

func TestAutoMigrateDropsGlobalOrderNumberIndex(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "legacy.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(0, db))
	require.NoError(t, db.Exec("CREATE UNIQUE INDEX idx_orders_order_number ON orders (order_number)").Error)

	require.NoError(t, AutoMigrate(0, db))
	assert.False(t, db.Migrator().HasIndex(&entity.Order{}, "idx_orders_order_number"))
	assert.True(t, db.Migrator().HasIndex(&entity.Order{}, "idx_orders_day_number"))

	for _, day := range []string{"2026-10-15", "2026-10-16"} {
		order := entity.Order{CustomerID: 1, OrderDay: day, OrderNumber: "CH-0001"}
		require.NoError(t, db.Create(&order).Error)
	}
	dup := entity.Order{CustomerID: 1, OrderDay: "2026-10-16", OrderNumber: "CH-0001"}
	assert.Error(t, db.Create(&dup).Error)
}
