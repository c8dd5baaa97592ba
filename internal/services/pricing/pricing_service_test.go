package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/datamartgh/backend/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.Bundle{}))
	return db
}

func seed(t *testing.T, db *gorm.DB, bundle models.Bundle) {
	t.Helper()
	require.NoError(t, db.Create(&bundle).Error)
}

func TestResolvePrice(t *testing.T) {
	db := setupTestDB(t)
	service := NewPricingService(db)

	seed(t, db, models.Bundle{
		Type: models.BundleTypeMTNUp2U, Capacity: 5, Price: 30,
		RolePrices: models.JSON{"agent": 25.0},
		Slug:       "mtnup2u-5gb", Active: true,
	})

	price, err := service.ResolvePrice(models.BundleTypeMTNUp2U, 5, models.RoleUser)
	require.NoError(t, err)
	assert.Equal(t, 30.0, price)

	price, err = service.ResolvePrice(models.BundleTypeMTNUp2U, 5, models.RoleAgent)
	require.NoError(t, err)
	assert.Equal(t, 25.0, price)
}

func TestResolvePriceUnknownBundle(t *testing.T) {
	db := setupTestDB(t)
	service := NewPricingService(db)

	_, err := service.ResolvePrice(models.BundleTypeMTNUp2U, 5, models.RoleUser)
	assert.ErrorIs(t, err, ErrBundleNotFound)
}

func TestInactiveBundlesAreInvisible(t *testing.T) {
	db := setupTestDB(t)
	service := NewPricingService(db)

	seed(t, db, models.Bundle{
		Type: models.BundleTypeTelecel, Capacity: 10, Price: 45,
		Slug: "telecel-10gb", Active: false,
	})

	_, err := service.ResolvePrice(models.BundleTypeTelecel, 10, models.RoleUser)
	assert.ErrorIs(t, err, ErrBundleNotFound)

	prices, err := service.PriceMap(models.BundleTypeTelecel, models.RoleUser)
	require.NoError(t, err)
	assert.Empty(t, prices)
}

func TestPriceMap(t *testing.T) {
	db := setupTestDB(t)
	service := NewPricingService(db)

	seed(t, db, models.Bundle{
		Type: models.BundleTypeATiShare, Capacity: 1, Price: 6,
		RolePrices: models.JSON{"super_agent": 5.0},
		Slug:       "at-1gb", Active: true,
	})
	seed(t, db, models.Bundle{
		Type: models.BundleTypeATiShare, Capacity: 2, Price: 11,
		Slug: "at-2gb", Active: true,
	})
	seed(t, db, models.Bundle{
		Type: models.BundleTypeTelecel, Capacity: 2, Price: 12,
		Slug: "telecel-2gb", Active: true,
	})

	prices, err := service.PriceMap(models.BundleTypeATiShare, models.RoleSuperAgent)
	require.NoError(t, err)
	assert.Equal(t, map[float64]float64{1: 5, 2: 11}, prices)
}
