package database

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/datamartgh/backend/internal/models"
	"github.com/datamartgh/backend/internal/queue"
)

// migrationsList holds all schema migrations in order
var migrationsList = []*gormigrate.Migration{
	{
		ID: "000001_initial_schema",
		Migrate: func(tx *gorm.DB) error {
			return tx.AutoMigrate(
				&models.User{},
				&models.Wallet{},
				&models.Transaction{},
				&models.Bundle{},
				&models.Order{},
				&models.OrderStatusChange{},
				&models.Payment{},
				&models.AdminSettings{},
				&queue.Job{},
			)
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Migrator().DropTable(
				"jobs", "admin_settings", "payments", "order_status_changes",
				"orders", "bundles", "transactions", "wallets", "users",
			)
		},
	},
	{
		ID: "000002_seed_admin_settings",
		Migrate: func(tx *gorm.DB) error {
			var count int64
			if err := tx.Model(&models.AdminSettings{}).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return nil
			}
			return tx.Create(&models.AdminSettings{}).Error
		},
		Rollback: func(tx *gorm.DB) error { return nil },
	},
}

// RunMigrations runs all database migrations
func RunMigrations(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, migrationsList)

	if err := m.Migrate(); err != nil {
		logrus.WithError(err).Error("database migration failed")
		return err
	}
	logrus.Info("database migrations ran successfully")
	return nil
}
