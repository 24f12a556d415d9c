package db

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/zulandar/southwood/internal/config"
	"github.com/zulandar/southwood/internal/models"
)

// AllModels returns every GORM model for migration.
func AllModels() []interface{} {
	return []interface{}{
		&models.Project{},
		&models.Notification{},
	}
}

// AutoMigrate creates or updates all tables.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(AllModels()...); err != nil {
		return fmt.Errorf("db: auto-migrate: %w", err)
	}
	return nil
}

// Init prepares the configured database: for mysql the database itself is
// created first, then every table is migrated.
func Init(cfg config.DatabaseConfig) (*gorm.DB, error) {
	if cfg.Driver == "mysql" {
		admin, err := ConnectAdmin(cfg)
		if err != nil {
			return nil, err
		}
		err = CreateDatabase(admin, cfg.Name)
		if sqlDB, dbErr := admin.DB(); dbErr == nil {
			sqlDB.Close()
		}
		if err != nil {
			return nil, err
		}
	}
	db, err := Connect(cfg)
	if err != nil {
		return nil, err
	}
	if err := AutoMigrate(db); err != nil {
		return nil, err
	}
	return db, nil
}
