// Package database opens the GORM connection and prepares the schema.
package database

import (
	"log/slog"

	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"gadgetstore/internal/config"
	"gadgetstore/internal/models"
)

// Open connects to the configured database.
func Open(cfg config.DBConfig, logger *slog.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	default:
		return nil, errors.Errorf("unsupported db driver: %s", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         newGormSlogLogger(logger, cfg.Debug),
		TranslateError: true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}

	return prepare(db, cfg.Driver)
}

// prepare applies driver specific settings and closes db when they fail.
func prepare(db *gorm.DB, driver string) (*gorm.DB, error) {
	if driver == "sqlite" {
		if err := configureSQLite(db); err != nil {
			_ = Close(db)
			return nil, err
		}
	}
	return db, nil
}

// configureSQLite pins the pool to one connection and turns on foreign keys.
// SQLite allows one writer; a single connection also keeps in-memory
// databases alive for the lifetime of the pool.
func configureSQLite(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return errors.Wrap(err, "failed to get sql handle")
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return errors.Wrap(err, "failed to enable foreign keys")
	}
	return nil
}

// Migrate creates or updates every table.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return errors.Wrap(err, "failed to auto-migrate database")
	}
	return nil
}

// Close releases the connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return errors.Wrap(err, "failed to get sql handle")
	}
	return sqlDB.Close()
}
