// Package database provides database connection utilities.
package database

import (
	"fmt"

	"github.com/barahweb/shop-api/internal/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Connect opens a Postgres connection through gorm.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}
