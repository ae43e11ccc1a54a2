package db

import (
	"fmt"

	"gorm.io/gorm"

	types "github.com/HariKrishnaKumar/bitewise-backend/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(types.AllModels()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
