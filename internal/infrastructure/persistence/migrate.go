package persistence

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/erp/shipping/internal/infrastructure/persistence/models"
)

// Migrate creates or updates the tables backing the shipping module
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.CurrencyModel{},
		&models.LabelAttachmentModel{},
	); err != nil {
		return fmt.Errorf("failed to migrate shipping tables: %w", err)
	}
	return nil
}
