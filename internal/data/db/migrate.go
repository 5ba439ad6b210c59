package db

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/payerdesk/internal/domain/registry"
)

// RegistryModels lists the registry tables in dependency order: a payer
// points at a group, a detail at a payer.
func RegistryModels() []any {
	return []any{
		&registry.PayerGroup{},
		&registry.Payer{},
		&registry.PayerDetail{},
	}
}

// reviewQueueIndex backs the unmapped scan, which filters on mapped_at and
// walks details in id order.
const reviewQueueIndex = `CREATE INDEX IF NOT EXISTS idx_payer_details_review ON payer_details (mapped_at, detail_id)`

// MigrateRegistry creates or updates the registry tables and their indexes.
// Both the Postgres and the sqlite dialects accept the raw index statement.
func MigrateRegistry(db *gorm.DB) error {
	for _, model := range RegistryModels() {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("migrate %T: %w", model, err)
		}
	}
	if err := db.Exec(reviewQueueIndex).Error; err != nil {
		return fmt.Errorf("create review queue index: %w", err)
	}
	return nil
}
