package database

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/dormdeli/payment-service/internal/domain/model"
)

// Migrate runs database migrations
func Migrate(db *gorm.DB, logger *zap.Logger) error {
	logger.Info("Running database migrations...")

	if err := db.AutoMigrate(&model.Payment{}); err != nil {
		logger.Error("Failed to run migrations", zap.Error(err))
		return err
	}

	if err := createCustomIndexes(db); err != nil {
		logger.Error("Failed to create custom indexes", zap.Error(err))
		return err
	}

	logger.Info("Database migrations completed successfully")
	return nil
}

// createCustomIndexes creates custom indexes that GORM doesn't handle automatically
func createCustomIndexes(db *gorm.DB) error {
	// At most one non-failed payment per order id.
	if err := db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS unique_active_payment_per_order ON payments (order_id) WHERE status <> 'FAILED'`).Error; err != nil {
		return err
	}

	// Pending payments are scanned by the reconciliation job.
	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_payments_pending ON payments (created_at) WHERE status = 'PENDING'`).Error; err != nil {
		return err
	}

	return nil
}
