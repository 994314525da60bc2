package database

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	adapterRepo "github.com/dormdeli/payment-service/internal/adapter/repository"
	"github.com/dormdeli/payment-service/internal/domain/repository"
)

// Repositories bundles the service's store adapters.
type Repositories struct {
	Payment repository.PaymentRepository
}

// NewRepositories wires the gorm-backed repositories.
func NewRepositories(db *gorm.DB, logger *zap.Logger) *Repositories {
	return &Repositories{
		Payment: adapterRepo.NewPaymentRepository(db, logger),
	}
}
