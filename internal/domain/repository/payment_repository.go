package repository

import (
	"context"

	"github.com/dormdeli/payment-service/internal/domain/model"
)

// PaymentRepository is the durable store for payment records. Save assigns
// the id and creation timestamp when absent and always refreshes the update
// timestamp. UpdateIfPending is the conditional write every status transition
// funnels through: it applies the given fields only while the record is still
// PENDING and reports whether a row was changed.
type PaymentRepository interface {
	Save(ctx context.Context, payment *model.Payment) (*model.Payment, error)
	FindByID(ctx context.Context, id string) (*model.Payment, error)
	FindByOrderID(ctx context.Context, orderID string) (*model.Payment, error)
	FindByTransactionID(ctx context.Context, transactionID string) (*model.Payment, error)
	FindByUserID(ctx context.Context, userID string) ([]*model.Payment, error)
	FindByStatus(ctx context.Context, status model.PaymentStatus) ([]*model.Payment, error)
	FindByUserIDAndStatus(ctx context.Context, userID string, status model.PaymentStatus) ([]*model.Payment, error)
	UpdateIfPending(ctx context.Context, orderID string, fields map[string]interface{}) (bool, error)
	DeleteByID(ctx context.Context, id string) error
}
