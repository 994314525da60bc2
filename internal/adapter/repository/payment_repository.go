package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	domainErrors "github.com/dormdeli/payment-service/internal/domain/errors"
	"github.com/dormdeli/payment-service/internal/domain/model"
	"github.com/dormdeli/payment-service/internal/domain/repository"
)

type paymentRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewPaymentRepository creates a gorm-backed payment repository.
func NewPaymentRepository(db *gorm.DB, logger *zap.Logger) repository.PaymentRepository {
	return &paymentRepository{
		db:     db,
		logger: logger,
	}
}

// Save persists a payment, assigning the id and creation timestamp on first
// write. The partial unique index on active orders turns a racing duplicate
// create into ErrDuplicateOrder.
func (r *paymentRepository) Save(ctx context.Context, payment *model.Payment) (*model.Payment, error) {
	now := time.Now()
	if payment.ID == "" {
		payment.ID = uuid.NewString()
		payment.CreatedAt = now
	}
	payment.UpdatedAt = now

	if err := r.db.WithContext(ctx).Save(payment).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domainErrors.ErrDuplicateOrder
		}
		r.logger.Error("Failed to save payment",
			zap.String("order_id", payment.OrderID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to save payment: %w", err)
	}

	return payment, nil
}

func (r *paymentRepository) FindByID(ctx context.Context, id string) (*model.Payment, error) {
	var payment model.Payment
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&payment).Error
	return r.oneOrNil(&payment, err, "id", id)
}

// FindByOrderID returns the active record for an order, falling back to the
// most recent failed one. At most one non-FAILED payment exists per order.
func (r *paymentRepository) FindByOrderID(ctx context.Context, orderID string) (*model.Payment, error) {
	var payment model.Payment
	err := r.db.WithContext(ctx).
		Where("order_id = ? AND status <> ?", orderID, model.StatusFailed).
		First(&payment).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = r.db.WithContext(ctx).
			Where("order_id = ?", orderID).
			Order("created_at DESC").
			First(&payment).Error
	}

	return r.oneOrNil(&payment, err, "order_id", orderID)
}

func (r *paymentRepository) FindByTransactionID(ctx context.Context, transactionID string) (*model.Payment, error) {
	var payment model.Payment
	err := r.db.WithContext(ctx).Where("transaction_id = ?", transactionID).First(&payment).Error
	return r.oneOrNil(&payment, err, "transaction_id", transactionID)
}

func (r *paymentRepository) FindByUserID(ctx context.Context, userID string) ([]*model.Payment, error) {
	var payments []*model.Payment
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&payments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list payments by user: %w", err)
	}
	return payments, nil
}

func (r *paymentRepository) FindByStatus(ctx context.Context, status model.PaymentStatus) ([]*model.Payment, error) {
	var payments []*model.Payment
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at ASC").
		Find(&payments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list payments by status: %w", err)
	}
	return payments, nil
}

func (r *paymentRepository) FindByUserIDAndStatus(ctx context.Context, userID string, status model.PaymentStatus) ([]*model.Payment, error) {
	var payments []*model.Payment
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, status).
		Order("created_at DESC").
		Find(&payments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list payments by user and status: %w", err)
	}
	return payments, nil
}

// UpdateIfPending applies fields only while the order's record is still
// PENDING. Returning false means another delivery already settled the record;
// callers re-read and acknowledge that state instead of overwriting it.
func (r *paymentRepository) UpdateIfPending(ctx context.Context, orderID string, fields map[string]interface{}) (bool, error) {
	fields["updated_at"] = time.Now()

	result := r.db.WithContext(ctx).
		Model(&model.Payment{}).
		Where("order_id = ? AND status = ?", orderID, model.StatusPending).
		Updates(fields)

	if result.Error != nil {
		r.logger.Error("Failed to update pending payment",
			zap.String("order_id", orderID),
			zap.Error(result.Error))
		return false, fmt.Errorf("failed to update pending payment: %w", result.Error)
	}

	return result.RowsAffected > 0, nil
}

func (r *paymentRepository) DeleteByID(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Payment{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete payment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainErrors.ErrPaymentNotFound
	}
	return nil
}

func (r *paymentRepository) oneOrNil(payment *model.Payment, err error, key, value string) (*model.Payment, error) {
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("Failed to query payment",
			zap.String(key, value),
			zap.Error(err))
		return nil, fmt.Errorf("failed to query payment: %w", err)
	}
	return payment, nil
}
