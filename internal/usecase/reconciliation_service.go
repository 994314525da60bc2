package usecase

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/dormdeli/payment-service/internal/domain/dto"
	domainErrors "github.com/dormdeli/payment-service/internal/domain/errors"
	"github.com/dormdeli/payment-service/internal/domain/model"
	"github.com/dormdeli/payment-service/internal/domain/repository"
)

// PaymentEvent is published after a payment is created or settles.
type PaymentEvent struct {
	OrderID       string              `json:"order_id"`
	Status        model.PaymentStatus `json:"status"`
	TransactionID string              `json:"transaction_id,omitempty"`
	Method        model.PaymentMethod `json:"method"`
	OccurredAt    time.Time           `json:"occurred_at"`
}

// EventPublisher notifies interested services of payment state changes.
// Publishing is fire-and-forget; a failure never blocks a transition.
type EventPublisher interface {
	PublishPaymentEvent(ctx context.Context, event PaymentEvent) error
}

// ReconciliationService owns the payment state machine. It is the only writer
// of status, transaction id, completion timestamp and error message; both
// rails request transitions through it, which is what keeps duplicate and
// racing deliveries from double-crediting an order.
type ReconciliationService struct {
	paymentRepo repository.PaymentRepository
	publisher   EventPublisher
	logger      *zap.Logger
}

// NewReconciliationService creates the state machine authority. publisher may
// be nil when event publishing is disabled.
func NewReconciliationService(
	paymentRepo repository.PaymentRepository,
	publisher EventPublisher,
	logger *zap.Logger,
) *ReconciliationService {
	return &ReconciliationService{
		paymentRepo: paymentRepo,
		publisher:   publisher,
		logger:      logger,
	}
}

// CreatePayment persists a new PENDING payment for the order. At most one
// non-FAILED payment may exist per order id at a time.
func (s *ReconciliationService) CreatePayment(ctx context.Context, req *dto.CreatePaymentRequest, method model.PaymentMethod) (*model.Payment, error) {
	if req == nil {
		return nil, errors.New("payment request is required")
	}
	if req.Amount.Sign() <= 0 {
		return nil, errors.New("payment amount must be positive")
	}

	existing, err := s.paymentRepo.FindByOrderID(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.Status != model.StatusFailed {
		return nil, domainErrors.ErrDuplicateOrder
	}

	payment := &model.Payment{
		OrderID:   req.OrderID,
		Method:    method,
		Status:    model.StatusPending,
		Amount:    req.Amount,
		OrderInfo: req.OrderInfo,
	}
	if req.UserID != "" {
		payment.UserID = &req.UserID
	}
	if req.ExtraData != "" {
		payment.ExtraData = &req.ExtraData
	}

	saved, err := s.paymentRepo.Save(ctx, payment)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Payment created",
		zap.String("order_id", saved.OrderID),
		zap.String("method", string(method)),
		zap.String("amount", saved.Amount.String()))

	s.publish(ctx, saved, "")
	return saved, nil
}

// TransitionToSuccess settles a pending payment. Repeated calls after the
// first success return the persisted record unchanged; the stored transaction
// id and completion timestamp are never overwritten. A FAILED order cannot
// later succeed without a new order.
func (s *ReconciliationService) TransitionToSuccess(ctx context.Context, orderID, transactionID string) (*model.Payment, error) {
	payment, err := s.findRequired(ctx, orderID)
	if err != nil {
		return nil, err
	}

	switch payment.Status {
	case model.StatusSuccess:
		s.logger.Info("Payment already settled, acknowledging",
			zap.String("order_id", orderID))
		return payment, nil
	case model.StatusFailed:
		return nil, domainErrors.ErrTerminalStateConflict
	}

	now := time.Now()
	applied, err := s.paymentRepo.UpdateIfPending(ctx, orderID, map[string]interface{}{
		"status":         model.StatusSuccess,
		"transaction_id": transactionID,
		"completed_at":   now,
	})
	if err != nil {
		return nil, err
	}

	if !applied {
		// Lost the race against a concurrent delivery; observe the winner.
		return s.resolveRace(ctx, orderID, model.StatusSuccess)
	}

	payment.Status = model.StatusSuccess
	payment.TransactionID = &transactionID
	payment.CompletedAt = &now
	payment.UpdatedAt = now

	s.logger.Info("Payment settled",
		zap.String("order_id", orderID),
		zap.String("transaction_id", transactionID))

	s.publish(ctx, payment, transactionID)
	return payment, nil
}

// TransitionToFailure marks a pending payment FAILED with the given reason.
// It is idempotent against FAILED and rejects settled orders.
func (s *ReconciliationService) TransitionToFailure(ctx context.Context, orderID, reason string) (*model.Payment, error) {
	payment, err := s.findRequired(ctx, orderID)
	if err != nil {
		return nil, err
	}

	switch payment.Status {
	case model.StatusFailed:
		s.logger.Info("Payment already failed, acknowledging",
			zap.String("order_id", orderID))
		return payment, nil
	case model.StatusSuccess:
		return nil, domainErrors.ErrTerminalStateConflict
	}

	applied, err := s.paymentRepo.UpdateIfPending(ctx, orderID, map[string]interface{}{
		"status":        model.StatusFailed,
		"error_message": reason,
	})
	if err != nil {
		return nil, err
	}

	if !applied {
		return s.resolveRace(ctx, orderID, model.StatusFailed)
	}

	payment.Status = model.StatusFailed
	payment.ErrorMessage = &reason
	payment.UpdatedAt = time.Now()

	s.logger.Info("Payment failed",
		zap.String("order_id", orderID),
		zap.String("reason", reason))

	s.publish(ctx, payment, "")
	return payment, nil
}

// Get returns the payment for an order without touching external systems.
func (s *ReconciliationService) Get(ctx context.Context, orderID string) (*model.Payment, error) {
	return s.findRequired(ctx, orderID)
}

// AttachPaymentURL stores the checkout URL built by a rail after creation.
func (s *ReconciliationService) AttachPaymentURL(ctx context.Context, orderID, url string) (*model.Payment, error) {
	applied, err := s.paymentRepo.UpdateIfPending(ctx, orderID, map[string]interface{}{
		"payment_url": url,
	})
	if err != nil {
		return nil, err
	}
	if !applied {
		s.logger.Warn("Payment settled before URL could be attached",
			zap.String("order_id", orderID))
	}
	return s.findRequired(ctx, orderID)
}

// ListUserPayments returns a user's payments, optionally filtered by status.
func (s *ReconciliationService) ListUserPayments(ctx context.Context, userID string, status model.PaymentStatus) ([]*model.Payment, error) {
	if userID == "" {
		return nil, errors.New("user ID is required")
	}
	if status == "" {
		return s.paymentRepo.FindByUserID(ctx, userID)
	}
	return s.paymentRepo.FindByUserIDAndStatus(ctx, userID, status)
}

func (s *ReconciliationService) findRequired(ctx context.Context, orderID string) (*model.Payment, error) {
	payment, err := s.paymentRepo.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, domainErrors.ErrPaymentNotFound
	}
	return payment, nil
}

// resolveRace re-reads after a conditional update changed no rows. If the
// record ended up in the desired state, another delivery won and this one is
// acknowledged; any other terminal state is a conflict.
func (s *ReconciliationService) resolveRace(ctx context.Context, orderID string, desired model.PaymentStatus) (*model.Payment, error) {
	payment, err := s.findRequired(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if payment.Status == desired {
		return payment, nil
	}
	return nil, domainErrors.ErrTerminalStateConflict
}

func (s *ReconciliationService) publish(ctx context.Context, payment *model.Payment, transactionID string) {
	if s.publisher == nil {
		return
	}

	event := PaymentEvent{
		OrderID:       payment.OrderID,
		Status:        payment.Status,
		TransactionID: transactionID,
		Method:        payment.Method,
		OccurredAt:    time.Now(),
	}

	if err := s.publisher.PublishPaymentEvent(ctx, event); err != nil {
		s.logger.Warn("Failed to publish payment event",
			zap.String("order_id", payment.OrderID),
			zap.Error(err))
	}
}
