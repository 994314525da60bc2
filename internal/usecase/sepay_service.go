package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/dormdeli/payment-service/internal/domain/dto"
	domainErrors "github.com/dormdeli/payment-service/internal/domain/errors"
	"github.com/dormdeli/payment-service/internal/domain/model"
	"github.com/dormdeli/payment-service/internal/domain/provider"
)

const (
	ledgerQueryLimit   = 50
	ledgerQueryTimeout = 10 * time.Second
)

// QRBuilder renders the transfer-target descriptor (a QR image URL) shown to
// the payer on the bank-transfer rail.
type QRBuilder interface {
	QRImageURL(orderID string, amount decimal.Decimal) string
}

// SePayService is the bank-transfer notification rail. The inbound webhook
// has no cryptographic proof of authenticity; correctness rests on note
// correlation plus amount verification, with the engine absorbing duplicates.
type SePayService struct {
	engine *ReconciliationService
	ledger provider.LedgerClient
	qr     QRBuilder
	logger *zap.Logger
}

// NewSePayService creates the notification rail service.
func NewSePayService(engine *ReconciliationService, ledger provider.LedgerClient, qr QRBuilder, logger *zap.Logger) *SePayService {
	return &SePayService{
		engine: engine,
		ledger: ledger,
		qr:     qr,
		logger: logger,
	}
}

// CreatePayment registers a PENDING payment and returns a QR image URL whose
// transfer note carries the order id verbatim so it can be recovered later.
func (s *SePayService) CreatePayment(ctx context.Context, req *dto.CreatePaymentRequest) (*dto.PaymentResponse, error) {
	payment, err := s.engine.CreatePayment(ctx, req, model.MethodSePay)
	if err != nil {
		return nil, err
	}

	qrURL := s.qr.QRImageURL(payment.OrderID, payment.Amount)
	if _, err := s.engine.AttachPaymentURL(ctx, payment.OrderID, qrURL); err != nil {
		return nil, err
	}

	return &dto.PaymentResponse{
		OrderID:    payment.OrderID,
		PaymentURL: qrURL,
		Status:     model.StatusPending,
		Amount:     payment.Amount,
		Message:    "Scan QR code to pay via bank transfer",
	}, nil
}

// HandleWebhook correlates an inbound transfer claim to a pending order and
// settles it when the transferred amount covers what is owed. Duplicate
// deliveries of an already-settled order are acknowledged without re-touching
// the record.
func (s *SePayService) HandleWebhook(ctx context.Context, info *dto.SePayTransferInfo) (*model.Payment, error) {
	orderID, err := ExtractOrderID(info.Content)
	if err != nil {
		s.logger.Warn("Could not extract order id from transfer content",
			zap.String("reference_number", info.ReferenceNumber))
		return nil, err
	}

	payment, err := s.engine.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if payment.Status == model.StatusSuccess {
		s.logger.Info("Duplicate webhook for settled payment, acknowledging",
			zap.String("order_id", orderID))
		return payment, nil
	}

	if info.TransferAmount.LessThan(payment.Amount) {
		s.logger.Warn("Transfer amount below amount owed",
			zap.String("order_id", orderID),
			zap.String("transferred", info.TransferAmount.String()),
			zap.String("owed", payment.Amount.String()))

		if _, failErr := s.engine.TransitionToFailure(ctx, orderID, domainErrors.ErrInsufficientAmount.Error()); failErr != nil {
			s.logger.Error("Failed to mark underpaid order",
				zap.String("order_id", orderID),
				zap.Error(failErr))
		}
		return nil, domainErrors.ErrInsufficientAmount
	}

	return s.engine.TransitionToSuccess(ctx, orderID, info.ReferenceNumber)
}

// ReconcilePending is the pull-based fallback for orders still PENDING: it
// scans recent ledger entries for a transfer whose note contains the order id
// and settles under the same amount policy as the webhook path. The ledger is
// advisory; a query failure leaves the order PENDING for a later retry.
func (s *SePayService) ReconcilePending(ctx context.Context, orderID string) (*model.Payment, error) {
	payment, err := s.engine.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if payment.Status != model.StatusPending {
		return payment, nil
	}

	queryCtx, cancel := context.WithTimeout(ctx, ledgerQueryTimeout)
	defer cancel()

	transactions, err := s.ledger.ListRecentTransactions(queryCtx, ledgerQueryLimit)
	if err != nil {
		s.logger.Warn("Ledger query failed, leaving payment pending",
			zap.String("order_id", orderID),
			zap.Error(err))
		return payment, nil
	}

	for _, txn := range transactions {
		if !strings.Contains(txn.Content, orderID) {
			continue
		}
		if txn.AmountIn.GreaterThanOrEqual(payment.Amount) {
			s.logger.Info("Matched pending payment against ledger",
				zap.String("order_id", orderID),
				zap.String("reference_number", txn.ReferenceNumber))
			return s.engine.TransitionToSuccess(ctx, orderID, txn.ReferenceNumber)
		}
	}

	return payment, nil
}

// ManualConfirm settles a pending payment by operator action, generating a
// reference when none is supplied. Exposed only on non-production setups.
func (s *SePayService) ManualConfirm(ctx context.Context, orderID, transactionID string) (*model.Payment, error) {
	if transactionID == "" {
		transactionID = fmt.Sprintf("MANUAL_%d", time.Now().UnixMilli())
	}
	return s.engine.TransitionToSuccess(ctx, orderID, transactionID)
}

// GetPayment returns the payment for an order without querying the ledger.
func (s *SePayService) GetPayment(ctx context.Context, orderID string) (*model.Payment, error) {
	return s.engine.Get(ctx, orderID)
}
