package usecase

import (
	"context"

	"go.uber.org/zap"

	"github.com/dormdeli/payment-service/internal/domain/dto"
	domainErrors "github.com/dormdeli/payment-service/internal/domain/errors"
	"github.com/dormdeli/payment-service/internal/domain/model"
	"github.com/dormdeli/payment-service/internal/domain/provider"
)

// Callback parameter names defined by the VNPay gateway.
const (
	paramTxnRef        = "vnp_TxnRef"
	paramResponseCode  = "vnp_ResponseCode"
	paramTransactionNo = "vnp_TransactionNo"

	successResponseCode = "00"
)

// VNPayService is the gateway-redirect rail: it creates payments with a
// signed checkout URL and settles them from signed callbacks.
type VNPayService struct {
	engine  *ReconciliationService
	gateway provider.RedirectGateway
	logger  *zap.Logger
}

// NewVNPayService creates the redirect rail service.
func NewVNPayService(engine *ReconciliationService, gateway provider.RedirectGateway, logger *zap.Logger) *VNPayService {
	return &VNPayService{
		engine:  engine,
		gateway: gateway,
		logger:  logger,
	}
}

// CreatePayment registers a PENDING payment and returns the signed gateway
// checkout URL for the payer to be redirected to.
func (s *VNPayService) CreatePayment(ctx context.Context, req *dto.CreatePaymentRequest, clientIP string) (*dto.PaymentResponse, error) {
	payment, err := s.engine.CreatePayment(ctx, req, model.MethodVNPay)
	if err != nil {
		return nil, err
	}

	paymentURL, err := s.gateway.BuildPaymentURL(&provider.PaymentURLRequest{
		OrderID:   req.OrderID,
		Amount:    req.Amount,
		OrderInfo: req.OrderInfo,
		ClientIP:  clientIP,
	})
	if err != nil {
		return nil, err
	}

	if _, err := s.engine.AttachPaymentURL(ctx, payment.OrderID, paymentURL); err != nil {
		return nil, err
	}

	return &dto.PaymentResponse{
		OrderID:    payment.OrderID,
		PaymentURL: paymentURL,
		Status:     model.StatusPending,
		Amount:     payment.Amount,
		Message:    "VNPay payment URL created successfully",
	}, nil
}

// HandleCallback processes a signed gateway callback. An invalid signature is
// rejected before any lookup, so an unauthenticated claim can never move a
// payment. Replays are absorbed by the engine's idempotent transitions.
func (s *VNPayService) HandleCallback(ctx context.Context, params map[string]string) (*model.Payment, error) {
	if !s.gateway.VerifyCallback(params) {
		s.logger.Warn("Invalid VNPay callback signature",
			zap.String("order_id", params[paramTxnRef]))
		return nil, domainErrors.ErrSignatureInvalid
	}

	orderID := params[paramTxnRef]
	if orderID == "" {
		return nil, domainErrors.ErrPaymentNotFound
	}

	responseCode := params[paramResponseCode]
	if responseCode == successResponseCode {
		return s.engine.TransitionToSuccess(ctx, orderID, params[paramTransactionNo])
	}

	return s.engine.TransitionToFailure(ctx, orderID, "VNPay response code: "+responseCode)
}

// GetPayment returns the payment for an order.
func (s *VNPayService) GetPayment(ctx context.Context, orderID string) (*model.Payment, error) {
	return s.engine.Get(ctx, orderID)
}
