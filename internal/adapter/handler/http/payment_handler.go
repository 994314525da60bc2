package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/dormdeli/payment-service/internal/domain/dto"
	"github.com/dormdeli/payment-service/internal/domain/model"
	"github.com/dormdeli/payment-service/internal/middleware/auth"
	"github.com/dormdeli/payment-service/internal/usecase"
)

type PaymentHandler struct {
	sepayService *usecase.SePayService
	engine       *usecase.ReconciliationService
	logger       *zap.Logger
}

func NewPaymentHandler(sepayService *usecase.SePayService, engine *usecase.ReconciliationService, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		sepayService: sepayService,
		engine:       engine,
		logger:       logger,
	}
}

// CreatePayment creates a bank-transfer payment and returns the QR descriptor.
// POST /api/payment/create
func (h *PaymentHandler) CreatePayment(c echo.Context) error {
	var req dto.CreatePaymentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if req.Amount.Sign() <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Amount must be positive"})
	}

	h.logger.Info("Creating SePay payment", zap.String("order_id", req.OrderID))

	resp, err := h.sepayService.CreatePayment(c.Request().Context(), &req)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, resp)
}

// GetPaymentStatus returns the payment for an order. With ?reconcile=true, a
// still-pending payment is first checked against the bank ledger.
// GET /api/payment/status/:orderId
func (h *PaymentHandler) GetPaymentStatus(c echo.Context) error {
	orderID := c.Param("orderId")

	var (
		payment *model.Payment
		err     error
	)
	if c.QueryParam("reconcile") == "true" {
		payment, err = h.sepayService.ReconcilePending(c.Request().Context(), orderID)
	} else {
		payment, err = h.sepayService.GetPayment(c.Request().Context(), orderID)
	}
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, payment)
}

// ConfirmPayment manually settles a pending payment.
// POST /api/payment/confirm/:orderId
func (h *PaymentHandler) ConfirmPayment(c echo.Context) error {
	orderID := c.Param("orderId")

	var req dto.ConfirmPaymentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request body"})
	}

	h.logger.Info("Manually confirming payment", zap.String("order_id", orderID))

	payment, err := h.sepayService.ManualConfirm(c.Request().Context(), orderID, req.TransactionID)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"status":         "success",
		"message":        "Payment confirmed successfully",
		"order_id":       payment.OrderID,
		"transaction_id": payment.TransactionID,
	})
}

// GetUserPayments lists the authenticated user's payments, optionally
// filtered by status.
// GET /api/payments
func (h *PaymentHandler) GetUserPayments(c echo.Context) error {
	user, err := auth.RequireAuth(c)
	if err != nil {
		return err // RequireAuth already returns the JSON error response
	}

	status := model.PaymentStatus(c.QueryParam("status"))

	payments, err := h.engine.ListUserPayments(c.Request().Context(), user.UserID, status)
	if err != nil {
		h.logger.Error("Failed to list user payments",
			zap.String("user_id", user.UserID),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to get payments"})
	}

	return c.JSON(http.StatusOK, payments)
}
