package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/dormdeli/payment-service/internal/domain/dto"
	"github.com/dormdeli/payment-service/internal/usecase"
)

type WebhookHandler struct {
	sepayService *usecase.SePayService
	logger       *zap.Logger
}

func NewWebhookHandler(sepayService *usecase.SePayService, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		sepayService: sepayService,
		logger:       logger,
	}
}

// HandleWebhook processes a SePay transfer notification. Upstream retries the
// delivery on timeout, so the same claim may arrive more than once; the
// reconciliation engine absorbs the duplicates.
// POST /api/payment/webhook
func (h *WebhookHandler) HandleWebhook(c echo.Context) error {
	var info dto.SePayTransferInfo
	if err := c.Bind(&info); err != nil {
		h.logger.Error("Failed to parse webhook body", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"status":  "error",
			"message": "Invalid webhook body",
		})
	}

	h.logger.Info("Webhook received",
		zap.String("reference_number", info.ReferenceNumber),
		zap.String("gate_name", info.GateName),
		zap.String("transfer_amount", info.TransferAmount.String()))

	payment, err := h.sepayService.HandleWebhook(c.Request().Context(), &info)
	if err != nil {
		h.logger.Warn("Webhook rejected",
			zap.String("reference_number", info.ReferenceNumber),
			zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"status":  "error",
			"code":    errorCode(err),
			"message": "Failed to process payment",
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"status":   "success",
		"message":  "Payment processed successfully",
		"order_id": payment.OrderID,
	})
}
