package http

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/dormdeli/payment-service/internal/domain/dto"
	"github.com/dormdeli/payment-service/internal/usecase"
)

type VNPayHandler struct {
	vnpayService *usecase.VNPayService
	logger       *zap.Logger
}

func NewVNPayHandler(vnpayService *usecase.VNPayService, logger *zap.Logger) *VNPayHandler {
	return &VNPayHandler{
		vnpayService: vnpayService,
		logger:       logger,
	}
}

// CreatePayment creates a VNPay payment and returns the signed checkout URL.
// POST /api/payment/vnpay/create
func (h *VNPayHandler) CreatePayment(c echo.Context) error {
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

	h.logger.Info("Creating VNPay payment", zap.String("order_id", req.OrderID))

	resp, err := h.vnpayService.CreatePayment(c.Request().Context(), &req, clientIP(c))
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, resp)
}

// HandleReturn processes the payer redirect back from the gateway.
// GET /api/payment/vnpay/return
func (h *VNPayHandler) HandleReturn(c echo.Context) error {
	params := queryParams(c)

	payment, err := h.vnpayService.HandleCallback(c.Request().Context(), params)
	responseCode := params["vnp_ResponseCode"]

	if err != nil {
		h.logger.Warn("VNPay return rejected",
			zap.String("order_id", params["vnp_TxnRef"]),
			zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"order_id":      params["vnp_TxnRef"],
			"success":       false,
			"response_code": responseCode,
			"code":          errorCode(err),
			"message":       "Payment failed or invalid signature",
		})
	}

	success := responseCode == "00"
	body := echo.Map{
		"order_id":      payment.OrderID,
		"success":       success,
		"response_code": responseCode,
	}
	if success {
		body["message"] = "Payment successful"
		return c.JSON(http.StatusOK, body)
	}
	body["message"] = "Payment failed"
	return c.JSON(http.StatusBadRequest, body)
}

// HandleIPN processes the gateway's server-to-server notification. The
// gateway expects a 200 with its RspCode convention either way.
// GET /api/payment/vnpay/ipn
func (h *VNPayHandler) HandleIPN(c echo.Context) error {
	params := queryParams(c)

	_, err := h.vnpayService.HandleCallback(c.Request().Context(), params)
	if err == nil && params["vnp_ResponseCode"] == "00" {
		return c.JSON(http.StatusOK, echo.Map{
			"RspCode": "00",
			"Message": "Confirm Success",
		})
	}

	if err != nil {
		h.logger.Warn("VNPay IPN rejected",
			zap.String("order_id", params["vnp_TxnRef"]),
			zap.Error(err))
	}
	return c.JSON(http.StatusOK, echo.Map{
		"RspCode": "99",
		"Message": "Confirm Fail",
	})
}

// GetPaymentStatus returns the payment for a VNPay order.
// GET /api/payment/vnpay/status/:orderId
func (h *VNPayHandler) GetPaymentStatus(c echo.Context) error {
	payment, err := h.vnpayService.GetPayment(c.Request().Context(), c.Param("orderId"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, payment)
}

func queryParams(c echo.Context) map[string]string {
	params := make(map[string]string)
	for key, values := range c.QueryParams() {
		if len(values) > 0 {
			params[key] = values[0]
		}
	}
	return params
}

// clientIP resolves the originating address behind proxies.
func clientIP(c echo.Context) string {
	ip := c.Request().Header.Get("X-Forwarded-For")
	if ip == "" || strings.EqualFold(ip, "unknown") {
		ip = c.Request().Header.Get("X-Real-IP")
	}
	if ip == "" || strings.EqualFold(ip, "unknown") {
		ip = c.RealIP()
	}
	// A forwarded chain lists the client first.
	if idx := strings.Index(ip, ","); idx >= 0 {
		ip = strings.TrimSpace(ip[:idx])
	}
	if ip == "" {
		ip = "127.0.0.1"
	}
	return ip
}
