package dto

import (
	"github.com/shopspring/decimal"

	"github.com/dormdeli/payment-service/internal/domain/model"
)

// CreatePaymentRequest is the inbound create-payment shape for both rails.
type CreatePaymentRequest struct {
	OrderID   string          `json:"order_id" validate:"required"`
	Amount    decimal.Decimal `json:"amount" validate:"required"`
	OrderInfo string          `json:"order_info" validate:"required"`
	UserID    string          `json:"user_id,omitempty"`
	ExtraData string          `json:"extra_data,omitempty"`
}

// PaymentResponse is returned from create-payment operations.
type PaymentResponse struct {
	OrderID       string              `json:"order_id,omitempty"`
	TransactionID string              `json:"transaction_id,omitempty"`
	PaymentURL    string              `json:"payment_url,omitempty"`
	Status        model.PaymentStatus `json:"status"`
	Amount        decimal.Decimal     `json:"amount"`
	Message       string              `json:"message"`
}

// ConfirmPaymentRequest is the manual-confirm shape.
type ConfirmPaymentRequest struct {
	TransactionID string `json:"transaction_id,omitempty"`
}
