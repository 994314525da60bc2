package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod identifies which rail a payment settles through.
type PaymentMethod string

const (
	// MethodVNPay is the gateway-redirect rail with signed callbacks.
	MethodVNPay PaymentMethod = "VNPAY"
	// MethodSePay is the bank-transfer rail confirmed by webhook.
	MethodSePay PaymentMethod = "SEPAY"
)

// PaymentStatus is the payment lifecycle state. SUCCESS and FAILED are
// terminal; no transition may leave them.
type PaymentStatus string

const (
	StatusPending PaymentStatus = "PENDING"
	StatusSuccess PaymentStatus = "SUCCESS"
	StatusFailed  PaymentStatus = "FAILED"
)

// IsTerminal reports whether no further transition is permitted.
func (s PaymentStatus) IsTerminal() bool {
	return s == StatusSuccess || s == StatusFailed
}

// Payment is the sole durable entity of the reconciliation core.
type Payment struct {
	ID            string          `gorm:"primaryKey;size:36" json:"id"`
	OrderID       string          `gorm:"size:100;not null;index" json:"order_id"`
	TransactionID *string         `gorm:"size:100;index" json:"transaction_id,omitempty"`
	Method        PaymentMethod   `gorm:"size:20;not null" json:"method"`
	Status        PaymentStatus   `gorm:"size:20;not null;index" json:"status"`
	Amount        decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	OrderInfo     string          `gorm:"size:255" json:"order_info"`
	UserID        *string         `gorm:"size:100;index" json:"user_id,omitempty"`
	ExtraData     *string         `json:"extra_data,omitempty"`
	PaymentURL    *string         `json:"payment_url,omitempty"`
	ErrorMessage  *string         `json:"error_message,omitempty"`
	CreatedAt     time.Time       `gorm:"default:now()" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"default:now()" json:"updated_at"`
	CompletedAt   *time.Time      `json:"completed_at,omitempty"`
}

// TableName specifies the table name for GORM
func (Payment) TableName() string {
	return "payments"
}
