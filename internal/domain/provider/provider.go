package provider

import (
	"context"

	"github.com/shopspring/decimal"
)

// RedirectGateway is the counterparty of the gateway-redirect rail. It builds
// signed outbound payment URLs and verifies the signature of inbound
// callbacks. Build and verify must share one canonicalization, since the
// counterparty recomputes the hash the same way.
type RedirectGateway interface {
	// BuildPaymentURL creates a signed checkout URL for the given order.
	BuildPaymentURL(req *PaymentURLRequest) (string, error)

	// VerifyCallback recomputes the signature over the callback parameters
	// and compares it against the provided hash fields.
	VerifyCallback(params map[string]string) bool
}

// PaymentURLRequest carries the order fields that go into a signed payment URL.
type PaymentURLRequest struct {
	OrderID   string
	Amount    decimal.Decimal
	OrderInfo string
	ClientIP  string
}

// LedgerClient queries the bank ledger behind the notification rail. It is a
// best-effort reconciliation aid, not authoritative; callers bound it with a
// timeout and treat failures as transient.
type LedgerClient interface {
	ListRecentTransactions(ctx context.Context, limit int) ([]LedgerTransaction, error)
}

// LedgerTransaction is one inbound bank-ledger entry.
type LedgerTransaction struct {
	Content         string          `json:"transaction_content"`
	AmountIn        decimal.Decimal `json:"amount_in"`
	ReferenceNumber string          `json:"reference_number"`
}
