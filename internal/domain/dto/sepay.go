package dto

import "github.com/shopspring/decimal"

// SePayTransferInfo is the webhook claim SePay posts when a bank transfer
// arrives. The claim carries no cryptographic proof of authenticity;
// correctness rests on correlation and amount verification downstream.
type SePayTransferInfo struct {
	ID              int64           `json:"id"`
	TransactionDate string          `json:"transactionDate"`
	AccountNumber   string          `json:"accountNumber"`
	Code            string          `json:"code"`
	Content         string          `json:"content"`
	TransferAmount  decimal.Decimal `json:"transferAmount"`
	ReferenceNumber string          `json:"referenceNumber"`
	Body            string          `json:"body"`
	GateName        string          `json:"gateName"`
}
