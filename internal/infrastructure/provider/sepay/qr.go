package sepay

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// QRImageURL renders a VietQR image URL for a bank transfer. The order id is
// placed verbatim in the transfer note so the webhook and ledger paths can
// recover it later.
func (c *Client) QRImageURL(orderID string, amount decimal.Decimal) string {
	return fmt.Sprintf(
		"https://img.vietqr.io/image/%s-%s-%s.png?amount=%d&addInfo=%s&accountName=%s",
		c.cfg.BankCode,
		c.cfg.AccountNumber,
		"compact",
		amount.IntPart(),
		orderID,
		strings.ReplaceAll(c.cfg.AccountName, " ", "%20"),
	)
}
