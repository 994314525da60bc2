package vnpay

import (
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/dormdeli/payment-service/internal/domain/provider"
)

const (
	currencyCode   = "VND"
	locale         = "vn"
	expiryDuration = 15 * time.Minute
	// timestampLayout is VNPay's yyyyMMddHHmmss convention.
	timestampLayout = "20060102150405"
	// gatewayTimezone is where the gateway validates expiry server-side.
	gatewayTimezone = "Asia/Ho_Chi_Minh"
)

// Config holds the merchant credentials and endpoints for the VNPay gateway.
type Config struct {
	TmnCode    string
	HashSecret string
	PayURL     string
	ReturnURL  string
	Version    string
	Command    string
	OrderType  string
}

// Gateway builds signed VNPay payment URLs and verifies inbound callbacks.
type Gateway struct {
	cfg    Config
	logger *zap.Logger
	loc    *time.Location
	now    func() time.Time
}

// NewGateway creates a VNPay gateway client.
func NewGateway(cfg Config, logger *zap.Logger) (*Gateway, error) {
	loc, err := time.LoadLocation(gatewayTimezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load gateway timezone: %w", err)
	}

	return &Gateway{
		cfg:    cfg,
		logger: logger,
		loc:    loc,
		now:    time.Now,
	}, nil
}

// BuildPaymentURL assembles the outbound parameter set, signs it and returns
// the checkout URL with the signature appended.
func (g *Gateway) BuildPaymentURL(req *provider.PaymentURLRequest) (string, error) {
	// Amount is sent in the gateway's minor unit, truncated to an integer.
	amount := req.Amount.Mul(decimal.NewFromInt(100)).IntPart()

	created := g.now().In(g.loc)
	expires := created.Add(expiryDuration)

	params := map[string]string{
		"vnp_Version":    g.cfg.Version,
		"vnp_Command":    g.cfg.Command,
		"vnp_TmnCode":    g.cfg.TmnCode,
		"vnp_Amount":     strconv.FormatInt(amount, 10),
		"vnp_CurrCode":   currencyCode,
		"vnp_TxnRef":     req.OrderID,
		"vnp_OrderInfo":  req.OrderInfo,
		"vnp_OrderType":  g.cfg.OrderType,
		"vnp_Locale":     locale,
		"vnp_ReturnUrl":  g.cfg.ReturnURL,
		"vnp_IpAddr":     req.ClientIP,
		"vnp_CreateDate": created.Format(timestampLayout),
		"vnp_ExpireDate": expires.Format(timestampLayout),
	}

	canonical := Canonicalize(params)
	signature := Sign(g.cfg.HashSecret, canonical)

	g.logger.Debug("Built VNPay payment URL",
		zap.String("order_id", req.OrderID),
		zap.Int64("amount_minor", amount),
		zap.String("create_date", params["vnp_CreateDate"]))

	return g.cfg.PayURL + "?" + canonical + "&" + SecureHashParam + "=" + signature, nil
}

// VerifyCallback reports whether the callback parameters carry a valid
// signature under the shared secret.
func (g *Gateway) VerifyCallback(params map[string]string) bool {
	return Verify(g.cfg.HashSecret, params, params[SecureHashParam])
}
