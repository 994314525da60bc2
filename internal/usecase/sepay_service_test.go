package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dormdeli/payment-service/internal/domain/dto"
	domainErrors "github.com/dormdeli/payment-service/internal/domain/errors"
	"github.com/dormdeli/payment-service/internal/domain/model"
	"github.com/dormdeli/payment-service/internal/domain/provider"
	"github.com/dormdeli/payment-service/internal/usecase"
)

type fakeLedger struct {
	transactions []provider.LedgerTransaction
	err          error
	calls        int
}

func (l *fakeLedger) ListRecentTransactions(_ context.Context, _ int) ([]provider.LedgerTransaction, error) {
	l.calls++
	if l.err != nil {
		return nil, l.err
	}
	return l.transactions, nil
}

type fakeQRBuilder struct{}

func (fakeQRBuilder) QRImageURL(orderID string, amount decimal.Decimal) string {
	return "https://img.vietqr.io/image/TEST-123-compact.png?amount=" + amount.String() + "&addInfo=" + orderID
}

func newSePayFixture(t *testing.T) (*usecase.SePayService, *usecase.ReconciliationService, *fakeLedger) {
	t.Helper()
	engine, _, _ := newTestEngine(t)
	ledger := &fakeLedger{}
	service := usecase.NewSePayService(engine, ledger, fakeQRBuilder{}, zap.NewNop())
	return service, engine, ledger
}

func transferClaim(content string, amount int64, ref string) *dto.SePayTransferInfo {
	return &dto.SePayTransferInfo{
		ID:              1,
		Content:         content,
		TransferAmount:  decimal.NewFromInt(amount),
		ReferenceNumber: ref,
		GateName:        "MBBank",
	}
}

func TestSePayService_CreatePayment(t *testing.T) {
	ctx := context.Background()
	service, engine, _ := newSePayFixture(t)

	resp, err := service.CreatePayment(ctx, createRequest("ORD1001", 100000))
	require.NoError(t, err)

	assert.Equal(t, model.StatusPending, resp.Status)
	assert.Contains(t, resp.PaymentURL, "addInfo=ORD1001")

	payment, err := engine.Get(ctx, "ORD1001")
	require.NoError(t, err)
	require.NotNil(t, payment.PaymentURL)
	assert.Equal(t, resp.PaymentURL, *payment.PaymentURL)
}

func TestSePayService_HandleWebhook(t *testing.T) {
	ctx := context.Background()

	t.Run("settles order on matching transfer", func(t *testing.T) {
		service, _, _ := newSePayFixture(t)
		_, err := service.CreatePayment(ctx, createRequest("ORD1001", 100000))
		require.NoError(t, err)

		payment, err := service.HandleWebhook(ctx, transferClaim("Thanh toan ORD1001", 100000, "FT55"))
		require.NoError(t, err)

		assert.Equal(t, model.StatusSuccess, payment.Status)
		require.NotNil(t, payment.TransactionID)
		assert.Equal(t, "FT55", *payment.TransactionID)
	})

	t.Run("overpayment settles", func(t *testing.T) {
		service, _, _ := newSePayFixture(t)
		_, err := service.CreatePayment(ctx, createRequest("ORD1001", 100000))
		require.NoError(t, err)

		payment, err := service.HandleWebhook(ctx, transferClaim("ORD1001", 150000, "FT56"))
		require.NoError(t, err)
		assert.Equal(t, model.StatusSuccess, payment.Status)
	})

	t.Run("underpayment fails the order", func(t *testing.T) {
		service, engine, _ := newSePayFixture(t)
		_, err := service.CreatePayment(ctx, createRequest("ORD1001", 100000))
		require.NoError(t, err)

		claim := transferClaim("ORD1001", 0, "FT57")
		claim.TransferAmount = decimal.RequireFromString("99999.99")

		_, err = service.HandleWebhook(ctx, claim)
		assert.ErrorIs(t, err, domainErrors.ErrInsufficientAmount)

		payment, err := engine.Get(ctx, "ORD1001")
		require.NoError(t, err)
		assert.Equal(t, model.StatusFailed, payment.Status)
		require.NotNil(t, payment.ErrorMessage)
		assert.Equal(t, "insufficient amount transferred", *payment.ErrorMessage)
	})

	t.Run("duplicate delivery is acknowledged once settled", func(t *testing.T) {
		service, _, _ := newSePayFixture(t)
		_, err := service.CreatePayment(ctx, createRequest("ORD1001", 100000))
		require.NoError(t, err)

		first, err := service.HandleWebhook(ctx, transferClaim("ORD1001", 100000, "FT55"))
		require.NoError(t, err)

		second, err := service.HandleWebhook(ctx, transferClaim("ORD1001", 100000, "FT99"))
		require.NoError(t, err)

		require.NotNil(t, second.TransactionID)
		assert.Equal(t, *first.TransactionID, *second.TransactionID)
	})

	t.Run("blank transfer note is rejected", func(t *testing.T) {
		service, _, _ := newSePayFixture(t)

		_, err := service.HandleWebhook(ctx, transferClaim("   ", 100000, "FT55"))
		assert.ErrorIs(t, err, domainErrors.ErrEmptyTransferContent)
	})

	t.Run("whole note fallback when no token matches", func(t *testing.T) {
		service, _, _ := newSePayFixture(t)
		_, err := service.CreatePayment(ctx, createRequest("CUSTOM-REF-77", 100000))
		require.NoError(t, err)

		payment, err := service.HandleWebhook(ctx, transferClaim("  CUSTOM-REF-77  ", 100000, "FT58"))
		require.NoError(t, err)
		assert.Equal(t, model.StatusSuccess, payment.Status)
	})

	t.Run("unknown order", func(t *testing.T) {
		service, _, _ := newSePayFixture(t)

		_, err := service.HandleWebhook(ctx, transferClaim("ORD404", 100000, "FT55"))
		assert.ErrorIs(t, err, domainErrors.ErrPaymentNotFound)
	})
}

func TestSePayService_ReconcilePending(t *testing.T) {
	ctx := context.Background()

	t.Run("settles from matching ledger entry", func(t *testing.T) {
		service, _, ledger := newSePayFixture(t)
		_, err := service.CreatePayment(ctx, createRequest("ORD1001", 100000))
		require.NoError(t, err)

		ledger.transactions = []provider.LedgerTransaction{
			{Content: "unrelated transfer", AmountIn: decimal.NewFromInt(20000), ReferenceNumber: "FT10"},
			{Content: "Thanh toan ORD1001", AmountIn: decimal.NewFromInt(100000), ReferenceNumber: "FT11"},
		}

		payment, err := service.ReconcilePending(ctx, "ORD1001")
		require.NoError(t, err)
		assert.Equal(t, model.StatusSuccess, payment.Status)
		require.NotNil(t, payment.TransactionID)
		assert.Equal(t, "FT11", *payment.TransactionID)
	})

	t.Run("underpaid ledger entry leaves payment pending", func(t *testing.T) {
		service, _, ledger := newSePayFixture(t)
		_, err := service.CreatePayment(ctx, createRequest("ORD1001", 100000))
		require.NoError(t, err)

		ledger.transactions = []provider.LedgerTransaction{
			{Content: "ORD1001", AmountIn: decimal.NewFromInt(50000), ReferenceNumber: "FT12"},
		}

		payment, err := service.ReconcilePending(ctx, "ORD1001")
		require.NoError(t, err)
		assert.Equal(t, model.StatusPending, payment.Status)
	})

	t.Run("ledger failure is non-fatal", func(t *testing.T) {
		service, _, ledger := newSePayFixture(t)
		_, err := service.CreatePayment(ctx, createRequest("ORD1001", 100000))
		require.NoError(t, err)

		ledger.err = errors.New("upstream unavailable")

		payment, err := service.ReconcilePending(ctx, "ORD1001")
		require.NoError(t, err)
		assert.Equal(t, model.StatusPending, payment.Status)
	})

	t.Run("settled payment skips the ledger", func(t *testing.T) {
		service, engine, ledger := newSePayFixture(t)
		_, err := service.CreatePayment(ctx, createRequest("ORD1001", 100000))
		require.NoError(t, err)
		_, err = engine.TransitionToSuccess(ctx, "ORD1001", "FT55")
		require.NoError(t, err)

		payment, err := service.ReconcilePending(ctx, "ORD1001")
		require.NoError(t, err)
		assert.Equal(t, model.StatusSuccess, payment.Status)
		assert.Zero(t, ledger.calls)
	})
}

func TestSePayService_ManualConfirm(t *testing.T) {
	ctx := context.Background()

	t.Run("uses supplied transaction id", func(t *testing.T) {
		service, _, _ := newSePayFixture(t)
		_, err := service.CreatePayment(ctx, createRequest("ORD1001", 100000))
		require.NoError(t, err)

		payment, err := service.ManualConfirm(ctx, "ORD1001", "OPERATOR-1")
		require.NoError(t, err)
		require.NotNil(t, payment.TransactionID)
		assert.Equal(t, "OPERATOR-1", *payment.TransactionID)
	})

	t.Run("generates reference when none supplied", func(t *testing.T) {
		service, _, _ := newSePayFixture(t)
		_, err := service.CreatePayment(ctx, createRequest("ORD1001", 100000))
		require.NoError(t, err)

		payment, err := service.ManualConfirm(ctx, "ORD1001", "")
		require.NoError(t, err)
		require.NotNil(t, payment.TransactionID)
		assert.True(t, strings.HasPrefix(*payment.TransactionID, "MANUAL_"))
	})
}
