package vnpay_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dormdeli/payment-service/internal/infrastructure/provider/vnpay"
)

const testSecret = "VNPAYSECRET"

func callbackParams() map[string]string {
	return map[string]string{
		"vnp_Amount":        "10000000",
		"vnp_TxnRef":        "ORD1001",
		"vnp_ResponseCode":  "00",
		"vnp_TransactionNo": "14226112",
		"vnp_OrderInfo":     "Thanh toan don hang ORD1001",
	}
}

func signedParams(t *testing.T, params map[string]string) map[string]string {
	t.Helper()
	signed := make(map[string]string, len(params)+1)
	for k, v := range params {
		signed[k] = v
	}
	signed[vnpay.SecureHashParam] = vnpay.Sign(testSecret, vnpay.Canonicalize(params))
	return signed
}

func TestCanonicalize(t *testing.T) {
	t.Run("sorts keys bytewise", func(t *testing.T) {
		got := vnpay.Canonicalize(map[string]string{
			"vnp_TxnRef": "ORD1001",
			"vnp_Amount": "100",
		})
		assert.Equal(t, "vnp_Amount=100&vnp_TxnRef=ORD1001", got)
	})

	t.Run("drops empty values", func(t *testing.T) {
		got := vnpay.Canonicalize(map[string]string{
			"vnp_Amount":    "100",
			"vnp_OrderInfo": "",
		})
		assert.Equal(t, "vnp_Amount=100", got)
	})

	t.Run("percent-encodes keys and values", func(t *testing.T) {
		got := vnpay.Canonicalize(map[string]string{
			"vnp_OrderInfo": "don hang #1",
		})
		assert.Equal(t, "vnp_OrderInfo=don+hang+%231", got)
	})
}

func TestVerify(t *testing.T) {
	t.Run("accepts signature over same params", func(t *testing.T) {
		signed := signedParams(t, callbackParams())
		assert.True(t, vnpay.Verify(testSecret, signed, signed[vnpay.SecureHashParam]))
	})

	t.Run("accepts uppercase hex signature", func(t *testing.T) {
		signed := signedParams(t, callbackParams())
		upper := strings.ToUpper(signed[vnpay.SecureHashParam])
		assert.True(t, vnpay.Verify(testSecret, signed, upper))
	})

	t.Run("ignores hash type field", func(t *testing.T) {
		signed := signedParams(t, callbackParams())
		signed[vnpay.SecureHashTypeParam] = "HMACSHA512"
		assert.True(t, vnpay.Verify(testSecret, signed, signed[vnpay.SecureHashParam]))
	})

	t.Run("rejects modified parameter", func(t *testing.T) {
		signed := signedParams(t, callbackParams())
		signed["vnp_Amount"] = "1"
		assert.False(t, vnpay.Verify(testSecret, signed, signed[vnpay.SecureHashParam]))
	})

	t.Run("rejects wrong secret", func(t *testing.T) {
		signed := signedParams(t, callbackParams())
		assert.False(t, vnpay.Verify("other-secret", signed, signed[vnpay.SecureHashParam]))
	})

	t.Run("rejects single flipped signature character", func(t *testing.T) {
		signed := signedParams(t, callbackParams())
		hash := signed[vnpay.SecureHashParam]
		flipped := "0" + hash[1:]
		if hash[0] == '0' {
			flipped = "1" + hash[1:]
		}
		assert.False(t, vnpay.Verify(testSecret, signed, flipped))
	})

	t.Run("rejects empty signature", func(t *testing.T) {
		assert.False(t, vnpay.Verify(testSecret, callbackParams(), ""))
	})
}
