package vnpay

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"net/url"
	"sort"
	"strings"
)

const (
	// SecureHashParam carries the signature on callback requests.
	SecureHashParam = "vnp_SecureHash"
	// SecureHashTypeParam is stripped before verification, never signed.
	SecureHashTypeParam = "vnp_SecureHashType"
)

// Canonicalize renders a parameter set into the string that gets signed.
// Empty values are dropped entirely, remaining keys are sorted bytewise and
// each key and value is percent-encoded. The gateway recomputes the hash over
// the exact same rendering, so build and verify must both go through here.
func Canonicalize(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k, v := range params {
		if v == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(k))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(params[k]))
	}
	return b.String()
}

// Sign computes the hex-encoded HMAC-SHA512 of data under the given secret.
func Sign(secret, data string) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write([]byte(data))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify strips the hash fields from params, recomputes the signature and
// compares it against providedHash. The comparison is constant-time and
// case-insensitive since the gateway hex-encodes in either case.
func Verify(secret string, params map[string]string, providedHash string) bool {
	if providedHash == "" {
		return false
	}

	filtered := make(map[string]string, len(params))
	for k, v := range params {
		if k == SecureHashParam || k == SecureHashTypeParam {
			continue
		}
		filtered[k] = v
	}

	expected := Sign(secret, Canonicalize(filtered))
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(providedHash)))
}
