package usecase

import (
	"regexp"
	"strings"

	domainErrors "github.com/dormdeli/payment-service/internal/domain/errors"
)

var orderTokenPattern = regexp.MustCompile(`^(ORDER|ORD)\d+$`)

// ExtractOrderID recovers an order id from a free-text transfer note. The
// first whitespace-separated token matching the order-id pattern wins; when no
// token matches, the whole trimmed note is the candidate. Banks mangle
// transfer notes freely, so the fallback is deliberate.
func ExtractOrderID(content string) (string, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return "", domainErrors.ErrEmptyTransferContent
	}

	for _, token := range strings.Fields(trimmed) {
		if orderTokenPattern.MatchString(token) {
			return token, nil
		}
	}

	return trimmed, nil
}
