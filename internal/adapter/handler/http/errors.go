package http

import (
	"errors"

	"github.com/labstack/echo/v4"

	domainErrors "github.com/dormdeli/payment-service/internal/domain/errors"
	pkgErrors "github.com/dormdeli/payment-service/pkg/errors"
)

// errorCode maps a domain error to its boundary code.
func errorCode(err error) string {
	switch {
	case errors.Is(err, domainErrors.ErrDuplicateOrder):
		return pkgErrors.ErrDuplicateOrder
	case errors.Is(err, domainErrors.ErrPaymentNotFound):
		return pkgErrors.ErrNotFound
	case errors.Is(err, domainErrors.ErrSignatureInvalid):
		return pkgErrors.ErrSignatureInvalid
	case errors.Is(err, domainErrors.ErrInsufficientAmount):
		return pkgErrors.ErrInsufficientAmount
	case errors.Is(err, domainErrors.ErrTerminalStateConflict):
		return pkgErrors.ErrTerminalStateConflict
	case errors.Is(err, domainErrors.ErrEmptyTransferContent):
		return pkgErrors.ErrInvalidArgument
	default:
		return pkgErrors.ErrInternal
	}
}

// errorResponse writes a JSON error body with the semantic code and the
// matching HTTP status.
func errorResponse(c echo.Context, err error) error {
	code := errorCode(err)
	return c.JSON(pkgErrors.ToHTTPStatus(code), echo.Map{
		"status":  "error",
		"code":    code,
		"message": err.Error(),
	})
}
