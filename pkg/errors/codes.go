package errors

import "net/http"

// Common error codes shared across the service boundary.
const (
	ErrInternal        = "INTERNAL"
	ErrNotFound        = "NOT_FOUND"
	ErrInvalidArgument = "INVALID_ARGUMENT"
	ErrUnauthenticated = "UNAUTHENTICATED"
	ErrUnauthorized    = "UNAUTHORIZED"
	ErrConflict        = "CONFLICT"
	ErrTimeout         = "TIMEOUT"
	ErrNotImplemented  = "NOT_IMPLEMENTED"
)

// Payment-domain error codes surfaced to the HTTP boundary.
const (
	ErrDuplicateOrder        = "DUPLICATE_ORDER"
	ErrSignatureInvalid      = "SIGNATURE_INVALID"
	ErrInsufficientAmount    = "INSUFFICIENT_AMOUNT"
	ErrTerminalStateConflict = "TERMINAL_STATE_CONFLICT"
)

var codeToHTTPStatus = map[string]int{
	ErrInternal:        http.StatusInternalServerError,
	ErrNotFound:        http.StatusNotFound,
	ErrInvalidArgument: http.StatusBadRequest,
	ErrUnauthenticated: http.StatusUnauthorized,
	ErrUnauthorized:    http.StatusForbidden,
	ErrConflict:        http.StatusConflict,
	ErrTimeout:         http.StatusGatewayTimeout,
	ErrNotImplemented:  http.StatusNotImplemented,

	ErrDuplicateOrder:        http.StatusConflict,
	ErrSignatureInvalid:      http.StatusBadRequest,
	ErrInsufficientAmount:    http.StatusBadRequest,
	ErrTerminalStateConflict: http.StatusConflict,
}

// GetCodeMapping returns the HTTP status for a code and whether the code is known.
func GetCodeMapping(code string) (int, bool) {
	status, ok := codeToHTTPStatus[code]
	if !ok {
		return http.StatusInternalServerError, false
	}
	return status, true
}
