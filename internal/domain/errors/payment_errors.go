package errors

import "errors"

var (
	// ErrDuplicateOrder indicates a non-failed payment already exists for the order
	ErrDuplicateOrder = errors.New("order already has an active payment")

	// ErrPaymentNotFound indicates no payment matched the given reference
	ErrPaymentNotFound = errors.New("payment not found")

	// ErrSignatureInvalid indicates an inbound callback failed signature verification
	ErrSignatureInvalid = errors.New("invalid callback signature")

	// ErrInsufficientAmount indicates the transferred amount is below the amount owed
	ErrInsufficientAmount = errors.New("insufficient amount transferred")

	// ErrTerminalStateConflict indicates an attempt to move a payment out of a terminal state
	ErrTerminalStateConflict = errors.New("payment is in a terminal state")

	// ErrEmptyTransferContent indicates a webhook claim carried no usable transfer note
	ErrEmptyTransferContent = errors.New("transfer content is empty")
)
