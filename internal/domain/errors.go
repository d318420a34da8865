package domain

import "errors"

// Failure taxonomy for the order/checkout/payout slice. Services wrap these
// with context via fmt.Errorf("...: %w", err); the HTTP boundary maps them to
// status codes and a uniform result envelope.
var (
	ErrAuthRequired        = errors.New("authentication required")
	ErrUnauthorized        = errors.New("not authorized for this action")
	ErrNotFound            = errors.New("resource not found")
	ErrInvalidInput        = errors.New("invalid input")
	ErrOutOfStock          = errors.New("requested quantity exceeds available stock")
	ErrEmptyCart           = errors.New("cart is empty")
	ErrDisputeWindowClosed = errors.New("dispute window has closed")
	ErrDuplicateDispute    = errors.New("an open dispute already exists for this order")
	ErrPaymentGateway      = errors.New("payment gateway request failed")
	ErrInvalidSignature    = errors.New("payment signature verification failed")
	ErrStorage             = errors.New("storage operation failed")
)
