package order

import "errors"

var (
	// -- Validation & Input --
	ErrEmptyOrder    = errors.New("order has no line items")
	ErrTotalMismatch = errors.New("total price does not match line items")
	ErrNotCancelable = errors.New("order can no longer be cancelled")

	// -- Resource State --
	ErrOrderNotFound = errors.New("order not found")
)
