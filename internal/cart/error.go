package cart

import "errors"

var (
	// -- Validation & Input --
	ErrProductRequired = errors.New("product ID is required")
	ErrVariantRequired = errors.New("variant selection is required")
	ErrInvalidQuantity = errors.New("quantity must be greater than zero")

	// -- Resource State --
	ErrCartItemNotFound = errors.New("cart item not found")
)
