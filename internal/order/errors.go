package order

import "errors"

var (
	ErrEmptyCart       = errors.New("cart is empty, nothing to order")
	ErrEmptyOrder      = errors.New("order must contain at least one line")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrAlreadyPresent  = errors.New("product already has a line in this session")
	ErrOutOfStock      = errors.New("requested quantity exceeds live stock")
	ErrProductNotFound = errors.New("product not found in catalog snapshot")
	ErrLineNotFound    = errors.New("no order line for product")
	ErrSessionClosed   = errors.New("edit session is already committed or discarded")
)
