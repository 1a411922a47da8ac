package cart

import "errors"

var (
	ErrProductNotFound   = errors.New("product not found in catalog snapshot")
	ErrOutOfStock        = errors.New("product is out of stock")
	ErrStockLimitReached = errors.New("quantity already at stock limit")
	ErrLineNotFound      = errors.New("no cart line for product")
)
