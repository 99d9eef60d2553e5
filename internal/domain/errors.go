package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")

	// ErrVariantNotFound indicates the selected size/color combination does
	// not exist on the product.
	ErrVariantNotFound = errors.New("selected variant not available")

	// ErrStorageUnavailable indicates the persistent session storage is not
	// ready; callers retry with bounded backoff before degrading to no-session.
	ErrStorageUnavailable = errors.New("session storage unavailable")

	// ErrRemoteRequestFailed indicates a network failure or non-2xx response
	// from the remote commerce service.
	ErrRemoteRequestFailed = errors.New("remote request failed")

	// ErrOutOfStock indicates the resolved variant has zero available quantity.
	ErrOutOfStock = errors.New("this variant is out of stock")
)

// InsufficientStockError reports a requested quantity above the variant's
// available stock. It is distinct from ErrOutOfStock, which covers zero stock.
type InsufficientStockError struct {
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("only %d items available, requested %d", e.Available, e.Requested)
}

// CheckStock validates a requested quantity against available stock and
// returns the matching taxonomy error, or nil when the request fits.
func CheckStock(requested, available int) error {
	if available <= 0 {
		return ErrOutOfStock
	}
	if requested > available {
		return &InsufficientStockError{Requested: requested, Available: available}
	}
	return nil
}
