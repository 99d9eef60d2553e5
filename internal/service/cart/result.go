package cart

import (
	"errors"
	"fmt"

	"storefront-gateway/internal/domain"
)

// Result is the value every cart mutation returns. Failures are carried here
// as user-facing messages; errors never propagate past the store boundary.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func success(msg string) Result {
	return Result{Success: true, Message: msg}
}

func failure(msg string) Result {
	return Result{Success: false, Message: msg}
}

// stockMessage maps the stock error taxonomy onto the storefront's wording.
// Out-of-stock and insufficient-stock are surfaced distinctly.
func stockMessage(err error) string {
	var insufficient *domain.InsufficientStockError
	switch {
	case errors.Is(err, domain.ErrOutOfStock):
		return "This variant is out of stock"
	case errors.As(err, &insufficient):
		return fmt.Sprintf("Only %d items available", insufficient.Available)
	}
	return err.Error()
}
