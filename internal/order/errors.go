package order

import (
	"errors"

	"storefront/internal/checkout"
)

var (
	ErrEmptyCart          = errors.New("cart is empty")
	ErrIncompleteCheckout = errors.New("delivery, payment and address must be selected first")
	ErrPersistence        = errors.New("order could not be saved")
)

// FailureReason maps a checkout error to a short metrics label.
func FailureReason(err error) string {
	switch {
	case errors.Is(err, ErrEmptyCart):
		return "empty_cart"
	case errors.Is(err, ErrIncompleteCheckout):
		return "incomplete_checkout"
	case errors.Is(err, checkout.ErrInvalidSelection):
		return "invalid_selection"
	case errors.Is(err, checkout.ErrInvalidAddress):
		return "invalid_address"
	case errors.Is(err, ErrPersistence):
		return "persistence"
	default:
		return "internal"
	}
}
