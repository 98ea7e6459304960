package cart

import (
	"errors"
	"fmt"
)

// Sentinel errors for cart mutations and tender validation
var (
	// ErrNotWeighted is returned when a weight update targets a line that
	// is not priced by weight.
	ErrNotWeighted = errors.New("line is not priced by weight")
	// ErrLineNotFound is returned when a mutation references a line id
	// that is not in the cart.
	ErrLineNotFound = errors.New("line not found in cart")
	// ErrInvalidPartialAmount is returned when a partial tender is not
	// strictly between zero and the order total.
	ErrInvalidPartialAmount = errors.New("partial amount must be greater than zero and less than the order total")
	// ErrInsufficientCash is returned when cash given does not cover the
	// amount due.
	ErrInsufficientCash = errors.New("cash given is less than the amount due")
	// ErrInvalidWeight is returned when a weighted line is added with a
	// non-positive weight reading.
	ErrInvalidWeight = errors.New("weight must be greater than zero")
)

// InsufficientStockError reports that the stock check vetoed adding a
// product to the cart.
type InsufficientStockError struct {
	Product string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %q", e.Product)
}

// PricingError reports a line whose price cannot be determined: a
// side-business line with neither a custom price nor a catalog price.
type PricingError struct {
	LineName string
}

func (e *PricingError) Error() string {
	return fmt.Sprintf("no price available for %q", e.LineName)
}

// InvalidDiscountError reports a discount outside [0, subtotal].
type InvalidDiscountError struct {
	Discount int64
	Subtotal int64
}

func (e *InvalidDiscountError) Error() string {
	return fmt.Sprintf("discount %d is outside the valid range [0, %d]", e.Discount, e.Subtotal)
}
