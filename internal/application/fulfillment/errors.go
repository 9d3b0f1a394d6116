package fulfillment

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyOrder rejects a placement request with no lines.
	ErrEmptyOrder = errors.New("fulfillment: order must contain at least one line")
	// ErrPaymentDeclined covers gateway refusals, gateway errors, and
	// authorization timeouts alike; none of them leaves any stock or order
	// mutation behind.
	ErrPaymentDeclined = errors.New("fulfillment: payment declined")
)

// InsufficientStockError names the product and the quantities involved so
// callers can report what was actually available.
type InsufficientStockError struct {
	ProductID int
	Name      string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("fulfillment: not enough stock for product %q (id %d): available %d, requested %d",
		e.Name, e.ProductID, e.Available, e.Requested)
}
