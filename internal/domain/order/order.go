package order

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound        = errors.New("order: not found")
	ErrNoLines         = errors.New("order: must contain at least one line")
	ErrInvalidQuantity = errors.New("order: line quantity must be greater than zero")
)

type Status string

const (
	StatusPending   Status = "Pending"
	StatusProcessed Status = "Processed"
	StatusShipped   Status = "Shipped"
	StatusCancelled Status = "Cancelled"
)

// Line is one ordered position. UnitPrice is the catalog price captured at
// placement time; later catalog price changes never touch it.
type Line struct {
	ProductID int
	Quantity  int
	UnitPrice decimal.Decimal
}

// Order is owned by the order store after creation. ID and CreatedAt are
// assigned by the store; Total is computed once from the line snapshots and
// never recomputed.
type Order struct {
	ID         int64
	CustomerID string
	Lines      []Line
	Total      decimal.Decimal
	Status     Status
	CreatedAt  time.Time
}

func New(customerID string, lines []Line) (*Order, error) {
	if len(lines) == 0 {
		return nil, ErrNoLines
	}
	total := decimal.Zero
	for _, l := range lines {
		if l.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		total = total.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return &Order{
		CustomerID: customerID,
		Lines:      append([]Line(nil), lines...),
		Total:      total,
		Status:     StatusPending,
	}, nil
}

// MarkProcessed records that payment succeeded and stock was deducted.
func (o *Order) MarkProcessed() { o.Status = StatusProcessed }

// CanShip reports whether the shipment transition is legal. Shipping is only
// reachable from Processed; it never leaves Cancelled.
func (o *Order) CanShip() bool { return o.Status == StatusProcessed }

// CanCancel reports whether the cancellation transition is legal. Shipped and
// Cancelled are terminal; a repeat cancellation is an idempotent no-op.
func (o *Order) CanCancel() bool {
	return o.Status == StatusPending || o.Status == StatusProcessed
}

// StockDeducted reports whether placement already deducted stock for this
// order, i.e. whether cancellation must replenish.
func (o *Order) StockDeducted() bool { return o.Status == StatusProcessed }

func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	clone := *o
	clone.Lines = append([]Line(nil), o.Lines...)
	return &clone
}
