package notification

import (
	"context"

	"storefront/internal/domain/catalog"
	"storefront/internal/domain/order"
)

// Notifier observes lifecycle events. Calls are fire-and-forget: the engine
// consumes no return value and implementations must not block the operation
// that triggered them.
type Notifier interface {
	OrderConfirmed(ctx context.Context, o *order.Order)
	StockLow(ctx context.Context, p *catalog.Product)
	OrderCancelled(ctx context.Context, customerID string, orderID int64, reason string)
}
