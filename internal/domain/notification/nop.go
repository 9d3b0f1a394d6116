package notification

import (
	"context"

	"storefront/internal/domain/catalog"
	"storefront/internal/domain/order"
)

type nopNotifier struct{}

func (nopNotifier) OrderConfirmed(context.Context, *order.Order)          {}
func (nopNotifier) StockLow(context.Context, *catalog.Product)            {}
func (nopNotifier) OrderCancelled(context.Context, string, int64, string) {}

// Nop returns a notifier that discards all notifications. Useful as a safe
// fallback.
func Nop() Notifier { return nopNotifier{} }
