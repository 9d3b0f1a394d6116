package notify

import (
	"context"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"storefront/internal/domain/catalog"
	"storefront/internal/domain/order"
)

const (
	kindOrderConfirmed = "order_confirmed"
	kindStockLow       = "stock_low"
	kindOrderCancelled = "order_cancelled"
)

// LogNotifier emits lifecycle notifications as structured log entries and
// counts them. It never blocks and never returns a failure to the caller.
type LogNotifier struct {
	log  *zap.Logger
	sent *prometheus.CounterVec
}

// NewLogNotifier registers the notification counter on reg when it is
// non-nil.
func NewLogNotifier(logger *zap.Logger, reg prometheus.Registerer) *LogNotifier {
	if logger == nil {
		logger = zap.L()
	}
	sent := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_total",
			Help: "Total number of lifecycle notifications emitted.",
		},
		[]string{"kind"},
	)
	if reg != nil {
		reg.MustRegister(sent)
	}
	return &LogNotifier{
		log:  logger.With(zap.String("component", "notifier")),
		sent: sent,
	}
}

func (n *LogNotifier) OrderConfirmed(_ context.Context, o *order.Order) {
	if o == nil {
		return
	}
	n.log.Info("order_confirmation_sent",
		zap.String("notification_id", uuid.NewString()),
		zap.Int64("order_id", o.ID),
		zap.String("customer_id", o.CustomerID),
		zap.String("total", o.Total.String()),
	)
	n.sent.WithLabelValues(kindOrderConfirmed).Inc()
}

func (n *LogNotifier) StockLow(_ context.Context, p *catalog.Product) {
	if p == nil {
		return
	}
	n.log.Warn("stock_low",
		zap.String("notification_id", uuid.NewString()),
		zap.Int("product_id", p.ID),
		zap.String("product_name", p.Name),
		zap.Int("stock", p.Stock),
	)
	n.sent.WithLabelValues(kindStockLow).Inc()
}

func (n *LogNotifier) OrderCancelled(_ context.Context, customerID string, orderID int64, reason string) {
	n.log.Info("order_cancellation_sent",
		zap.String("notification_id", uuid.NewString()),
		zap.Int64("order_id", orderID),
		zap.String("customer_id", customerID),
		zap.String("reason", reason),
	)
	n.sent.WithLabelValues(kindOrderCancelled).Inc()
}
