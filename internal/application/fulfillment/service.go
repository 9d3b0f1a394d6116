package fulfillment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"storefront/internal/domain/catalog"
	"storefront/internal/domain/notification"
	"storefront/internal/domain/order"
	"storefront/internal/domain/payment"
	"storefront/internal/pkg/logging"
)

const (
	// DefaultCancelReason substitutes a blank cancellation reason.
	DefaultCancelReason = "customer request"

	defaultLowStockThreshold = 10
	defaultPaymentTimeout    = 5 * time.Second

	opPlace  = "place_order"
	opShip   = "ship_order"
	opCancel = "cancel_order"

	outcomeSuccess  = "success"
	outcomeRejected = "rejected"
	outcomeError    = "error"
)

// LineRequest is one requested position of a placement.
type LineRequest struct {
	ProductID int
	Quantity  int
}

// Config tunes the engine's policies.
type Config struct {
	// LowStockThreshold triggers an advisory StockLow notification when a
	// deduction leaves a product below it.
	LowStockThreshold int
	// PaymentTimeout bounds the gateway call; expiry counts as a decline.
	PaymentTimeout time.Duration
}

// Service owns the order lifecycle state machine and the stock-adjustment
// protocol. Operations are serialized by a single mutex: the stock check and
// the later deduction of a placement always observe the same stock values,
// and no other operation interleaves a read-modify-write on the same order
// or product.
type Service struct {
	mu sync.Mutex

	catalog  catalog.Repository
	orders   order.Repository
	payments payment.Gateway
	notifier notification.Notifier

	lowStockThreshold int
	paymentTimeout    time.Duration

	tracer  trace.Tracer
	metrics *Metrics
}

func NewService(
	catalogRepo catalog.Repository,
	orderRepo order.Repository,
	gateway payment.Gateway,
	notifier notification.Notifier,
	cfg Config,
	metrics *Metrics,
) *Service {
	if notifier == nil {
		notifier = notification.Nop()
	}
	if cfg.LowStockThreshold <= 0 {
		cfg.LowStockThreshold = defaultLowStockThreshold
	}
	if cfg.PaymentTimeout <= 0 {
		cfg.PaymentTimeout = defaultPaymentTimeout
	}
	return &Service{
		catalog:           catalogRepo,
		orders:            orderRepo,
		payments:          gateway,
		notifier:          notifier,
		lowStockThreshold: cfg.LowStockThreshold,
		paymentTimeout:    cfg.PaymentTimeout,
		tracer:            otel.Tracer("storefront/fulfillment"),
		metrics:           metrics,
	}
}

// PlaceOrder validates every line against the catalog, authorizes payment for
// the snapshot total, deducts stock, and persists the order as Processed.
// Validation and payment happen strictly before any mutation: on any of the
// four placement failures the catalog and the order store are left exactly as
// found.
func (s *Service) PlaceOrder(ctx context.Context, customerID string, lines []LineRequest) (_ *order.Order, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, span := s.tracer.Start(ctx, "Fulfillment.PlaceOrder",
		trace.WithAttributes(
			attribute.String("order.customer_id", customerID),
			attribute.Int("order.lines", len(lines)),
		),
	)
	start := time.Now()
	outcome := outcomeSuccess
	defer func() {
		if err != nil {
			outcome = outcomeError
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}
		span.End()
		s.metrics.observe(opPlace, outcome, time.Since(start).Seconds())
	}()

	logger := logging.FromContext(ctx).With(
		zap.String("component", "fulfillment"),
		zap.String("customer_id", customerID),
	)

	if len(lines) == 0 {
		return nil, ErrEmptyOrder
	}

	// Validation pass over every line before any mutation. remaining tracks
	// stock net of earlier lines so a product repeated across lines cannot
	// oversell its snapshot.
	snapshots := make([]order.Line, 0, len(lines))
	remaining := make(map[int]int, len(lines))
	deductOrder := make([]int, 0, len(lines))
	for _, lr := range lines {
		if lr.Quantity <= 0 {
			return nil, order.ErrInvalidQuantity
		}
		avail, seen := remaining[lr.ProductID]
		var p *catalog.Product
		p, err = s.catalog.Get(ctx, lr.ProductID)
		if err != nil {
			logger.Warn("product_lookup_failed", zap.Int("product_id", lr.ProductID), zap.Error(err))
			return nil, fmt.Errorf("product %d: %w", lr.ProductID, err)
		}
		if !seen {
			avail = p.Stock
			deductOrder = append(deductOrder, lr.ProductID)
		}
		if lr.Quantity > avail {
			return nil, &InsufficientStockError{
				ProductID: p.ID,
				Name:      p.Name,
				Available: avail,
				Requested: lr.Quantity,
			}
		}
		remaining[lr.ProductID] = avail - lr.Quantity
		snapshots = append(snapshots, order.Line{
			ProductID: p.ID,
			Quantity:  lr.Quantity,
			UnitPrice: p.Price,
		})
	}

	entity, err := order.New(customerID, snapshots)
	if err != nil {
		return nil, err
	}

	// Charge before touching stock: reversing a deduction is cheap and local,
	// reversing a charged payment is not assumed possible.
	payCtx, cancel := context.WithTimeout(ctx, s.paymentTimeout)
	status, payErr := s.payments.Authorize(payCtx, customerID, entity.Total)
	cancel()
	if payErr != nil {
		logger.Warn("payment_authorization_failed", zap.Error(payErr))
		err = ErrPaymentDeclined
		return nil, err
	}
	if status != payment.StatusApproved {
		logger.Info("payment_declined", zap.String("total", entity.Total.String()))
		err = ErrPaymentDeclined
		return nil, err
	}

	for _, productID := range deductOrder {
		updated, uerr := s.catalog.UpdateStock(ctx, productID, remaining[productID])
		if uerr != nil {
			err = uerr
			return nil, err
		}
		if updated.Stock < s.lowStockThreshold {
			s.notifier.StockLow(ctx, updated)
		}
	}

	entity.MarkProcessed()
	created, cerr := s.orders.Create(ctx, entity)
	if cerr != nil {
		err = cerr
		return nil, err
	}

	span.SetAttributes(attribute.Int64("order.id", created.ID))
	logger.Info("order_placed",
		zap.Int64("order_id", created.ID),
		zap.String("total", created.Total.String()),
		zap.String("status", string(created.Status)),
	)

	s.notifier.OrderConfirmed(ctx, created)
	return created, nil
}

// ShipOrder transitions a Processed order to Shipped. A missing order or any
// other status is an expected policy rejection, reported as ok=false with a
// nil error; a non-nil error means the store failed to persist the change.
func (s *Service) ShipOrder(ctx context.Context, orderID int64) (_ bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, span := s.tracer.Start(ctx, "Fulfillment.ShipOrder",
		trace.WithAttributes(attribute.Int64("order.id", orderID)),
	)
	start := time.Now()
	outcome := outcomeRejected
	defer func() {
		if err != nil {
			outcome = outcomeError
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}
		span.End()
		s.metrics.observe(opShip, outcome, time.Since(start).Seconds())
	}()

	logger := logging.FromContext(ctx).With(
		zap.String("component", "fulfillment"),
		zap.Int64("order_id", orderID),
	)

	o, err := s.orders.Get(ctx, orderID)
	if errors.Is(err, order.ErrNotFound) {
		logger.Info("ship_rejected_order_missing")
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if !o.CanShip() {
		logger.Info("ship_rejected_wrong_status", zap.String("status", string(o.Status)))
		return false, nil
	}

	ok, err := s.orders.UpdateStatus(ctx, orderID, order.StatusShipped)
	if err != nil {
		return false, err
	}
	if !ok {
		logger.Warn("ship_rejected_order_vanished")
		return false, nil
	}

	outcome = outcomeSuccess
	logger.Info("order_shipped")
	return true, nil
}

// CancelOrder compensates a placement. A Processed order has its stock
// replenished line by line before the status flips to Cancelled; a Pending
// order never deducted stock, so replenishment is skipped. Missing orders,
// Shipped orders, and repeat cancellations are idempotent no-ops: ok=false,
// nil error, no mutation, no notification.
func (s *Service) CancelOrder(ctx context.Context, orderID int64, reason string) (_ bool, err error) {
	if strings.TrimSpace(reason) == "" {
		reason = DefaultCancelReason
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, span := s.tracer.Start(ctx, "Fulfillment.CancelOrder",
		trace.WithAttributes(attribute.Int64("order.id", orderID)),
	)
	start := time.Now()
	outcome := outcomeRejected
	defer func() {
		if err != nil {
			outcome = outcomeError
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}
		span.End()
		s.metrics.observe(opCancel, outcome, time.Since(start).Seconds())
	}()

	logger := logging.FromContext(ctx).With(
		zap.String("component", "fulfillment"),
		zap.Int64("order_id", orderID),
	)

	o, err := s.orders.Get(ctx, orderID)
	if errors.Is(err, order.ErrNotFound) {
		logger.Info("cancel_rejected_order_missing")
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if !o.CanCancel() {
		logger.Info("cancel_rejected_wrong_status", zap.String("status", string(o.Status)))
		return false, nil
	}

	if o.StockDeducted() {
		s.replenish(ctx, logger, o)
	}

	ok, uerr := s.orders.UpdateStatus(ctx, orderID, order.StatusCancelled)
	if uerr != nil {
		err = uerr
		return false, err
	}
	if !ok {
		logger.Warn("cancel_rejected_order_vanished")
		return false, nil
	}

	outcome = outcomeSuccess
	logger.Info("order_cancelled", zap.String("reason", reason))
	s.notifier.OrderCancelled(ctx, o.CustomerID, o.ID, reason)
	return true, nil
}

// replenish adds each line's quantity back to its product. A product that no
// longer exists in the catalog is a recorded anomaly, not a reason to abort
// the cancellation.
func (s *Service) replenish(ctx context.Context, logger *zap.Logger, o *order.Order) {
	for _, l := range o.Lines {
		p, err := s.catalog.Get(ctx, l.ProductID)
		if err != nil {
			logger.Warn("replenish_skipped",
				zap.Int("product_id", l.ProductID),
				zap.Int("quantity", l.Quantity),
				zap.Error(err),
			)
			continue
		}
		if _, err := s.catalog.UpdateStock(ctx, l.ProductID, p.Stock+l.Quantity); err != nil {
			logger.Warn("replenish_failed",
				zap.Int("product_id", l.ProductID),
				zap.Int("quantity", l.Quantity),
				zap.Error(err),
			)
		}
	}
}
