package paymentstub

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"storefront/internal/domain/payment"
	"storefront/internal/pkg/logging"
)

// Gateway is a stand-in payment authority. It approves every charge unless a
// decline rule is installed, which composition roots and tests use to force
// refusals.
type Gateway struct {
	decline func(customerID string, amount decimal.Decimal) bool
}

func NewGateway() *Gateway {
	return &Gateway{}
}

// NewGatewayWithDeclineRule builds a gateway that declines whenever rule
// returns true.
func NewGatewayWithDeclineRule(rule func(customerID string, amount decimal.Decimal) bool) *Gateway {
	return &Gateway{decline: rule}
}

func (g *Gateway) Authorize(ctx context.Context, customerID string, amount decimal.Decimal) (payment.Status, error) {
	logger := logging.FromContext(ctx).With(
		zap.String("component", "payment_gateway"),
		zap.String("customer_id", customerID),
		zap.String("amount", amount.String()),
	)

	if err := ctx.Err(); err != nil {
		return payment.StatusDeclined, err
	}

	if g.decline != nil && g.decline(customerID, amount) {
		logger.Info("payment_declined")
		return payment.StatusDeclined, nil
	}

	txID := uuid.NewString()
	logger.Info("payment_approved", zap.String("transaction_id", txID))
	return payment.StatusApproved, nil
}
