package payment

import (
	"context"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusApproved Status = "approved"
	StatusDeclined Status = "declined"
)

// Gateway authorizes a charge for a customer. Implementations may take
// externally-observable time; callers bound the call with a context deadline
// and treat expiry as a decline.
type Gateway interface {
	Authorize(ctx context.Context, customerID string, amount decimal.Decimal) (Status, error)
}
