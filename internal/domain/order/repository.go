package order

import "context"

// Repository is the order store contract.
//
// Create assigns a fresh identifier, strictly greater than every previously
// assigned one, plus a UTC creation timestamp, and returns the completed
// order. UpdateStatus overwrites the status blindly; transition legality is
// the fulfillment engine's responsibility. It returns ok=false when the order
// does not exist and a non-nil error only for persistence failures, so
// callers can tell a policy miss from a broken store.
type Repository interface {
	Create(ctx context.Context, o *Order) (*Order, error)
	Get(ctx context.Context, id int64) (*Order, error)
	List(ctx context.Context) ([]*Order, error)
	UpdateStatus(ctx context.Context, id int64, status Status) (bool, error)
}
