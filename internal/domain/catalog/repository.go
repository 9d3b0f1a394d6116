package catalog

import "context"

// Repository is the catalog store contract. UpdateStock performs an absolute
// set and returns the updated product so callers evaluate follow-up policy
// (low stock) from a single authoritative read instead of re-fetching.
type Repository interface {
	Get(ctx context.Context, productID int) (*Product, error)
	List(ctx context.Context) ([]*Product, error)
	UpdateStock(ctx context.Context, productID int, newQuantity int) (*Product, error)
}
