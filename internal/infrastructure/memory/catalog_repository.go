package memory

import (
	"context"
	"sync"

	domain "storefront/internal/domain/catalog"
)

// CatalogRepository is a mutex-guarded map store. Values are cloned on every
// read and write so callers never share a reference with the store.
type CatalogRepository struct {
	mu       sync.RWMutex
	products map[int]*domain.Product
}

func NewCatalogRepository() *CatalogRepository {
	return &CatalogRepository{
		products: make(map[int]*domain.Product),
	}
}

// Add seeds a product. Not part of the store contract; used at composition
// time and in tests.
func (r *CatalogRepository) Add(p *domain.Product) {
	if p == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[p.ID] = cloneProduct(p)
}

// Remove drops a product. Like Add, it is a composition/test helper outside
// the store contract.
func (r *CatalogRepository) Remove(productID int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.products, productID)
}

func (r *CatalogRepository) Get(ctx context.Context, productID int) (*domain.Product, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[productID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneProduct(p), nil
}

func (r *CatalogRepository) List(ctx context.Context) ([]*domain.Product, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, cloneProduct(p))
	}
	return out, nil
}

func (r *CatalogRepository) UpdateStock(ctx context.Context, productID int, newQuantity int) (*domain.Product, error) {
	_ = ctx
	if newQuantity < 0 {
		return nil, domain.ErrNegativeStock
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[productID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	p.Stock = newQuantity
	return cloneProduct(p), nil
}

func cloneProduct(p *domain.Product) *domain.Product {
	if p == nil {
		return nil
	}
	clone := *p
	return &clone
}
