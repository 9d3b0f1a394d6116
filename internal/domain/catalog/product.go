package catalog

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound      = errors.New("catalog: product not found")
	ErrNegativeStock = errors.New("catalog: stock must be zero or greater")
	ErrInvalidPrice  = errors.New("catalog: price must be zero or greater")
)

// Product is a catalog entry. Price is fixed at catalog time; orders snapshot
// it per line, so later price changes never affect placed orders. Stock is
// mutated only through Repository.UpdateStock.
type Product struct {
	ID       int
	Name     string
	Price    decimal.Decimal
	Category string
	Stock    int
}

func NewProduct(id int, name string, price decimal.Decimal, category string, stock int) (*Product, error) {
	if price.IsNegative() {
		return nil, ErrInvalidPrice
	}
	if stock < 0 {
		return nil, ErrNegativeStock
	}
	return &Product{
		ID:       id,
		Name:     name,
		Price:    price,
		Category: category,
		Stock:    stock,
	}, nil
}
