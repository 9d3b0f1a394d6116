package reporting

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"storefront/internal/domain/catalog"
	"storefront/internal/domain/order"
	"storefront/internal/pkg/logging"
)

// Engine produces sales and inventory reports from the catalog and order
// stores. It only reads; it never participates in the fulfillment lifecycle.
type Engine struct {
	catalog catalog.Repository
	orders  order.Repository
}

func NewEngine(catalogRepo catalog.Repository, orderRepo order.Repository) *Engine {
	return &Engine{catalog: catalogRepo, orders: orderRepo}
}

// ProductSales aggregates shipped quantity and value for one product.
type ProductSales struct {
	ProductID int
	Name      string
	Quantity  int
	Value     decimal.Decimal
}

// CategoryTrend is the shipped sales value of one category.
type CategoryTrend struct {
	Category string
	Value    decimal.Decimal
}

// SalesReport renders a plain-text sales report for the period. Only Shipped
// orders count as sales; an optional category filter narrows the breakdown.
func (e *Engine) SalesReport(ctx context.Context, from, to time.Time, categoryFilter string) (string, error) {
	logger := logging.FromContext(ctx).With(zap.String("component", "reporting"))

	orders, err := e.shippedOrdersBetween(ctx, from, to)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "--- Sales Report ---\n")
	fmt.Fprintf(&b, "Period: %s - %s\n", from.Format("2006-01-02"), to.Format("2006-01-02"))
	if categoryFilter != "" {
		fmt.Fprintf(&b, "Category Filter: %s\n", categoryFilter)
	}

	if len(orders) == 0 {
		b.WriteString("No sales in this period.\n")
		return b.String(), nil
	}

	byProduct := make(map[int]*ProductSales)
	total := decimal.Zero
	for _, o := range orders {
		for _, l := range o.Lines {
			p, perr := e.catalog.Get(ctx, l.ProductID)
			if perr != nil {
				logger.Warn("report_product_missing", zap.Int("product_id", l.ProductID))
				continue
			}
			if categoryFilter != "" && p.Category != categoryFilter {
				continue
			}
			ps, ok := byProduct[l.ProductID]
			if !ok {
				ps = &ProductSales{ProductID: p.ID, Name: p.Name, Value: decimal.Zero}
				byProduct[l.ProductID] = ps
			}
			lineValue := l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
			ps.Quantity += l.Quantity
			ps.Value = ps.Value.Add(lineValue)
			total = total.Add(lineValue)
		}
	}

	breakdown := make([]*ProductSales, 0, len(byProduct))
	for _, ps := range byProduct {
		breakdown = append(breakdown, ps)
	}
	sort.Slice(breakdown, func(i, j int) bool {
		return breakdown[i].Value.GreaterThan(breakdown[j].Value)
	})

	b.WriteString("\nProduct Sales Breakdown:\n")
	for _, ps := range breakdown {
		fmt.Fprintf(&b, "  - %s (ID: %d): %d units, Total Value: %s\n",
			ps.Name, ps.ProductID, ps.Quantity, ps.Value.StringFixed(2))
	}
	fmt.Fprintf(&b, "\nTotal Orders Shipped: %d\n", len(orders))
	fmt.Fprintf(&b, "Total Sales Value: %s\n", total.StringFixed(2))
	b.WriteString("--- End of Sales Report ---\n")

	return b.String(), nil
}

// SalesTrendByCategory sums shipped sales value per category over the last
// months, most valuable category first.
func (e *Engine) SalesTrendByCategory(ctx context.Context, months int) ([]CategoryTrend, error) {
	now := time.Now().UTC()
	from := now.AddDate(0, -months, 0)

	orders, err := e.shippedOrdersBetween(ctx, from, now)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]decimal.Decimal)
	for _, o := range orders {
		for _, l := range o.Lines {
			p, perr := e.catalog.Get(ctx, l.ProductID)
			if perr != nil {
				continue
			}
			totals[p.Category] = totals[p.Category].Add(
				l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
		}
	}

	trends := make([]CategoryTrend, 0, len(totals))
	for category, value := range totals {
		trends = append(trends, CategoryTrend{Category: category, Value: value})
	}
	sort.Slice(trends, func(i, j int) bool {
		return trends[i].Value.GreaterThan(trends[j].Value)
	})
	return trends, nil
}

// InventoryAuditCSV exports the full catalog, one row per product, sorted by
// id for a stable export.
func (e *Engine) InventoryAuditCSV(ctx context.Context) (string, error) {
	products, err := e.catalog.List(ctx)
	if err != nil {
		return "", err
	}
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"ProductID", "Name", "Category", "UnitPrice", "Stock"}); err != nil {
		return "", err
	}
	for _, p := range products {
		record := []string{
			strconv.Itoa(p.ID),
			p.Name,
			p.Category,
			p.Price.StringFixed(2),
			strconv.Itoa(p.Stock),
		}
		if err := w.Write(record); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// ReorderAlerts lists products whose stock sits below their category's
// reorder threshold.
func (e *Engine) ReorderAlerts(ctx context.Context) ([]*catalog.Product, error) {
	products, err := e.catalog.List(ctx)
	if err != nil {
		return nil, err
	}

	var alerts []*catalog.Product
	for _, p := range products {
		if p.Stock < reorderThreshold(p.Category) {
			alerts = append(alerts, p)
		}
	}
	sort.Slice(alerts, func(i, j int) bool { return alerts[i].ID < alerts[j].ID })
	return alerts, nil
}

func reorderThreshold(category string) int {
	switch strings.ToLower(category) {
	case "electronics":
		return 10
	case "accessories":
		return 20
	default:
		return 15
	}
}

func (e *Engine) shippedOrdersBetween(ctx context.Context, from, to time.Time) ([]*order.Order, error) {
	all, err := e.orders.List(ctx)
	if err != nil {
		return nil, err
	}
	var out []*order.Order
	for _, o := range all {
		if o.Status != order.StatusShipped {
			continue
		}
		if o.CreatedAt.Before(from) || o.CreatedAt.After(to) {
			continue
		}
		out = append(out, o)
	}
	return out, nil
}
