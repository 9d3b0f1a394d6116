package reporting

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain/catalog"
	"storefront/internal/domain/order"
	"storefront/internal/infrastructure/memory"
)

func newEngineFixture(t *testing.T) (*Engine, *memory.CatalogRepository, *memory.OrderRepository) {
	t.Helper()

	catalogRepo := memory.NewCatalogRepository()
	seed := []struct {
		id       int
		name     string
		price    string
		category string
		stock    int
	}{
		{1, "Laptop Pro", "1200.00", "Electronics", 50},
		{2, "Wireless Mouse", "25.00", "Accessories", 200},
		{3, "Mechanical Keyboard", "75.00", "Accessories", 100},
	}
	for _, s := range seed {
		p, err := catalog.NewProduct(s.id, s.name, decimal.RequireFromString(s.price), s.category, s.stock)
		require.NoError(t, err)
		catalogRepo.Add(p)
	}

	orderRepo := memory.NewOrderRepository()
	return NewEngine(catalogRepo, orderRepo), catalogRepo, orderRepo
}

func placeShipped(t *testing.T, repo *memory.OrderRepository, lines []order.Line) *order.Order {
	t.Helper()
	o, err := order.New("c1", lines)
	require.NoError(t, err)
	created, err := repo.Create(context.Background(), o)
	require.NoError(t, err)
	ok, err := repo.UpdateStatus(context.Background(), created.ID, order.StatusShipped)
	require.NoError(t, err)
	require.True(t, ok)
	return created
}

func period() (time.Time, time.Time) {
	now := time.Now().UTC()
	return now.Add(-time.Hour), now.Add(time.Hour)
}

func TestSalesReport_OnlyShippedOrdersCount(t *testing.T) {
	engine, _, orderRepo := newEngineFixture(t)
	ctx := context.Background()

	placeShipped(t, orderRepo, []order.Line{
		{ProductID: 1, Quantity: 2, UnitPrice: decimal.RequireFromString("1200.00")},
	})

	// a Processed order is not a sale yet
	pending, err := order.New("c2", []order.Line{
		{ProductID: 2, Quantity: 10, UnitPrice: decimal.RequireFromString("25.00")},
	})
	require.NoError(t, err)
	created, err := orderRepo.Create(ctx, pending)
	require.NoError(t, err)
	_, err = orderRepo.UpdateStatus(ctx, created.ID, order.StatusProcessed)
	require.NoError(t, err)

	from, to := period()
	report, err := engine.SalesReport(ctx, from, to, "")
	require.NoError(t, err)

	assert.Contains(t, report, "Laptop Pro (ID: 1): 2 units, Total Value: 2400.00")
	assert.NotContains(t, report, "Wireless Mouse")
	assert.Contains(t, report, "Total Orders Shipped: 1")
	assert.Contains(t, report, "Total Sales Value: 2400.00")
}

func TestSalesReport_CategoryFilter(t *testing.T) {
	engine, _, orderRepo := newEngineFixture(t)
	ctx := context.Background()

	placeShipped(t, orderRepo, []order.Line{
		{ProductID: 1, Quantity: 1, UnitPrice: decimal.RequireFromString("1200.00")},
		{ProductID: 2, Quantity: 4, UnitPrice: decimal.RequireFromString("25.00")},
	})

	from, to := period()
	report, err := engine.SalesReport(ctx, from, to, "Accessories")
	require.NoError(t, err)

	assert.Contains(t, report, "Category Filter: Accessories")
	assert.Contains(t, report, "Wireless Mouse")
	assert.NotContains(t, report, "Laptop Pro")
	assert.Contains(t, report, "Total Sales Value: 100.00")
}

func TestSalesReport_EmptyPeriod(t *testing.T) {
	engine, _, _ := newEngineFixture(t)

	from, to := period()
	report, err := engine.SalesReport(context.Background(), from, to, "")
	require.NoError(t, err)
	assert.Contains(t, report, "No sales in this period.")
}

func TestSalesTrendByCategory_SortedByValue(t *testing.T) {
	engine, _, orderRepo := newEngineFixture(t)

	placeShipped(t, orderRepo, []order.Line{
		{ProductID: 2, Quantity: 2, UnitPrice: decimal.RequireFromString("25.00")},
	})
	placeShipped(t, orderRepo, []order.Line{
		{ProductID: 1, Quantity: 1, UnitPrice: decimal.RequireFromString("1200.00")},
	})

	trends, err := engine.SalesTrendByCategory(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, trends, 2)

	assert.Equal(t, "Electronics", trends[0].Category)
	assert.True(t, trends[0].Value.Equal(decimal.RequireFromString("1200.00")))
	assert.Equal(t, "Accessories", trends[1].Category)
	assert.True(t, trends[1].Value.Equal(decimal.RequireFromString("50.00")))
}

func TestInventoryAuditCSV(t *testing.T) {
	engine, _, _ := newEngineFixture(t)

	out, err := engine.InventoryAuditCSV(context.Background())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "ProductID,Name,Category,UnitPrice,Stock", lines[0])
	assert.Equal(t, "1,Laptop Pro,Electronics,1200.00,50", lines[1])
	assert.Equal(t, "2,Wireless Mouse,Accessories,25.00,200", lines[2])
	assert.Equal(t, "3,Mechanical Keyboard,Accessories,75.00,100", lines[3])
}

func TestInventoryAuditCSV_QuotesAwkwardNames(t *testing.T) {
	engine, catalogRepo, _ := newEngineFixture(t)

	p, err := catalog.NewProduct(4, `Cable, USB-C "Pro"`, decimal.RequireFromString("9.00"), "Accessories", 5)
	require.NoError(t, err)
	catalogRepo.Add(p)

	out, err := engine.InventoryAuditCSV(context.Background())
	require.NoError(t, err)
	assert.Contains(t, out, `"Cable, USB-C ""Pro"""`)
}

func TestReorderAlerts_PerCategoryThresholds(t *testing.T) {
	engine, catalogRepo, _ := newEngineFixture(t)
	ctx := context.Background()

	// Electronics threshold 10, Accessories 20, anything else 15
	_, err := catalogRepo.UpdateStock(ctx, 1, 9)
	require.NoError(t, err)
	_, err = catalogRepo.UpdateStock(ctx, 2, 19)
	require.NoError(t, err)

	misc, err := catalog.NewProduct(5, "Gift Card", decimal.RequireFromString("50.00"), "Vouchers", 14)
	require.NoError(t, err)
	catalogRepo.Add(misc)

	alerts, err := engine.ReorderAlerts(ctx)
	require.NoError(t, err)

	ids := make([]int, 0, len(alerts))
	for _, p := range alerts {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []int{1, 2, 5}, ids)
}
