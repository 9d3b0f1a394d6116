package fulfillment

import (
	"context"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"

	"storefront/internal/domain/catalog"
	"storefront/internal/domain/order"
	"storefront/internal/domain/payment"
	"storefront/internal/infrastructure/memory"
)

func newPropertyFixture(stock1, stock2 int, approve bool) *fixture {
	catalogRepo := memory.NewCatalogRepository()
	p1, _ := catalog.NewProduct(1, "Laptop Pro", decimal.RequireFromString("1200.00"), "Electronics", stock1)
	p2, _ := catalog.NewProduct(2, "Wireless Mouse", decimal.RequireFromString("25.00"), "Accessories", stock2)
	catalogRepo.Add(p1)
	catalogRepo.Add(p2)

	status := payment.StatusApproved
	if !approve {
		status = payment.StatusDeclined
	}
	gateway := &stubGateway{status: status}
	notifier := &recordingNotifier{}
	orders := memory.NewOrderRepository()

	return &fixture{
		catalog:  catalogRepo,
		orders:   orders,
		gateway:  gateway,
		notifier: notifier,
		svc:      NewService(catalogRepo, orders, gateway, notifier, Config{}, nil),
	}
}

// Property: a successful placement deducts exactly the requested quantities,
// and cancelling it restores every touched product to its pre-placement stock.
func TestProperty_PlacementConservesStock(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("deduction equals request and cancellation restores it", prop.ForAll(
		func(stock1, stock2, qty1, qty2 int) bool {
			if qty1 > stock1 || qty2 > stock2 {
				return true // placement would be rejected; covered elsewhere
			}
			f := newPropertyFixture(stock1, stock2, true)
			ctx := context.Background()

			created, err := f.svc.PlaceOrder(ctx, "c1", []LineRequest{
				{ProductID: 1, Quantity: qty1},
				{ProductID: 2, Quantity: qty2},
			})
			if err != nil {
				t.Logf("FAIL: unexpected placement error: %v", err)
				return false
			}

			after1 := f.stock(t, 1)
			after2 := f.stock(t, 2)
			if (stock1-after1)+(stock2-after2) != qty1+qty2 {
				t.Logf("FAIL: deducted %d+%d, requested %d+%d", stock1-after1, stock2-after2, qty1, qty2)
				return false
			}

			want := decimal.RequireFromString("1200.00").Mul(decimal.NewFromInt(int64(qty1))).
				Add(decimal.RequireFromString("25.00").Mul(decimal.NewFromInt(int64(qty2))))
			if !created.Total.Equal(want) {
				t.Logf("FAIL: total %s, want %s", created.Total, want)
				return false
			}

			ok, err := f.svc.CancelOrder(ctx, created.ID, "property check")
			if err != nil || !ok {
				t.Logf("FAIL: cancel ok=%v err=%v", ok, err)
				return false
			}
			return f.stock(t, 1) == stock1 && f.stock(t, 2) == stock2
		},
		gen.IntRange(1, 500),
		gen.IntRange(1, 500),
		gen.IntRange(1, 500),
		gen.IntRange(1, 500),
	))

	properties.TestingRun(t)
}

// Property: a declined payment leaves the catalog and the order store exactly
// as they were before the call.
func TestProperty_DeclinedPaymentLeavesNoTrace(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("no stock or order mutation on decline", prop.ForAll(
		func(stock1, qty1 int) bool {
			if qty1 > stock1 {
				return true
			}
			f := newPropertyFixture(stock1, 100, false)
			ctx := context.Background()

			_, err := f.svc.PlaceOrder(ctx, "c1", []LineRequest{{ProductID: 1, Quantity: qty1}})
			if err == nil {
				t.Log("FAIL: expected a decline")
				return false
			}

			if f.stock(t, 1) != stock1 {
				t.Logf("FAIL: stock moved from %d to %d", stock1, f.stock(t, 1))
				return false
			}
			all, lerr := f.orders.List(ctx)
			if lerr != nil || len(all) != 0 {
				t.Logf("FAIL: order store mutated: %d orders, err=%v", len(all), lerr)
				return false
			}
			return len(f.notifier.confirmed) == 0 && len(f.notifier.lowStock) == 0
		},
		gen.IntRange(1, 500),
		gen.IntRange(1, 500),
	))

	properties.TestingRun(t)
}

// Property: order identifiers strictly increase across placements.
func TestProperty_OrderIDsStrictlyIncrease(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("each placement gets a greater id", prop.ForAll(
		func(n int) bool {
			f := newPropertyFixture(10000, 10000, true)
			ctx := context.Background()

			var last int64
			for i := 0; i < n; i++ {
				created, err := f.svc.PlaceOrder(ctx, "c1", []LineRequest{{ProductID: 2, Quantity: 1}})
				if err != nil {
					t.Logf("FAIL: placement %d: %v", i, err)
					return false
				}
				if created.ID <= last {
					t.Logf("FAIL: id %d not greater than %d", created.ID, last)
					return false
				}
				last = created.ID
			}
			return true
		},
		gen.IntRange(1, 20),
	))

	properties.TestingRun(t)
}

// keep the compiler honest about the fixture's interface conformance
var _ order.Repository = (*memory.OrderRepository)(nil)
var _ catalog.Repository = (*memory.CatalogRepository)(nil)
