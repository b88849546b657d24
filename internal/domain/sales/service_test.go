package sales_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizdesk/internal/core/apperror"
	"bizdesk/internal/core/id"
	"bizdesk/internal/core/types"
	"bizdesk/internal/domain/customers"
	"bizdesk/internal/domain/inventory"
	"bizdesk/internal/domain/sales"
	"bizdesk/internal/infrastructure/storage/memory"
)

var now = time.Date(2024, 1, 15, 14, 0, 0, 0, time.UTC)

type fixture struct {
	sales     *sales.Service
	inventory *inventory.Service
	customers *customers.Service
	owner     id.ID
}

func newFixture(policy inventory.UnderflowPolicy) *fixture {
	store := memory.NewStore()
	txm := memory.NewTxManager(store)
	clock := func() time.Time { return now }

	inv := inventory.NewService(store.Products(), store.StockEvents(), txm, inventory.NewLedger(policy), inventory.WithClock(clock))
	cust := customers.NewService(store.Customers(), txm, customers.WithClock(clock))
	return &fixture{
		sales:     sales.NewService(store.Sales(), inv, cust, txm, sales.WithClock(clock)),
		inventory: inv,
		customers: cust,
		owner:     id.New(),
	}
}

func (f *fixture) product(t *testing.T, name string, stock int64) *inventory.Product {
	t.Helper()
	p, err := f.inventory.CreateProduct(context.Background(), f.owner, inventory.CreateProductInput{
		Name: name, Category: inventory.CategorySaleItem, UnitPrice: types.MustMoney("2.00"), Stock: stock,
	})
	require.NoError(t, err)
	return p
}

func line(p *inventory.Product, qty int64) sales.ItemInput {
	return sales.ItemInput{ProductID: p.ID, ProductName: p.Name, Quantity: qty, UnitPrice: p.UnitPrice}
}

func TestCheckout_UpdatesCustomerAndStock(t *testing.T) {
	ctx := context.Background()
	f := newFixture(inventory.PolicyClamp)
	cake := f.product(t, "Cake", 10)
	tart := f.product(t, "Tart", 1)
	c, err := f.customers.Create(ctx, f.owner, customers.Input{Name: "Fatou"})
	require.NoError(t, err)

	res, err := f.sales.Checkout(ctx, f.owner, sales.CheckoutInput{
		SaleInput: sales.SaleInput{
			CustomerID:    &c.ID,
			Items:         []sales.ItemInput{line(cake, 3), line(tart, 2)},
			PaymentMethod: sales.PaymentCard,
			Status:        sales.StatusPaidNotDelivered,
			ActorID:       "cashier-1",
		},
		DeductStock: true,
	})
	require.NoError(t, err)
	assert.True(t, res.Sale.TotalAmount.Equal(types.MustMoney("10.00")))
	assert.Equal(t, "Fatou", res.Sale.CustomerName)
	assert.Equal(t, now, res.Sale.Timestamp)
	assert.Equal(t, []id.ID{tart.ID}, res.Underflows)

	gotCake, err := f.inventory.GetProduct(ctx, f.owner, cake.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(7), gotCake.Stock)

	gotCustomer, err := f.customers.Get(ctx, f.owner, c.ID)
	require.NoError(t, err)
	assert.True(t, gotCustomer.TotalPurchases.Equal(types.MustMoney("10")))
	assert.Equal(t, int64(10), gotCustomer.LoyaltyPoints)
	require.NotNil(t, gotCustomer.LastPurchase)
	assert.Equal(t, now, *gotCustomer.LastPurchase)

	events, err := f.inventory.ListStockEvents(ctx, f.owner, inventory.EventFilter{})
	require.NoError(t, err)
	assert.Len(t, events.Items, 2)
	for _, e := range events.Items {
		assert.Equal(t, inventory.ReasonSale, e.Reason)
	}
}

func TestCheckout_LinesNamedAndPricedFromCatalog(t *testing.T) {
	ctx := context.Background()
	f := newFixture(inventory.PolicyClamp)
	cake := f.product(t, "Cake", 10)

	res, err := f.sales.Checkout(ctx, f.owner, sales.CheckoutInput{
		SaleInput: sales.SaleInput{
			Items: []sales.ItemInput{
				{ProductID: cake.ID, ProductName: "cake ", Quantity: 2},
				{ProductID: cake.ID, ProductName: "CAKE", Quantity: 1, UnitPrice: types.MustMoney("1.50")},
			},
			PaymentMethod: sales.PaymentCash,
			Status:        sales.StatusPaidDelivered,
		},
		DeductStock: true,
	})
	require.NoError(t, err)
	require.Len(t, res.Sale.Items, 2)
	for _, it := range res.Sale.Items {
		assert.Equal(t, "Cake", it.ProductName)
	}
	assert.True(t, res.Sale.Items[0].UnitPrice.Equal(types.MustMoney("2.00")), "unpriced line takes the catalog price")
	assert.True(t, res.Sale.Items[1].UnitPrice.Equal(types.MustMoney("1.50")), "explicit price is kept")
	assert.True(t, res.Sale.TotalAmount.Equal(types.MustMoney("5.50")))

	got, err := f.inventory.GetProduct(ctx, f.owner, cake.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.Stock)

	_, err = f.sales.Checkout(ctx, f.owner, sales.CheckoutInput{
		SaleInput: sales.SaleInput{
			Items:         []sales.ItemInput{{ProductID: id.New(), ProductName: "Ghost", Quantity: 1}},
			PaymentMethod: sales.PaymentCash,
			Status:        sales.StatusPaidDelivered,
		},
		DeductStock: true,
	})
	assert.True(t, apperror.IsNotFound(err))
}

func TestCheckout_WithoutDeductStockLeavesCatalog(t *testing.T) {
	ctx := context.Background()
	f := newFixture(inventory.PolicyClamp)
	cake := f.product(t, "Cake", 10)

	res, err := f.sales.Checkout(ctx, f.owner, sales.CheckoutInput{
		SaleInput: sales.SaleInput{
			Items:         []sales.ItemInput{line(cake, 4)},
			PaymentMethod: sales.PaymentCash,
			Status:        sales.StatusPaidDelivered,
		},
	})
	require.NoError(t, err)
	assert.Equal(t, sales.GuestName, res.Sale.CustomerName)
	assert.Nil(t, res.Sale.CustomerID)

	got, err := f.inventory.GetProduct(ctx, f.owner, cake.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(10), got.Stock)
}

func TestCheckout_FailureRollsBack(t *testing.T) {
	ctx := context.Background()
	f := newFixture(inventory.PolicyReject)
	cake := f.product(t, "Cake", 10)
	tart := f.product(t, "Tart", 1)
	c, err := f.customers.Create(ctx, f.owner, customers.Input{Name: "Fatou"})
	require.NoError(t, err)

	_, err = f.sales.Checkout(ctx, f.owner, sales.CheckoutInput{
		SaleInput: sales.SaleInput{
			CustomerID:    &c.ID,
			Items:         []sales.ItemInput{line(cake, 3), line(tart, 2)},
			PaymentMethod: sales.PaymentCash,
			Status:        sales.StatusPaidDelivered,
		},
		DeductStock: true,
	})
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodeInsufficientStock))

	gotCake, err := f.inventory.GetProduct(ctx, f.owner, cake.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(10), gotCake.Stock)

	gotCustomer, err := f.customers.Get(ctx, f.owner, c.ID)
	require.NoError(t, err)
	assert.True(t, gotCustomer.TotalPurchases.IsZero())

	list, err := f.sales.ListSales(ctx, f.owner, sales.Filter{})
	require.NoError(t, err)
	assert.Empty(t, list.Items)
}

func TestCheckout_UnknownCustomer(t *testing.T) {
	f := newFixture(inventory.PolicyClamp)
	cake := f.product(t, "Cake", 10)
	ghost := id.New()

	_, err := f.sales.Checkout(context.Background(), f.owner, sales.CheckoutInput{
		SaleInput: sales.SaleInput{
			CustomerID:    &ghost,
			Items:         []sales.ItemInput{line(cake, 1)},
			PaymentMethod: sales.PaymentCash,
			Status:        sales.StatusPaidDelivered,
		},
	})
	assert.True(t, apperror.IsNotFound(err))
}

func TestService_TransitionFulfillment(t *testing.T) {
	ctx := context.Background()
	f := newFixture(inventory.PolicyClamp)
	cake := f.product(t, "Cake", 10)

	res, err := f.sales.Checkout(ctx, f.owner, sales.CheckoutInput{
		SaleInput: sales.SaleInput{
			Items:         []sales.ItemInput{line(cake, 1)},
			PaymentMethod: sales.PaymentTransfer,
			Status:        sales.StatusDeliveredNotPaid,
		},
	})
	require.NoError(t, err)

	_, err = f.sales.TransitionFulfillment(ctx, f.owner, res.Sale.ID, sales.ActionMarkDelivered)
	assert.True(t, apperror.IsInvalidTransition(err))

	got, err := f.sales.TransitionFulfillment(ctx, f.owner, res.Sale.ID, sales.ActionMarkPaid)
	require.NoError(t, err)
	assert.Equal(t, sales.StatusPaidDelivered, got.Status)

	_, err = f.sales.TransitionFulfillment(ctx, f.owner, res.Sale.ID, sales.ActionMarkPaid)
	assert.True(t, apperror.IsInvalidTransition(err))

	stored, err := f.sales.GetSale(ctx, f.owner, res.Sale.ID)
	require.NoError(t, err)
	assert.Equal(t, sales.StatusPaidDelivered, stored.Status)
	assert.Len(t, stored.Items, 1)

	_, err = f.sales.TransitionFulfillment(ctx, f.owner, id.New(), sales.ActionMarkPaid)
	assert.True(t, apperror.IsNotFound(err))
}

func TestService_ListSalesFilters(t *testing.T) {
	ctx := context.Background()
	f := newFixture(inventory.PolicyClamp)
	cake := f.product(t, "Cake", 10)
	tart := f.product(t, "Tart", 10)

	for i, it := range []sales.ItemInput{line(cake, 1), line(tart, 1), line(cake, 2)} {
		_, err := f.sales.Checkout(ctx, f.owner, sales.CheckoutInput{
			SaleInput: sales.SaleInput{
				Items:         []sales.ItemInput{it},
				PaymentMethod: sales.PaymentCash,
				Status:        sales.StatusPaidDelivered,
				Timestamp:     now.Add(time.Duration(i) * time.Hour),
			},
		})
		require.NoError(t, err)
	}

	all, err := f.sales.ListSales(ctx, f.owner, sales.Filter{})
	require.NoError(t, err)
	require.Len(t, all.Items, 3)
	assert.Equal(t, int64(2), all.Items[0].Items[0].Quantity, "newest first")

	tarts, err := f.sales.ListSales(ctx, f.owner, sales.Filter{Search: "tart"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), tarts.TotalCount)

	from := now.Add(30 * time.Minute)
	window, err := f.sales.SalesBetween(ctx, f.owner, from, now.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Len(t, window, 2)
}
