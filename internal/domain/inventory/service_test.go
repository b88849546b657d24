package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizdesk/internal/core/apperror"
	"bizdesk/internal/core/id"
	"bizdesk/internal/core/types"
	"bizdesk/internal/domain/inventory"
	"bizdesk/internal/infrastructure/storage/memory"
)

type countingNotifier struct {
	calls int
}

func (n *countingNotifier) Invalidate(context.Context, id.ID) { n.calls++ }

func newService(t *testing.T, policy inventory.UnderflowPolicy) (*inventory.Service, *countingNotifier) {
	t.Helper()
	store := memory.NewStore()
	n := &countingNotifier{}
	clock := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	svc := inventory.NewService(
		store.Products(),
		store.StockEvents(),
		memory.NewTxManager(store),
		inventory.NewLedger(policy),
		inventory.WithNotifier(n),
		inventory.WithClock(func() time.Time { return clock }),
	)
	return svc, n
}

func createProduct(t *testing.T, svc *inventory.Service, owner id.ID, name string, stock, minStock int64) *inventory.Product {
	t.Helper()
	p, err := svc.CreateProduct(context.Background(), owner, inventory.CreateProductInput{
		Name:      name,
		Category:  inventory.CategorySaleItem,
		UnitPrice: types.MustMoney("1.20"),
		Stock:     stock,
		MinStock:  minStock,
	})
	require.NoError(t, err)
	return p
}

func TestService_ApplyStockEvent(t *testing.T) {
	ctx := context.Background()
	svc, notifier := newService(t, inventory.PolicyClamp)
	owner := id.New()
	p := createProduct(t, svc, owner, "p1", 5, 10)

	res, err := svc.ApplyStockEvent(ctx, owner, inventory.StockEventInput{
		ProductID: p.ID,
		Kind:      inventory.KindEntry,
		Quantity:  20,
		Reason:    inventory.ReasonRestock,
		ActorID:   "u1",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(25), res.Product.Stock)
	assert.False(t, res.WouldUnderflow)

	res, err = svc.ApplyStockEvent(ctx, owner, inventory.StockEventInput{
		ProductID:   p.ID,
		Kind:        inventory.KindExit,
		Quantity:    30,
		Reason:      inventory.ReasonLoss,
		Description: "broken shelf",
		ActorID:     "u1",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.Product.Stock)
	assert.True(t, res.WouldUnderflow)

	stored, err := svc.GetProduct(ctx, owner, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stored.Stock)

	events, err := svc.ListStockEvents(ctx, owner, inventory.EventFilter{})
	require.NoError(t, err)
	require.Len(t, events.Items, 2)
	assert.Equal(t, inventory.KindExit, events.Items[0].Kind, "newest first")
	require.NotNil(t, events.Items[0].Description)
	assert.Equal(t, "broken shelf", *events.Items[0].Description)

	// create + two events
	assert.Equal(t, 3, notifier.calls)
}

func TestService_ApplyStockEvent_Errors(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t, inventory.PolicyReject)
	owner := id.New()
	p := createProduct(t, svc, owner, "Flour", 4, 1)

	_, err := svc.ApplyStockEvent(ctx, owner, inventory.StockEventInput{
		ProductID: p.ID, Kind: inventory.KindEntry, Quantity: 0, Reason: inventory.ReasonRestock,
	})
	assert.True(t, apperror.IsInvalidQuantity(err))

	_, err = svc.ApplyStockEvent(ctx, owner, inventory.StockEventInput{
		ProductID: id.New(), Kind: inventory.KindEntry, Quantity: 1, Reason: inventory.ReasonRestock,
	})
	assert.True(t, apperror.IsNotFound(err))

	_, err = svc.ApplyStockEvent(ctx, id.New(), inventory.StockEventInput{
		ProductID: p.ID, Kind: inventory.KindEntry, Quantity: 1, Reason: inventory.ReasonRestock,
	})
	assert.True(t, apperror.IsNotFound(err), "other owners cannot see the product")

	_, err = svc.ApplyStockEvent(ctx, owner, inventory.StockEventInput{
		ProductID: p.ID, Kind: inventory.KindExit, Quantity: 5, Reason: inventory.ReasonSale,
	})
	assert.True(t, apperror.HasCode(err, apperror.CodeInsufficientStock))

	stored, err := svc.GetProduct(ctx, owner, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), stored.Stock)

	events, err := svc.ListStockEvents(ctx, owner, inventory.EventFilter{})
	require.NoError(t, err)
	assert.Empty(t, events.Items)
}

func TestService_ApplyStockEvents(t *testing.T) {
	ctx := context.Background()
	svc, notifier := newService(t, inventory.PolicyClamp)
	owner := id.New()
	bread := createProduct(t, svc, owner, "Bread", 5, 0)
	cake := createProduct(t, svc, owner, "Cake", 2, 0)

	res, err := svc.ApplyStockEvents(ctx, owner, inventory.StockBatchInput{
		Kind:   inventory.KindExit,
		Reason: inventory.ReasonSale,
		Lines: []inventory.StockLine{
			{ProductID: bread.ID, Quantity: 3},
			{ProductID: cake.ID, Quantity: 4},
			{ProductID: bread.ID, Quantity: 1},
		},
		ActorID: "cashier",
	})
	require.NoError(t, err)
	assert.Len(t, res.Events, 3)
	assert.Len(t, res.Products, 2)
	assert.Equal(t, []id.ID{cake.ID}, res.Underflows)

	got, err := svc.GetProduct(ctx, owner, bread.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Stock, "lines for one product apply in order")
	got, err = svc.GetProduct(ctx, owner, cake.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.Stock)

	events, err := svc.ListStockEvents(ctx, owner, inventory.EventFilter{})
	require.NoError(t, err)
	assert.Len(t, events.Items, 3)

	// two creates + one batch
	assert.Equal(t, 3, notifier.calls)
}

func TestService_ApplyStockEvents_AllOrNothing(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t, inventory.PolicyReject)
	owner := id.New()
	bread := createProduct(t, svc, owner, "Bread", 5, 0)
	cake := createProduct(t, svc, owner, "Cake", 2, 0)

	exit := func(lines ...inventory.StockLine) error {
		_, err := svc.ApplyStockEvents(ctx, owner, inventory.StockBatchInput{
			Kind: inventory.KindExit, Reason: inventory.ReasonSale, Lines: lines,
		})
		return err
	}

	err := exit(inventory.StockLine{ProductID: bread.ID, Quantity: 3}, inventory.StockLine{ProductID: cake.ID, Quantity: 4})
	assert.True(t, apperror.HasCode(err, apperror.CodeInsufficientStock))

	err = exit(inventory.StockLine{ProductID: bread.ID, Quantity: 3}, inventory.StockLine{ProductID: id.New(), Quantity: 1})
	assert.True(t, apperror.IsNotFound(err))

	err = exit(inventory.StockLine{ProductID: id.New(), Quantity: 1}, inventory.StockLine{ProductID: bread.ID, Quantity: 0})
	assert.True(t, apperror.IsInvalidQuantity(err), "quantity is checked before products are loaded")

	got, err := svc.GetProduct(ctx, owner, bread.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), got.Stock)

	events, err := svc.ListStockEvents(ctx, owner, inventory.EventFilter{})
	require.NoError(t, err)
	assert.Empty(t, events.Items)

	res, err := svc.ApplyStockEvents(ctx, owner, inventory.StockBatchInput{Kind: inventory.KindExit, Reason: inventory.ReasonSale})
	require.NoError(t, err)
	assert.Empty(t, res.Events)
}

func TestService_UpdateProductKeepsStock(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t, inventory.PolicyClamp)
	owner := id.New()
	p := createProduct(t, svc, owner, "Sugar", 9, 2)

	updated, err := svc.UpdateProduct(ctx, owner, p.ID, inventory.UpdateProductInput{
		Name:      "Cane sugar",
		Category:  inventory.CategoryRawMaterial,
		UnitPrice: types.MustMoney("3.10"),
		MinStock:  4,
	})
	require.NoError(t, err)
	assert.Equal(t, "Cane sugar", updated.Name)
	assert.Equal(t, int64(9), updated.Stock)

	_, err = svc.UpdateProduct(ctx, owner, p.ID, inventory.UpdateProductInput{Name: "", Category: inventory.CategoryRawMaterial})
	assert.True(t, apperror.IsValidation(err))
}

func TestService_ListProductsAndSummary(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t, inventory.PolicyClamp)
	owner := id.New()
	createProduct(t, svc, owner, "Baguette", 30, 10)
	createProduct(t, svc, owner, "Brioche", 2, 5)
	createProduct(t, svc, owner, "Croissant", 0, 5)
	createProduct(t, svc, id.New(), "Foreign", 1, 5)

	low, err := svc.ListProducts(ctx, owner, inventory.ProductFilter{LowStockOnly: true})
	require.NoError(t, err)
	assert.Equal(t, int64(2), low.TotalCount)
	assert.Equal(t, "Brioche", low.Items[0].Name)

	found, err := svc.ListProducts(ctx, owner, inventory.ProductFilter{Search: "bri"})
	require.NoError(t, err)
	require.Len(t, found.Items, 1)

	sum, err := svc.Summary(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, 3, sum.ProductCount)
	assert.True(t, sum.TotalValue.Equal(types.MustMoney("38.40")), "got %s", sum.TotalValue)
	assert.Len(t, sum.LowStock, 2)
	assert.Len(t, sum.OutOfStock, 1)
}

func TestService_DeleteProduct(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t, inventory.PolicyClamp)
	owner := id.New()
	p := createProduct(t, svc, owner, "Jam", 1, 0)

	assert.True(t, apperror.IsNotFound(svc.DeleteProduct(ctx, id.New(), p.ID)))
	require.NoError(t, svc.DeleteProduct(ctx, owner, p.ID))
	_, err := svc.GetProduct(ctx, owner, p.ID)
	assert.True(t, apperror.IsNotFound(err))
}

func TestService_ListStockEventsRejectsInvertedRange(t *testing.T) {
	svc, _ := newService(t, inventory.PolicyClamp)
	from := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, -1)
	_, err := svc.ListStockEvents(context.Background(), id.New(), inventory.EventFilter{FromDate: &from, ToDate: &to})
	assert.True(t, apperror.IsValidation(err))
}
