package inventory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizdesk/internal/core/apperror"
	"bizdesk/internal/core/id"
	"bizdesk/internal/core/types"
)

var (
	testOwner = id.MustParse("0190a5b8-0000-7000-8000-000000000001")
	testNow   = time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
)

func testProduct(name string, stock, minStock int64) Product {
	return NewProduct(testOwner, name, CategorySaleItem, types.MustMoney("2.50"), stock, minStock, testNow.Add(-48*time.Hour))
}

func entry(p Product, qty int64) StockEvent {
	return NewStockEvent(testOwner, p.ID, KindEntry, qty, ReasonRestock, "", testNow, "u1")
}

func exit(p Product, qty int64) StockEvent {
	return NewStockEvent(testOwner, p.ID, KindExit, qty, ReasonSale, "", testNow, "u1")
}

func TestApplyEvent_EntriesAccumulate(t *testing.T) {
	l := NewLedger(PolicyClamp)
	p := testProduct("Croissant", 7, 0)
	catalog := []Product{p}

	quantities := []int64{3, 1, 12, 40}
	var sum int64
	for _, q := range quantities {
		res, err := l.ApplyEvent(entry(p, q), catalog)
		require.NoError(t, err)
		catalog = res.Catalog
		sum += q
	}

	assert.Equal(t, int64(7)+sum, catalog[0].Stock)
	assert.Equal(t, testNow, catalog[0].LastRestocked)
}

func TestApplyEvent_Exit(t *testing.T) {
	tests := []struct {
		name          string
		stock, qty    int64
		wantStock     int64
		wantUnderflow bool
	}{
		{name: "partial", stock: 10, qty: 4, wantStock: 6},
		{name: "exact", stock: 10, qty: 10, wantStock: 0},
		{name: "exceeds stock clamps", stock: 10, qty: 11, wantStock: 0, wantUnderflow: true},
		{name: "empty stock", stock: 0, qty: 1, wantStock: 0, wantUnderflow: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testProduct("Baguette", tt.stock, 2)
			res, err := NewLedger(PolicyClamp).ApplyEvent(exit(p, tt.qty), []Product{p})
			require.NoError(t, err)
			assert.Equal(t, tt.wantStock, res.Product.Stock)
			assert.Equal(t, tt.wantUnderflow, res.WouldUnderflow)
			// exits never touch the restock date
			assert.Equal(t, p.LastRestocked, res.Product.LastRestocked)
		})
	}
}

func TestApplyEvent_InvalidQuantityLeavesCatalogUnchanged(t *testing.T) {
	l := NewLedger(PolicyClamp)
	p := testProduct("Flour", 5, 1)
	catalog := []Product{p}

	for _, q := range []int64{0, -1, -100} {
		for _, ev := range []StockEvent{entry(p, q), exit(p, q)} {
			_, err := l.ApplyEvent(ev, catalog)
			require.Error(t, err)
			assert.True(t, apperror.IsInvalidQuantity(err), "quantity %d: %v", q, err)
		}
	}
	assert.Equal(t, int64(5), catalog[0].Stock)
}

func TestApplyEvent_InvalidQuantityWinsOverUnknownProduct(t *testing.T) {
	ghost := testProduct("Ghost", 0, 0)
	_, err := NewLedger(PolicyClamp).ApplyEvent(entry(ghost, 0), nil)
	assert.True(t, apperror.IsInvalidQuantity(err))
}

func TestApplyEvent_NotFound(t *testing.T) {
	l := NewLedger(PolicyClamp)
	known := testProduct("Sugar", 5, 1)
	ghost := testProduct("Ghost", 0, 0)

	_, err := l.ApplyEvent(entry(ghost, 3), []Product{known})
	assert.True(t, apperror.IsNotFound(err))
}

func TestApplyEvent_ReasonMustMatchKind(t *testing.T) {
	l := NewLedger(PolicyClamp)
	p := testProduct("Butter", 5, 1)

	ev := NewStockEvent(testOwner, p.ID, KindEntry, 1, ReasonSale, "", testNow, "u1")
	_, err := l.ApplyEvent(ev, []Product{p})
	assert.True(t, apperror.IsValidation(err))

	ev = NewStockEvent(testOwner, p.ID, KindExit, 1, ReasonProductionCompleted, "", testNow, "u1")
	_, err = l.ApplyEvent(ev, []Product{p})
	assert.True(t, apperror.IsValidation(err))

	ev = NewStockEvent(testOwner, p.ID, Kind("transfer"), 1, ReasonOther, "", testNow, "u1")
	_, err = l.ApplyEvent(ev, []Product{p})
	assert.True(t, apperror.IsValidation(err))
}

func TestApplyEvent_DoesNotMutateInput(t *testing.T) {
	l := NewLedger(PolicyClamp)
	a := testProduct("A", 5, 1)
	b := testProduct("B", 8, 1)
	catalog := []Product{a, b}

	res, err := l.ApplyEvent(exit(b, 3), catalog)
	require.NoError(t, err)

	assert.Equal(t, int64(8), catalog[1].Stock)
	assert.Equal(t, int64(5), res.Catalog[1].Stock)
	assert.Equal(t, catalog[0], res.Catalog[0])
}

func TestApplyEvent_RejectPolicy(t *testing.T) {
	l := NewLedger(PolicyReject)
	p := testProduct("Eggs", 4, 1)

	_, err := l.ApplyEvent(exit(p, 5), []Product{p})
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodeInsufficientStock))

	res, err := l.ApplyEvent(exit(p, 4), []Product{p})
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.Product.Stock)
	assert.False(t, res.WouldUnderflow)
}

func TestApplyEvents_SequentialAndStopsOnError(t *testing.T) {
	l := NewLedger(PolicyClamp)
	p := testProduct("Milk", 2, 1)
	ghost := testProduct("Ghost", 0, 0)

	res, err := l.ApplyEvents([]StockEvent{entry(p, 3), exit(p, 10), entry(p, 1)}, []Product{p})
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Catalog[0].Stock)
	assert.Len(t, res.Entries, 3)
	assert.Len(t, res.Underflows, 1)

	res, err = l.ApplyEvents([]StockEvent{entry(p, 3), entry(ghost, 1), entry(p, 1)}, []Product{p})
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
	assert.Equal(t, int64(5), res.Catalog[0].Stock)
	assert.Len(t, res.Entries, 1)
}

// Catalog has p1{stock 5, min 10}: +20 leaves low stock, -30 clamps to zero.
func TestLedger_RestockThenOversell(t *testing.T) {
	l := NewLedger(PolicyClamp)
	p := testProduct("p1", 5, 10)
	require.True(t, p.IsLowStock())

	res, err := l.ApplyEvent(entry(p, 20), []Product{p})
	require.NoError(t, err)
	assert.Equal(t, int64(25), res.Product.Stock)
	assert.False(t, res.Product.IsLowStock())

	res, err = l.ApplyEvent(exit(p, 30), res.Catalog)
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.Product.Stock)
	assert.True(t, res.WouldUnderflow)
}

func TestReasonsFor(t *testing.T) {
	assert.Len(t, ReasonsFor(KindEntry), 6)
	assert.Len(t, ReasonsFor(KindExit), 7)
	assert.Empty(t, ReasonsFor(Kind("bogus")))

	// returned slice is a copy
	r := ReasonsFor(KindEntry)
	r[0] = "changed"
	assert.Equal(t, ReasonRestock, ReasonsFor(KindEntry)[0])
}

func TestParseUnderflowPolicy(t *testing.T) {
	p, err := ParseUnderflowPolicy("")
	require.NoError(t, err)
	assert.Equal(t, PolicyClamp, p)

	p, err = ParseUnderflowPolicy("reject")
	require.NoError(t, err)
	assert.Equal(t, PolicyReject, p)

	_, err = ParseUnderflowPolicy("warn")
	assert.Error(t, err)
}
