package dashboard

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizdesk/internal/core/calendar"
	"bizdesk/internal/core/types"
	"bizdesk/internal/domain/customers"
	"bizdesk/internal/domain/finance"
	"bizdesk/internal/domain/inventory"
	"bizdesk/internal/domain/sales"
)

func saleAt(at time.Time, total string, lines ...sales.LineItem) sales.Sale {
	return sales.Sale{Timestamp: at, TotalAmount: types.MustMoney(total), Items: lines}
}

func item(name string, qty int64) sales.LineItem {
	return sales.LineItem{ProductName: name, Quantity: qty}
}

func TestCompute_TodaySales(t *testing.T) {
	now := time.Date(2024, 1, 15, 23, 0, 0, 0, time.UTC)
	c := Collections{Sales: []sales.Sale{
		saleAt(time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC), "25.40"),
		saleAt(time.Date(2024, 1, 15, 17, 30, 0, 0, time.UTC), "15.00"),
		saleAt(time.Date(2024, 1, 14, 23, 59, 59, 0, time.UTC), "100"),
		saleAt(time.Date(2023, 12, 31, 12, 0, 0, 0, time.UTC), "7"),
	}}

	st := Compute(c, now, calendar.UTC())
	assert.True(t, st.TodaySales.Equal(types.MustMoney("40.40")), "got %s", st.TodaySales)
	assert.True(t, st.MonthSales.Equal(types.MustMoney("140.40")), "got %s", st.MonthSales)
}

func TestCompute_DayBoundaryFollowsCalendar(t *testing.T) {
	// 23:30 UTC on the 14th is already the 15th in Paris.
	paris, err := time.LoadLocation("Europe/Paris")
	require.NoError(t, err)
	now := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	c := Collections{Sales: []sales.Sale{saleAt(time.Date(2024, 1, 14, 23, 30, 0, 0, time.UTC), "12")}}

	assert.True(t, Compute(c, now, calendar.UTC()).TodaySales.IsZero())
	assert.True(t, Compute(c, now, calendar.In(paris)).TodaySales.Equal(types.MustMoney("12")))
}

func TestCompute_TopProducts(t *testing.T) {
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	c := Collections{Sales: []sales.Sale{
		saleAt(now, "1", item("B", 2), item("C", 3)),
		saleAt(now, "1", item("A", 5), item("D", 1)),
		saleAt(now, "1", item("B", 3)),
	}}

	st := Compute(c, now, calendar.UTC())
	assert.Equal(t, []ProductSales{
		{Name: "A", Quantity: 5},
		{Name: "B", Quantity: 5},
		{Name: "C", Quantity: 3},
	}, st.TopProducts)
}

func TestCompute_LowStockCashFlowCustomers(t *testing.T) {
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	c := Collections{
		Products: []inventory.Product{
			{Name: "at minimum", Stock: 10, MinStock: 10},
			{Name: "empty", Stock: 0, MinStock: 0},
			{Name: "fine", Stock: 11, MinStock: 10},
		},
		Records: []finance.Record{
			{Kind: finance.KindIncome, Amount: types.MustMoney("30.25")},
			{Kind: finance.KindExpense, Amount: types.MustMoney("10.25")},
			{Kind: finance.KindExpense, Amount: types.MustMoney("20")},
		},
		Customers: make([]customers.Customer, 4),
	}

	st := Compute(c, now, calendar.UTC())
	assert.Equal(t, 2, st.LowStockItems)
	assert.True(t, st.CashFlow.IsZero(), "got %s", st.CashFlow)
	assert.Equal(t, 4, st.TotalCustomers)
	assert.Empty(t, st.TopProducts)
	assert.NotNil(t, st.TopProducts)
}

func TestCompute_Idempotent(t *testing.T) {
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	c := Collections{
		Sales: []sales.Sale{
			saleAt(now, "3", item("Z", 1), item("Y", 1), item("X", 1), item("W", 1)),
		},
		Products: []inventory.Product{{Stock: 1, MinStock: 2}},
		Records:  []finance.Record{{Kind: finance.KindIncome, Amount: types.MustMoney("3")}},
	}

	first := Compute(c, now, calendar.UTC())
	second := Compute(c, now, calendar.UTC())
	assert.Equal(t, first, second)
	assert.Len(t, first.TopProducts, TopProductsLimit)
	assert.Equal(t, "W", first.TopProducts[0].Name)
	assert.Len(t, c.Sales[0].Items, 4, "input untouched")
}
