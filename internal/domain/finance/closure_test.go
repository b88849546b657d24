package finance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizdesk/internal/core/apperror"
	"bizdesk/internal/core/types"
	"bizdesk/internal/domain/sales"
)

func sale(at time.Time, method sales.PaymentMethod, total string) sales.Sale {
	return sales.Sale{
		OwnerID:       testOwner,
		Timestamp:     at,
		PaymentMethod: method,
		TotalAmount:   types.MustMoney(total),
	}
}

func dayWindow() Window {
	start := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	return Window{Start: start, End: start.AddDate(0, 0, 1)}
}

func TestClose(t *testing.T) {
	w := dayWindow()
	list := []sales.Sale{
		sale(w.Start.Add(9*time.Hour), sales.PaymentCash, "25.40"),
		sale(w.Start.Add(10*time.Hour), sales.PaymentCash, "15.00"),
		sale(w.Start.Add(11*time.Hour), sales.PaymentCard, "30"),
		sale(w.Start.Add(12*time.Hour), sales.PaymentCheck, "5"),
		sale(w.Start.Add(13*time.Hour), sales.PaymentTransfer, "7.50"),
		sale(w.End, sales.PaymentCash, "99"), // next day
	}

	c, err := Close(testOwner, list, w, types.MustMoney("38.40"), " short ", "u1", testNow)
	require.NoError(t, err)

	assert.Equal(t, 5, c.SalesCount)
	assert.True(t, c.CashTotal.Equal(types.MustMoney("40.40")))
	assert.True(t, c.CardTotal.Equal(types.MustMoney("30")))
	assert.True(t, c.CheckTotal.Equal(types.MustMoney("5")))
	assert.True(t, c.TransferTotal.Equal(types.MustMoney("7.50")))
	assert.True(t, c.TotalSales.Equal(types.MustMoney("82.90")))
	assert.True(t, c.ExpectedCash.Equal(c.CashTotal))
	assert.True(t, c.Difference.Equal(types.MustMoney("-2.00")), "got %s", c.Difference)
	require.NotNil(t, c.Notes)
	assert.Equal(t, "short", *c.Notes)

	r := c.ClosureRecord()
	assert.Equal(t, KindIncome, r.Kind)
	assert.Equal(t, CategoryCashClosure, r.Category)
	assert.True(t, r.Amount.Equal(c.TotalSales))
	assert.Equal(t, c.ID, *r.ClosureID)
	assert.Contains(t, r.Description, "5 sales")
	assert.Contains(t, r.Description, "-2.00")
}

func TestClose_Rejects(t *testing.T) {
	w := dayWindow()
	list := []sales.Sale{sale(w.Start.Add(time.Hour), sales.PaymentCash, "10")}

	_, err := Close(testOwner, nil, w, types.Zero(), "", "u1", testNow)
	assert.True(t, apperror.IsValidation(err), "no sales")

	_, err = Close(testOwner, list, Window{Start: w.End, End: w.Start}, types.Zero(), "", "u1", testNow)
	assert.True(t, apperror.IsValidation(err), "inverted window")

	_, err = Close(testOwner, list, w, types.MustMoney("-1"), "", "u1", testNow)
	assert.True(t, apperror.IsValidation(err), "negative cash")

	_, err = Close(testOwner, list, w, types.MustMoney("10.001"), "", "u1", testNow)
	assert.True(t, apperror.IsValidation(err), "sub-cent cash")
}
