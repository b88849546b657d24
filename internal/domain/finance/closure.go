package finance

import (
	"fmt"
	"strings"
	"time"

	"bizdesk/internal/core/apperror"
	"bizdesk/internal/core/id"
	"bizdesk/internal/core/types"
	"bizdesk/internal/domain/sales"
)

// Window is a half-open time range [Start, End).
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// Closure reconciles the cash drawer against recorded sales.
type Closure struct {
	ID            id.ID       `db:"id" json:"id"`
	OwnerID       id.ID       `db:"owner_id" json:"ownerId"`
	Date          time.Time   `db:"date" json:"date"`
	WindowStart   time.Time   `db:"window_start" json:"windowStart"`
	WindowEnd     time.Time   `db:"window_end" json:"windowEnd"`
	TotalSales    types.Money `db:"total_sales" json:"totalSales"`
	CashTotal     types.Money `db:"cash_total" json:"cashTotal"`
	CardTotal     types.Money `db:"card_total" json:"cardTotal"`
	TransferTotal types.Money `db:"transfer_total" json:"transferTotal"`
	CheckTotal    types.Money `db:"check_total" json:"checkTotal"`
	SalesCount    int         `db:"sales_count" json:"salesCount"`
	ExpectedCash  types.Money `db:"expected_cash" json:"expectedCash"`
	ActualCash    types.Money `db:"actual_cash" json:"actualCash"`
	Difference    types.Money `db:"difference" json:"difference"`
	Notes         *string     `db:"notes" json:"notes,omitempty"`
	ActorID       string      `db:"actor_id" json:"actorId"`
}

// Window returns the closure window.
func (c *Closure) Window() Window {
	return Window{Start: c.WindowStart, End: c.WindowEnd}
}

// Close builds a closure from the sales inside window. Sales outside the
// window are ignored. ExpectedCash is the cash total and Difference is
// actualCash minus ExpectedCash.
func Close(ownerID id.ID, list []sales.Sale, window Window, actualCash types.Money, notes, actorID string, now time.Time) (Closure, error) {
	if !window.End.After(window.Start) {
		return Closure{}, apperror.NewValidation("closure window end must be after start")
	}
	if actualCash.IsNegative() {
		return Closure{}, apperror.NewValidation("actual cash cannot be negative").WithDetail("field", "actualCash")
	}
	if !types.FitsScale(actualCash) {
		return Closure{}, apperror.NewValidation("actual cash has more than two decimal places").WithDetail("field", "actualCash")
	}

	c := Closure{
		ID:            id.New(),
		OwnerID:       ownerID,
		Date:          now,
		WindowStart:   window.Start,
		WindowEnd:     window.End,
		TotalSales:    types.Zero(),
		CashTotal:     types.Zero(),
		CardTotal:     types.Zero(),
		TransferTotal: types.Zero(),
		CheckTotal:    types.Zero(),
		ActualCash:    actualCash,
		ActorID:       actorID,
	}
	for i := range list {
		s := &list[i]
		if !window.Contains(s.Timestamp) {
			continue
		}
		c.SalesCount++
		c.TotalSales = c.TotalSales.Add(s.TotalAmount)
		switch s.PaymentMethod {
		case sales.PaymentCash:
			c.CashTotal = c.CashTotal.Add(s.TotalAmount)
		case sales.PaymentCard:
			c.CardTotal = c.CardTotal.Add(s.TotalAmount)
		case sales.PaymentTransfer:
			c.TransferTotal = c.TransferTotal.Add(s.TotalAmount)
		case sales.PaymentCheck:
			c.CheckTotal = c.CheckTotal.Add(s.TotalAmount)
		}
	}
	if c.SalesCount == 0 {
		return Closure{}, apperror.NewValidation("no sales in closure window")
	}
	if !c.TotalSales.IsPositive() {
		return Closure{}, apperror.NewValidation("closure window has no revenue")
	}

	c.ExpectedCash = c.CashTotal
	c.Difference = actualCash.Sub(c.ExpectedCash)
	if n := strings.TrimSpace(notes); n != "" {
		c.Notes = &n
	}
	return c, nil
}

// ClosureRecord returns the income record derived from the closure.
func (c *Closure) ClosureRecord() Record {
	closureID := c.ID
	return Record{
		ID:       id.New(),
		OwnerID:  c.OwnerID,
		Date:     c.Date,
		Kind:     KindIncome,
		Category: CategoryCashClosure,
		Amount:   c.TotalSales,
		Description: fmt.Sprintf("Cash register closure: %d sales, difference %s",
			c.SalesCount, c.Difference.StringFixed(types.MoneyScale)),
		ClosureID: &closureID,
		CreatedAt: c.Date,
	}
}
