// Package dashboard derives the overview statistics from the owner's
// sales, products, financial records and customers.
package dashboard

import (
	"sort"
	"time"

	"bizdesk/internal/core/calendar"
	"bizdesk/internal/core/types"
	"bizdesk/internal/domain/customers"
	"bizdesk/internal/domain/finance"
	"bizdesk/internal/domain/inventory"
	"bizdesk/internal/domain/sales"
)

// TopProductsLimit caps Stats.TopProducts.
const TopProductsLimit = 3

// Collections are the inputs of Compute.
type Collections struct {
	Sales     []sales.Sale
	Products  []inventory.Product
	Records   []finance.Record
	Customers []customers.Customer
}

// ProductSales is the quantity sold of one product.
type ProductSales struct {
	Name     string `json:"name"`
	Quantity int64  `json:"quantity"`
}

// Stats is the dashboard overview.
type Stats struct {
	TodaySales     types.Money    `json:"todaySales"`
	MonthSales     types.Money    `json:"monthSales"`
	TotalCustomers int            `json:"totalCustomers"`
	LowStockItems  int            `json:"lowStockItems"`
	CashFlow       types.Money    `json:"cashFlow"`
	TopProducts    []ProductSales `json:"topProducts"`
	ComputedAt     time.Time      `json:"computedAt"`
}

// Compute derives Stats from c. It does not modify c and returns the same
// result for the same inputs, now and calendar.
//
// Sales count toward today when they fall on now's calendar day and toward
// the month when they are at or after the first day of now's month.
// Top products rank by quantity sold across all sales, ties broken by name.
func Compute(c Collections, now time.Time, cal calendar.Calendar) Stats {
	st := Stats{
		TodaySales:     types.Zero(),
		MonthSales:     types.Zero(),
		CashFlow:       types.Zero(),
		TotalCustomers: len(c.Customers),
		ComputedAt:     now,
	}

	monthStart := cal.StartOfMonth(now)
	tally := map[string]int64{}
	for i := range c.Sales {
		s := &c.Sales[i]
		if cal.SameDay(s.Timestamp, now) {
			st.TodaySales = st.TodaySales.Add(s.TotalAmount)
		}
		if !s.Timestamp.Before(monthStart) {
			st.MonthSales = st.MonthSales.Add(s.TotalAmount)
		}
		for _, it := range s.Items {
			tally[it.ProductName] += it.Quantity
		}
	}

	for i := range c.Products {
		if c.Products[i].IsLowStock() {
			st.LowStockItems++
		}
	}

	for i := range c.Records {
		r := &c.Records[i]
		switch r.Kind {
		case finance.KindIncome:
			st.CashFlow = st.CashFlow.Add(r.Amount)
		case finance.KindExpense:
			st.CashFlow = st.CashFlow.Sub(r.Amount)
		}
	}

	st.TopProducts = topProducts(tally, TopProductsLimit)
	return st
}

func topProducts(tally map[string]int64, limit int) []ProductSales {
	out := make([]ProductSales, 0, len(tally))
	for name, qty := range tally {
		out = append(out, ProductSales{Name: name, Quantity: qty})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Quantity != out[j].Quantity {
			return out[i].Quantity > out[j].Quantity
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
