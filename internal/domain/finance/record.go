// Package finance keeps income and expense records and cash register closures.
package finance

import (
	"sort"
	"strings"
	"time"

	"bizdesk/internal/core/apperror"
	"bizdesk/internal/core/id"
	"bizdesk/internal/core/types"
)

// RecordKind is the direction of a financial record.
type RecordKind string

const (
	KindIncome  RecordKind = "income"
	KindExpense RecordKind = "expense"
)

// IsValid reports whether k is a known kind.
func (k RecordKind) IsValid() bool {
	return k == KindIncome || k == KindExpense
}

// Default categories.
const (
	CategorySales       = "Sales"
	CategoryGeneral     = "General"
	CategoryCashClosure = "Cash register closure"
	CategorySuppliers   = "Suppliers"
)

// Record is an immutable income or expense entry.
type Record struct {
	ID          id.ID       `db:"id" json:"id"`
	OwnerID     id.ID       `db:"owner_id" json:"ownerId"`
	Date        time.Time   `db:"date" json:"date"`
	Kind        RecordKind  `db:"kind" json:"kind"`
	Category    string      `db:"category" json:"category"`
	Amount      types.Money `db:"amount" json:"amount"`
	Description string      `db:"description" json:"description"`
	Receipt     *string     `db:"receipt" json:"receipt,omitempty"`
	ClosureID   *id.ID      `db:"closure_id" json:"closureId,omitempty"`
	CreatedAt   time.Time   `db:"created_at" json:"createdAt"`
}

// RecordInput is a requested financial record.
type RecordInput struct {
	Date        time.Time
	Kind        RecordKind
	Category    string
	Amount      types.Money
	Description string
	Receipt     string
}

// NewRecord validates in and builds a record. An empty category defaults
// to Sales for income and General for expenses.
func NewRecord(ownerID id.ID, in RecordInput, now time.Time) (Record, error) {
	if !in.Kind.IsValid() {
		return Record{}, apperror.NewValidation("unknown record kind").
			WithDetail("field", "kind").
			WithDetail("value", in.Kind)
	}
	if !in.Amount.IsPositive() {
		return Record{}, apperror.NewValidation("amount must be greater than zero").WithDetail("field", "amount")
	}
	if !types.FitsScale(in.Amount) {
		return Record{}, apperror.NewValidation("amount has more than two decimal places").WithDetail("field", "amount")
	}
	desc := strings.TrimSpace(in.Description)
	if desc == "" {
		return Record{}, apperror.NewValidation("description is required").WithDetail("field", "description")
	}

	category := strings.TrimSpace(in.Category)
	if category == "" {
		category = CategoryGeneral
		if in.Kind == KindIncome {
			category = CategorySales
		}
	}
	date := in.Date
	if date.IsZero() {
		date = now
	}

	r := Record{
		ID:          id.New(),
		OwnerID:     ownerID,
		Date:        date,
		Kind:        in.Kind,
		Category:    category,
		Amount:      in.Amount,
		Description: desc,
		CreatedAt:   now,
	}
	if rc := strings.TrimSpace(in.Receipt); rc != "" {
		r.Receipt = &rc
	}
	return r, nil
}

// CategoryTotal is the sum of one category.
type CategoryTotal struct {
	Category string      `json:"category"`
	Amount   types.Money `json:"amount"`
	Count    int         `json:"count"`
}

// Summary aggregates records.
type Summary struct {
	Income            types.Money     `json:"income"`
	Expense           types.Money     `json:"expense"`
	Net               types.Money     `json:"net"`
	Count             int             `json:"count"`
	IncomeByCategory  []CategoryTotal `json:"incomeByCategory"`
	ExpenseByCategory []CategoryTotal `json:"expenseByCategory"`
}

// Summarize totals records. Net is income minus expense. Category
// breakdowns are ordered by amount descending, then name.
func Summarize(records []Record) Summary {
	income := map[string]*CategoryTotal{}
	expense := map[string]*CategoryTotal{}
	s := Summary{Income: types.Zero(), Expense: types.Zero(), Count: len(records)}

	for i := range records {
		r := &records[i]
		bucket := expense
		if r.Kind == KindIncome {
			s.Income = s.Income.Add(r.Amount)
			bucket = income
		} else {
			s.Expense = s.Expense.Add(r.Amount)
		}
		ct, ok := bucket[r.Category]
		if !ok {
			ct = &CategoryTotal{Category: r.Category, Amount: types.Zero()}
			bucket[r.Category] = ct
		}
		ct.Amount = ct.Amount.Add(r.Amount)
		ct.Count++
	}

	s.Net = s.Income.Sub(s.Expense)
	s.IncomeByCategory = sortedTotals(income)
	s.ExpenseByCategory = sortedTotals(expense)
	return s
}

func sortedTotals(m map[string]*CategoryTotal) []CategoryTotal {
	out := make([]CategoryTotal, 0, len(m))
	for _, ct := range m {
		out = append(out, *ct)
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Amount.Cmp(out[j].Amount); c != 0 {
			return c > 0
		}
		return out[i].Category < out[j].Category
	})
	return out
}
