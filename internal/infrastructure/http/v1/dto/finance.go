package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"bizdesk/internal/domain/finance"
)

// RecordRequest for POST /finance/records.
type RecordRequest struct {
	Date        *time.Time      `json:"date"`
	Kind        string          `json:"kind" binding:"required,oneof=income expense"`
	Category    string          `json:"category" binding:"max=100"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description" binding:"required,max=500"`
	Receipt     string          `json:"receipt" binding:"max=200"`
}

// ToInput converts to the service input.
func (r RecordRequest) ToInput() finance.RecordInput {
	in := finance.RecordInput{
		Kind:        finance.RecordKind(r.Kind),
		Category:    r.Category,
		Amount:      r.Amount,
		Description: r.Description,
		Receipt:     r.Receipt,
	}
	if r.Date != nil {
		in.Date = *r.Date
	}
	return in
}

// RecordListQuery for GET /finance/records.
type RecordListQuery struct {
	Kind     string `form:"kind" binding:"omitempty,oneof=income expense"`
	Category string `form:"category"`
	Search   string `form:"search"`
	DateRangeQuery
	PageQuery
}

// ToFilter converts to the repository filter.
func (q RecordListQuery) ToFilter() finance.RecordFilter {
	f := finance.RecordFilter{
		Category: q.Category,
		FromDate: q.FromDate,
		ToDate:   q.ToDate,
		Search:   q.Search,
		Page:     q.ToPage(),
	}
	if q.Kind != "" {
		k := finance.RecordKind(q.Kind)
		f.Kind = &k
	}
	return f
}

// CloseRegisterRequest for POST /finance/closures.
type CloseRegisterRequest struct {
	WindowStart time.Time       `json:"windowStart" binding:"required"`
	WindowEnd   time.Time       `json:"windowEnd" binding:"required"`
	ActualCash  decimal.Decimal `json:"actualCash"`
	Notes       string          `json:"notes" binding:"max=1000"`
}

// ToInput converts to the service input.
func (r CloseRegisterRequest) ToInput(actorID string) finance.CloseRegisterInput {
	return finance.CloseRegisterInput{
		Window:     finance.Window{Start: r.WindowStart, End: r.WindowEnd},
		ActualCash: r.ActualCash,
		Notes:      r.Notes,
		ActorID:    actorID,
	}
}
