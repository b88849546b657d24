package dto

import (
	"time"

	"bizdesk/internal/domain/journal"
)

// JournalEntryRequest for POST /journal and PUT /journal/:id.
type JournalEntryRequest struct {
	Date     *time.Time `json:"date"`
	Title    string     `json:"title" binding:"required,max=200"`
	Content  string     `json:"content" binding:"required,max=20000"`
	Mood     string     `json:"mood" binding:"omitempty,oneof=excellent good neutral difficult challenging"`
	Category string     `json:"category" binding:"omitempty,oneof=business personal goals reflection ideas"`
}

// ToInput converts to the service input.
func (r JournalEntryRequest) ToInput() journal.Input {
	in := journal.Input{
		Title:    r.Title,
		Content:  r.Content,
		Mood:     journal.Mood(r.Mood),
		Category: journal.Category(r.Category),
	}
	if r.Date != nil {
		in.Date = *r.Date
	}
	return in
}

// JournalListQuery for GET /journal.
type JournalListQuery struct {
	Category string `form:"category" binding:"omitempty,oneof=business personal goals reflection ideas"`
	Mood     string `form:"mood" binding:"omitempty,oneof=excellent good neutral difficult challenging"`
	Search   string `form:"search"`
	PageQuery
}

// ToFilter converts to the repository filter.
func (q JournalListQuery) ToFilter() journal.Filter {
	f := journal.Filter{Search: q.Search, Page: q.ToPage()}
	if q.Category != "" {
		c := journal.Category(q.Category)
		f.Category = &c
	}
	if q.Mood != "" {
		m := journal.Mood(q.Mood)
		f.Mood = &m
	}
	return f
}
