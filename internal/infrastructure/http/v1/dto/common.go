// Package dto provides Data Transfer Objects for API requests/responses.
package dto

import (
	"time"

	"bizdesk/internal/core/id"
	"bizdesk/internal/domain"
)

// --- Pagination ---

// PageQuery holds limit/offset query parameters. Zero limit means the
// service default.
type PageQuery struct {
	Limit  int `form:"limit" binding:"omitempty,min=1,max=1000"`
	Offset int `form:"offset" binding:"omitempty,min=0"`
}

// ToPage converts to domain.Page.
func (q PageQuery) ToPage() domain.Page {
	return domain.Page{Limit: q.Limit, Offset: q.Offset}
}

// DateRangeQuery holds an optional [fromDate, toDate) range in RFC 3339.
type DateRangeQuery struct {
	FromDate *time.Time `form:"fromDate" time_format:"2006-01-02T15:04:05Z07:00"`
	ToDate   *time.Time `form:"toDate" time_format:"2006-01-02T15:04:05Z07:00"`
}

// --- List Response ---

// ListResponse wraps list results with pagination.
type ListResponse[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
}

// NewListResponse converts a domain list result.
func NewListResponse[T any](r domain.ListResult[T]) ListResponse[T] {
	items := r.Items
	if items == nil {
		items = []T{}
	}
	return ListResponse[T]{
		Items:      items,
		TotalCount: r.TotalCount,
		Limit:      r.Limit,
		Offset:     r.Offset,
	}
}

// optionalID parses s, already checked by the uuid binding, or returns nil.
func optionalID(s string) *id.ID {
	if s == "" {
		return nil
	}
	v := id.MustParse(s)
	return &v
}
