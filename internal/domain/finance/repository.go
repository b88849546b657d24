package finance

import (
	"context"
	"time"

	"bizdesk/internal/core/id"
	"bizdesk/internal/domain"
)

// RecordRepository is the append-only store of financial records.
type RecordRepository interface {
	Create(ctx context.Context, r *Record) error

	// List returns records newest first.
	List(ctx context.Context, ownerID id.ID, filter RecordFilter) (domain.ListResult[Record], error)

	// ListAll returns every record matching the date range of filter; pagination is ignored.
	ListAll(ctx context.Context, ownerID id.ID, filter RecordFilter) ([]Record, error)
}

// ClosureRepository stores cash register closures.
type ClosureRepository interface {
	Create(ctx context.Context, c *Closure) error

	// List returns closures newest first.
	List(ctx context.Context, ownerID id.ID, page domain.Page) (domain.ListResult[Closure], error)
}

// RecordFilter narrows record lists.
type RecordFilter struct {
	Kind     *RecordKind
	Category string
	FromDate *time.Time
	ToDate   *time.Time
	Search   string
	domain.Page
}

// Match reports whether r passes the filter (pagination aside).
func (f RecordFilter) Match(r *Record) bool {
	if f.Kind != nil && r.Kind != *f.Kind {
		return false
	}
	if f.Category != "" && r.Category != f.Category {
		return false
	}
	if f.FromDate != nil && r.Date.Before(*f.FromDate) {
		return false
	}
	if f.ToDate != nil && !r.Date.Before(*f.ToDate) {
		return false
	}
	if f.Search != "" && !domain.ContainsFold(r.Description, f.Search) && !domain.ContainsFold(r.Category, f.Search) {
		return false
	}
	return true
}
