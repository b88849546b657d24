package journal

import (
	"context"

	"bizdesk/internal/core/id"
	"bizdesk/internal/domain"
)

// Repository persists journal entries. Every call is scoped by owner.
type Repository interface {
	Create(ctx context.Context, e *Entry) error
	Update(ctx context.Context, e *Entry) error
	Delete(ctx context.Context, ownerID, entryID id.ID) error
	Get(ctx context.Context, ownerID, entryID id.ID) (*Entry, error)

	// List returns entries newest first.
	List(ctx context.Context, ownerID id.ID, filter Filter) (domain.ListResult[Entry], error)
}

// Filter narrows journal lists. Search matches title or content.
type Filter struct {
	Category *Category
	Mood     *Mood
	Search   string
	domain.Page
}

// Match reports whether e passes the filter (pagination aside).
func (f Filter) Match(e *Entry) bool {
	if f.Category != nil && e.Category != *f.Category {
		return false
	}
	if f.Mood != nil && e.Mood != *f.Mood {
		return false
	}
	if f.Search == "" {
		return true
	}
	return domain.ContainsFold(e.Title, f.Search) || domain.ContainsFold(e.Content, f.Search)
}
