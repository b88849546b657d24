// Package domain provides types shared by all business packages.
package domain

import (
	"context"

	"bizdesk/internal/core/id"
)

// Page holds pagination options for list operations.
type Page struct {
	Limit  int
	Offset int
}

// Normalize applies default and maximum limits.
func (p Page) Normalize(def, max int) Page {
	if p.Limit <= 0 {
		p.Limit = def
	}
	if p.Limit > max {
		p.Limit = max
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// ListResult contains paginated results.
type ListResult[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
}

// Paginate slices items according to p. Used by stores that filter in memory.
func Paginate[T any](items []T, p Page) ListResult[T] {
	total := len(items)
	start := min(p.Offset, total)
	end := total
	if p.Limit > 0 {
		end = min(start+p.Limit, total)
	}
	return ListResult[T]{
		Items:      items[start:end],
		TotalCount: int64(total),
		Limit:      p.Limit,
		Offset:     p.Offset,
	}
}

// ChangeNotifier is told when an owner's collections changed so that
// derived read models (the dashboard cache) can be dropped.
type ChangeNotifier interface {
	Invalidate(ctx context.Context, ownerID id.ID)
}

// NopNotifier ignores change notifications.
type NopNotifier struct{}

// Invalidate implements ChangeNotifier.
func (NopNotifier) Invalidate(context.Context, id.ID) {}
