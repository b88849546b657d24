package customers

import (
	"context"

	"bizdesk/internal/core/id"
	"bizdesk/internal/domain"
)

// Repository persists customers. Every call is scoped by owner.
type Repository interface {
	Create(ctx context.Context, c *Customer) error
	Update(ctx context.Context, c *Customer) error
	Delete(ctx context.Context, ownerID, customerID id.ID) error
	Get(ctx context.Context, ownerID, customerID id.ID) (*Customer, error)

	// GetForUpdate locks the customer row until the surrounding transaction ends.
	GetForUpdate(ctx context.Context, ownerID, customerID id.ID) (*Customer, error)

	List(ctx context.Context, ownerID id.ID, filter Filter) (domain.ListResult[Customer], error)
	ListAll(ctx context.Context, ownerID id.ID) ([]Customer, error)
}

// Filter narrows customer lists. Search matches name, email or phone.
type Filter struct {
	Search string
	domain.Page
}

// Match reports whether c passes the filter (pagination aside).
func (f Filter) Match(c *Customer) bool {
	if f.Search == "" {
		return true
	}
	if domain.ContainsFold(c.Name, f.Search) {
		return true
	}
	if c.Email != nil && domain.ContainsFold(*c.Email, f.Search) {
		return true
	}
	return c.Phone != nil && domain.ContainsFold(*c.Phone, f.Search)
}
