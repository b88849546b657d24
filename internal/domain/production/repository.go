package production

import (
	"context"

	"bizdesk/internal/core/id"
	"bizdesk/internal/domain"
)

// Repository persists production plans. Every call is scoped by owner.
type Repository interface {
	Create(ctx context.Context, p *Plan) error
	Update(ctx context.Context, p *Plan) error
	Get(ctx context.Context, ownerID, planID id.ID) (*Plan, error)

	// GetForUpdate locks the plan row until the surrounding transaction ends.
	GetForUpdate(ctx context.Context, ownerID, planID id.ID) (*Plan, error)

	// List returns plans by due date, earliest first.
	List(ctx context.Context, ownerID id.ID, filter Filter) (domain.ListResult[Plan], error)
}

// Filter narrows plan lists.
type Filter struct {
	Status    *Status
	ProductID *id.ID
	domain.Page
}

// Match reports whether p passes the filter (pagination aside).
func (f Filter) Match(p *Plan) bool {
	if f.Status != nil && p.Status != *f.Status {
		return false
	}
	if f.ProductID != nil && p.ProductID != *f.ProductID {
		return false
	}
	return true
}
