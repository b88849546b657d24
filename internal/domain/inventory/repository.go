package inventory

import (
	"context"
	"time"

	"bizdesk/internal/core/id"
	"bizdesk/internal/domain"
)

// ProductRepository persists products. Every call is scoped by owner.
type ProductRepository interface {
	Create(ctx context.Context, p *Product) error

	// Update writes descriptive fields (name, category, price, minimum, supplier).
	Update(ctx context.Context, p *Product) error

	// UpdateStock writes stock, last_restocked and updated_at only.
	UpdateStock(ctx context.Context, p *Product) error

	Delete(ctx context.Context, ownerID, productID id.ID) error

	Get(ctx context.Context, ownerID, productID id.ID) (*Product, error)

	// GetForUpdate locks the product row until the surrounding transaction ends.
	GetForUpdate(ctx context.Context, ownerID, productID id.ID) (*Product, error)

	List(ctx context.Context, ownerID id.ID, filter ProductFilter) (domain.ListResult[Product], error)

	// ListAll returns the whole catalog, ordered by name.
	ListAll(ctx context.Context, ownerID id.ID) ([]Product, error)
}

// EventRepository is the append-only stock ledger store.
type EventRepository interface {
	Append(ctx context.Context, events ...StockEvent) error

	// List returns events newest first.
	List(ctx context.Context, ownerID id.ID, filter EventFilter) (domain.ListResult[StockEvent], error)
}

// ProductFilter narrows product lists.
type ProductFilter struct {
	Category     *Category
	LowStockOnly bool
	SupplierID   *id.ID
	Search       string
	domain.Page
}

// EventFilter narrows ledger queries.
type EventFilter struct {
	ProductID *id.ID
	Kind      *Kind
	FromDate  *time.Time
	ToDate    *time.Time
	domain.Page
}

// MatchProduct reports whether p passes the filter's predicates (pagination aside).
func (f ProductFilter) MatchProduct(p *Product) bool {
	if f.Category != nil && p.Category != *f.Category {
		return false
	}
	if f.LowStockOnly && !p.IsLowStock() {
		return false
	}
	if f.SupplierID != nil && (p.SupplierRef == nil || *p.SupplierRef != *f.SupplierID) {
		return false
	}
	if f.Search != "" && !domain.ContainsFold(p.Name, f.Search) {
		return false
	}
	return true
}

// MatchEvent reports whether e passes the filter's predicates (pagination aside).
func (f EventFilter) MatchEvent(e *StockEvent) bool {
	if f.ProductID != nil && e.ProductID != *f.ProductID {
		return false
	}
	if f.Kind != nil && e.Kind != *f.Kind {
		return false
	}
	if f.FromDate != nil && e.Timestamp.Before(*f.FromDate) {
		return false
	}
	if f.ToDate != nil && !e.Timestamp.Before(*f.ToDate) {
		return false
	}
	return true
}
