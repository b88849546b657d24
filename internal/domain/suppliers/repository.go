package suppliers

import (
	"context"
	"time"

	"bizdesk/internal/core/id"
	"bizdesk/internal/domain"
)

// Repository persists suppliers. Every call is scoped by owner.
type Repository interface {
	Create(ctx context.Context, s *Supplier) error

	// Update writes every mutable field, balances included.
	Update(ctx context.Context, s *Supplier) error

	Delete(ctx context.Context, ownerID, supplierID id.ID) error
	Get(ctx context.Context, ownerID, supplierID id.ID) (*Supplier, error)

	// GetForUpdate locks the supplier row until the surrounding transaction ends.
	GetForUpdate(ctx context.Context, ownerID, supplierID id.ID) (*Supplier, error)

	List(ctx context.Context, ownerID id.ID, filter Filter) (domain.ListResult[Supplier], error)
	ListAll(ctx context.Context, ownerID id.ID) ([]Supplier, error)
}

// InvoiceRepository persists supplier invoices. Numbers are unique per supplier.
type InvoiceRepository interface {
	Create(ctx context.Context, inv *Invoice) error

	// UpdateStatus writes status and paid_at only.
	UpdateStatus(ctx context.Context, inv *Invoice) error

	GetForUpdate(ctx context.Context, ownerID, invoiceID id.ID) (*Invoice, error)

	// List returns invoices by due date, oldest first.
	List(ctx context.Context, ownerID id.ID, filter InvoiceFilter) (domain.ListResult[Invoice], error)
}

// Filter narrows supplier lists. Search matches name or contact person.
type Filter struct {
	Status *Status
	Search string
	domain.Page
}

// Match reports whether s passes the filter (pagination aside).
func (f Filter) Match(s *Supplier) bool {
	if f.Status != nil && s.Status != *f.Status {
		return false
	}
	if f.Search == "" {
		return true
	}
	if domain.ContainsFold(s.Name, f.Search) {
		return true
	}
	return s.ContactPerson != nil && domain.ContainsFold(*s.ContactPerson, f.Search)
}

// InvoiceFilter narrows invoice lists. DueBefore keeps invoices due strictly
// before the given time.
type InvoiceFilter struct {
	SupplierID *id.ID
	Status     *InvoiceStatus
	DueBefore  *time.Time
	domain.Page
}

// Match reports whether inv passes the filter (pagination aside).
func (f InvoiceFilter) Match(inv *Invoice) bool {
	if f.SupplierID != nil && inv.SupplierID != *f.SupplierID {
		return false
	}
	if f.Status != nil && inv.Status != *f.Status {
		return false
	}
	if f.DueBefore != nil && !inv.DueDate.Before(*f.DueBefore) {
		return false
	}
	return true
}
