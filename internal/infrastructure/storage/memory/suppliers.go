package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"bizdesk/internal/core/apperror"
	"bizdesk/internal/core/id"
	"bizdesk/internal/domain"
	"bizdesk/internal/domain/suppliers"
)

// SupplierRepo implements suppliers.Repository.
type SupplierRepo struct {
	s *Store
}

var _ suppliers.Repository = (*SupplierRepo)(nil)

func (r *SupplierRepo) Create(ctx context.Context, sup *suppliers.Supplier) error {
	defer r.s.lock(ctx)()
	if _, ok := r.s.suppliers[sup.ID]; ok {
		return apperror.NewDuplicate("supplier", "id", sup.ID.String())
	}
	r.s.suppliers[sup.ID] = *sup
	return nil
}

func (r *SupplierRepo) Update(ctx context.Context, sup *suppliers.Supplier) error {
	defer r.s.lock(ctx)()
	cur, ok := r.s.suppliers[sup.ID]
	if !ok || cur.OwnerID != sup.OwnerID {
		return apperror.NewNotFound("supplier", sup.ID.String())
	}
	r.s.suppliers[sup.ID] = *sup
	return nil
}

func (r *SupplierRepo) Delete(ctx context.Context, ownerID, supplierID id.ID) error {
	defer r.s.lock(ctx)()
	cur, ok := r.s.suppliers[supplierID]
	if !ok || cur.OwnerID != ownerID {
		return apperror.NewNotFound("supplier", supplierID.String())
	}
	delete(r.s.suppliers, supplierID)
	return nil
}

func (r *SupplierRepo) Get(_ context.Context, ownerID, supplierID id.ID) (*suppliers.Supplier, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	sup, ok := r.s.suppliers[supplierID]
	if !ok || sup.OwnerID != ownerID {
		return nil, apperror.NewNotFound("supplier", supplierID.String())
	}
	return &sup, nil
}

func (r *SupplierRepo) GetForUpdate(ctx context.Context, ownerID, supplierID id.ID) (*suppliers.Supplier, error) {
	return r.Get(ctx, ownerID, supplierID)
}

func (r *SupplierRepo) List(ctx context.Context, ownerID id.ID, filter suppliers.Filter) (domain.ListResult[suppliers.Supplier], error) {
	all, _ := r.ListAll(ctx, ownerID)
	out := slices.DeleteFunc(all, func(sup suppliers.Supplier) bool { return !filter.Match(&sup) })
	return domain.Paginate(out, filter.Page), nil
}

func (r *SupplierRepo) ListAll(_ context.Context, ownerID id.ID) ([]suppliers.Supplier, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]suppliers.Supplier, 0)
	for _, sup := range r.s.suppliers {
		if sup.OwnerID == ownerID {
			out = append(out, sup)
		}
	}
	slices.SortFunc(out, func(a, b suppliers.Supplier) int {
		return cmp.Or(
			cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)),
			strings.Compare(a.ID.String(), b.ID.String()),
		)
	})
	return out, nil
}

// InvoiceRepo implements suppliers.InvoiceRepository.
type InvoiceRepo struct {
	s *Store
}

var _ suppliers.InvoiceRepository = (*InvoiceRepo)(nil)

func (r *InvoiceRepo) Create(ctx context.Context, inv *suppliers.Invoice) error {
	defer r.s.lock(ctx)()
	if _, ok := r.s.invoices[inv.ID]; ok {
		return apperror.NewDuplicate("supplier invoice", "id", inv.ID.String())
	}
	for _, cur := range r.s.invoices {
		if cur.OwnerID == inv.OwnerID && cur.SupplierID == inv.SupplierID && cur.Number == inv.Number {
			return apperror.NewDuplicate("supplier invoice", "number", inv.Number)
		}
	}
	r.s.invoices[inv.ID] = *inv
	return nil
}

func (r *InvoiceRepo) UpdateStatus(ctx context.Context, inv *suppliers.Invoice) error {
	defer r.s.lock(ctx)()
	cur, ok := r.s.invoices[inv.ID]
	if !ok || cur.OwnerID != inv.OwnerID {
		return apperror.NewNotFound("supplier invoice", inv.ID.String())
	}
	cur.Status = inv.Status
	cur.PaidAt = inv.PaidAt
	r.s.invoices[inv.ID] = cur
	return nil
}

func (r *InvoiceRepo) GetForUpdate(_ context.Context, ownerID, invoiceID id.ID) (*suppliers.Invoice, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	inv, ok := r.s.invoices[invoiceID]
	if !ok || inv.OwnerID != ownerID {
		return nil, apperror.NewNotFound("supplier invoice", invoiceID.String())
	}
	return &inv, nil
}

func (r *InvoiceRepo) List(_ context.Context, ownerID id.ID, filter suppliers.InvoiceFilter) (domain.ListResult[suppliers.Invoice], error) {
	r.s.mu.RLock()
	out := make([]suppliers.Invoice, 0)
	for _, inv := range r.s.invoices {
		if inv.OwnerID == ownerID && filter.Match(&inv) {
			out = append(out, inv)
		}
	}
	r.s.mu.RUnlock()
	slices.SortFunc(out, func(a, b suppliers.Invoice) int {
		return cmp.Or(
			a.DueDate.Compare(b.DueDate),
			strings.Compare(a.Number, b.Number),
		)
	})
	return domain.Paginate(out, filter.Page), nil
}
