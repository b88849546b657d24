package repository

import (
	"context"

	"github.com/Masterminds/squirrel"

	"bizdesk/internal/core/id"
	"bizdesk/internal/domain"
	"bizdesk/internal/domain/suppliers"
	"bizdesk/internal/infrastructure/storage/postgres"
)

const (
	tableSuppliers        = "suppliers"
	tableSupplierInvoices = "supplier_invoices"
)

// SupplierRepo stores suppliers.
type SupplierRepo struct {
	baseRepo[suppliers.Supplier]
}

var _ suppliers.Repository = (*SupplierRepo)(nil)

// NewSupplierRepo creates a supplier repository.
func NewSupplierRepo(txm *postgres.TxManager) *SupplierRepo {
	return &SupplierRepo{baseRepo: newBaseRepo[suppliers.Supplier](txm, tableSuppliers, "supplier")}
}

func (r *SupplierRepo) Create(ctx context.Context, s *suppliers.Supplier) error {
	return r.insert(ctx, s, s.ID)
}

func (r *SupplierRepo) Update(ctx context.Context, s *suppliers.Supplier) error {
	q := r.updateQuery(s, s.OwnerID, s.ID,
		"name", "contact_person", "email", "phone", "address", "payment_terms_days", "status",
		"total_debt", "total_credit", "last_order", "updated_at")
	return r.exec(ctx, q, s.ID)
}

func (r *SupplierRepo) Delete(ctx context.Context, ownerID, supplierID id.ID) error {
	return r.delete(ctx, ownerID, supplierID)
}

func (r *SupplierRepo) Get(ctx context.Context, ownerID, supplierID id.ID) (*suppliers.Supplier, error) {
	return r.get(ctx, ownerID, supplierID, false)
}

func (r *SupplierRepo) GetForUpdate(ctx context.Context, ownerID, supplierID id.ID) (*suppliers.Supplier, error) {
	return r.get(ctx, ownerID, supplierID, true)
}

func (r *SupplierRepo) List(ctx context.Context, ownerID id.ID, f suppliers.Filter) (domain.ListResult[suppliers.Supplier], error) {
	return r.list(ctx, r.filtered(ownerID, f), f.Page, "lower(name)", "id")
}

func (r *SupplierRepo) ListAll(ctx context.Context, ownerID id.ID) ([]suppliers.Supplier, error) {
	return r.selectAll(ctx, r.selectQuery(ownerID).OrderBy("lower(name)", "id"))
}

func (r *SupplierRepo) filtered(ownerID id.ID, f suppliers.Filter) squirrel.SelectBuilder {
	q := r.selectQuery(ownerID)
	if f.Status != nil {
		q = q.Where(squirrel.Eq{"status": *f.Status})
	}
	if f.Search != "" {
		pattern := ilike(f.Search)
		q = q.Where(squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"contact_person": pattern},
		})
	}
	return q
}

// InvoiceRepo stores supplier invoices.
type InvoiceRepo struct {
	baseRepo[suppliers.Invoice]
}

var _ suppliers.InvoiceRepository = (*InvoiceRepo)(nil)

// NewInvoiceRepo creates a supplier invoice repository.
func NewInvoiceRepo(txm *postgres.TxManager) *InvoiceRepo {
	return &InvoiceRepo{baseRepo: newBaseRepo[suppliers.Invoice](txm, tableSupplierInvoices, "supplier invoice")}
}

func (r *InvoiceRepo) Create(ctx context.Context, inv *suppliers.Invoice) error {
	return r.insert(ctx, inv, inv.ID)
}

func (r *InvoiceRepo) UpdateStatus(ctx context.Context, inv *suppliers.Invoice) error {
	return r.exec(ctx, r.updateQuery(inv, inv.OwnerID, inv.ID, "status", "paid_at"), inv.ID)
}

func (r *InvoiceRepo) GetForUpdate(ctx context.Context, ownerID, invoiceID id.ID) (*suppliers.Invoice, error) {
	return r.get(ctx, ownerID, invoiceID, true)
}

func (r *InvoiceRepo) List(ctx context.Context, ownerID id.ID, f suppliers.InvoiceFilter) (domain.ListResult[suppliers.Invoice], error) {
	return r.list(ctx, r.filtered(ownerID, f), f.Page, "due_date", "number")
}

func (r *InvoiceRepo) filtered(ownerID id.ID, f suppliers.InvoiceFilter) squirrel.SelectBuilder {
	q := r.selectQuery(ownerID)
	if f.SupplierID != nil {
		q = q.Where(squirrel.Eq{"supplier_id": *f.SupplierID})
	}
	if f.Status != nil {
		q = q.Where(squirrel.Eq{"status": *f.Status})
	}
	if f.DueBefore != nil {
		q = q.Where(squirrel.Lt{"due_date": *f.DueBefore})
	}
	return q
}
