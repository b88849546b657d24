package repository

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"bizdesk/internal/core/id"
	"bizdesk/internal/domain"
	"bizdesk/internal/domain/inventory"
	"bizdesk/internal/infrastructure/storage/postgres"
)

const (
	tableProducts    = "products"
	tableStockEvents = "stock_events"
)

// ProductRepo stores products.
type ProductRepo struct {
	baseRepo[inventory.Product]
}

var _ inventory.ProductRepository = (*ProductRepo)(nil)

// NewProductRepo creates a product repository.
func NewProductRepo(txm *postgres.TxManager) *ProductRepo {
	return &ProductRepo{baseRepo: newBaseRepo[inventory.Product](txm, tableProducts, "product")}
}

func (r *ProductRepo) Create(ctx context.Context, p *inventory.Product) error {
	return r.insert(ctx, p, p.ID)
}

func (r *ProductRepo) Update(ctx context.Context, p *inventory.Product) error {
	q := r.updateQuery(p, p.OwnerID, p.ID,
		"name", "category", "unit_price", "min_stock", "supplier_ref", "updated_at")
	return r.exec(ctx, q, p.ID)
}

func (r *ProductRepo) UpdateStock(ctx context.Context, p *inventory.Product) error {
	q := r.updateQuery(p, p.OwnerID, p.ID, "stock", "last_restocked", "updated_at")
	return r.exec(ctx, q, p.ID)
}

func (r *ProductRepo) Delete(ctx context.Context, ownerID, productID id.ID) error {
	return r.delete(ctx, ownerID, productID)
}

func (r *ProductRepo) Get(ctx context.Context, ownerID, productID id.ID) (*inventory.Product, error) {
	return r.get(ctx, ownerID, productID, false)
}

func (r *ProductRepo) GetForUpdate(ctx context.Context, ownerID, productID id.ID) (*inventory.Product, error) {
	return r.get(ctx, ownerID, productID, true)
}

func (r *ProductRepo) List(ctx context.Context, ownerID id.ID, f inventory.ProductFilter) (domain.ListResult[inventory.Product], error) {
	return r.list(ctx, r.filtered(ownerID, f), f.Page, "lower(name)", "id")
}

func (r *ProductRepo) ListAll(ctx context.Context, ownerID id.ID) ([]inventory.Product, error) {
	return r.selectAll(ctx, r.selectQuery(ownerID).OrderBy("lower(name)", "id"))
}

func (r *ProductRepo) filtered(ownerID id.ID, f inventory.ProductFilter) squirrel.SelectBuilder {
	q := r.selectQuery(ownerID)
	if f.Category != nil {
		q = q.Where(squirrel.Eq{"category": *f.Category})
	}
	if f.LowStockOnly {
		q = q.Where("stock <= min_stock")
	}
	if f.SupplierID != nil {
		q = q.Where(squirrel.Eq{"supplier_ref": *f.SupplierID})
	}
	if f.Search != "" {
		q = q.Where(squirrel.ILike{"name": ilike(f.Search)})
	}
	return q
}

// EventRepo is the append-only stock ledger.
type EventRepo struct {
	baseRepo[inventory.StockEvent]
	batch *postgres.BatchInserter
}

var _ inventory.EventRepository = (*EventRepo)(nil)

// NewEventRepo creates a stock event repository.
func NewEventRepo(txm *postgres.TxManager) *EventRepo {
	return &EventRepo{
		baseRepo: newBaseRepo[inventory.StockEvent](txm, tableStockEvents, "stock event"),
		batch:    postgres.NewBatchInserter(txm),
	}
}

// Append writes events. Several events inside a transaction go through COPY.
func (r *EventRepo) Append(ctx context.Context, events ...inventory.StockEvent) error {
	switch {
	case len(events) == 0:
		return nil
	case len(events) > 1 && r.txm.GetTx(ctx) != nil:
		if _, err := r.batch.CopyFromSlice(ctx, r.table, r.cols, r.copyRows(events)); err != nil {
			return postgres.MapError(err, r.entity, "batch")
		}
		return nil
	default:
		for i := range events {
			if err := r.insert(ctx, &events[i], events[i].ID); err != nil {
				return fmt.Errorf("append event %d: %w", i, err)
			}
		}
		return nil
	}
}

// copyRows lays events out in column order for COPY.
func (r *EventRepo) copyRows(events []inventory.StockEvent) [][]any {
	rows := make([][]any, len(events))
	for i := range events {
		data := postgres.StructToMap(&events[i])
		row := make([]any, len(r.cols))
		for j, col := range r.cols {
			row[j] = data[col]
		}
		rows[i] = row
	}
	return rows
}

func (r *EventRepo) List(ctx context.Context, ownerID id.ID, f inventory.EventFilter) (domain.ListResult[inventory.StockEvent], error) {
	return r.list(ctx, r.filtered(ownerID, f), f.Page, "timestamp DESC", "id DESC")
}

func (r *EventRepo) filtered(ownerID id.ID, f inventory.EventFilter) squirrel.SelectBuilder {
	q := r.selectQuery(ownerID)
	if f.ProductID != nil {
		q = q.Where(squirrel.Eq{"product_id": *f.ProductID})
	}
	if f.Kind != nil {
		q = q.Where(squirrel.Eq{"kind": *f.Kind})
	}
	if f.FromDate != nil {
		q = q.Where(squirrel.GtOrEq{"timestamp": *f.FromDate})
	}
	if f.ToDate != nil {
		q = q.Where(squirrel.Lt{"timestamp": *f.ToDate})
	}
	return q
}
