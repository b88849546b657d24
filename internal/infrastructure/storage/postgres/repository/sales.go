package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"bizdesk/internal/core/id"
	"bizdesk/internal/domain"
	"bizdesk/internal/domain/sales"
	"bizdesk/internal/infrastructure/storage/postgres"
)

const (
	tableSales     = "sales"
	tableSaleItems = "sale_items"
)

// saleItemRow is a sale_items row.
type saleItemRow struct {
	SaleID id.ID `db:"sale_id"`
	LineNo int   `db:"line_no"`
	sales.LineItem
}

var saleItemColumns = postgres.ExtractDBColumns[saleItemRow]()

// SaleRepo stores sales in the sales table and their lines in sale_items.
type SaleRepo struct {
	baseRepo[sales.Sale]
}

var _ sales.Repository = (*SaleRepo)(nil)

// NewSaleRepo creates a sale repository.
func NewSaleRepo(txm *postgres.TxManager) *SaleRepo {
	return &SaleRepo{baseRepo: newBaseRepo[sales.Sale](txm, tableSales, "sale")}
}

// Create inserts the header and its items. Call inside a transaction.
func (r *SaleRepo) Create(ctx context.Context, s *sales.Sale) error {
	if err := r.insert(ctx, s, s.ID); err != nil {
		return err
	}
	if len(s.Items) == 0 {
		return nil
	}
	sql, args, err := saleItemsInsert(s).ToSql()
	if err != nil {
		return fmt.Errorf("build items insert: %w", err)
	}
	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err, "sale item", s.ID)
	}
	return nil
}

func saleItemsInsert(s *sales.Sale) squirrel.InsertBuilder {
	q := builder().Insert(tableSaleItems).Columns(saleItemColumns...)
	for i, it := range s.Items {
		data := postgres.StructToMap(saleItemRow{SaleID: s.ID, LineNo: i + 1, LineItem: it})
		values := make([]any, len(saleItemColumns))
		for j, col := range saleItemColumns {
			values[j] = data[col]
		}
		q = q.Values(values...)
	}
	return q
}

func (r *SaleRepo) UpdateStatus(ctx context.Context, s *sales.Sale) error {
	return r.exec(ctx, r.updateQuery(s, s.OwnerID, s.ID, "status", "updated_at"), s.ID)
}

func (r *SaleRepo) Get(ctx context.Context, ownerID, saleID id.ID) (*sales.Sale, error) {
	return r.getWithItems(ctx, ownerID, saleID, false)
}

func (r *SaleRepo) GetForUpdate(ctx context.Context, ownerID, saleID id.ID) (*sales.Sale, error) {
	return r.getWithItems(ctx, ownerID, saleID, true)
}

func (r *SaleRepo) getWithItems(ctx context.Context, ownerID, saleID id.ID, forUpdate bool) (*sales.Sale, error) {
	s, err := r.get(ctx, ownerID, saleID, forUpdate)
	if err != nil {
		return nil, err
	}
	list := []sales.Sale{*s}
	if err := r.loadItems(ctx, list); err != nil {
		return nil, err
	}
	return &list[0], nil
}

func (r *SaleRepo) List(ctx context.Context, ownerID id.ID, f sales.Filter) (domain.ListResult[sales.Sale], error) {
	res, err := r.list(ctx, r.filtered(ownerID, f), f.Page, "timestamp DESC", "id DESC")
	if err != nil {
		return res, err
	}
	return res, r.loadItems(ctx, res.Items)
}

func (r *SaleRepo) ListBetween(ctx context.Context, ownerID id.ID, from, to time.Time) ([]sales.Sale, error) {
	q := r.selectQuery(ownerID).
		Where(squirrel.GtOrEq{"timestamp": from}).
		Where(squirrel.Lt{"timestamp": to}).
		OrderBy("timestamp", "id")
	return r.selectWithItems(ctx, q)
}

func (r *SaleRepo) ListAll(ctx context.Context, ownerID id.ID) ([]sales.Sale, error) {
	return r.selectWithItems(ctx, r.selectQuery(ownerID).OrderBy("timestamp", "id"))
}

func (r *SaleRepo) selectWithItems(ctx context.Context, q squirrel.SelectBuilder) ([]sales.Sale, error) {
	list, err := r.selectAll(ctx, q)
	if err != nil {
		return nil, err
	}
	return list, r.loadItems(ctx, list)
}

func (r *SaleRepo) filtered(ownerID id.ID, f sales.Filter) squirrel.SelectBuilder {
	q := r.selectQuery(ownerID)
	if f.FromDate != nil {
		q = q.Where(squirrel.GtOrEq{"timestamp": *f.FromDate})
	}
	if f.ToDate != nil {
		q = q.Where(squirrel.Lt{"timestamp": *f.ToDate})
	}
	if f.Status != nil {
		q = q.Where(squirrel.Eq{"status": *f.Status})
	}
	if f.PaymentMethod != nil {
		q = q.Where(squirrel.Eq{"payment_method": *f.PaymentMethod})
	}
	if f.CustomerID != nil {
		q = q.Where(squirrel.Eq{"customer_id": *f.CustomerID})
	}
	if f.Search != "" {
		pattern := ilike(f.Search)
		q = q.Where(squirrel.Or{
			squirrel.ILike{"customer_name": pattern},
			squirrel.Expr("EXISTS (SELECT 1 FROM "+tableSaleItems+
				" si WHERE si.sale_id = sales.id AND si.product_name ILIKE ?)", pattern),
		})
	}
	return q
}

// loadItems fills Items of every sale in list with one query.
func (r *SaleRepo) loadItems(ctx context.Context, list []sales.Sale) error {
	if len(list) == 0 {
		return nil
	}
	ids := make([]id.ID, len(list))
	for i := range list {
		ids[i] = list[i].ID
	}
	sql, args, err := builder().Select(saleItemColumns...).
		From(tableSaleItems).
		Where("sale_id = ANY(?)", ids).
		OrderBy("sale_id", "line_no").
		ToSql()
	if err != nil {
		return fmt.Errorf("build items query: %w", err)
	}
	var rows []saleItemRow
	if err := pgxscan.Select(ctx, r.querier(ctx), &rows, sql, args...); err != nil {
		return postgres.MapError(err, "sale item", "list")
	}

	bySale := make(map[id.ID][]sales.LineItem, len(list))
	for _, row := range rows {
		bySale[row.SaleID] = append(bySale[row.SaleID], row.LineItem)
	}
	for i := range list {
		list[i].Items = bySale[list[i].ID]
		if list[i].Items == nil {
			list[i].Items = []sales.LineItem{}
		}
	}
	return nil
}
