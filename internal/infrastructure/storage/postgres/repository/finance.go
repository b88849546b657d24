package repository

import (
	"context"

	"github.com/Masterminds/squirrel"

	"bizdesk/internal/core/id"
	"bizdesk/internal/domain"
	"bizdesk/internal/domain/finance"
	"bizdesk/internal/infrastructure/storage/postgres"
)

const (
	tableFinancialRecords = "financial_records"
	tableRegisterClosures = "register_closures"
)

// RecordRepo stores financial records.
type RecordRepo struct {
	baseRepo[finance.Record]
}

var _ finance.RecordRepository = (*RecordRepo)(nil)

// NewRecordRepo creates a financial record repository.
func NewRecordRepo(txm *postgres.TxManager) *RecordRepo {
	return &RecordRepo{baseRepo: newBaseRepo[finance.Record](txm, tableFinancialRecords, "financial record")}
}

func (r *RecordRepo) Create(ctx context.Context, rec *finance.Record) error {
	return r.insert(ctx, rec, rec.ID)
}

func (r *RecordRepo) List(ctx context.Context, ownerID id.ID, f finance.RecordFilter) (domain.ListResult[finance.Record], error) {
	return r.list(ctx, r.filtered(ownerID, f), f.Page, "date DESC", "id DESC")
}

func (r *RecordRepo) ListAll(ctx context.Context, ownerID id.ID, f finance.RecordFilter) ([]finance.Record, error) {
	return r.selectAll(ctx, r.filtered(ownerID, f).OrderBy("date", "id"))
}

func (r *RecordRepo) filtered(ownerID id.ID, f finance.RecordFilter) squirrel.SelectBuilder {
	q := r.selectQuery(ownerID)
	if f.Kind != nil {
		q = q.Where(squirrel.Eq{"kind": *f.Kind})
	}
	if f.Category != "" {
		q = q.Where(squirrel.Eq{"category": f.Category})
	}
	if f.FromDate != nil {
		q = q.Where(squirrel.GtOrEq{"date": *f.FromDate})
	}
	if f.ToDate != nil {
		q = q.Where(squirrel.Lt{"date": *f.ToDate})
	}
	if f.Search != "" {
		pattern := ilike(f.Search)
		q = q.Where(squirrel.Or{
			squirrel.ILike{"description": pattern},
			squirrel.ILike{"category": pattern},
		})
	}
	return q
}

// ClosureRepo stores cash register closures.
type ClosureRepo struct {
	baseRepo[finance.Closure]
}

var _ finance.ClosureRepository = (*ClosureRepo)(nil)

// NewClosureRepo creates a closure repository.
func NewClosureRepo(txm *postgres.TxManager) *ClosureRepo {
	return &ClosureRepo{baseRepo: newBaseRepo[finance.Closure](txm, tableRegisterClosures, "register closure")}
}

func (r *ClosureRepo) Create(ctx context.Context, c *finance.Closure) error {
	return r.insert(ctx, c, c.ID)
}

func (r *ClosureRepo) List(ctx context.Context, ownerID id.ID, page domain.Page) (domain.ListResult[finance.Closure], error) {
	return r.list(ctx, r.selectQuery(ownerID), page, "date DESC", "id DESC")
}
