// Package repository provides the PostgreSQL implementations of the domain
// repositories. Every query filters on owner_id.
package repository

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"bizdesk/internal/core/apperror"
	"bizdesk/internal/core/id"
	"bizdesk/internal/domain"
	"bizdesk/internal/infrastructure/storage/postgres"
)

// baseRepo holds the CRUD plumbing shared by all tables.
type baseRepo[T any] struct {
	txm    *postgres.TxManager
	table  string
	entity string
	cols   []string
}

func newBaseRepo[T any](txm *postgres.TxManager, table, entity string) baseRepo[T] {
	return baseRepo[T]{
		txm:    txm,
		table:  table,
		entity: entity,
		cols:   postgres.ExtractDBColumns[T](),
	}
}

// builder returns a squirrel builder with PostgreSQL placeholders.
func builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *baseRepo[T]) querier(ctx context.Context) postgres.Querier {
	return r.txm.GetQuerier(ctx)
}

// insertQuery builds an INSERT of every db-tagged column of v.
func (r *baseRepo[T]) insertQuery(v *T) squirrel.InsertBuilder {
	data := postgres.StructToMap(v)
	values := make([]any, len(r.cols))
	for i, col := range r.cols {
		values[i] = data[col]
	}
	return builder().Insert(r.table).Columns(r.cols...).Values(values...)
}

func (r *baseRepo[T]) insert(ctx context.Context, v *T, key id.ID) error {
	sql, args, err := r.insertQuery(v).ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err, r.entity, key)
	}
	return nil
}

// updateQuery builds an UPDATE of the given columns of v scoped by owner and id.
func (r *baseRepo[T]) updateQuery(v *T, ownerID, rowID id.ID, cols ...string) squirrel.UpdateBuilder {
	data := postgres.StructToMap(v)
	q := builder().Update(r.table)
	for _, col := range cols {
		q = q.Set(col, data[col])
	}
	return q.Where(squirrel.Eq{"owner_id": ownerID, "id": rowID})
}

// exec runs a statement that must touch a row, otherwise NOT_FOUND.
func (r *baseRepo[T]) exec(ctx context.Context, q squirrel.Sqlizer, key id.ID) error {
	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build statement: %w", err)
	}
	tag, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, r.entity, key)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound(r.entity, key.String())
	}
	return nil
}

func (r *baseRepo[T]) selectQuery(ownerID id.ID) squirrel.SelectBuilder {
	return builder().Select(r.cols...).From(r.table).Where(squirrel.Eq{"owner_id": ownerID})
}

func (r *baseRepo[T]) getQuery(ownerID, rowID id.ID, forUpdate bool) squirrel.SelectBuilder {
	q := r.selectQuery(ownerID).Where(squirrel.Eq{"id": rowID}).Limit(1)
	if forUpdate {
		q = q.Suffix("FOR UPDATE")
	}
	return q
}

func (r *baseRepo[T]) get(ctx context.Context, ownerID, rowID id.ID, forUpdate bool) (*T, error) {
	sql, args, err := r.getQuery(ownerID, rowID, forUpdate).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	var out T
	if err := pgxscan.Get(ctx, r.querier(ctx), &out, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound(r.entity, rowID.String())
		}
		return nil, postgres.MapError(err, r.entity, rowID)
	}
	return &out, nil
}

func (r *baseRepo[T]) delete(ctx context.Context, ownerID, rowID id.ID) error {
	q := builder().Delete(r.table).Where(squirrel.Eq{"owner_id": ownerID, "id": rowID})
	return r.exec(ctx, q, rowID)
}

func (r *baseRepo[T]) selectAll(ctx context.Context, q squirrel.SelectBuilder) ([]T, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	out := make([]T, 0)
	if err := pgxscan.Select(ctx, r.querier(ctx), &out, sql, args...); err != nil {
		return nil, postgres.MapError(err, r.entity, "list")
	}
	return out, nil
}

// list counts the rows matched by q, then returns the requested page.
func (r *baseRepo[T]) list(ctx context.Context, q squirrel.SelectBuilder, page domain.Page, orderBy ...string) (domain.ListResult[T], error) {
	result := domain.ListResult[T]{Items: []T{}, Limit: page.Limit, Offset: page.Offset}

	countSQL, countArgs, err := builder().Select("COUNT(*)").FromSelect(q, "sub").ToSql()
	if err != nil {
		return result, fmt.Errorf("build count query: %w", err)
	}
	if err := r.querier(ctx).QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, postgres.MapError(err, r.entity, "count")
	}

	items, err := r.selectAll(ctx, paginate(q.OrderBy(orderBy...), page))
	if err != nil {
		return result, err
	}
	result.Items = items
	return result, nil
}

func paginate(q squirrel.SelectBuilder, page domain.Page) squirrel.SelectBuilder {
	if page.Limit > 0 {
		q = q.Limit(uint64(page.Limit))
	}
	if page.Offset > 0 {
		q = q.Offset(uint64(page.Offset))
	}
	return q
}

func ilike(pattern string) string {
	return "%" + pattern + "%"
}
