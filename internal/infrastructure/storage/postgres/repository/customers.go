package repository

import (
	"context"

	"github.com/Masterminds/squirrel"

	"bizdesk/internal/core/id"
	"bizdesk/internal/domain"
	"bizdesk/internal/domain/customers"
	"bizdesk/internal/infrastructure/storage/postgres"
)

const tableCustomers = "customers"

// CustomerRepo stores customers.
type CustomerRepo struct {
	baseRepo[customers.Customer]
}

var _ customers.Repository = (*CustomerRepo)(nil)

// NewCustomerRepo creates a customer repository.
func NewCustomerRepo(txm *postgres.TxManager) *CustomerRepo {
	return &CustomerRepo{baseRepo: newBaseRepo[customers.Customer](txm, tableCustomers, "customer")}
}

func (r *CustomerRepo) Create(ctx context.Context, c *customers.Customer) error {
	return r.insert(ctx, c, c.ID)
}

func (r *CustomerRepo) Update(ctx context.Context, c *customers.Customer) error {
	q := r.updateQuery(c, c.OwnerID, c.ID,
		"name", "email", "phone", "address", "total_purchases", "last_purchase", "loyalty_points")
	return r.exec(ctx, q, c.ID)
}

func (r *CustomerRepo) Delete(ctx context.Context, ownerID, customerID id.ID) error {
	return r.delete(ctx, ownerID, customerID)
}

func (r *CustomerRepo) Get(ctx context.Context, ownerID, customerID id.ID) (*customers.Customer, error) {
	return r.get(ctx, ownerID, customerID, false)
}

func (r *CustomerRepo) GetForUpdate(ctx context.Context, ownerID, customerID id.ID) (*customers.Customer, error) {
	return r.get(ctx, ownerID, customerID, true)
}

func (r *CustomerRepo) List(ctx context.Context, ownerID id.ID, f customers.Filter) (domain.ListResult[customers.Customer], error) {
	return r.list(ctx, r.filtered(ownerID, f), f.Page, "lower(name)", "id")
}

func (r *CustomerRepo) ListAll(ctx context.Context, ownerID id.ID) ([]customers.Customer, error) {
	return r.selectAll(ctx, r.selectQuery(ownerID).OrderBy("lower(name)", "id"))
}

func (r *CustomerRepo) filtered(ownerID id.ID, f customers.Filter) squirrel.SelectBuilder {
	q := r.selectQuery(ownerID)
	if f.Search != "" {
		pattern := ilike(f.Search)
		q = q.Where(squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"email": pattern},
			squirrel.ILike{"phone": pattern},
		})
	}
	return q
}
