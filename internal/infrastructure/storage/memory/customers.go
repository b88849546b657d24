package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"bizdesk/internal/core/apperror"
	"bizdesk/internal/core/id"
	"bizdesk/internal/domain"
	"bizdesk/internal/domain/customers"
)

// CustomerRepo implements customers.Repository.
type CustomerRepo struct {
	s *Store
}

var _ customers.Repository = (*CustomerRepo)(nil)

func (r *CustomerRepo) Create(ctx context.Context, c *customers.Customer) error {
	defer r.s.lock(ctx)()
	if _, ok := r.s.customers[c.ID]; ok {
		return apperror.NewDuplicate("customer", "id", c.ID.String())
	}
	r.s.customers[c.ID] = *c
	return nil
}

func (r *CustomerRepo) Update(ctx context.Context, c *customers.Customer) error {
	defer r.s.lock(ctx)()
	cur, ok := r.s.customers[c.ID]
	if !ok || cur.OwnerID != c.OwnerID {
		return apperror.NewNotFound("customer", c.ID.String())
	}
	r.s.customers[c.ID] = *c
	return nil
}

func (r *CustomerRepo) Delete(ctx context.Context, ownerID, customerID id.ID) error {
	defer r.s.lock(ctx)()
	cur, ok := r.s.customers[customerID]
	if !ok || cur.OwnerID != ownerID {
		return apperror.NewNotFound("customer", customerID.String())
	}
	delete(r.s.customers, customerID)
	return nil
}

func (r *CustomerRepo) Get(_ context.Context, ownerID, customerID id.ID) (*customers.Customer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.customers[customerID]
	if !ok || c.OwnerID != ownerID {
		return nil, apperror.NewNotFound("customer", customerID.String())
	}
	return &c, nil
}

func (r *CustomerRepo) GetForUpdate(ctx context.Context, ownerID, customerID id.ID) (*customers.Customer, error) {
	return r.Get(ctx, ownerID, customerID)
}

func (r *CustomerRepo) List(ctx context.Context, ownerID id.ID, filter customers.Filter) (domain.ListResult[customers.Customer], error) {
	all, _ := r.ListAll(ctx, ownerID)
	out := slices.DeleteFunc(all, func(c customers.Customer) bool { return !filter.Match(&c) })
	return domain.Paginate(out, filter.Page), nil
}

func (r *CustomerRepo) ListAll(_ context.Context, ownerID id.ID) ([]customers.Customer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]customers.Customer, 0)
	for _, c := range r.s.customers {
		if c.OwnerID == ownerID {
			out = append(out, c)
		}
	}
	slices.SortFunc(out, func(a, b customers.Customer) int {
		return cmp.Or(
			cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)),
			strings.Compare(a.ID.String(), b.ID.String()),
		)
	})
	return out, nil
}
