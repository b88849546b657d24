package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"time"

	"bizdesk/internal/core/apperror"
	"bizdesk/internal/core/id"
	"bizdesk/internal/domain"
	"bizdesk/internal/domain/sales"
)

// SaleRepo implements sales.Repository.
type SaleRepo struct {
	s *Store
}

var _ sales.Repository = (*SaleRepo)(nil)

func (r *SaleRepo) Create(ctx context.Context, sale *sales.Sale) error {
	defer r.s.lock(ctx)()
	if _, ok := r.s.sales[sale.ID]; ok {
		return apperror.NewDuplicate("sale", "id", sale.ID.String())
	}
	stored := *sale
	stored.Items = slices.Clone(sale.Items)
	r.s.sales[sale.ID] = stored
	return nil
}

func (r *SaleRepo) UpdateStatus(ctx context.Context, sale *sales.Sale) error {
	defer r.s.lock(ctx)()
	cur, ok := r.s.sales[sale.ID]
	if !ok || cur.OwnerID != sale.OwnerID {
		return apperror.NewNotFound("sale", sale.ID.String())
	}
	cur.Status = sale.Status
	cur.UpdatedAt = sale.UpdatedAt
	r.s.sales[sale.ID] = cur
	return nil
}

func (r *SaleRepo) Get(_ context.Context, ownerID, saleID id.ID) (*sales.Sale, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	sale, ok := r.s.sales[saleID]
	if !ok || sale.OwnerID != ownerID {
		return nil, apperror.NewNotFound("sale", saleID.String())
	}
	sale.Items = slices.Clone(sale.Items)
	return &sale, nil
}

func (r *SaleRepo) GetForUpdate(ctx context.Context, ownerID, saleID id.ID) (*sales.Sale, error) {
	return r.Get(ctx, ownerID, saleID)
}

func (r *SaleRepo) List(ctx context.Context, ownerID id.ID, filter sales.Filter) (domain.ListResult[sales.Sale], error) {
	all, _ := r.ListAll(ctx, ownerID)
	out := slices.DeleteFunc(all, func(s sales.Sale) bool { return !filter.Match(&s) })
	slices.Reverse(out)
	return domain.Paginate(out, filter.Page), nil
}

func (r *SaleRepo) ListBetween(ctx context.Context, ownerID id.ID, from, to time.Time) ([]sales.Sale, error) {
	all, _ := r.ListAll(ctx, ownerID)
	return slices.DeleteFunc(all, func(s sales.Sale) bool {
		return s.Timestamp.Before(from) || !s.Timestamp.Before(to)
	}), nil
}

// ListAll returns the owner's sales oldest first.
func (r *SaleRepo) ListAll(_ context.Context, ownerID id.ID) ([]sales.Sale, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]sales.Sale, 0)
	for _, s := range r.s.sales {
		if s.OwnerID == ownerID {
			s.Items = slices.Clone(s.Items)
			out = append(out, s)
		}
	}
	slices.SortFunc(out, func(a, b sales.Sale) int {
		return cmp.Or(
			a.Timestamp.Compare(b.Timestamp),
			strings.Compare(a.ID.String(), b.ID.String()),
		)
	})
	return out, nil
}
