package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"bizdesk/internal/core/apperror"
	"bizdesk/internal/core/id"
	"bizdesk/internal/domain"
	"bizdesk/internal/domain/production"
)

// PlanRepo implements production.Repository.
type PlanRepo struct {
	s *Store
}

var _ production.Repository = (*PlanRepo)(nil)

func (r *PlanRepo) Create(ctx context.Context, p *production.Plan) error {
	defer r.s.lock(ctx)()
	if _, ok := r.s.plans[p.ID]; ok {
		return apperror.NewDuplicate("production plan", "id", p.ID.String())
	}
	r.s.plans[p.ID] = *p
	return nil
}

func (r *PlanRepo) Update(ctx context.Context, p *production.Plan) error {
	defer r.s.lock(ctx)()
	cur, ok := r.s.plans[p.ID]
	if !ok || cur.OwnerID != p.OwnerID {
		return apperror.NewNotFound("production plan", p.ID.String())
	}
	r.s.plans[p.ID] = *p
	return nil
}

func (r *PlanRepo) Get(_ context.Context, ownerID, planID id.ID) (*production.Plan, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.plans[planID]
	if !ok || p.OwnerID != ownerID {
		return nil, apperror.NewNotFound("production plan", planID.String())
	}
	return &p, nil
}

func (r *PlanRepo) GetForUpdate(ctx context.Context, ownerID, planID id.ID) (*production.Plan, error) {
	return r.Get(ctx, ownerID, planID)
}

func (r *PlanRepo) List(_ context.Context, ownerID id.ID, filter production.Filter) (domain.ListResult[production.Plan], error) {
	r.s.mu.RLock()
	out := make([]production.Plan, 0)
	for _, p := range r.s.plans {
		if p.OwnerID == ownerID && filter.Match(&p) {
			out = append(out, p)
		}
	}
	r.s.mu.RUnlock()

	slices.SortFunc(out, func(a, b production.Plan) int {
		return cmp.Or(
			a.DueDate.Compare(b.DueDate),
			strings.Compare(a.ID.String(), b.ID.String()),
		)
	})
	return domain.Paginate(out, filter.Page), nil
}
