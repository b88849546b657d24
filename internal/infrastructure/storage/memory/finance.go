package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"bizdesk/internal/core/id"
	"bizdesk/internal/domain"
	"bizdesk/internal/domain/finance"
)

// RecordRepo implements finance.RecordRepository.
type RecordRepo struct {
	s *Store
}

var _ finance.RecordRepository = (*RecordRepo)(nil)

func (r *RecordRepo) Create(ctx context.Context, rec *finance.Record) error {
	defer r.s.lock(ctx)()
	r.s.records = append(r.s.records, *rec)
	return nil
}

func (r *RecordRepo) List(ctx context.Context, ownerID id.ID, filter finance.RecordFilter) (domain.ListResult[finance.Record], error) {
	out, _ := r.ListAll(ctx, ownerID, filter)
	slices.Reverse(out)
	return domain.Paginate(out, filter.Page), nil
}

// ListAll returns matching records oldest first.
func (r *RecordRepo) ListAll(_ context.Context, ownerID id.ID, filter finance.RecordFilter) ([]finance.Record, error) {
	r.s.mu.RLock()
	out := make([]finance.Record, 0)
	for _, rec := range r.s.records {
		if rec.OwnerID == ownerID && filter.Match(&rec) {
			out = append(out, rec)
		}
	}
	r.s.mu.RUnlock()

	slices.SortStableFunc(out, func(a, b finance.Record) int {
		return cmp.Or(
			a.Date.Compare(b.Date),
			strings.Compare(a.ID.String(), b.ID.String()),
		)
	})
	return out, nil
}

// ClosureRepo implements finance.ClosureRepository.
type ClosureRepo struct {
	s *Store
}

var _ finance.ClosureRepository = (*ClosureRepo)(nil)

func (r *ClosureRepo) Create(ctx context.Context, c *finance.Closure) error {
	defer r.s.lock(ctx)()
	r.s.closures = append(r.s.closures, *c)
	return nil
}

func (r *ClosureRepo) List(_ context.Context, ownerID id.ID, page domain.Page) (domain.ListResult[finance.Closure], error) {
	r.s.mu.RLock()
	out := make([]finance.Closure, 0)
	for _, c := range r.s.closures {
		if c.OwnerID == ownerID {
			out = append(out, c)
		}
	}
	r.s.mu.RUnlock()

	slices.SortStableFunc(out, func(a, b finance.Closure) int {
		return b.Date.Compare(a.Date)
	})
	return domain.Paginate(out, page), nil
}
