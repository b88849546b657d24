package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"bizdesk/internal/core/apperror"
	"bizdesk/internal/core/id"
	"bizdesk/internal/domain"
	"bizdesk/internal/domain/journal"
)

// JournalRepo implements journal.Repository.
type JournalRepo struct {
	s *Store
}

var _ journal.Repository = (*JournalRepo)(nil)

func (r *JournalRepo) Create(ctx context.Context, e *journal.Entry) error {
	defer r.s.lock(ctx)()
	if _, ok := r.s.journal[e.ID]; ok {
		return apperror.NewDuplicate("journal entry", "id", e.ID.String())
	}
	r.s.journal[e.ID] = *e
	return nil
}

func (r *JournalRepo) Update(ctx context.Context, e *journal.Entry) error {
	defer r.s.lock(ctx)()
	cur, ok := r.s.journal[e.ID]
	if !ok || cur.OwnerID != e.OwnerID {
		return apperror.NewNotFound("journal entry", e.ID.String())
	}
	r.s.journal[e.ID] = *e
	return nil
}

func (r *JournalRepo) Delete(ctx context.Context, ownerID, entryID id.ID) error {
	defer r.s.lock(ctx)()
	cur, ok := r.s.journal[entryID]
	if !ok || cur.OwnerID != ownerID {
		return apperror.NewNotFound("journal entry", entryID.String())
	}
	delete(r.s.journal, entryID)
	return nil
}

func (r *JournalRepo) Get(_ context.Context, ownerID, entryID id.ID) (*journal.Entry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	e, ok := r.s.journal[entryID]
	if !ok || e.OwnerID != ownerID {
		return nil, apperror.NewNotFound("journal entry", entryID.String())
	}
	return &e, nil
}

func (r *JournalRepo) List(_ context.Context, ownerID id.ID, filter journal.Filter) (domain.ListResult[journal.Entry], error) {
	r.s.mu.RLock()
	out := make([]journal.Entry, 0)
	for _, e := range r.s.journal {
		if e.OwnerID == ownerID && filter.Match(&e) {
			out = append(out, e)
		}
	}
	r.s.mu.RUnlock()
	slices.SortFunc(out, func(a, b journal.Entry) int {
		return cmp.Or(
			b.Date.Compare(a.Date),
			b.CreatedAt.Compare(a.CreatedAt),
			strings.Compare(a.ID.String(), b.ID.String()),
		)
	})
	return domain.Paginate(out, filter.Page), nil
}
