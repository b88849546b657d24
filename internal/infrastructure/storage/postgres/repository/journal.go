package repository

import (
	"context"

	"github.com/Masterminds/squirrel"

	"bizdesk/internal/core/id"
	"bizdesk/internal/domain"
	"bizdesk/internal/domain/journal"
	"bizdesk/internal/infrastructure/storage/postgres"
)

const tableJournal = "journal_entries"

// JournalRepo stores journal entries.
type JournalRepo struct {
	baseRepo[journal.Entry]
}

var _ journal.Repository = (*JournalRepo)(nil)

// NewJournalRepo creates a journal repository.
func NewJournalRepo(txm *postgres.TxManager) *JournalRepo {
	return &JournalRepo{baseRepo: newBaseRepo[journal.Entry](txm, tableJournal, "journal entry")}
}

func (r *JournalRepo) Create(ctx context.Context, e *journal.Entry) error {
	return r.insert(ctx, e, e.ID)
}

func (r *JournalRepo) Update(ctx context.Context, e *journal.Entry) error {
	q := r.updateQuery(e, e.OwnerID, e.ID, "date", "title", "content", "mood", "category", "updated_at")
	return r.exec(ctx, q, e.ID)
}

func (r *JournalRepo) Delete(ctx context.Context, ownerID, entryID id.ID) error {
	return r.delete(ctx, ownerID, entryID)
}

func (r *JournalRepo) Get(ctx context.Context, ownerID, entryID id.ID) (*journal.Entry, error) {
	return r.get(ctx, ownerID, entryID, false)
}

func (r *JournalRepo) List(ctx context.Context, ownerID id.ID, f journal.Filter) (domain.ListResult[journal.Entry], error) {
	return r.list(ctx, r.filtered(ownerID, f), f.Page, "date DESC", "created_at DESC", "id")
}

func (r *JournalRepo) filtered(ownerID id.ID, f journal.Filter) squirrel.SelectBuilder {
	q := r.selectQuery(ownerID)
	if f.Category != nil {
		q = q.Where(squirrel.Eq{"category": *f.Category})
	}
	if f.Mood != nil {
		q = q.Where(squirrel.Eq{"mood": *f.Mood})
	}
	if f.Search != "" {
		pattern := ilike(f.Search)
		q = q.Where(squirrel.Or{
			squirrel.ILike{"title": pattern},
			squirrel.ILike{"content": pattern},
		})
	}
	return q
}
