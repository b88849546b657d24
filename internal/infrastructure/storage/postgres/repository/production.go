package repository

import (
	"context"

	"github.com/Masterminds/squirrel"

	"bizdesk/internal/core/id"
	"bizdesk/internal/domain"
	"bizdesk/internal/domain/production"
	"bizdesk/internal/infrastructure/storage/postgres"
)

const tableProductionPlans = "production_plans"

// PlanRepo stores production plans.
type PlanRepo struct {
	baseRepo[production.Plan]
}

var _ production.Repository = (*PlanRepo)(nil)

// NewPlanRepo creates a production plan repository.
func NewPlanRepo(txm *postgres.TxManager) *PlanRepo {
	return &PlanRepo{baseRepo: newBaseRepo[production.Plan](txm, tableProductionPlans, "production plan")}
}

func (r *PlanRepo) Create(ctx context.Context, p *production.Plan) error {
	return r.insert(ctx, p, p.ID)
}

func (r *PlanRepo) Update(ctx context.Context, p *production.Plan) error {
	q := r.updateQuery(p, p.OwnerID, p.ID, "produced", "status", "updated_at", "completed_at")
	return r.exec(ctx, q, p.ID)
}

func (r *PlanRepo) Get(ctx context.Context, ownerID, planID id.ID) (*production.Plan, error) {
	return r.get(ctx, ownerID, planID, false)
}

func (r *PlanRepo) GetForUpdate(ctx context.Context, ownerID, planID id.ID) (*production.Plan, error) {
	return r.get(ctx, ownerID, planID, true)
}

func (r *PlanRepo) List(ctx context.Context, ownerID id.ID, f production.Filter) (domain.ListResult[production.Plan], error) {
	q := r.selectQuery(ownerID)
	if f.Status != nil {
		q = q.Where(squirrel.Eq{"status": *f.Status})
	}
	if f.ProductID != nil {
		q = q.Where(squirrel.Eq{"product_id": *f.ProductID})
	}
	return r.list(ctx, q, f.Page, "due_date", "id")
}
