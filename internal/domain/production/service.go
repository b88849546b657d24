package production

import (
	"context"
	"fmt"
	"time"

	"bizdesk/internal/core/id"
	"bizdesk/internal/core/tx"
	"bizdesk/internal/domain"
	"bizdesk/internal/domain/inventory"
	"bizdesk/pkg/logger"
)

// Catalog resolves products and posts stock movements. Implemented by inventory.Service.
type Catalog interface {
	GetProduct(ctx context.Context, ownerID, productID id.ID) (*inventory.Product, error)
	ApplyStockEvent(ctx context.Context, ownerID id.ID, in inventory.StockEventInput) (inventory.StockEventResult, error)
}

// Service manages production plans.
type Service struct {
	repo    Repository
	catalog Catalog
	txm     tx.Manager
	now     func() time.Time
}

// Option configures Service.
type Option func(*Service)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a new production service.
func NewService(repo Repository, catalog Catalog, txm tx.Manager, opts ...Option) *Service {
	s := &Service{
		repo:    repo,
		catalog: catalog,
		txm:     txm,
		now:     func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PlanInput is a new production plan.
type PlanInput struct {
	ProductID id.ID
	Quantity  int64
	DueDate   time.Time
	ActorID   string
}

// CreatePlan schedules a production run for an existing product.
func (s *Service) CreatePlan(ctx context.Context, ownerID id.ID, in PlanInput) (*Plan, error) {
	p, err := NewPlan(ownerID, in.ProductID, in.Quantity, in.DueDate, in.ActorID, s.now())
	if err != nil {
		return nil, err
	}
	if _, err := s.catalog.GetProduct(ctx, ownerID, in.ProductID); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, &p); err != nil {
		return nil, fmt.Errorf("create plan: %w", err)
	}
	logger.Info(ctx, "production plan created", "plan_id", p.ID, "product_id", p.ProductID, "quantity", p.Quantity)
	return &p, nil
}

// GetPlan returns one plan.
func (s *Service) GetPlan(ctx context.Context, ownerID, planID id.ID) (*Plan, error) {
	return s.repo.Get(ctx, ownerID, planID)
}

// ListPlans returns a filtered page of plans.
func (s *Service) ListPlans(ctx context.Context, ownerID id.ID, filter Filter) (domain.ListResult[Plan], error) {
	filter.Page = filter.Page.Normalize(100, 1000)
	return s.repo.List(ctx, ownerID, filter)
}

// Start moves a plan to in_progress.
func (s *Service) Start(ctx context.Context, ownerID, planID id.ID) (*Plan, error) {
	return s.transition(ctx, ownerID, planID, "start", func(ctx context.Context, p *Plan) error {
		return p.Start(s.now())
	})
}

// Cancel cancels a plan that has not completed.
func (s *Service) Cancel(ctx context.Context, ownerID, planID id.ID) (*Plan, error) {
	return s.transition(ctx, ownerID, planID, "cancel", func(ctx context.Context, p *Plan) error {
		return p.Cancel(s.now())
	})
}

// Complete marks a plan done and posts an Entry/ProductionCompleted stock
// event for the produced quantity in the same transaction.
func (s *Service) Complete(ctx context.Context, ownerID, planID id.ID, produced int64, actorID string) (*Plan, error) {
	return s.transition(ctx, ownerID, planID, "complete", func(ctx context.Context, p *Plan) error {
		now := s.now()
		if err := p.Complete(produced, now); err != nil {
			return err
		}
		_, err := s.catalog.ApplyStockEvent(ctx, ownerID, inventory.StockEventInput{
			ProductID:   p.ProductID,
			Kind:        inventory.KindEntry,
			Quantity:    p.Produced,
			Reason:      inventory.ReasonProductionCompleted,
			Description: fmt.Sprintf("production plan %s", p.ID),
			ActorID:     actorID,
			Timestamp:   now,
		})
		if err != nil {
			return fmt.Errorf("post production stock: %w", err)
		}
		return nil
	})
}

func (s *Service) transition(ctx context.Context, ownerID, planID id.ID, action string, fn func(context.Context, *Plan) error) (*Plan, error) {
	var out *Plan
	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		p, err := s.repo.GetForUpdate(ctx, ownerID, planID)
		if err != nil {
			return err
		}
		if err := fn(ctx, p); err != nil {
			return err
		}
		if err := s.repo.Update(ctx, p); err != nil {
			return fmt.Errorf("update plan: %w", err)
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.Info(ctx, "production plan "+action, "plan_id", out.ID, "status", out.Status)
	return out, nil
}
