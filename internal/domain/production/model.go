// Package production plans production runs. Completing a run adds the
// produced quantity to stock through the ledger.
package production

import (
	"time"

	"bizdesk/internal/core/apperror"
	"bizdesk/internal/core/id"
)

// Status is the lifecycle state of a plan.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// IsValid reports whether s is a known status.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Plan is a scheduled production run for one product.
type Plan struct {
	ID          id.ID      `db:"id" json:"id"`
	OwnerID     id.ID      `db:"owner_id" json:"ownerId"`
	ProductID   id.ID      `db:"product_id" json:"productId"`
	Quantity    int64      `db:"quantity" json:"quantity"`
	Produced    int64      `db:"produced" json:"produced"`
	Status      Status     `db:"status" json:"status"`
	DueDate     time.Time  `db:"due_date" json:"dueDate"`
	ActorID     string     `db:"actor_id" json:"actorId"`
	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updatedAt"`
	CompletedAt *time.Time `db:"completed_at" json:"completedAt,omitempty"`
}

// NewPlan validates and builds a pending plan.
func NewPlan(ownerID, productID id.ID, quantity int64, dueDate time.Time, actorID string, now time.Time) (Plan, error) {
	if quantity <= 0 {
		return Plan{}, apperror.NewInvalidQuantity(quantity)
	}
	if dueDate.IsZero() {
		return Plan{}, apperror.NewValidation("due date is required").WithDetail("field", "dueDate")
	}
	return Plan{
		ID:        id.New(),
		OwnerID:   ownerID,
		ProductID: productID,
		Quantity:  quantity,
		Status:    StatusPending,
		DueDate:   dueDate,
		ActorID:   actorID,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Start moves a pending plan to in_progress.
func (p *Plan) Start(now time.Time) error {
	if p.Status != StatusPending {
		return apperror.NewInvalidTransition("production plan", string(p.Status), "start")
	}
	p.Status = StatusInProgress
	p.UpdatedAt = now
	return nil
}

// Cancel stops a plan that has not completed.
func (p *Plan) Cancel(now time.Time) error {
	if p.Status != StatusPending && p.Status != StatusInProgress {
		return apperror.NewInvalidTransition("production plan", string(p.Status), "cancel")
	}
	p.Status = StatusCancelled
	p.UpdatedAt = now
	return nil
}

// Complete marks the plan done with the quantity actually produced.
// A zero produced quantity means the planned quantity.
func (p *Plan) Complete(produced int64, now time.Time) error {
	if p.Status != StatusPending && p.Status != StatusInProgress {
		return apperror.NewInvalidTransition("production plan", string(p.Status), "complete")
	}
	if produced == 0 {
		produced = p.Quantity
	}
	if produced < 0 {
		return apperror.NewInvalidQuantity(produced)
	}
	p.Status = StatusCompleted
	p.Produced = produced
	p.UpdatedAt = now
	p.CompletedAt = &now
	return nil
}
