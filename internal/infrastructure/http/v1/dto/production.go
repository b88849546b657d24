package dto

import (
	"time"

	"bizdesk/internal/core/id"
	"bizdesk/internal/domain/production"
)

// PlanRequest for POST /production/plans.
type PlanRequest struct {
	ProductID string    `json:"productId" binding:"required,uuid"`
	Quantity  int64     `json:"quantity"`
	DueDate   time.Time `json:"dueDate" binding:"required"`
}

// ToInput converts to the service input.
func (r PlanRequest) ToInput(actorID string) production.PlanInput {
	return production.PlanInput{
		ProductID: id.MustParse(r.ProductID),
		Quantity:  r.Quantity,
		DueDate:   r.DueDate,
		ActorID:   actorID,
	}
}

// CompletePlanRequest for POST /production/plans/:id/complete.
// Zero produced means the planned quantity.
type CompletePlanRequest struct {
	Produced int64 `json:"produced"`
}

// PlanListQuery for GET /production/plans.
type PlanListQuery struct {
	Status    string `form:"status" binding:"omitempty,oneof=pending in_progress completed cancelled"`
	ProductID string `form:"productId" binding:"omitempty,uuid"`
	PageQuery
}

// ToFilter converts to the repository filter.
func (q PlanListQuery) ToFilter() production.Filter {
	f := production.Filter{Page: q.ToPage()}
	if q.Status != "" {
		s := production.Status(q.Status)
		f.Status = &s
	}
	if q.ProductID != "" {
		pid := id.MustParse(q.ProductID)
		f.ProductID = &pid
	}
	return f
}
