package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"bizdesk/internal/core/id"
	"bizdesk/internal/domain/production"
	"bizdesk/internal/infrastructure/http/v1/dto"
)

// ProductionHandler handles production plans.
type ProductionHandler struct {
	*BaseHandler
	service *production.Service
}

// NewProductionHandler creates a new production handler.
func NewProductionHandler(base *BaseHandler, service *production.Service) *ProductionHandler {
	return &ProductionHandler{BaseHandler: base, service: service}
}

// List handles GET /production/plans.
func (h *ProductionHandler) List(c *gin.Context) {
	ownerID, ok := h.OwnerID(c)
	if !ok {
		return
	}
	var q dto.PlanListQuery
	if !h.BindQuery(c, &q) {
		return
	}

	result, err := h.service.ListPlans(c.Request.Context(), ownerID, q.ToFilter())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(result))
}

// Create handles POST /production/plans.
func (h *ProductionHandler) Create(c *gin.Context) {
	ownerID, ok := h.OwnerID(c)
	if !ok {
		return
	}
	var req dto.PlanRequest
	if !h.BindJSON(c, &req) {
		return
	}

	p, err := h.service.CreatePlan(c.Request.Context(), ownerID, req.ToInput(h.ActorID(c)))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, p)
}

// Get handles GET /production/plans/:id.
func (h *ProductionHandler) Get(c *gin.Context) {
	h.apply(c, h.service.GetPlan)
}

// Start handles POST /production/plans/:id/start.
func (h *ProductionHandler) Start(c *gin.Context) {
	h.apply(c, h.service.Start)
}

// Cancel handles POST /production/plans/:id/cancel.
func (h *ProductionHandler) Cancel(c *gin.Context) {
	h.apply(c, h.service.Cancel)
}

// Complete handles POST /production/plans/:id/complete.
func (h *ProductionHandler) Complete(c *gin.Context) {
	var req dto.CompletePlanRequest
	if c.Request.ContentLength != 0 && !h.BindJSON(c, &req) {
		return
	}
	actorID := h.ActorID(c)
	h.apply(c, func(ctx context.Context, ownerID, planID id.ID) (*production.Plan, error) {
		return h.service.Complete(ctx, ownerID, planID, req.Produced, actorID)
	})
}

func (h *ProductionHandler) apply(c *gin.Context, fn func(context.Context, id.ID, id.ID) (*production.Plan, error)) {
	ownerID, ok := h.OwnerID(c)
	if !ok {
		return
	}
	planID, ok := h.ParamID(c)
	if !ok {
		return
	}

	p, err := fn(c.Request.Context(), ownerID, planID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, p)
}
