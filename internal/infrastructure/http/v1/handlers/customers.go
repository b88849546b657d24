package handlers

import (
	"github.com/gin-gonic/gin"

	"bizdesk/internal/domain/customers"
	"bizdesk/internal/infrastructure/http/v1/dto"
)

// CustomerHandler handles customer records.
type CustomerHandler struct {
	*BaseHandler
	service *customers.Service
}

// NewCustomerHandler creates a new customer handler.
func NewCustomerHandler(base *BaseHandler, service *customers.Service) *CustomerHandler {
	return &CustomerHandler{BaseHandler: base, service: service}
}

// List handles GET /customers.
func (h *CustomerHandler) List(c *gin.Context) {
	ownerID, ok := h.OwnerID(c)
	if !ok {
		return
	}
	var q dto.CustomerListQuery
	if !h.BindQuery(c, &q) {
		return
	}

	result, err := h.service.List(c.Request.Context(), ownerID, q.ToFilter())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(result))
}

// Create handles POST /customers.
func (h *CustomerHandler) Create(c *gin.Context) {
	ownerID, ok := h.OwnerID(c)
	if !ok {
		return
	}
	var req dto.CustomerRequest
	if !h.BindJSON(c, &req) {
		return
	}

	cust, err := h.service.Create(c.Request.Context(), ownerID, req.ToInput())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, cust)
}

// Get handles GET /customers/:id.
func (h *CustomerHandler) Get(c *gin.Context) {
	ownerID, ok := h.OwnerID(c)
	if !ok {
		return
	}
	customerID, ok := h.ParamID(c)
	if !ok {
		return
	}

	cust, err := h.service.Get(c.Request.Context(), ownerID, customerID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, cust)
}

// Update handles PUT /customers/:id.
func (h *CustomerHandler) Update(c *gin.Context) {
	ownerID, ok := h.OwnerID(c)
	if !ok {
		return
	}
	customerID, ok := h.ParamID(c)
	if !ok {
		return
	}
	var req dto.CustomerRequest
	if !h.BindJSON(c, &req) {
		return
	}

	cust, err := h.service.Update(c.Request.Context(), ownerID, customerID, req.ToInput())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, cust)
}

// Delete handles DELETE /customers/:id.
func (h *CustomerHandler) Delete(c *gin.Context) {
	ownerID, ok := h.OwnerID(c)
	if !ok {
		return
	}
	customerID, ok := h.ParamID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), ownerID, customerID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// Stats handles GET /customers/stats.
func (h *CustomerHandler) Stats(c *gin.Context) {
	ownerID, ok := h.OwnerID(c)
	if !ok {
		return
	}

	st, err := h.service.Stats(c.Request.Context(), ownerID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, st)
}
