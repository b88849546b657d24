package handlers

import (
	"github.com/gin-gonic/gin"

	"bizdesk/internal/domain/sales"
	"bizdesk/internal/infrastructure/http/v1/dto"
)

// SaleHandler handles checkout and fulfillment.
type SaleHandler struct {
	*BaseHandler
	service *sales.Service
}

// NewSaleHandler creates a new sale handler.
func NewSaleHandler(base *BaseHandler, service *sales.Service) *SaleHandler {
	return &SaleHandler{BaseHandler: base, service: service}
}

// List handles GET /sales.
func (h *SaleHandler) List(c *gin.Context) {
	ownerID, ok := h.OwnerID(c)
	if !ok {
		return
	}
	var q dto.SaleListQuery
	if !h.BindQuery(c, &q) {
		return
	}

	result, err := h.service.ListSales(c.Request.Context(), ownerID, q.ToFilter())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(result))
}

// Checkout handles POST /sales.
func (h *SaleHandler) Checkout(c *gin.Context) {
	ownerID, ok := h.OwnerID(c)
	if !ok {
		return
	}
	var req dto.CheckoutRequest
	if !h.BindJSON(c, &req) {
		return
	}

	res, err := h.service.Checkout(c.Request.Context(), ownerID, req.ToInput(h.ActorID(c)))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, res)
}

// Get handles GET /sales/:id.
func (h *SaleHandler) Get(c *gin.Context) {
	ownerID, ok := h.OwnerID(c)
	if !ok {
		return
	}
	saleID, ok := h.ParamID(c)
	if !ok {
		return
	}

	s, err := h.service.GetSale(c.Request.Context(), ownerID, saleID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, s)
}

// Fulfillment handles POST /sales/:id/fulfillment.
func (h *SaleHandler) Fulfillment(c *gin.Context) {
	ownerID, ok := h.OwnerID(c)
	if !ok {
		return
	}
	saleID, ok := h.ParamID(c)
	if !ok {
		return
	}
	var req dto.FulfillmentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	s, err := h.service.TransitionFulfillment(c.Request.Context(), ownerID, saleID, sales.Action(req.Action))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, s)
}
