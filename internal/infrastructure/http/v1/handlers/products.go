package handlers

import (
	"github.com/gin-gonic/gin"

	"bizdesk/internal/domain/inventory"
	"bizdesk/internal/infrastructure/http/v1/dto"
)

// ProductHandler handles the product catalog and the stock ledger.
type ProductHandler struct {
	*BaseHandler
	service *inventory.Service
}

// NewProductHandler creates a new product handler.
func NewProductHandler(base *BaseHandler, service *inventory.Service) *ProductHandler {
	return &ProductHandler{BaseHandler: base, service: service}
}

// List handles GET /products.
func (h *ProductHandler) List(c *gin.Context) {
	ownerID, ok := h.OwnerID(c)
	if !ok {
		return
	}
	var q dto.ProductListQuery
	if !h.BindQuery(c, &q) {
		return
	}

	result, err := h.service.ListProducts(c.Request.Context(), ownerID, q.ToFilter())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(result))
}

// Create handles POST /products.
func (h *ProductHandler) Create(c *gin.Context) {
	ownerID, ok := h.OwnerID(c)
	if !ok {
		return
	}
	var req dto.CreateProductRequest
	if !h.BindJSON(c, &req) {
		return
	}

	p, err := h.service.CreateProduct(c.Request.Context(), ownerID, req.ToInput())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, p)
}

// Get handles GET /products/:id.
func (h *ProductHandler) Get(c *gin.Context) {
	ownerID, ok := h.OwnerID(c)
	if !ok {
		return
	}
	productID, ok := h.ParamID(c)
	if !ok {
		return
	}

	p, err := h.service.GetProduct(c.Request.Context(), ownerID, productID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, p)
}

// Update handles PUT /products/:id.
func (h *ProductHandler) Update(c *gin.Context) {
	ownerID, ok := h.OwnerID(c)
	if !ok {
		return
	}
	productID, ok := h.ParamID(c)
	if !ok {
		return
	}
	var req dto.UpdateProductRequest
	if !h.BindJSON(c, &req) {
		return
	}

	p, err := h.service.UpdateProduct(c.Request.Context(), ownerID, productID, req.ToInput())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, p)
}

// Delete handles DELETE /products/:id.
func (h *ProductHandler) Delete(c *gin.Context) {
	ownerID, ok := h.OwnerID(c)
	if !ok {
		return
	}
	productID, ok := h.ParamID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteProduct(c.Request.Context(), ownerID, productID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// Summary handles GET /products/summary.
func (h *ProductHandler) Summary(c *gin.Context) {
	ownerID, ok := h.OwnerID(c)
	if !ok {
		return
	}

	sum, err := h.service.Summary(c.Request.Context(), ownerID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, sum)
}

// ApplyStockEvent handles POST /stock/events.
func (h *ProductHandler) ApplyStockEvent(c *gin.Context) {
	ownerID, ok := h.OwnerID(c)
	if !ok {
		return
	}
	var req dto.StockEventRequest
	if !h.BindJSON(c, &req) {
		return
	}

	res, err := h.service.ApplyStockEvent(c.Request.Context(), ownerID, req.ToInput(h.ActorID(c)))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, res)
}

// ListStockEvents handles GET /stock/events.
func (h *ProductHandler) ListStockEvents(c *gin.Context) {
	ownerID, ok := h.OwnerID(c)
	if !ok {
		return
	}
	var q dto.StockEventListQuery
	if !h.BindQuery(c, &q) {
		return
	}

	result, err := h.service.ListStockEvents(c.Request.Context(), ownerID, q.ToFilter())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(result))
}

// Reasons handles GET /stock/reasons.
func (h *ProductHandler) Reasons(c *gin.Context) {
	h.OK(c, dto.ReasonsResponse{
		Entry: inventory.ReasonsFor(inventory.KindEntry),
		Exit:  inventory.ReasonsFor(inventory.KindExit),
	})
}
