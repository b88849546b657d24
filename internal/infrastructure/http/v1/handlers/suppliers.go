package handlers

import (
	"github.com/gin-gonic/gin"

	"bizdesk/internal/domain/suppliers"
	"bizdesk/internal/infrastructure/http/v1/dto"
)

// SupplierHandler handles suppliers and their invoices.
type SupplierHandler struct {
	*BaseHandler
	service *suppliers.Service
}

// NewSupplierHandler creates a new supplier handler.
func NewSupplierHandler(base *BaseHandler, service *suppliers.Service) *SupplierHandler {
	return &SupplierHandler{BaseHandler: base, service: service}
}

// List handles GET /suppliers.
func (h *SupplierHandler) List(c *gin.Context) {
	ownerID, ok := h.OwnerID(c)
	if !ok {
		return
	}
	var q dto.SupplierListQuery
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

// Create handles POST /suppliers.
func (h *SupplierHandler) Create(c *gin.Context) {
	ownerID, ok := h.OwnerID(c)
	if !ok {
		return
	}
	var req dto.SupplierRequest
	if !h.BindJSON(c, &req) {
		return
	}

	sup, err := h.service.Create(c.Request.Context(), ownerID, req.ToInput())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, dto.NewSupplierResponse(sup))
}

// Get handles GET /suppliers/:id.
func (h *SupplierHandler) Get(c *gin.Context) {
	ownerID, ok := h.OwnerID(c)
	if !ok {
		return
	}
	supplierID, ok := h.ParamID(c)
	if !ok {
		return
	}

	sup, err := h.service.Get(c.Request.Context(), ownerID, supplierID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewSupplierResponse(sup))
}

// Update handles PUT /suppliers/:id.
func (h *SupplierHandler) Update(c *gin.Context) {
	ownerID, ok := h.OwnerID(c)
	if !ok {
		return
	}
	supplierID, ok := h.ParamID(c)
	if !ok {
		return
	}
	var req dto.SupplierRequest
	if !h.BindJSON(c, &req) {
		return
	}

	sup, err := h.service.Update(c.Request.Context(), ownerID, supplierID, req.ToInput())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewSupplierResponse(sup))
}

// Delete handles DELETE /suppliers/:id.
func (h *SupplierHandler) Delete(c *gin.Context) {
	ownerID, ok := h.OwnerID(c)
	if !ok {
		return
	}
	supplierID, ok := h.ParamID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), ownerID, supplierID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// Stats handles GET /suppliers/stats.
func (h *SupplierHandler) Stats(c *gin.Context) {
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

// AddCredit handles POST /suppliers/:id/credit.
func (h *SupplierHandler) AddCredit(c *gin.Context) {
	ownerID, ok := h.OwnerID(c)
	if !ok {
		return
	}
	supplierID, ok := h.ParamID(c)
	if !ok {
		return
	}
	var req dto.CreditRequest
	if !h.BindJSON(c, &req) {
		return
	}

	sup, err := h.service.AddCredit(c.Request.Context(), ownerID, supplierID, req.Amount)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewSupplierResponse(sup))
}

// RecordInvoice handles POST /suppliers/:id/invoices.
func (h *SupplierHandler) RecordInvoice(c *gin.Context) {
	ownerID, ok := h.OwnerID(c)
	if !ok {
		return
	}
	supplierID, ok := h.ParamID(c)
	if !ok {
		return
	}
	var req dto.InvoiceRequest
	if !h.BindJSON(c, &req) {
		return
	}

	inv, err := h.service.RecordInvoice(c.Request.Context(), ownerID, supplierID, req.ToInput())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, inv)
}

// SupplierInvoices handles GET /suppliers/:id/invoices.
func (h *SupplierHandler) SupplierInvoices(c *gin.Context) {
	supplierID, ok := h.ParamID(c)
	if !ok {
		return
	}
	h.listInvoices(c, func(f *suppliers.InvoiceFilter) { f.SupplierID = &supplierID })
}

// ListInvoices handles GET /supplier-invoices.
func (h *SupplierHandler) ListInvoices(c *gin.Context) {
	h.listInvoices(c, func(*suppliers.InvoiceFilter) {})
}

func (h *SupplierHandler) listInvoices(c *gin.Context, narrow func(*suppliers.InvoiceFilter)) {
	ownerID, ok := h.OwnerID(c)
	if !ok {
		return
	}
	var q dto.InvoiceListQuery
	if !h.BindQuery(c, &q) {
		return
	}
	filter := q.ToFilter()
	narrow(&filter)

	result, err := h.service.ListInvoices(c.Request.Context(), ownerID, filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(result))
}

// PayInvoice handles POST /supplier-invoices/:id/pay. The body is optional.
func (h *SupplierHandler) PayInvoice(c *gin.Context) {
	ownerID, ok := h.OwnerID(c)
	if !ok {
		return
	}
	invoiceID, ok := h.ParamID(c)
	if !ok {
		return
	}
	var req dto.PaymentRequest
	if c.Request.ContentLength != 0 && !h.BindJSON(c, &req) {
		return
	}

	inv, err := h.service.PayInvoice(c.Request.Context(), ownerID, invoiceID, req.ToInput())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, inv)
}
