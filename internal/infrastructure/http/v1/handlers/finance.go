package handlers

import (
	"github.com/gin-gonic/gin"

	"bizdesk/internal/domain/finance"
	"bizdesk/internal/infrastructure/http/v1/dto"
)

// FinanceHandler handles financial records and register closures.
type FinanceHandler struct {
	*BaseHandler
	service *finance.Service
}

// NewFinanceHandler creates a new finance handler.
func NewFinanceHandler(base *BaseHandler, service *finance.Service) *FinanceHandler {
	return &FinanceHandler{BaseHandler: base, service: service}
}

// ListRecords handles GET /finance/records.
func (h *FinanceHandler) ListRecords(c *gin.Context) {
	ownerID, ok := h.OwnerID(c)
	if !ok {
		return
	}
	var q dto.RecordListQuery
	if !h.BindQuery(c, &q) {
		return
	}

	result, err := h.service.ListRecords(c.Request.Context(), ownerID, q.ToFilter())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(result))
}

// AddRecord handles POST /finance/records.
func (h *FinanceHandler) AddRecord(c *gin.Context) {
	ownerID, ok := h.OwnerID(c)
	if !ok {
		return
	}
	var req dto.RecordRequest
	if !h.BindJSON(c, &req) {
		return
	}

	rec, err := h.service.AddRecord(c.Request.Context(), ownerID, req.ToInput())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, rec)
}

// Summary handles GET /finance/summary.
func (h *FinanceHandler) Summary(c *gin.Context) {
	ownerID, ok := h.OwnerID(c)
	if !ok {
		return
	}
	var q dto.DateRangeQuery
	if !h.BindQuery(c, &q) {
		return
	}

	sum, err := h.service.Summary(c.Request.Context(), ownerID, q.FromDate, q.ToDate)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, sum)
}

// ListClosures handles GET /finance/closures.
func (h *FinanceHandler) ListClosures(c *gin.Context) {
	ownerID, ok := h.OwnerID(c)
	if !ok {
		return
	}
	var q dto.PageQuery
	if !h.BindQuery(c, &q) {
		return
	}

	result, err := h.service.ListClosures(c.Request.Context(), ownerID, q.ToPage())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(result))
}

// CloseRegister handles POST /finance/closures.
func (h *FinanceHandler) CloseRegister(c *gin.Context) {
	ownerID, ok := h.OwnerID(c)
	if !ok {
		return
	}
	var req dto.CloseRegisterRequest
	if !h.BindJSON(c, &req) {
		return
	}

	res, err := h.service.CloseRegister(c.Request.Context(), ownerID, req.ToInput(h.ActorID(c)))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, res)
}
