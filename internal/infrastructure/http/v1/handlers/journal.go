package handlers

import (
	"github.com/gin-gonic/gin"

	"bizdesk/internal/domain/journal"
	"bizdesk/internal/infrastructure/http/v1/dto"
)

// JournalHandler handles business journal entries.
type JournalHandler struct {
	*BaseHandler
	service *journal.Service
}

// NewJournalHandler creates a new journal handler.
func NewJournalHandler(base *BaseHandler, service *journal.Service) *JournalHandler {
	return &JournalHandler{BaseHandler: base, service: service}
}

// List handles GET /journal.
func (h *JournalHandler) List(c *gin.Context) {
	ownerID, ok := h.OwnerID(c)
	if !ok {
		return
	}
	var q dto.JournalListQuery
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

// Create handles POST /journal.
func (h *JournalHandler) Create(c *gin.Context) {
	ownerID, ok := h.OwnerID(c)
	if !ok {
		return
	}
	var req dto.JournalEntryRequest
	if !h.BindJSON(c, &req) {
		return
	}

	entry, err := h.service.Create(c.Request.Context(), ownerID, req.ToInput())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, entry)
}

// Get handles GET /journal/:id.
func (h *JournalHandler) Get(c *gin.Context) {
	ownerID, ok := h.OwnerID(c)
	if !ok {
		return
	}
	entryID, ok := h.ParamID(c)
	if !ok {
		return
	}

	entry, err := h.service.Get(c.Request.Context(), ownerID, entryID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, entry)
}

// Update handles PUT /journal/:id.
func (h *JournalHandler) Update(c *gin.Context) {
	ownerID, ok := h.OwnerID(c)
	if !ok {
		return
	}
	entryID, ok := h.ParamID(c)
	if !ok {
		return
	}
	var req dto.JournalEntryRequest
	if !h.BindJSON(c, &req) {
		return
	}

	entry, err := h.service.Update(c.Request.Context(), ownerID, entryID, req.ToInput())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, entry)
}

// Delete handles DELETE /journal/:id.
func (h *JournalHandler) Delete(c *gin.Context) {
	ownerID, ok := h.OwnerID(c)
	if !ok {
		return
	}
	entryID, ok := h.ParamID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), ownerID, entryID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}
