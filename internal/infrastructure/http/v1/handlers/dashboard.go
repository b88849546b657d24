package handlers

import (
	"github.com/gin-gonic/gin"

	"bizdesk/internal/domain/dashboard"
)

// DashboardHandler serves the overview statistics.
type DashboardHandler struct {
	*BaseHandler
	service *dashboard.Service
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(base *BaseHandler, service *dashboard.Service) *DashboardHandler {
	return &DashboardHandler{BaseHandler: base, service: service}
}

// Stats handles GET /dashboard.
func (h *DashboardHandler) Stats(c *gin.Context) {
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
