package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bizdesk/internal/core/apperror"
	appctx "bizdesk/internal/core/context"
	"bizdesk/internal/core/id"
	"bizdesk/internal/infrastructure/http/v1/dto"
	"bizdesk/internal/infrastructure/http/v1/middleware"
)

// BaseHandler provides common handler utilities.
type BaseHandler struct{}

// NewBaseHandler creates a new base handler.
func NewBaseHandler() *BaseHandler {
	return &BaseHandler{}
}

// BindJSON binds and validates JSON request body.
func (h *BaseHandler) BindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		h.Error(c, bindError("invalid request body", err))
		return false
	}
	return true
}

// BindQuery binds and validates query parameters.
func (h *BaseHandler) BindQuery(c *gin.Context, obj any) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		h.Error(c, bindError("invalid query parameters", err))
		return false
	}
	return true
}

func bindError(msg string, err error) *apperror.AppError {
	appErr := apperror.NewValidation(msg)
	if fields := dto.FieldErrors(err); fields != nil {
		return appErr.WithDetail("fields", fields)
	}
	return appErr.WithDetail("error", err.Error())
}

// Error registers err on the gin context and aborts the request.
// middleware.ErrorHandler renders the response.
func (h *BaseHandler) Error(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// OwnerID returns the owner resolved by middleware.Owner.
func (h *BaseHandler) OwnerID(c *gin.Context) (id.ID, bool) {
	ownerID, ok := middleware.OwnerID(c)
	if !ok {
		h.Error(c, apperror.NewUnauthorized("owner is required"))
	}
	return ownerID, ok
}

// ActorID returns the acting user from the request context.
func (h *BaseHandler) ActorID(c *gin.Context) string {
	return appctx.GetUserID(c.Request.Context())
}

// ParamID parses the :id path parameter.
func (h *BaseHandler) ParamID(c *gin.Context) (id.ID, bool) {
	v, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format").WithDetail("id", c.Param("id")))
		return id.Nil(), false
	}
	return v, true
}

// OK sends 200 response with data.
func (h *BaseHandler) OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

// Created sends 201 response with data.
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

// NoContent sends 204 response.
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
