package v1

import "github.com/gin-gonic/gin"

// CRUDRouteHandler defines the handlers of a plain owner-scoped collection.
type CRUDRouteHandler interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Get(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}

// RegisterCRUDRoutes registers the standard collection routes on group.
// Static sub-paths such as /summary must be registered by the caller.
//
// Usage:
//
//	handler := handlers.NewCustomerHandler(baseHandler, cfg.Customers)
//	group := api.Group("/customers")
//	group.GET("/stats", handler.Stats)
//	RegisterCRUDRoutes(group, handler)
func RegisterCRUDRoutes(group *gin.RouterGroup, handler CRUDRouteHandler) {
	group.GET("", handler.List)
	group.POST("", handler.Create)
	group.GET("/:id", handler.Get)
	group.PUT("/:id", handler.Update)
	group.DELETE("/:id", handler.Delete)
}
