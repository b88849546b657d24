// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"bizdesk/internal/domain/customers"
	"bizdesk/internal/domain/dashboard"
	"bizdesk/internal/domain/finance"
	"bizdesk/internal/domain/inventory"
	"bizdesk/internal/domain/journal"
	"bizdesk/internal/domain/production"
	"bizdesk/internal/domain/sales"
	"bizdesk/internal/domain/suppliers"
	"bizdesk/internal/infrastructure/http/v1/dto"
	"bizdesk/internal/infrastructure/http/v1/handlers"
	"bizdesk/internal/infrastructure/http/v1/middleware"
	"bizdesk/pkg/logger"
)

// RouterConfig holds the services exposed by the API.
type RouterConfig struct {
	Inventory  *inventory.Service
	Sales      *sales.Service
	Customers  *customers.Service
	Finance    *finance.Service
	Production *production.Service
	Dashboard  *dashboard.Service
	Suppliers  *suppliers.Service
	Journal    *journal.Service

	// HealthChecks are pinged by /health/ready, keyed by dependency name.
	HealthChecks map[string]handlers.Checker
	// HealthInfo adds details to /health/info.
	HealthInfo func() map[string]any

	// CORSOrigins are the browser origins allowed to call the API. Empty
	// means any origin in debug mode and no CORS headers otherwise.
	CORSOrigins []string

	// Logger for request logging
	Logger *logger.Logger

	// Debug keeps gin in debug mode.
	Debug bool
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) (*gin.Engine, error) {
	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := dto.RegisterValidators(); err != nil {
		return nil, err
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Default()
	}

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	if cfg.Debug || len(cfg.CORSOrigins) > 0 {
		router.Use(middleware.CORS(cfg.CORSOrigins))
	}
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	healthHandler := handlers.NewHealthHandler(cfg.HealthChecks, cfg.HealthInfo)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	api := router.Group("/api/v1")
	api.Use(middleware.Owner())

	base := handlers.NewBaseHandler()
	registerInventoryRoutes(api, base, cfg)
	registerSalesRoutes(api, base, cfg)
	registerCustomerRoutes(api, base, cfg)
	registerFinanceRoutes(api, base, cfg)
	registerProductionRoutes(api, base, cfg)
	registerDashboardRoutes(api, base, cfg)
	registerSupplierRoutes(api, base, cfg)
	registerJournalRoutes(api, base, cfg)

	return router, nil
}

func registerInventoryRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	handler := handlers.NewProductHandler(base, cfg.Inventory)

	products := rg.Group("/products")
	products.GET("/summary", handler.Summary)
	RegisterCRUDRoutes(products, handler)

	stock := rg.Group("/stock")
	{
		stock.GET("/events", handler.ListStockEvents)
		stock.POST("/events", handler.ApplyStockEvent)
		stock.GET("/reasons", handler.Reasons)
	}
}

func registerSalesRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	handler := handlers.NewSaleHandler(base, cfg.Sales)

	group := rg.Group("/sales")
	{
		group.GET("", handler.List)
		group.POST("", handler.Checkout)
		group.GET("/:id", handler.Get)
		group.POST("/:id/fulfillment", handler.Fulfillment)
	}
}

func registerCustomerRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	handler := handlers.NewCustomerHandler(base, cfg.Customers)

	group := rg.Group("/customers")
	group.GET("/stats", handler.Stats)
	RegisterCRUDRoutes(group, handler)
}

func registerFinanceRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	handler := handlers.NewFinanceHandler(base, cfg.Finance)

	group := rg.Group("/finance")
	{
		group.GET("/records", handler.ListRecords)
		group.POST("/records", handler.AddRecord)
		group.GET("/summary", handler.Summary)
		group.GET("/closures", handler.ListClosures)
		group.POST("/closures", handler.CloseRegister)
	}
}

func registerProductionRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	handler := handlers.NewProductionHandler(base, cfg.Production)

	plans := rg.Group("/production/plans")
	{
		plans.GET("", handler.List)
		plans.POST("", handler.Create)
		plans.GET("/:id", handler.Get)
		plans.POST("/:id/start", handler.Start)
		plans.POST("/:id/cancel", handler.Cancel)
		plans.POST("/:id/complete", handler.Complete)
	}
}

func registerDashboardRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	handler := handlers.NewDashboardHandler(base, cfg.Dashboard)
	rg.GET("/dashboard", handler.Stats)
}

func registerSupplierRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	handler := handlers.NewSupplierHandler(base, cfg.Suppliers)

	group := rg.Group("/suppliers")
	group.GET("/stats", handler.Stats)
	RegisterCRUDRoutes(group, handler)
	group.POST("/:id/credit", handler.AddCredit)
	group.GET("/:id/invoices", handler.SupplierInvoices)
	group.POST("/:id/invoices", handler.RecordInvoice)

	invoices := rg.Group("/supplier-invoices")
	{
		invoices.GET("", handler.ListInvoices)
		invoices.POST("/:id/pay", handler.PayInvoice)
	}
}

func registerJournalRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	RegisterCRUDRoutes(rg.Group("/journal"), handlers.NewJournalHandler(base, cfg.Journal))
}
