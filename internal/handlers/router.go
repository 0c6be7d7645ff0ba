package handlers

import (
	"laundry_manager/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Auth        *AuthHandler
	Tickets     *TicketHandler
	Customers   *CustomerHandler
	Catalog     *CatalogHandler
	Inventory   *InventoryHandler
	Expenses    *ExpenseHandler
	Analytics   *AnalyticsHandler
	Preferences *PreferenceHandler
	Admin       *AdminHandler
	WhatsApp    *WhatsAppHandler
	Health      *HealthHandler
}

func SetupRouter(router *gin.Engine, h Handlers, tokens TokenParser) {
	router.GET("/health", h.Health.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.POST("/api/auth/login", h.Auth.Login)
	router.POST("/api/whatsapp/webhook", h.WhatsApp.HandleWebhook)

	api := router.Group("/api", AuthMiddleware(tokens))
	{
		api.GET("/auth/me", h.Auth.Me)

		api.GET("/customers", h.Customers.List)
		api.POST("/customers", h.Customers.Create)
		api.GET("/customers/:id", h.Customers.Get)
		api.PUT("/customers/:id", h.Customers.Update)
		api.GET("/customers/:id/loyalty", h.Customers.LoyaltyHistory)
		api.POST("/customers/:id/redeem", h.Customers.Redeem)
		api.POST("/customers/:id/free-valets/consume", h.Customers.ConsumeFreeValet)

		api.GET("/tickets", h.Tickets.List)
		api.POST("/tickets", h.Tickets.Create)
		api.GET("/tickets/number/:number", h.Tickets.GetByNumber)
		api.GET("/tickets/:id", h.Tickets.Get)
		api.POST("/tickets/:id/process", h.Tickets.Process)
		api.POST("/tickets/:id/ready", h.Tickets.Ready)
		api.POST("/tickets/:id/deliver", h.Tickets.Deliver)
		api.POST("/tickets/:id/cancel", h.Tickets.Cancel)
		api.POST("/tickets/:id/pay", h.Tickets.Pay)
		api.GET("/tickets/:id/notices", h.Analytics.TicketNotices)

		api.GET("/services", h.Catalog.List)
		api.GET("/inventory", h.Inventory.List)
		api.GET("/inventory/low-stock", h.Inventory.LowStock)
		api.POST("/inventory/:id/adjust", h.Inventory.Adjust)

		api.GET("/expenses", h.Expenses.List)
		api.POST("/expenses", h.Expenses.Create)

		api.GET("/analytics", h.Analytics.Report)
		api.GET("/analytics/summary", h.Analytics.Summary)
		api.GET("/analytics/export", h.Analytics.Export)
		api.GET("/aging", h.Analytics.Aging)

		api.GET("/preferences/:key", h.Preferences.Get)
		api.PUT("/preferences/:key", h.Preferences.Put)
		api.DELETE("/preferences/:key", h.Preferences.Delete)
	}

	admin := api.Group("", RequireRole(models.Admin))
	{
		admin.POST("/services", h.Catalog.Create)
		admin.PUT("/services/:id", h.Catalog.Update)
		admin.POST("/inventory", h.Inventory.Create)

		admin.POST("/admin/cache/clear", h.Admin.ClearCache)
		admin.GET("/admin/counters/:name", h.Admin.GetCounter)
		admin.POST("/admin/counters/:name/reset", h.Admin.ResetCounter)
		admin.POST("/admin/aging/scan", h.Admin.ScanAging)
		admin.POST("/admin/whatsapp/send", h.WhatsApp.SendMessage)
	}
}
