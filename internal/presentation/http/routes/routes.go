package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/itsells/billing-api/internal/config"
	"github.com/itsells/billing-api/internal/presentation/http/handler"
	"github.com/itsells/billing-api/internal/presentation/http/middleware"
	"github.com/itsells/billing-api/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Billing  *handler.BillingHandler
	Checkout *handler.CheckoutHandler
	Webhook  *handler.WebhookHandler
	Company  *handler.CompanyHandler
	Settings *handler.SettingsHandler
	Table    *handler.TableHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager *utils.JWTManager
	Cfg        *config.Config
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Provider notifications carry no operator token
		v1.POST("/webhooks/payments", h.Webhook.HandlePayment)

		// Operator routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))

		rateLimiter := middleware.NewClientRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration),
			BurstSize:         deps.Cfg.RateLimit.Requests,
			CleanupInterval:   5 * time.Minute,
			EntryTTL:          10 * time.Minute,
		})
		protected.Use(rateLimiter.Middleware())

		registerBillingRoutes(protected, h)
		registerCheckoutRoutes(protected, h)
		registerMerchantRoutes(protected, h)
	}

	return router
}

func registerBillingRoutes(rg *gin.RouterGroup, h *Handlers) {
	billing := rg.Group("/billing")
	{
		billing.GET("/units", h.Billing.ListBillableUnits)
		billing.POST("/totals", h.Billing.CalculateTotals)
	}
}

func registerCheckoutRoutes(rg *gin.RouterGroup, h *Handlers) {
	checkout := rg.Group("/checkout")
	{
		checkout.POST("", h.Checkout.Start)
		checkout.GET("/:reference", h.Checkout.Get)
		checkout.POST("/:reference/card-token", h.Checkout.ProcessCardToken)
		checkout.POST("/:reference/cash-confirm", h.Checkout.ConfirmCash)
		checkout.POST("/:reference/cancel", h.Checkout.Cancel)
	}
}

func registerMerchantRoutes(rg *gin.RouterGroup, h *Handlers) {
	rg.GET("/company", h.Company.GetProfile)
	rg.PUT("/company", h.Company.UpdateProfile)
	rg.GET("/settings/couvert", h.Settings.GetCouvertRate)
	rg.PUT("/settings/couvert", h.Settings.SetCouvertRate)
	rg.GET("/tables", h.Table.ListTables)
}
