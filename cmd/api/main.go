package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/itsells/billing-api/internal/application/service"
	"github.com/itsells/billing-api/internal/config"
	"github.com/itsells/billing-api/internal/infrastructure/database"
	"github.com/itsells/billing-api/internal/infrastructure/gateway"
	"github.com/itsells/billing-api/internal/infrastructure/lock"
	"github.com/itsells/billing-api/internal/infrastructure/repository"
	"github.com/itsells/billing-api/internal/presentation/http/handler"
	"github.com/itsells/billing-api/internal/presentation/http/routes"
	"github.com/itsells/billing-api/pkg/utils"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed default data
	if err := database.SeedDefaultData(db); err != nil {
		log.Printf("Warning: Failed to seed default data: %v", err)
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.ExpiryHours)

	// Initialize repositories
	orderRepo := repository.NewOrderRepository(db)
	tableRepo := repository.NewTableRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	companyRepo := repository.NewCompanyRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	// Initialize the checkout lock; Redis makes it effective across
	// instances, the in-process lock covers a single instance.
	var checkoutLock lock.CheckoutLock
	redisClient, err := database.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Printf("Warning: Redis unavailable, using in-process checkout lock: %v", err)
		checkoutLock = lock.NewMemoryLock()
	} else {
		checkoutLock = lock.NewRedisLock(redisClient)
	}

	// Initialize payment provider gateways
	endpoints := gateway.NewEndpoints(
		cfg.Payment.BaseURL,
		cfg.Payment.FallbackURL,
		cfg.Payment.RequestTimeout,
		cfg.Payment.URLCacheTTL,
	)
	gateways := gateway.NewRegistry(
		gateway.NewPixGateway(endpoints, cfg.Payment.RequestTimeout, companyRepo),
		gateway.NewCardGateway(endpoints, cfg.Payment.RequestTimeout),
		gateway.NewCashGateway(),
	)

	// Initialize services
	billingService := service.NewBillingService(orderRepo, tableRepo, settingsRepo)
	checkoutService := service.NewCheckoutService(
		orderRepo, tableRepo, paymentRepo, customerRepo,
		billingService, gateways, checkoutLock, cfg.Payment,
	)
	companyService := service.NewCompanyService(companyRepo)
	settingsService := service.NewSettingsService(settingsRepo)
	tableService := service.NewTableService(tableRepo)

	// Initialize handlers
	handlers := &routes.Handlers{
		Billing:  handler.NewBillingHandler(billingService),
		Checkout: handler.NewCheckoutHandler(checkoutService),
		Webhook:  handler.NewWebhookHandler(checkoutService),
		Company:  handler.NewCompanyHandler(companyService),
		Settings: handler.NewSettingsHandler(settingsService),
		Table:    handler.NewTableHandler(tableService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager: jwtManager,
		Cfg:        cfg,
	})

	// Get port from environment or use default
	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting %s server on port %s...", cfg.App.Name, port)
	log.Printf("Environment: %s", cfg.App.Env)

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
		os.Exit(1)
	}
}
