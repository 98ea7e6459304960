package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tillpoint/pos-api/internal/application/service"
	"github.com/tillpoint/pos-api/internal/config"
	"github.com/tillpoint/pos-api/internal/infrastructure/database"
	"github.com/tillpoint/pos-api/internal/infrastructure/repository"
	"github.com/tillpoint/pos-api/internal/presentation/http/handler"
	"github.com/tillpoint/pos-api/internal/presentation/http/routes"
	"github.com/tillpoint/pos-api/pkg/utils"
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
	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	tenantRepo := repository.NewTenantRepository(db)
	productRepo := repository.NewProductRepository(db)
	sideRepo := repository.NewSideBusinessRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	refundRepo := repository.NewRefundRepository(db)
	inventoryRepo := repository.NewInventoryRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	// Sweep expired idempotency keys so the replay table does not grow forever
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			if err := idempotencyRepo.DeleteExpired(context.Background()); err != nil {
				log.Printf("Warning: idempotency key cleanup failed: %v", err)
			}
		}
	}()

	// Initialize services
	authService := service.NewAuthService(userRepo, tenantRepo, jwtManager)
	tenantService := service.NewTenantService(tenantRepo)
	productService := service.NewProductService(productRepo, inventoryRepo)
	sideService := service.NewSideBusinessService(sideRepo)
	customerService := service.NewCustomerService(customerRepo, saleRepo)
	checkoutService := service.NewCheckoutService(
		saleRepo,
		productRepo,
		sideRepo,
		customerRepo,
		inventoryRepo,
		tenantRepo,
		userRepo,
		cfg.Sales.TaxRate,
		cfg.Sales.LoyaltyEnabled,
	)
	saleService := service.NewSaleService(saleRepo, productRepo, sideRepo, inventoryRepo)
	refundService := service.NewRefundService(refundRepo, saleRepo, productRepo, sideRepo, inventoryRepo)

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:         handler.NewAuthHandler(authService),
		Tenant:       handler.NewTenantHandler(tenantService),
		Product:      handler.NewProductHandler(productService),
		SideBusiness: handler.NewSideBusinessHandler(sideService),
		Checkout:     handler.NewCheckoutHandler(checkoutService, productService, sideService),
		Sale:         handler.NewSaleHandler(saleService),
		Refund:       handler.NewRefundHandler(refundService),
		Customer:     handler.NewCustomerHandler(customerService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
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
