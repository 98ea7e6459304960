package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tillpoint/pos-api/internal/config"
	"github.com/tillpoint/pos-api/internal/domain/entity"
	domainRepo "github.com/tillpoint/pos-api/internal/domain/repository"
	"github.com/tillpoint/pos-api/internal/presentation/http/handler"
	"github.com/tillpoint/pos-api/internal/presentation/http/middleware"
	"github.com/tillpoint/pos-api/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth         *handler.AuthHandler
	Tenant       *handler.TenantHandler
	Product      *handler.ProductHandler
	SideBusiness *handler.SideBusinessHandler
	Checkout     *handler.CheckoutHandler
	Sale         *handler.SaleHandler
	Refund       *handler.RefundHandler
	Customer     *handler.CustomerHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
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
		// Public routes (no authentication required)
		registerAuthRoutes(v1, h)

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))
		protected.Use(middleware.TenantMiddleware())

		// Per-tenant rate limiter
		rateLimiter := middleware.NewTenantRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration),
			BurstSize:         deps.Cfg.RateLimit.Requests,
			CleanupInterval:   5 * time.Minute,
			EntryTTL:          10 * time.Minute,
		})
		protected.Use(rateLimiter.Middleware())

		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

func registerAuthRoutes(v1 *gin.RouterGroup, h *Handlers) {
	auth := v1.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.RefreshToken)
	}
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	// Profile routes
	protected.GET("/profile", h.Auth.GetProfile)
	protected.PUT("/profile/password", h.Auth.ChangePassword)

	// Account creation is admin only
	protected.POST("/auth/register", middleware.RequireRole(entity.RoleAdmin), h.Auth.Register)

	registerTenantRoutes(protected, h)
	registerProductRoutes(protected, h)
	registerSideBusinessRoutes(protected, h)
	registerCheckoutRoutes(protected, h, deps)
	registerSaleRoutes(protected, h)
	registerRefundRoutes(protected, h)
	registerCustomerRoutes(protected, h)
}

func registerTenantRoutes(protected *gin.RouterGroup, h *Handlers) {
	tenants := protected.Group("/tenants")
	{
		tenants.POST("", middleware.RequireRole(entity.RoleAdmin), h.Tenant.Create)
		tenants.GET("/current", h.Tenant.GetCurrent)
		tenants.PUT("/current", middleware.RequireRole(entity.RoleAdmin), h.Tenant.UpdateCurrent)
		tenants.GET("/current/branches", h.Tenant.ListBranches)
		tenants.POST("/current/branches", middleware.RequireRole(entity.RoleAdmin), h.Tenant.CreateBranch)
	}
}

func registerProductRoutes(protected *gin.RouterGroup, h *Handlers) {
	products := protected.Group("/products")
	{
		products.GET("", h.Product.List)
		products.POST("", h.Product.Create)
		products.GET("/low-stock", h.Product.GetLowStock)
		products.GET("/:id", h.Product.Get)
		products.PUT("/:id", h.Product.Update)
		products.DELETE("/:id", middleware.RequireRole(entity.RoleAdmin), h.Product.Delete)
		products.POST("/:id/stock", middleware.RequireRole(entity.RoleAdmin), h.Product.AdjustStock)
		products.GET("/:id/movements", h.Product.GetMovements)
	}
}

func registerSideBusinessRoutes(protected *gin.RouterGroup, h *Handlers) {
	items := protected.Group("/side-business/items")
	{
		items.GET("", h.SideBusiness.List)
		items.POST("", h.SideBusiness.Create)
		items.GET("/:id", h.SideBusiness.Get)
	}
}

func registerCheckoutRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	// Sale commit uses idempotency middleware so a cashier retry after a
	// network drop replays the stored receipt instead of committing twice
	protected.POST("/checkout", middleware.IdempotencyRequired(middleware.IdempotencyConfig{
		Repo: deps.IdempotencyRepo,
	}), h.Checkout.Commit)
}

func registerSaleRoutes(protected *gin.RouterGroup, h *Handlers) {
	sales := protected.Group("/sales")
	{
		sales.GET("", h.Sale.List)
		sales.GET("/cursor", h.Sale.ListCursor)
		sales.GET("/:id", h.Sale.Get)
		sales.DELETE("/:id", middleware.RequireRole(entity.RoleAdmin), h.Sale.Void)

		// Refunds against one sale
		sales.POST("/:id/refunds", h.Refund.Process)
		sales.GET("/:id/refunds", h.Refund.ListBySale)
		sales.GET("/:id/refunds/remaining", h.Refund.GetRemaining)
	}
}

func registerRefundRoutes(protected *gin.RouterGroup, h *Handlers) {
	refunds := protected.Group("/refunds")
	{
		refunds.GET("", h.Refund.List)
		refunds.GET("/stats", h.Refund.Stats)
		refunds.GET("/reasons", h.Refund.Reasons)
	}
}

func registerCustomerRoutes(protected *gin.RouterGroup, h *Handlers) {
	customers := protected.Group("/customers")
	{
		customers.GET("", h.Customer.List)
		customers.POST("", h.Customer.Create)
		customers.GET("/:id", h.Customer.Get)
		customers.PUT("/:id", h.Customer.Update)
		customers.DELETE("/:id", middleware.RequireRole(entity.RoleAdmin), h.Customer.Delete)
		customers.GET("/:id/sales", h.Customer.GetSales)
	}
}
