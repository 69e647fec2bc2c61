package routes

import (
	"time"

	"github.com/BassamAA/mawad-api/internal/config"
	domainRepo "github.com/BassamAA/mawad-api/internal/domain/repository"
	"github.com/BassamAA/mawad-api/internal/presentation/http/handler"
	"github.com/BassamAA/mawad-api/internal/presentation/http/middleware"
	"github.com/BassamAA/mawad-api/pkg/utils"
	"github.com/gin-gonic/gin"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth     *handler.AuthHandler
	Receipt  *handler.ReceiptHandler
	Invoice  *handler.InvoiceHandler
	Product  *handler.ProductHandler
	Customer *handler.CustomerHandler
	Payment  *handler.PaymentHandler
	Printer  *handler.PrinterHandler
	Debug    *handler.DebugHandler
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

		// Per-user rate limiter
		rateLimiter := middleware.NewUserRateLimiter(middleware.RateLimiterConfig{
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
	// Auth/Profile routes
	protected.GET("/auth/me", h.Auth.Me)
	protected.PUT("/auth/change-password", h.Auth.ChangePassword)

	// Receipts
	registerReceiptRoutes(protected, h, deps)

	// Products
	registerProductRoutes(protected, h)

	// Customers
	registerCustomerRoutes(protected, h)

	// Payments
	registerPaymentRoutes(protected, h, deps)

	// Printer
	protected.GET("/printer/status", h.Printer.Status)

	// Diagnostics (Admin)
	registerDebugRoutes(protected, h)
}

func registerReceiptRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	receipts := protected.Group("/receipts")
	{
		receipts.GET("", h.Receipt.ListReceipts)
		receipts.POST("", middleware.Idempotency(middleware.IdempotencyConfig{Repo: deps.IdempotencyRepo}), h.Receipt.CreateReceipt)
		receipts.GET("/next-number", h.Receipt.NextNumber)
		receipts.POST("/customers/:customerId/invoice-preview", h.Invoice.Preview)
		receipts.GET("/:id", h.Receipt.GetReceipt)
		receipts.PUT("/:id", h.Receipt.UpdateReceipt)
		receipts.DELETE("/:id", h.Receipt.DeleteReceipt)
		receipts.GET("/:id/movements", h.Receipt.Movements)
		receipts.POST("/:id/print", h.Printer.PrintReceipt)
		receipts.PATCH("/:id/number", middleware.RequireRole("admin"), h.Receipt.OverrideNumber)
	}
}

func registerProductRoutes(protected *gin.RouterGroup, h *Handlers) {
	products := protected.Group("/products")
	{
		products.GET("", h.Product.ListProducts)
		products.POST("", h.Product.CreateProduct)
		products.POST("/import", h.Product.ImportProducts)
		products.GET("/:id", h.Product.GetProduct)
		products.PUT("/:id", h.Product.UpdateProduct)
		products.DELETE("/:id", h.Product.DeleteProduct)
		products.GET("/:id/movements", h.Product.Movements)
	}
}

func registerCustomerRoutes(protected *gin.RouterGroup, h *Handlers) {
	customers := protected.Group("/customers")
	{
		customers.GET("", h.Customer.ListCustomers)
		customers.POST("", h.Customer.CreateCustomer)
		customers.GET("/:id", h.Customer.GetCustomer)
		customers.PUT("/:id", h.Customer.UpdateCustomer)
		customers.DELETE("/:id", h.Customer.DeleteCustomer)
		customers.GET("/:id/balance", h.Customer.Balance)
		customers.POST("/:id/job-sites", h.Customer.AddJobSite)
		customers.DELETE("/:id/job-sites/:siteId", h.Customer.RemoveJobSite)
	}
}

func registerPaymentRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	payments := protected.Group("/payments")
	{
		payments.GET("", h.Payment.ListPayments)
		payments.POST("", middleware.Idempotency(middleware.IdempotencyConfig{Repo: deps.IdempotencyRepo}), h.Payment.CreatePayment)
		payments.GET("/:id", h.Payment.GetPayment)
	}
}

func registerDebugRoutes(protected *gin.RouterGroup, h *Handlers) {
	debug := protected.Group("/debug")
	debug.Use(middleware.RequireRole("admin"))
	{
		debug.GET("/receivables-health", h.Debug.ReceivablesHealth)
		debug.POST("/recompute-receipt-balances", h.Debug.RecomputeReceiptBalances)
		debug.POST("/receivables-repair", h.Debug.ReceivablesRepair)
	}
}
