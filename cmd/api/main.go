package main

import (
	"log"
	"os"

	"github.com/BassamAA/mawad-api/internal/application/service"
	"github.com/BassamAA/mawad-api/internal/config"
	"github.com/BassamAA/mawad-api/internal/infrastructure/database"
	"github.com/BassamAA/mawad-api/internal/infrastructure/repository"
	"github.com/BassamAA/mawad-api/internal/presentation/http/handler"
	"github.com/BassamAA/mawad-api/internal/presentation/http/routes"
	"github.com/BassamAA/mawad-api/pkg/printer"
	"github.com/BassamAA/mawad-api/pkg/utils"
	"github.com/gin-gonic/gin"
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
	if err := database.SeedDefaultData(db, cfg); err != nil {
		log.Printf("Warning: Failed to seed default data: %v", err)
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Initialize repositories
	uow := repository.NewUnitOfWork(db)
	userRepo := repository.NewUserRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	// Initialize services
	sequenceService := service.NewSequenceService(cfg.Ledger.TVAPrefix)
	stockService := service.NewStockService(cfg.Ledger.DebrisProductName)
	reconService := service.NewReconciliationService(uow)
	receiptService := service.NewReceiptService(uow, sequenceService, stockService, cfg.Ledger.TVARate)
	invoiceService := service.NewInvoiceService(uow, reconService, cfg.Ledger.TVARate)
	productService := service.NewProductService(uow)
	customerService := service.NewCustomerService(uow, reconService)
	paymentService := service.NewPaymentService(uow, reconService)
	authService := service.NewAuthService(userRepo, jwtManager)

	// Initialize thermal printer
	thermalPrinter, err := printer.NewPrinterFromConfig(
		cfg.Printer.Type,
		cfg.Printer.USBPath,
		cfg.Printer.Address,
	)
	if err != nil {
		log.Printf("Warning: Failed to initialize printer: %v", err)
		thermalPrinter = printer.NewNullPrinter()
	}
	printerService := service.NewPrinterService(thermalPrinter, uow, service.BusinessHeader{
		Name:    cfg.Business.Name,
		Address: cfg.Business.Address,
		Phone:   cfg.Business.Phone,
	}, cfg.Printer.Type)

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:     handler.NewAuthHandler(authService),
		Receipt:  handler.NewReceiptHandler(receiptService),
		Invoice:  handler.NewInvoiceHandler(invoiceService, customerService, printerService),
		Product:  handler.NewProductHandler(productService),
		Customer: handler.NewCustomerHandler(customerService),
		Payment:  handler.NewPaymentHandler(paymentService),
		Printer:  handler.NewPrinterHandler(printerService),
		Debug:    handler.NewDebugHandler(reconService),
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
