package database

import (
	"fmt"
	"log"

	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/BassamAA/mawad-api/internal/config"
	"github.com/BassamAA/mawad-api/internal/domain/entity"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	logLevel := logger.Info

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
		// Receipt-number races surface as gorm.ErrDuplicatedKey
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying SQL DB to set connection pool settings
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	log.Println("Successfully connected to PostgreSQL database")
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		// Actors
		&entity.User{},

		// Catalog
		&entity.Product{},
		&entity.ProductComponent{},

		// Parties
		&entity.Customer{},
		&entity.JobSite{},

		// Ledger
		&entity.Receipt{},
		&entity.ReceiptItem{},
		&entity.ReceiptItemComponent{},
		&entity.StockMovement{},
		&entity.Payment{},
		&entity.ReceiptPayment{},

		// System
		&entity.AuditLog{},
		&entity.IdempotencyKey{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

// SeedDefaultData seeds the debris intake product and an optional admin user
func SeedDefaultData(db *gorm.DB, cfg *config.Config) error {
	log.Println("Seeding default data...")

	// The stock ledger matches this product by name to invert debris lines;
	// it must exist before any receipt touches it.
	var debris entity.Product
	if err := db.Where("LOWER(name) = LOWER(?)", cfg.Ledger.DebrisProductName).First(&debris).Error; err != nil {
		debris = entity.Product{
			Name: cfg.Ledger.DebrisProductName,
			Unit: "m3",
		}
		if err := db.Create(&debris).Error; err != nil {
			return fmt.Errorf("failed to seed debris product: %w", err)
		}
		log.Printf("Seeded debris intake product: %s", debris.Name)
	}

	adminEmail := viper.GetString("ADMIN_EMAIL")
	adminPassword := viper.GetString("ADMIN_PASSWORD")
	adminName := viper.GetString("ADMIN_NAME")

	if adminEmail != "" && adminPassword != "" {
		var existing entity.User
		if err := db.Where("email = ?", adminEmail).First(&existing).Error; err != nil {
			hashed, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
			if err != nil {
				return fmt.Errorf("failed to hash admin password: %w", err)
			}
			if adminName == "" {
				adminName = "Admin"
			}
			admin := entity.User{
				Name:     adminName,
				Email:    adminEmail,
				Password: string(hashed),
				Role:     "admin",
			}
			if err := db.Create(&admin).Error; err != nil {
				return fmt.Errorf("failed to create admin user: %w", err)
			}
			log.Printf("Admin user created: %s", adminEmail)
		}
	}

	log.Println("Default data seeding completed")
	return nil
}
