package database

import (
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/spf13/viper"
	"github.com/tillpoint/pos-api/internal/config"
	"github.com/tillpoint/pos-api/internal/domain/entity"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	logLevel := logger.Info

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying SQL DB to set connection pool settings
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Set connection pool settings
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	log.Println("Successfully connected to PostgreSQL database")
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		// Tenancy entities
		&entity.Tenant{},
		&entity.Branch{},
		&entity.User{},

		// Catalog entities
		&entity.Product{},
		&entity.SideBusinessItem{},
		&entity.Customer{},

		// Transaction entities
		&entity.Sale{},
		&entity.SaleItem{},
		&entity.SideBusinessSale{},
		&entity.Refund{},
		&entity.InventoryMovement{},

		// System entities
		&entity.IdempotencyKey{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

// SeedDefaultData seeds the database with a default tenant and admin user
// when configured via environment variables
func SeedDefaultData(db *gorm.DB) error {
	log.Println("Seeding default data...")

	tenantName := viper.GetString("SEED_TENANT_NAME")
	tenantSlug := viper.GetString("SEED_TENANT_SLUG")

	var tenant entity.Tenant
	if tenantName != "" && tenantSlug != "" {
		if err := db.Where("slug = ?", tenantSlug).First(&tenant).Error; err != nil {
			tenant = entity.Tenant{
				ID:   uuid.New(),
				Name: tenantName,
				Slug: tenantSlug,
			}
			if err := db.Create(&tenant).Error; err != nil {
				log.Printf("Warning: failed to create seed tenant: %v", err)
			} else {
				log.Printf("Seed tenant created: %s", tenantSlug)
			}
		}
	}

	adminEmail := viper.GetString("ADMIN_EMAIL")
	adminPassword := viper.GetString("ADMIN_PASSWORD")
	adminUsername := viper.GetString("ADMIN_USERNAME")

	if adminEmail != "" && adminPassword != "" && tenant.ID != uuid.Nil {
		var existingAdmin entity.User
		if err := db.Where("email = ?", adminEmail).First(&existingAdmin).Error; err != nil {
			hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
			if err != nil {
				log.Printf("Warning: failed to hash admin password: %v", err)
			} else {
				if adminUsername == "" {
					adminUsername = "admin"
				}
				adminUser := entity.User{
					ID:       uuid.New(),
					TenantID: tenant.ID,
					Username: adminUsername,
					Email:    adminEmail,
					Password: string(hashedPassword),
					Role:     entity.RoleAdmin,
				}
				if err := db.Create(&adminUser).Error; err != nil {
					log.Printf("Warning: failed to create admin user: %v", err)
				} else {
					log.Printf("Admin user created: %s", adminEmail)
				}
			}
		} else {
			log.Printf("Admin user already exists: %s", adminEmail)
		}
	}

	log.Println("Default data seeding completed")
	return nil
}
