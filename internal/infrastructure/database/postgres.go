package database

import (
	"fmt"
	"log"

	"github.com/itsells/billing-api/internal/config"
	"github.com/itsells/billing-api/internal/domain/entity"
	"github.com/spf13/viper"
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
		// Floor entities
		&entity.Table{},
		&entity.Customer{},

		// Catalog entities
		&entity.Product{},

		// Order entities
		&entity.Order{},
		&entity.OrderItem{},

		// Billing entities
		&entity.Payment{},
		&entity.CompanyProfile{},
		&entity.CouvertRate{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

// SeedDefaultData seeds the merchant profile and the floor layout when empty
func SeedDefaultData(db *gorm.DB) error {
	log.Println("Seeding default data...")

	companyName := viper.GetString("COMPANY_NAME")
	companyDocument := viper.GetString("COMPANY_DOCUMENT")

	if companyName != "" && companyDocument != "" {
		var existing entity.CompanyProfile
		if err := db.First(&existing).Error; err != nil {
			profile := entity.CompanyProfile{
				Name:     companyName,
				Document: companyDocument,
				Email:    viper.GetString("COMPANY_EMAIL"),
				Phone:    viper.GetString("COMPANY_PHONE"),
				Street:   viper.GetString("COMPANY_STREET"),
				Number:   viper.GetString("COMPANY_NUMBER"),
				District: viper.GetString("COMPANY_DISTRICT"),
				City:     viper.GetString("COMPANY_CITY"),
				State:    viper.GetString("COMPANY_STATE"),
				ZipCode:  viper.GetString("COMPANY_ZIP_CODE"),
			}
			if err := db.Create(&profile).Error; err != nil {
				log.Printf("Warning: failed to seed company profile: %v", err)
			} else {
				log.Printf("Company profile created: %s", companyName)
			}
		}
	}

	tableCount := viper.GetInt("SEED_TABLE_COUNT")
	if tableCount > 0 {
		var existing int64
		db.Model(&entity.Table{}).Count(&existing)
		if existing == 0 {
			for number := 1; number <= tableCount; number++ {
				table := entity.Table{Number: number}
				if err := db.Create(&table).Error; err != nil {
					log.Printf("Warning: failed to seed table %d: %v", number, err)
				}
			}
			log.Printf("Seeded %d tables", tableCount)
		}
	}

	log.Println("Default data seeding completed")
	return nil
}
