package database

import (
	"fmt"

	"github.com/sangkips/tindahan-pos/internal/config"
	"github.com/sangkips/tindahan-pos/internal/domain/entity"
	applog "github.com/sangkips/tindahan-pos/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	logLevel := logger.Warn

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

	applog.WithComponent("database").Info("connected to PostgreSQL")
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	log := applog.WithComponent("database")
	log.Info("running database migrations")

	err := db.AutoMigrate(
		// Actors
		&entity.User{},

		// Catalog
		&entity.Category{},
		&entity.Brand{},
		&entity.Product{},
		&entity.Customer{},

		// Pricing
		&entity.PricingRule{},
		&entity.CustomerPrice{},

		// Settlement
		&entity.Order{},
		&entity.OrderItem{},
		&entity.Payment{},
		&entity.ReceiptSequence{},

		// Delivery reconciliation
		&entity.RunReceipt{},
		&entity.RunReceiptLine{},
		&entity.RiderRunVariance{},
		&entity.RiderCharge{},

		// Drawer
		&entity.CashierShift{},
		&entity.CashDrawerTxn{},

		// System entities
		&entity.IdempotencyKey{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info("database migrations completed")
	return nil
}

// SeedDefaultData seeds the receipt sequence, default staff accounts and a
// small starter catalog. Every insert is guarded by a lookup, so re-running
// at boot is harmless.
func SeedDefaultData(db *gorm.DB) error {
	log := applog.WithComponent("database")
	log.Info("seeding default data")

	var seq entity.ReceiptSequence
	if err := db.First(&seq, "id = ?", 1).Error; err != nil {
		seq = entity.ReceiptSequence{ID: 1, NextNo: 0}
		if err := db.Create(&seq).Error; err != nil {
			return fmt.Errorf("failed to seed receipt sequence: %w", err)
		}
	}

	defaultPassword := viper.GetString("SEED_PASSWORD")
	if defaultPassword == "" {
		defaultPassword = "changeme"
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(defaultPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash seed password: %w", err)
	}

	staff := []entity.User{
		{Name: "Store Manager", Email: "manager@tindahan.local", Role: entity.RoleManager},
		{Name: "Counter Cashier", Email: "cashier@tindahan.local", Role: entity.RoleCashier},
		{Name: "Delivery Rider", Email: "rider@tindahan.local", Role: entity.RoleRider},
	}
	for i := range staff {
		var existing entity.User
		if err := db.Where("email = ?", staff[i].Email).First(&existing).Error; err == nil {
			continue
		}
		staff[i].PasswordHash = string(hashed)
		if err := db.Create(&staff[i]).Error; err != nil {
			log.WithError(err).Warnf("failed to seed user %s", staff[i].Email)
		}
	}

	products := []entity.Product{
		{
			SKU:         "SKU-COLA-1L",
			Name:        "Cola 1L",
			RetailPrice: decimal.NewFromInt(45),
			PackPrice:   decimal.NewFromInt(480),
			PackSize:    12,
			RetailStock: 60,
			PackStock:   10,
		},
		{
			SKU:         "SKU-RICE-1KG",
			Name:        "Rice 1kg",
			RetailPrice: decimal.NewFromInt(52),
			PackPrice:   decimal.NewFromInt(1230),
			PackSize:    25,
			RetailStock: 200,
			PackStock:   8,
		},
		{
			SKU:         "SKU-EGG-TRAY",
			Name:        "Egg Tray",
			RetailPrice: decimal.NewFromInt(8),
			PackPrice:   decimal.NewFromInt(220),
			PackSize:    30,
			RetailStock: 90,
			PackStock:   15,
		},
	}
	for i := range products {
		var existing entity.Product
		if err := db.Where("sku = ?", products[i].SKU).First(&existing).Error; err == nil {
			continue
		}
		if err := db.Create(&products[i]).Error; err != nil {
			log.WithError(err).Warnf("failed to seed product %s", products[i].SKU)
		}
	}

	log.Info("default data seeding completed")
	return nil
}
