package main

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/tindahan-pos/internal/application/service"
	"github.com/sangkips/tindahan-pos/internal/config"
	"github.com/sangkips/tindahan-pos/internal/infrastructure/database"
	"github.com/sangkips/tindahan-pos/internal/infrastructure/repository"
	"github.com/sangkips/tindahan-pos/internal/presentation/http/handler"
	"github.com/sangkips/tindahan-pos/internal/presentation/http/routes"
	"github.com/sangkips/tindahan-pos/pkg/logger"
	"github.com/sangkips/tindahan-pos/pkg/utils"
)

func main() {
	// Load configuration
	cfg := config.Load()
	logger.SetLevel(cfg.App.LogLevel)
	log := logger.WithComponent("main")

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.WithError(err).Fatal("failed to run migrations")
	}

	// Seed default data
	if err := database.SeedDefaultData(db); err != nil {
		log.WithError(err).Warn("failed to seed default data")
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	ruleRepo := repository.NewPricingRuleRepository(db)
	customerPriceRepo := repository.NewCustomerPriceRepository(db)
	receiptRepo := repository.NewRunReceiptRepository(db)
	varianceRepo := repository.NewVarianceRepository(db)
	chargeRepo := repository.NewRiderChargeRepository(db)
	shiftRepo := repository.NewShiftRepository(db)
	settlementRepo := repository.NewSettlementRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtManager)
	productService := service.NewProductService(productRepo)
	customerService := service.NewCustomerService(customerRepo)
	priceService := service.NewPriceService(customerPriceRepo)
	orderService := service.NewOrderService(orderRepo, productRepo, customerRepo, ruleRepo, priceService, cfg.Settlement.EditLockTTL)
	settlementService := service.NewSettlementService(orderRepo, paymentRepo, productRepo, customerRepo, userRepo, shiftRepo, settlementRepo, priceService, cfg.Settlement.SettleLockTTL)
	riderService := service.NewRiderService(orderRepo, paymentRepo, productRepo, receiptRepo, varianceRepo, chargeRepo, userRepo, shiftRepo, settlementRepo, cfg.Settlement.SettleLockTTL)
	shiftService := service.NewShiftService(shiftRepo, paymentRepo, customerRepo, userRepo)

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:       handler.NewAuthHandler(authService),
		Product:    handler.NewProductHandler(productService),
		Customer:   handler.NewCustomerHandler(customerService),
		Order:      handler.NewOrderHandler(orderService),
		Settlement: handler.NewSettlementHandler(settlementService, riderService),
		Rider:      handler.NewRiderHandler(riderService),
		Shift:      handler.NewShiftHandler(shiftService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	log.WithField("port", port).Infof("starting %s", cfg.App.Name)

	if err := router.Run(":" + port); err != nil {
		log.WithError(err).Fatal("failed to start server")
	}
}
