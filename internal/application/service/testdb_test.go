package service_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/tindahan-pos/internal/application/service"
	"github.com/sangkips/tindahan-pos/internal/domain/entity"
	"github.com/sangkips/tindahan-pos/internal/domain/enum"
	domainRepo "github.com/sangkips/tindahan-pos/internal/domain/repository"
	"github.com/sangkips/tindahan-pos/internal/infrastructure/database"
	infraRepo "github.com/sangkips/tindahan-pos/internal/infrastructure/repository"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const testLockTTL = 90 * time.Second

// testEnv wires the full service stack over an in-memory database, the same
// way cmd/api does over PostgreSQL.
type testEnv struct {
	db *gorm.DB

	orderRepo    domainRepo.OrderRepository
	paymentRepo  domainRepo.PaymentRepository
	receiptRepo  domainRepo.RunReceiptRepository
	varianceRepo domainRepo.VarianceRepository
	chargeRepo   domainRepo.RiderChargeRepository
	shiftRepo    domainRepo.ShiftRepository

	orders      *service.OrderService
	settlements *service.SettlementService
	riders      *service.RiderService
	shifts      *service.ShiftService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A single connection keeps the shared-cache database alive and
	// serializes transactions the way SQLite expects.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db))

	userRepo := infraRepo.NewUserRepository(db)
	productRepo := infraRepo.NewProductRepository(db)
	customerRepo := infraRepo.NewCustomerRepository(db)
	orderRepo := infraRepo.NewOrderRepository(db)
	paymentRepo := infraRepo.NewPaymentRepository(db)
	ruleRepo := infraRepo.NewPricingRuleRepository(db)
	customerPriceRepo := infraRepo.NewCustomerPriceRepository(db)
	receiptRepo := infraRepo.NewRunReceiptRepository(db)
	varianceRepo := infraRepo.NewVarianceRepository(db)
	chargeRepo := infraRepo.NewRiderChargeRepository(db)
	shiftRepo := infraRepo.NewShiftRepository(db)
	settlementRepo := infraRepo.NewSettlementRepository(db)

	priceService := service.NewPriceService(customerPriceRepo)

	return &testEnv{
		db:           db,
		orderRepo:    orderRepo,
		paymentRepo:  paymentRepo,
		receiptRepo:  receiptRepo,
		varianceRepo: varianceRepo,
		chargeRepo:   chargeRepo,
		shiftRepo:    shiftRepo,
		orders: service.NewOrderService(
			orderRepo, productRepo, customerRepo, ruleRepo, priceService, testLockTTL),
		settlements: service.NewSettlementService(
			orderRepo, paymentRepo, productRepo, customerRepo, userRepo,
			shiftRepo, settlementRepo, priceService, testLockTTL),
		riders: service.NewRiderService(
			orderRepo, paymentRepo, productRepo, receiptRepo, varianceRepo,
			chargeRepo, userRepo, shiftRepo, settlementRepo, testLockTTL),
		shifts: service.NewShiftService(shiftRepo, paymentRepo, customerRepo, userRepo),
	}
}

func seedUser(t *testing.T, db *gorm.DB, role string) *entity.User {
	t.Helper()
	user := &entity.User{
		Name:         "Test " + role,
		Email:        fmt.Sprintf("%s-%s@test.local", role, uuid.New().String()[:8]),
		PasswordHash: "not-a-real-hash",
		Role:         role,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedCustomer(t *testing.T, db *gorm.DB, name string) *entity.Customer {
	t.Helper()
	customer := &entity.Customer{Name: name}
	require.NoError(t, db.Create(customer).Error)
	return customer
}

func seedProduct(t *testing.T, db *gorm.DB, retail, pack string, retailStock, packStock int) *entity.Product {
	t.Helper()
	product := &entity.Product{
		SKU:         "SKU-" + uuid.New().String()[:8],
		Name:        "Test Product",
		RetailPrice: dec(retail),
		PackPrice:   dec(pack),
		PackSize:    12,
		RetailStock: retailStock,
		PackStock:   packStock,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

// seedOpenShift puts a shift directly into the Open state, as if the cashier
// had already accepted the opening count.
func seedOpenShift(t *testing.T, db *gorm.DB, cashierID, managerID uuid.UUID, openingFloat string) *entity.CashierShift {
	t.Helper()
	now := time.Now()
	counted := dec(openingFloat)
	shift := &entity.CashierShift{
		CashierID:      cashierID,
		OpenedBy:       managerID,
		Status:         enum.ShiftStatusOpen,
		OpeningFloat:   dec(openingFloat),
		OpeningCounted: &counted,
		OpenedAt:       now,
		AcceptedAt:     &now,
	}
	require.NoError(t, db.Create(shift).Error)
	return shift
}

func reloadProduct(t *testing.T, db *gorm.DB, id uuid.UUID) *entity.Product {
	t.Helper()
	var product entity.Product
	require.NoError(t, db.First(&product, "id = ?", id).Error)
	return &product
}

func reloadOrder(t *testing.T, db *gorm.DB, id uuid.UUID) *entity.Order {
	t.Helper()
	var order entity.Order
	require.NoError(t, db.First(&order, "id = ?", id).Error)
	return &order
}
