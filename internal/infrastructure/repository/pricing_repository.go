package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/tindahan-pos/internal/domain/entity"
	"github.com/sangkips/tindahan-pos/internal/domain/enum"
	domainRepo "github.com/sangkips/tindahan-pos/internal/domain/repository"
	"gorm.io/gorm"
)

type pricingRuleRepository struct {
	db *gorm.DB
}

// NewPricingRuleRepository creates a new pricing rule repository
func NewPricingRuleRepository(db *gorm.DB) domainRepo.PricingRuleRepository {
	return &pricingRuleRepository{db: db}
}

func (r *pricingRuleRepository) Create(ctx context.Context, rule *entity.PricingRule) error {
	return r.db.WithContext(ctx).Create(rule).Error
}

func (r *pricingRuleRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.PricingRule, error) {
	var rule entity.PricingRule
	err := r.db.WithContext(ctx).First(&rule, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &rule, err
}

func (r *pricingRuleRepository) ListEnabled(ctx context.Context) ([]entity.PricingRule, error) {
	var rules []entity.PricingRule
	err := r.db.WithContext(ctx).
		Where("enabled = ?", true).
		Order("priority ASC, created_at ASC").
		Find(&rules).Error
	return rules, err
}

type customerPriceRepository struct {
	db *gorm.DB
}

// NewCustomerPriceRepository creates a new customer price repository
func NewCustomerPriceRepository(db *gorm.DB) domainRepo.CustomerPriceRepository {
	return &customerPriceRepository{db: db}
}

func (r *customerPriceRepository) Create(ctx context.Context, price *entity.CustomerPrice) error {
	return r.db.WithContext(ctx).Create(price).Error
}

// FindActive resolves the winning customer price rule: active, window
// containing now (null bounds are unbounded), most recently created first.
func (r *customerPriceRepository) FindActive(ctx context.Context, customerID, productID uuid.UUID, kind enum.UnitKind, now time.Time) (*entity.CustomerPrice, error) {
	var price entity.CustomerPrice
	err := r.db.WithContext(ctx).
		Where("customer_id = ? AND product_id = ? AND unit_kind = ? AND active = ?",
			customerID, productID, kind, true).
		Where("valid_from IS NULL OR valid_from <= ?", now).
		Where("valid_until IS NULL OR valid_until > ?", now).
		Order("created_at DESC").
		First(&price).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &price, err
}
