package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/tindahan-pos/internal/domain/entity"
	"github.com/sangkips/tindahan-pos/internal/domain/enum"
)

// PricingRuleRepository defines the interface for discount rule storage
type PricingRuleRepository interface {
	Create(ctx context.Context, rule *entity.PricingRule) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.PricingRule, error)
	// ListEnabled returns all enabled rules; the evaluator orders and gates
	// them itself.
	ListEnabled(ctx context.Context) ([]entity.PricingRule, error)
}

// CustomerPriceRepository defines the interface for customer-specific prices
type CustomerPriceRepository interface {
	Create(ctx context.Context, price *entity.CustomerPrice) error
	// FindActive resolves the most recently created active rule whose
	// validity window contains now, for the exact (customer, product,
	// unit-kind) triple. Returns nil when no rule applies.
	FindActive(ctx context.Context, customerID, productID uuid.UUID, kind enum.UnitKind, now time.Time) (*entity.CustomerPrice, error)
}
