package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/tindahan-pos/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RuleSelector narrows which cart lines an item-scoped rule touches.
// Empty sets match everything; the exclusion list always wins.
type RuleSelector struct {
	ProductIDs        []uuid.UUID `json:"product_ids,omitempty"`
	CategoryIDs       []uuid.UUID `json:"category_ids,omitempty"`
	BrandIDs          []uuid.UUID `json:"brand_ids,omitempty"`
	SKUContains       string      `json:"sku_contains,omitempty"`
	ExcludeProductIDs []uuid.UUID `json:"exclude_product_ids,omitempty"`
}

// BuyXGetY holds the parameters for a buy-X-get-Y mechanic. A zero
// GetProductID means the benefit applies to the matching line itself.
type BuyXGetY struct {
	BuyQty          int             `json:"buy_qty"`
	GetQty          int             `json:"get_qty"`
	GetProductID    uuid.UUID       `json:"get_product_id,omitempty"`
	GetProductName  string          `json:"get_product_name,omitempty"`
	GetUnitPrice    decimal.Decimal `json:"get_unit_price"`
	GetDiscountPct  decimal.Decimal `json:"get_discount_pct"`
	MaxApplications int             `json:"max_applications,omitempty"`
	OncePerOrder    bool            `json:"once_per_order,omitempty"`
}

// PricingRule is one entry in the ordered discount rule set fed to the
// evaluator. Rules without a priority run last (default 1000).
type PricingRule struct {
	ID       uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name     string         `gorm:"size:255;not null" json:"name"`
	Enabled  bool           `gorm:"default:true" json:"enabled"`
	Priority int            `gorm:"default:1000" json:"priority"`
	Scope    enum.RuleScope `gorm:"default:0" json:"scope"`
	Type     enum.RuleType  `gorm:"default:0" json:"type"`

	// Eligibility gate. Window is [ValidFrom, ValidUntil).
	ValidFrom   *time.Time      `json:"valid_from,omitempty"`
	ValidUntil  *time.Time      `json:"valid_until,omitempty"`
	DaysOfWeek  []time.Weekday  `gorm:"serializer:json" json:"days_of_week,omitempty"`
	MinSubtotal decimal.Decimal `gorm:"type:decimal(12,2)" json:"min_subtotal"`
	CustomerIDs []uuid.UUID     `gorm:"serializer:json" json:"customer_ids,omitempty"`
	Tags        []string        `gorm:"serializer:json" json:"tags,omitempty"`

	Selector RuleSelector `gorm:"serializer:json" json:"selector"`

	Percent       decimal.Decimal `gorm:"type:decimal(12,2)" json:"percent"`
	Amount        decimal.Decimal `gorm:"type:decimal(12,2)" json:"amount"`
	OverridePrice decimal.Decimal `gorm:"type:decimal(12,2)" json:"override_price"`
	BXGY          *BuyXGetY       `gorm:"serializer:json" json:"bxgy,omitempty"`

	// A non-stackable rule that produced a discount stops evaluation.
	Stackable bool `gorm:"default:true" json:"stackable"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (r *PricingRule) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

func (PricingRule) TableName() string {
	return "pricing_rules"
}

// EffectivePriority returns the rule priority, defaulting to 1000.
func (r *PricingRule) EffectivePriority() int {
	if r.Priority == 0 {
		return 1000
	}
	return r.Priority
}
