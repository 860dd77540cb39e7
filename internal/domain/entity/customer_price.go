package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/tindahan-pos/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CustomerPrice is a customer-specific price rule for one (customer, product,
// unit-kind) triple. When several active rules cover "now", the most recently
// created one wins. Nil ValidFrom/ValidUntil mean unbounded.
type CustomerPrice struct {
	ID         uuid.UUID              `gorm:"type:uuid;primary_key" json:"id"`
	CustomerID uuid.UUID              `gorm:"type:uuid;not null;index:idx_customer_product_kind" json:"customer_id"`
	ProductID  uuid.UUID              `gorm:"type:uuid;not null;index:idx_customer_product_kind" json:"product_id"`
	UnitKind   enum.UnitKind          `gorm:"not null;index:idx_customer_product_kind" json:"unit_kind"`
	Mode       enum.CustomerPriceMode `gorm:"default:0" json:"mode"`

	// Value depends on Mode: the fixed price, the absolute discount, or the
	// discount percentage in [0,100].
	Value decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"value"`

	ValidFrom  *time.Time `json:"valid_from,omitempty"`
	ValidUntil *time.Time `json:"valid_until,omitempty"`
	Active     bool       `gorm:"default:true" json:"active"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (p *CustomerPrice) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (CustomerPrice) TableName() string {
	return "customer_prices"
}

// CoversAt reports whether the rule's validity window contains ts.
func (p *CustomerPrice) CoversAt(ts time.Time) bool {
	if !p.Active {
		return false
	}
	if p.ValidFrom != nil && ts.Before(*p.ValidFrom) {
		return false
	}
	if p.ValidUntil != nil && !ts.Before(*p.ValidUntil) {
		return false
	}
	return true
}
