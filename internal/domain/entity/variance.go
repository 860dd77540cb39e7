package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/tindahan-pos/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RiderRunVariance records the gap between the cash a rider should have
// turned in (per the frozen run receipt) and the cash actually posted to the
// drawer. The unique receipt index guarantees at most one variance per
// physical settlement event.
type RiderRunVariance struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ReceiptID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"receipt_id"`
	OrderID   uuid.UUID `gorm:"type:uuid;not null;index" json:"order_id"`
	RiderID   uuid.UUID `gorm:"type:uuid;not null;index" json:"rider_id"`

	// Expected is the rider cash truth; Actual is what the drawer received.
	Expected decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"expected"`
	Actual   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"actual"`
	// Variance = Actual - Expected. Negative means a shortage.
	Variance decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"variance"`

	Status     enum.VarianceStatus      `gorm:"default:0;index" json:"status"`
	Resolution *enum.VarianceResolution `json:"resolution,omitempty"`
	DecidedBy  *uuid.UUID               `gorm:"type:uuid" json:"decided_by,omitempty"`
	DecidedAt  *time.Time               `json:"decided_at,omitempty"`
	Note       string                   `gorm:"type:text" json:"note,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (v *RiderRunVariance) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

func (RiderRunVariance) TableName() string {
	return "rider_run_variances"
}

// Shortage returns the rider-owed amount: max(0, -Variance).
func (v *RiderRunVariance) Shortage() decimal.Decimal {
	if v.Variance.IsNegative() {
		return v.Variance.Neg()
	}
	return decimal.Zero
}

// RiderCharge is the ledger entry for a CHARGE_RIDER decision. The unique
// variance index makes re-deciding a variance idempotent: one charge per
// variance, ever.
type RiderCharge struct {
	ID         uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	VarianceID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex" json:"variance_id"`
	RiderID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"rider_id"`
	Amount     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`

	Status enum.ChargeStatus `gorm:"default:0;index" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *RiderCharge) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (RiderCharge) TableName() string {
	return "rider_charges"
}
