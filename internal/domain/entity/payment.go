package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/tindahan-pos/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BridgeRefPrefix tags payments that bridge a rider cash shortage. The full
// reference is BridgeRefPrefix + receipt id, which makes the bridge idempotent
// per delivery receipt.
const BridgeRefPrefix = "RIDERBRIDGE:"

// BridgeRefNo builds the reference tag for a shortage bridge payment.
func BridgeRefNo(receiptID uuid.UUID) string {
	return BridgeRefPrefix + receiptID.String()
}

// Payment is an immutable money-in record. An order's "already paid" amount is
// always derived by summing its payments; corrections append offsetting rows.
// A nil OrderID marks a standalone customer A/R payment.
type Payment struct {
	ID         uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	OrderID    *uuid.UUID         `gorm:"type:uuid;index" json:"order_id,omitempty"`
	CustomerID *uuid.UUID         `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	Method     enum.PaymentMethod `gorm:"default:0;index" json:"method"`
	Amount     decimal.Decimal    `gorm:"type:decimal(12,2);not null" json:"amount"`

	// Cash only: what the customer handed over and what came back.
	Tendered *decimal.Decimal `gorm:"type:decimal(12,2)" json:"tendered,omitempty"`
	Change   *decimal.Decimal `gorm:"type:decimal(12,2)" json:"change,omitempty"`

	ShiftID   *uuid.UUID `gorm:"type:uuid;index" json:"shift_id,omitempty"`
	CashierID *uuid.UUID `gorm:"type:uuid" json:"cashier_id,omitempty"`

	// RefNo is an idempotency/classification tag (see BridgeRefPrefix).
	RefNo *string `gorm:"size:100;index" json:"ref_no,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (Payment) TableName() string {
	return "payments"
}

// IsBridge reports whether this payment is a rider-shortage bridge entry.
func (p *Payment) IsBridge() bool {
	return p.RefNo != nil && strings.HasPrefix(*p.RefNo, BridgeRefPrefix)
}
