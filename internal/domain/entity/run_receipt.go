package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RunReceipt is the frozen snapshot of what a delivery rider actually sold
// and collected for one order on a run. CashCollected is the rider cash
// truth: reconciliation trusts it and never re-derives it from catalog
// prices.
type RunReceipt struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	OrderID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"order_id"`
	RiderID uuid.UUID `gorm:"type:uuid;not null;index" json:"rider_id"`
	RunCode string    `gorm:"size:100;index" json:"run_code,omitempty"`

	CashCollected decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"cash_collected"`

	CreatedAt time.Time `json:"created_at"`

	Lines []RunReceiptLine `gorm:"foreignKey:ReceiptID" json:"lines,omitempty"`
}

func (r *RunReceipt) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

func (RunReceipt) TableName() string {
	return "run_receipts"
}

// RunReceiptLine is a frozen line on a run receipt. When present, these lines
// take priority over legacy order items as the delivery settlement truth.
type RunReceiptLine struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	ReceiptID uuid.UUID       `gorm:"type:uuid;not null;index" json:"receipt_id"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null" json:"product_id"`
	Name      string          `gorm:"size:255;not null" json:"name"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	LineTotal decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"line_total"`

	CreatedAt time.Time `json:"created_at"`
}

func (l *RunReceiptLine) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

func (RunReceiptLine) TableName() string {
	return "run_receipt_lines"
}
