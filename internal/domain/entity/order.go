package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/tindahan-pos/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Order represents a sales order owned by the settlement engine.
// Header totals are frozen when the draft lines are written; they are a cache
// over the line-level truth and are validated, never recomputed, at settlement.
type Order struct {
	ID      uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	Code    string            `gorm:"size:100;uniqueIndex;not null" json:"code"`
	Channel enum.OrderChannel `gorm:"default:0" json:"channel"`
	Status  enum.OrderStatus  `gorm:"default:0;index" json:"status"`

	CustomerID *uuid.UUID `gorm:"type:uuid;index" json:"customer_id,omitempty"`

	// Subtotal is the payable total: sum of frozen line totals.
	Subtotal            decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	TotalBeforeDiscount decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_before_discount"`
	DiscountTotal       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"discount_total"`

	OnCredit            bool       `gorm:"default:false" json:"on_credit"`
	ReleasedWithBalance bool       `gorm:"default:false" json:"released_with_balance"`
	ReleaseApprovedBy   *uuid.UUID `gorm:"type:uuid" json:"release_approved_by,omitempty"`

	// ReceiptNo is allocated exactly once, at full settlement.
	ReceiptNo *int64     `gorm:"uniqueIndex" json:"receipt_no,omitempty"`
	PaidAt    *time.Time `json:"paid_at,omitempty"`

	LockedAt *time.Time `gorm:"index" json:"locked_at,omitempty"`
	LockedBy *uuid.UUID `gorm:"type:uuid" json:"locked_by,omitempty"`

	CreatedBy uuid.UUID      `gorm:"type:uuid;not null;index" json:"created_by"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Customer *Customer   `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Items    []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
	Payments []Payment   `gorm:"foreignKey:OrderID" json:"payments,omitempty"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

func (Order) TableName() string {
	return "orders"
}

// LockExpired reports whether the order's lock is absent or older than ttl.
func (o *Order) LockExpired(ttl time.Duration, now time.Time) bool {
	return o.LockedAt == nil || now.Sub(*o.LockedAt) > ttl
}

// OrderItem is a frozen sale line. Once LineTotal is non-nil it is the
// settlement source of truth and must never be recomputed from catalog prices.
type OrderItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	OrderID   uuid.UUID `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Quantity  int       `gorm:"not null" json:"quantity"`

	// UnitPrice is the price actually charged for one unit.
	UnitPrice decimal.Decimal  `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	LineTotal *decimal.Decimal `gorm:"type:decimal(12,2)" json:"line_total,omitempty"`

	// Audit display fields, frozen alongside the line.
	BaseUnitPrice  *decimal.Decimal `gorm:"type:decimal(12,2)" json:"base_unit_price,omitempty"`
	DiscountAmount *decimal.Decimal `gorm:"type:decimal(12,2)" json:"discount_amount,omitempty"`

	// Written by the price-audit step at settlement.
	AllowedUnitPrice   *decimal.Decimal `gorm:"type:decimal(12,2)" json:"allowed_unit_price,omitempty"`
	PricePolicy        enum.PricePolicy `gorm:"default:0" json:"price_policy"`
	DiscountApprovedBy *uuid.UUID       `gorm:"type:uuid" json:"discount_approved_by,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

func (OrderItem) TableName() string {
	return "order_items"
}
