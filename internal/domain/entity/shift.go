package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/tindahan-pos/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CashierShift tracks one cashier's drawer from the manager's opening float
// declaration through the closing count. Sales payments and drawer
// transactions may only be posted while the shift is Open.
type CashierShift struct {
	ID        uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	CashierID uuid.UUID        `gorm:"type:uuid;not null;index" json:"cashier_id"`
	OpenedBy  uuid.UUID        `gorm:"type:uuid;not null" json:"opened_by"`
	Status    enum.ShiftStatus `gorm:"default:0;index" json:"status"`

	// OpeningFloat is declared by the manager; OpeningCounted is the
	// cashier's own recount at accept/dispute time.
	OpeningFloat   decimal.Decimal  `gorm:"type:decimal(12,2);not null" json:"opening_float"`
	OpeningCounted *decimal.Decimal `gorm:"type:decimal(12,2)" json:"opening_counted,omitempty"`
	OpeningNote    string           `gorm:"type:text" json:"opening_note,omitempty"`

	ClosingTotal *decimal.Decimal `gorm:"type:decimal(12,2)" json:"closing_total,omitempty"`
	// ClosingBreakdown is the denomination count submitted at closing,
	// serialized as JSON.
	ClosingBreakdown string `gorm:"type:text" json:"closing_breakdown,omitempty"`
	ClosingNote      string `gorm:"type:text" json:"closing_note,omitempty"`

	OpenedAt    time.Time  `json:"opened_at"`
	AcceptedAt  *time.Time `json:"accepted_at,omitempty"`
	SubmittedAt *time.Time `json:"submitted_at,omitempty"`
	ClosedAt    *time.Time `json:"closed_at,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Txns []CashDrawerTxn `gorm:"foreignKey:ShiftID" json:"txns,omitempty"`
}

func (s *CashierShift) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

func (CashierShift) TableName() string {
	return "cashier_shifts"
}

// CashDrawerTxn is an append-only drawer movement. Rows are never mutated or
// deleted; corrections append offsetting rows.
type CashDrawerTxn struct {
	ID      uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	ShiftID uuid.UUID          `gorm:"type:uuid;not null;index" json:"shift_id"`
	Type    enum.DrawerTxnType `gorm:"not null" json:"type"`
	Amount  decimal.Decimal    `gorm:"type:decimal(12,2);not null" json:"amount"`
	Note    string             `gorm:"type:text" json:"note,omitempty"`

	CreatedBy uuid.UUID `gorm:"type:uuid;not null" json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

func (t *CashDrawerTxn) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

func (CashDrawerTxn) TableName() string {
	return "cash_drawer_txns"
}
