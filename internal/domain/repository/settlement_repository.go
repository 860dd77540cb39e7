package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/tindahan-pos/internal/domain/entity"
	"github.com/sangkips/tindahan-pos/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// StockDelta is the per-product inventory deduction a settlement applies.
type StockDelta struct {
	ProductID   uuid.UUID
	RetailUnits int
	Packs       int
}

// PriceAudit is the per-line audit record written during settlement.
type PriceAudit struct {
	ItemID           uuid.UUID
	AllowedUnitPrice decimal.Decimal
	Policy           enum.PricePolicy
	ApprovedBy       *uuid.UUID
}

// CashSettlementPlan is everything a counter settlement writes. The service
// computes it outside the transaction; the repository applies it atomically.
type CashSettlementPlan struct {
	OrderID uuid.UUID
	// ActorID must hold the order lock; the commit clears it.
	ActorID    uuid.UUID
	CustomerID *uuid.UUID

	Payment     entity.Payment
	StockDeltas []StockDelta
	PriceAudits []PriceAudit

	// MarkPaid allocates the receipt number and transitions to PAID;
	// otherwise the order becomes PARTIALLY_PAID on credit.
	MarkPaid            bool
	ReleasedWithBalance bool
	ReleaseApprovedBy   *uuid.UUID
}

// CashSettlementResult reports what the transaction did. A non-empty
// InsufficientStock or Conflict=true means everything was rolled back.
type CashSettlementResult struct {
	ReceiptNo         *int64
	Status            enum.OrderStatus
	InsufficientStock []uuid.UUID
	Conflict          bool
}

// DeliverySettlementPlan is everything a rider-cash reconciliation writes.
type DeliverySettlementPlan struct {
	OrderID   uuid.UUID
	ReceiptID uuid.UUID
	ActorID   uuid.UUID

	// CashPayment is nil when no cash was applied this run.
	CashPayment *entity.Payment
	// BridgePayment and Variance are both nil or both set; they are skipped
	// as a successful no-op when a bridge already exists for the receipt.
	BridgePayment *entity.Payment
	Variance      *entity.RiderRunVariance

	// StockDeltas is non-empty only when this settlement fully pays the
	// order; the deduction happens exactly once, with that transition.
	StockDeltas []StockDelta

	MarkPaid bool
}

// DeliverySettlementResult reports what the transaction did. A non-empty
// InsufficientStock or Conflict=true means everything was rolled back.
type DeliverySettlementResult struct {
	ReceiptNo           *int64
	Status              enum.OrderStatus
	BridgeAlreadyPosted bool
	InsufficientStock   []uuid.UUID
	Conflict            bool
}

// SettlementRepository applies settlement plans in a single serializable
// transaction: payments, stock deltas, price audits, status transition and
// receipt numbering are all-or-nothing.
type SettlementRepository interface {
	ApplyCashSettlement(ctx context.Context, plan *CashSettlementPlan) (*CashSettlementResult, error)
	ApplyDeliverySettlement(ctx context.Context, plan *DeliverySettlementPlan) (*DeliverySettlementResult, error)
}
